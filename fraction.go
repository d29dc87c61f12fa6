package gosolve

// ============================================================
// Fractions
// ============================================================

// CombineFractions merges a sum of fractional groups into one numerator
// over the least common factor (LCF) of the denominators. Denominators are
// factored first, so 1/(x^2-1) + 1/(x-1) shares the factor x-1.
func CombineFractions(e Expr) Expr {
	num, lcf := combineOverLCF(e)
	if IsOne(lcf) {
		return num
	}
	return DivOf(num, lcf)
}

// CompoundFractions collapses nested fractions bottom-up:
// 1/(1 + 1/x) becomes x/(x + 1).
func CompoundFractions(e Expr) Expr {
	children := e.Children()
	if len(children) > 0 {
		changed := false
		for i, c := range children {
			r := CompoundFractions(c)
			if r != c {
				changed = true
			}
			children[i] = r
		}
		if changed {
			e = e.Rebuild(children)
		}
	}
	s := e.Simplify()
	if isSumExpr(s) {
		return CombineFractions(s)
	}
	n, d := NumeratorDenominator(s)
	nn, nd := combineOverLCF(n)
	dn, dd := combineOverLCF(d)
	if IsOne(nd) && IsOne(dd) {
		return s
	}
	return DivOf(MulOf(nn, dd), MulOf(nd, dn))
}

// combineOverLCF returns the expanded numerator and the LCF denominator of e.
func combineOverLCF(e Expr) (Expr, Expr) {
	s := e.Simplify()
	if !isSumExpr(s) {
		return NumeratorDenominator(s)
	}
	groups := Groups(s)
	nums := make([]Expr, len(groups))
	dens := make([]monomial, len(groups))
	fractional := false
	for i, g := range groups {
		n, d := NumeratorDenominator(g)
		nums[i] = n
		dens[i] = factorDenominator(d)
		if !IsOne(d) {
			fractional = true
		}
	}
	if !fractional {
		return s, N(1)
	}
	lcf := leastCommonFactor(dens)
	parts := make([]Expr, len(groups))
	for i := range groups {
		scale := mulMonomials(lcf, dens[i].inverse())
		parts[i] = MulOf(nums[i], fromMonomial(scale))
	}
	return Expand(AddOf(parts...)), fromMonomial(lcf)
}

// factorDenominator returns d as a monomial whose sum factors have been
// factored as polynomials in their first free symbol.
func factorDenominator(d Expr) monomial {
	m := toMonomial(d.Simplify())
	out := monomial{coeff: m.coeff}
	for _, f := range m.factors {
		k, ok := f.exp.(*Num)
		if !isSumExpr(f.base) || !ok {
			out = mulMonomials(out, monomial{coeff: N(1), factors: []factor{f}})
			continue
		}
		out = mulMonomials(out, monomialOf(factorSum(f.base)...).pow(k))
	}
	return out
}

// factorSum tries every free symbol of s until a non-trivial factorization
// is found.
func factorSum(s Expr) []Expr {
	for _, name := range SortedSymbols(s) {
		if r := FactorExpr(s, name); r.Success {
			return r.Factors
		}
	}
	return []Expr{s}
}

// leastCommonFactor is the lcm of the numeric coefficients times every
// base at its largest exponent.
func leastCommonFactor(ms []monomial) monomial {
	var l int64 = 1
	coeffOK := true
	for _, m := range ms {
		p, q, ok := m.coeff.Rational()
		if !ok || q != 1 {
			coeffOK = false
			break
		}
		l = lcmInt(l, p)
	}
	out := monomial{coeff: N(1)}
	if coeffOK {
		if l < 0 {
			l = -l
		}
		out.coeff = N(float64(l))
	} else {
		for _, m := range ms {
			out.coeff = numMul(out.coeff, m.coeff)
		}
	}
	idx := map[string]int{}
	for _, m := range ms {
		for _, f := range m.factors {
			key := f.base.String()
			i, ok := idx[key]
			if !ok {
				idx[key] = len(out.factors)
				out.factors = append(out.factors, f)
				continue
			}
			cur, ok1 := out.factors[i].exp.(*Num)
			nxt, ok2 := f.exp.(*Num)
			switch {
			case ok1 && ok2:
				if nxt.re > cur.re {
					out.factors[i].exp = nxt
				}
			case !out.factors[i].exp.Equal(f.exp):
				out.factors[i].exp = AddOf(out.factors[i].exp, f.exp)
			}
		}
	}
	sortFactors(out.factors)
	return out
}
