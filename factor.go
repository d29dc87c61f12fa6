package gosolve

import "sort"

// ============================================================
// Symbolic Factoring
// ============================================================

// FactorResult holds the result of a factoring attempt.
type FactorResult struct {
	Factors []Expr
	Success bool
}

// Product multiplies the factors back together.
func (r FactorResult) Product() Expr {
	if len(r.Factors) == 0 {
		return N(1)
	}
	return MulOf(r.Factors...)
}

// FactorExpr factors expr as a polynomial in name.
// Handles: common factor of all groups (numeric and symbolic), zero roots,
// rational roots found by the rational root theorem, and repeated factors,
// which are returned as powers. A numeric coefficient, when present, is the
// first factor. Success is false when no non-trivial factorization exists.
func FactorExpr(expr Expr, name string) FactorResult {
	s := expr.Simplify()
	if !isSumExpr(s) {
		fs := Factors(s)
		return FactorResult{Factors: fs, Success: len(fs) > 1}
	}

	var raw []Expr
	rest := s
	if g := GroupGCF(s); !IsOne(g) {
		raw = append(raw, Factors(g)...)
		rest = Expand(DivOf(s, g))
	}

	coeffs, ok := numericCoeffs(rest, name)
	if !ok || len(coeffs) < 3 {
		raw = append(raw, rest)
		return assembleFactors(raw, s)
	}

	x := S(name)
	scale := 1.0
	c := trimCoeffs(coeffs)
	for changed := true; changed && len(c) > 2; {
		changed = false
		if closeTo(c[0], 0) {
			c = c[1:]
			raw = append(raw, x)
			changed = true
			continue
		}
		for _, r := range rationalRootCandidates(c) {
			if !isRoot(c, r) {
				continue
			}
			q, _ := syntheticDivide(c, r)
			c = trimCoeffs(q)
			p, d, _ := rational(r)
			raw = append(raw, AddOf(MulOf(N(float64(d)), x), N(float64(-p))))
			scale /= float64(d)
			changed = true
			break
		}
	}
	for i := range c {
		c[i] *= scale
	}
	raw = append(raw, polyFromCoeffs(c, name))
	return assembleFactors(raw, s)
}

// assembleFactors merges numeric factors into one leading coefficient,
// pulls the content out of sum factors and turns repeats into powers.
func assembleFactors(raw []Expr, orig Expr) FactorResult {
	coeff := N(1)
	var order []string
	base := map[string]Expr{}
	count := map[string]Expr{}
	add := func(b, k Expr) {
		key := b.String()
		if _, ok := base[key]; !ok {
			order = append(order, key)
			base[key] = b
			count[key] = k
			return
		}
		count[key] = AddOf(count[key], k)
	}
	for _, f := range raw {
		f = f.Simplify()
		if n, ok := f.(*Num); ok {
			coeff = numMul(coeff, n)
			continue
		}
		if isSumExpr(f) {
			c, prim := content(f)
			coeff = numMul(coeff, c)
			add(prim, N(1))
			continue
		}
		m := toMonomial(f)
		coeff = numMul(coeff, m.coeff)
		for _, mf := range m.factors {
			add(mf.base, mf.exp)
		}
	}
	out := make([]Expr, 0, len(order)+1)
	if !coeff.IsOne() {
		out = append(out, coeff)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return factorRank(base[order[i]]) < factorRank(base[order[j]])
	})
	for _, k := range order {
		out = append(out, PowOf(base[k], count[k]))
	}
	if len(out) == 0 {
		out = append(out, coeff)
	}
	return FactorResult{Factors: out, Success: len(out) > 1 || !out[0].Equal(orig)}
}

// ============================================================
// Group GCF
// ============================================================

// GroupGCF returns the greatest common multiplicative factor of the
// additive groups of e: the integer gcd of the coefficients and every base
// shared by all groups at its smallest numeric exponent. For a single group
// the group itself is returned.
func GroupGCF(e Expr) Expr {
	s := e.Simplify()
	if !isSumExpr(s) {
		return s
	}
	ms := toSum(s)
	g := monomial{coeff: groupCoeffGCD(ms)}

	first := ms[0]
	for _, f := range first.factors {
		key := f.base.String()
		minExp, ok := f.exp.(*Num)
		if !ok || !minExp.IsReal() {
			continue
		}
		shared := true
		for _, m := range ms[1:] {
			found := false
			for _, o := range m.factors {
				if o.base.String() != key {
					continue
				}
				oe, ok := o.exp.(*Num)
				if !ok || !oe.IsReal() {
					break
				}
				found = true
				if oe.re < minExp.re {
					minExp = oe
				}
			}
			if !found {
				shared = false
				break
			}
		}
		if shared {
			g.factors = append(g.factors, factor{base: f.base, exp: minExp})
		}
	}
	return fromMonomial(g)
}

// groupCoeffGCD is the gcd of integer coefficients, or the gcd of the
// numerators over the lcm of the denominators for rational coefficients.
func groupCoeffGCD(ms []monomial) *Num {
	var num int64
	den := int64(1)
	for _, m := range ms {
		p, q, ok := m.coeff.Rational()
		if !ok {
			return N(1)
		}
		num = gcdInt(num, p)
		den = lcmInt(den, q)
	}
	if num == 0 {
		return N(1)
	}
	return F(num, den)
}
