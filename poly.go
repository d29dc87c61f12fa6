package gosolve

import (
	"math"
	"sort"
)

// ============================================================
// Expansion
// ============================================================

// maxExpandPower bounds the integer powers of sums that Expand multiplies out.
const maxExpandPower = 10

// Expand distributes products over sums and multiplies out integer powers
// of sums up to maxExpandPower.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Term:
		if v.class() == classSum {
			children := make([]Expr, len(v.nodes))
			for i, n := range v.nodes {
				children[i] = expandExpr(n)
			}
			return v.Rebuild(children).Simplify()
		}
		return fromSum(collectLike(expandMonomial(toMonomial(v))))
	case *Func:
		if v.kind == KindPow {
			return fromSum(collectLike(expandMonomial(toMonomial(v))))
		}
		children := make([]Expr, len(v.args))
		for i, a := range v.args {
			children[i] = expandExpr(a)
		}
		return v.Rebuild(children).Simplify()
	}
	return e
}

// expandMonomial multiplies every sum factor with a small positive integer
// power into the rest of the monomial.
func expandMonomial(m monomial) []monomial {
	rest := monomial{coeff: m.coeff}
	var sums []factor
	for _, f := range m.factors {
		en, ok := f.exp.(*Num)
		if ok && en.IsInteger() && en.re > 0 && en.re <= maxExpandPower && isSumExpr(f.base) {
			sums = append(sums, f)
			continue
		}
		base := f.base
		if !isSumExpr(base) {
			base = expandExpr(base)
		}
		rest = mulMonomials(rest, factorMonomial(base, f.exp))
	}
	out := []monomial{rest}
	for _, f := range sums {
		terms := toSum(expandExpr(f.base))
		for k := int64(0); k < f.exp.(*Num).Int(); k++ {
			next := make([]monomial, 0, len(out)*len(terms))
			for _, a := range out {
				for _, b := range terms {
					next = append(next, mulMonomials(a, b))
				}
			}
			out = collectLike(next)
		}
	}
	// products of expanded groups may contain new sum factors
	var flat []monomial
	for _, m := range out {
		if hasSumFactor(m) {
			flat = append(flat, toSum(expandExpr(fromMonomial(m)))...)
			continue
		}
		flat = append(flat, m)
	}
	return flat
}

func hasSumFactor(m monomial) bool {
	for _, f := range m.factors {
		if en, ok := f.exp.(*Num); ok && en.IsInteger() && en.re > 0 && en.re <= maxExpandPower && isSumExpr(f.base) {
			return true
		}
	}
	return false
}

// ============================================================
// Polynomial utilities
// ============================================================

// PolyCoeffsResult maps each power of the variable to its coefficient.
type PolyCoeffsResult map[int]Expr

// PolyCoeffs expands expr and collects coefficients by power of name. ok is
// false when expr is not a polynomial in name (negative or fractional
// powers, or name inside another function).
func PolyCoeffs(expr Expr, name string) (PolyCoeffsResult, bool) {
	out := PolyCoeffsResult{}
	for _, m := range toSum(Expand(expr)) {
		deg := 0
		rest := monomial{coeff: m.coeff}
		for _, f := range m.factors {
			if s, ok := f.base.(*Sym); ok && !s.constant && s.name == name {
				en, ok := f.exp.(*Num)
				if !ok || !en.IsInteger() || en.re < 0 {
					return nil, false
				}
				deg += int(en.Int())
				continue
			}
			if Contains(f.base, name) || Contains(f.exp, name) {
				return nil, false
			}
			rest.factors = append(rest.factors, f)
		}
		c := fromMonomial(rest)
		if prev, ok := out[deg]; ok {
			out[deg] = AddOf(prev, c)
		} else {
			out[deg] = c
		}
	}
	for d, c := range out {
		if IsZero(c) {
			delete(out, d)
		}
	}
	return out, true
}

// Degree returns the highest power of name in expr, or -1 when expr is not
// a polynomial in name.
func Degree(expr Expr, name string) int {
	coeffs, ok := PolyCoeffs(expr, name)
	if !ok {
		return -1
	}
	deg := 0
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	return deg
}

// Coefficient returns the coefficient of name^deg in expr.
func (p PolyCoeffsResult) Coefficient(deg int) Expr {
	if c, ok := p[deg]; ok {
		return c
	}
	return N(0)
}

// Collect groups terms by descending powers of name.
func Collect(expr Expr, name string) Expr {
	coeffs, ok := PolyCoeffs(expr, name)
	if !ok {
		return expr.Simplify()
	}
	degrees := make([]int, 0, len(coeffs))
	for d := range coeffs {
		degrees = append(degrees, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))
	x := S(name)
	terms := make([]Expr, 0, len(degrees))
	for _, d := range degrees {
		terms = append(terms, MulOf(coeffs[d], PowOf(x, N(float64(d)))))
	}
	return AddOf(terms...)
}

// numericCoeffs returns the dense coefficient vector of a polynomial with
// real numeric coefficients, index = power.
func numericCoeffs(expr Expr, name string) ([]float64, bool) {
	coeffs, ok := PolyCoeffs(expr, name)
	if !ok {
		return nil, false
	}
	deg := 0
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	out := make([]float64, deg+1)
	for d, c := range coeffs {
		v, ok := c.(*Num)
		if !ok || !v.IsReal() {
			return nil, false
		}
		out[d] = v.re
	}
	return out, true
}

func polyFromCoeffs(coeffs []float64, name string) Expr {
	x := S(name)
	terms := make([]Expr, 0, len(coeffs))
	for d, c := range coeffs {
		if c == 0 {
			continue
		}
		terms = append(terms, MulOf(N(c), PowOf(x, N(float64(d)))))
	}
	return AddOf(terms...)
}

// horner evaluates the polynomial at x.
func horner(coeffs []float64, x float64) float64 {
	acc := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc*x + coeffs[i]
	}
	return acc
}

// syntheticDivide divides by (x - r), returning the quotient and remainder.
func syntheticDivide(coeffs []float64, r float64) ([]float64, float64) {
	n := len(coeffs) - 1
	if n < 1 {
		return nil, coeffs[0]
	}
	q := make([]float64, n)
	acc := coeffs[n]
	for i := n - 1; i >= 0; i-- {
		q[i] = acc
		acc = acc*r + coeffs[i]
	}
	return q, acc
}

// trimCoeffs drops vanishing leading coefficients.
func trimCoeffs(coeffs []float64) []float64 {
	n := len(coeffs)
	for n > 1 && closeTo(coeffs[n-1], 0) {
		n--
	}
	return coeffs[:n]
}

// integerCoeffs scales rational coefficients by the lcm of their
// denominators. ok is false for irrational or very large coefficients.
func integerCoeffs(coeffs []float64) ([]int64, bool) {
	l := int64(1)
	for _, c := range coeffs {
		_, q, ok := rational(c)
		if !ok {
			return nil, false
		}
		l = lcmInt(l, q)
		if l > 1e6 {
			return nil, false
		}
	}
	out := make([]int64, len(coeffs))
	for i, c := range coeffs {
		v := math.Round(c * float64(l))
		if math.Abs(v) > 1e12 {
			return nil, false
		}
		out[i] = int64(v)
	}
	return out, true
}

func divisors(n int64) []int64 {
	if n < 0 {
		n = -n
	}
	var out []int64
	for d := int64(1); d*d <= n && d <= 1e6; d++ {
		if n%d == 0 {
			out = append(out, d)
			if d != n/d {
				out = append(out, n/d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rationalRootCandidates lists ±p/q with p dividing the constant term and
// q dividing the leading coefficient, smallest magnitude first.
func rationalRootCandidates(coeffs []float64) []float64 {
	ints, ok := integerCoeffs(coeffs)
	if !ok || len(ints) < 2 {
		return nil
	}
	lead := ints[len(ints)-1]
	low := int64(0)
	for _, c := range ints {
		if c != 0 {
			low = c
			break
		}
	}
	seen := map[float64]bool{}
	var out []float64
	for _, p := range divisors(low) {
		for _, q := range divisors(lead) {
			if gcdInt(p, q) != 1 {
				continue
			}
			r := float64(p) / float64(q)
			for _, c := range []float64{r, -r} {
				if !seen[c] {
					seen[c] = true
					out = append(out, c)
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i]), math.Abs(out[j])
		if ai != aj {
			return ai < aj
		}
		return out[i] > out[j]
	})
	return out
}

// isRoot checks p(r) == 0 relative to the size of the coefficients.
func isRoot(coeffs []float64, r float64) bool {
	scale := 0.0
	for i, c := range coeffs {
		scale += math.Abs(c) * math.Pow(math.Max(1, math.Abs(r)), float64(i))
	}
	return math.Abs(horner(coeffs, r)) <= 1e-9*math.Max(1, scale)
}
