package gosolve

import "math"

// quadraticStrategy solves a*x^2 + b*x + c = 0 by factoring, the formula or
// completing the square, in the order the options prefer.
type quadraticStrategy struct{}

func (quadraticStrategy) Name() string { return "quadratic" }

func (quadraticStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("quadratic") {
		return nil, false
	}
	a, b, c, ok := quadraticCoeffs(SubOf(left, right), symbol)
	if !ok {
		return ctx.fail("quadratic: %s = %s is not quadratic in %s", left, right, symbol)
	}
	if hasVariables(a) {
		ctx.restrict(a, NotEqualTo, N(0))
	}

	switch ctx.opts.QuadraticMethod {
	case QuadraticFormula:
		return quadraticFormula(ctx, symbol, a, b, c)
	case QuadraticCompleteSquare:
		if sols, ok := completeSquare(ctx, symbol, a, b, c); ok {
			return sols, true
		}
		return quadraticFormula(ctx, symbol, a, b, c)
	}
	if sols, ok := quadraticFactor(ctx, symbol, a, b, c); ok {
		return sols, true
	}
	return quadraticFormula(ctx, symbol, a, b, c)
}

// quadraticCoeffs extracts a, b and c; each may gather several groups.
func quadraticCoeffs(e Expr, symbol string) (a, b, c Expr, ok bool) {
	coeffs, ok := PolyCoeffs(e, symbol)
	if !ok || Degree(e, symbol) != 2 {
		return nil, nil, nil, false
	}
	return coeffs.Coefficient(2), coeffs.Coefficient(1), coeffs.Coefficient(0), true
}

// quadraticFactor looks for integers m, n with m*n = a*c and m+n = b; then
// a*x^2 + b*x + c = (a*x + m)(a*x + n)/a and the roots are -m/a and -n/a.
func quadraticFactor(ctx *SolveContext, symbol string, a, b, c Expr) ([]Solution, bool) {
	coeffs, ok := realCoeffs(a, b, c)
	if !ok {
		return nil, false
	}
	ints, ok := integerCoeffs([]float64{coeffs[2], coeffs[1], coeffs[0]})
	if !ok {
		return nil, false
	}
	ia, ib, ic := ints[0], ints[1], ints[2]
	ac := ia * ic
	var m, n int64
	found := false
	if ac == 0 {
		m, n, found = 0, ib, true
	} else {
		for _, d := range divisors(ac) {
			for _, sd := range []int64{d, -d} {
				if sd+ac/sd == ib {
					m, n, found = sd, ac/sd, true
					break
				}
			}
			if found {
				break
			}
		}
	}
	if !found {
		ctx.note("quadratic: no integer factor pair, using the formula")
		return nil, false
	}
	x := S(symbol)
	ctx.step("factor", AddOf(MulOf(N(float64(ia)), PowOf(x, N(2))), MulOf(N(float64(ib)), x), N(float64(ic))),
		MulOf(AddOf(MulOf(N(float64(ia)), x), N(float64(m))), AddOf(MulOf(N(float64(ia)), x), N(float64(n))), F(1, ia)))
	r1 := F(-m, ia)
	r2 := F(-n, ia)
	if m == n {
		s := exactSolution(symbol, r1)
		s.Multiplicity = 2
		return []Solution{s}, true
	}
	return []Solution{exactSolution(symbol, r1), exactSolution(symbol, r2)}, true
}

// realCoeffs returns [c, b, a] as floats when all three are real numbers.
func realCoeffs(a, b, c Expr) ([]float64, bool) {
	out := make([]float64, 3)
	for i, e := range []Expr{c, b, a} {
		n, ok := e.(*Num)
		if !ok || !n.IsReal() {
			return nil, false
		}
		out[i] = n.re
	}
	return out, true
}

// quadraticFormula solves with the discriminant. Numeric coefficients give
// 0, 1 or 2 real roots (a conjugate pair in complex mode); symbolic ones
// give both radical roots with the restriction disc >= 0.
func quadraticFormula(ctx *SolveContext, symbol string, a, b, c Expr) ([]Solution, bool) {
	disc := AddOf(PowOf(b, N(2)), MulOf(N(-4), a, c))
	twoA := MulOf(N(2), a)
	negB := NegOf(b)
	ctx.step("discriminant b^2 - 4ac", disc, disc)

	if d, ok := disc.(*Num); ok && d.IsReal() {
		switch {
		case d.IsZero():
			s := exactSolution(symbol, DivOf(negB, twoA))
			s.Multiplicity = 2
			return []Solution{s}, true
		case d.IsNegative():
			if !ctx.opts.ComplexMode {
				ctx.step("negative discriminant, no real roots", disc, disc)
				return []Solution{noSolutions(symbol)}, true
			}
			im := math.Sqrt(-d.re)
			return []Solution{
				exactSolution(symbol, DivOf(AddOf(negB, NC(0, -im)), twoA)),
				exactSolution(symbol, DivOf(AddOf(negB, NC(0, im)), twoA)),
			}, true
		}
	} else if !ctx.opts.ComplexMode {
		ctx.restrict(disc, GreaterOrEqual, N(0))
	}
	root := SqrtOf(disc)
	return []Solution{
		exactSolution(symbol, Canonicalize(DivOf(SubOf(negB, root), twoA))),
		exactSolution(symbol, Canonicalize(DivOf(AddOf(negB, root), twoA))),
	}, true
}

// completeSquare rewrites a*x^2 + b*x + c = 0 as (x + b/2a)^2 = (b^2-4ac)/4a^2
// and hands that to the dispatcher.
func completeSquare(ctx *SolveContext, symbol string, a, b, c Expr) ([]Solution, bool) {
	x := S(symbol)
	shift := DivOf(b, MulOf(N(2), a))
	lhs := PowOf(AddOf(x, shift), N(2))
	rhs := DivOf(AddOf(PowOf(b, N(2)), MulOf(N(-4), a, c)), MulOf(N(4), PowOf(a, N(2))))
	ctx.step("complete the square", AddOf(MulOf(a, PowOf(x, N(2))), MulOf(b, x), c), lhs)
	if r, ok := rhs.(*Num); ok && r.IsNegative() && !ctx.opts.ComplexMode {
		return []Solution{noSolutions(symbol)}, true
	}
	return powerRoots(ctx, symbol, AddOf(x, shift), N(2), rhs)
}
