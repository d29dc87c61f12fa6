package gosolve

// polynomialStrategy solves polynomials of degree three and higher:
// common factors first, then rational roots peeled off by synthetic
// division until a quadratic remains.
type polynomialStrategy struct{}

func (polynomialStrategy) Name() string { return "polynomial" }

func (polynomialStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("polynomial") {
		return nil, false
	}
	diff := Expand(SubOf(left, right))

	if g := GroupGCF(diff); Contains(g, symbol) {
		rest := Expand(DivOf(diff, g))
		ctx.step("factor out "+g.String(), diff, MulOf(g, rest))
		return solveFactors(ctx, symbol, append(Factors(g), rest))
	}

	coeffs, ok := numericCoeffs(diff, symbol)
	if !ok {
		return ctx.fail("polynomial: %s has non-numeric coefficients", diff)
	}
	c := trimCoeffs(coeffs)
	var found []Solution
	for peeled := true; peeled && len(c) > 3; {
		peeled = false
		for _, r := range rationalRootCandidates(c) {
			if !isRoot(c, r) {
				continue
			}
			mult := 0
			for len(c) > 1 && isRoot(c, r) {
				c, _ = syntheticDivide(c, r)
				c = trimCoeffs(c)
				mult++
			}
			s := exactSolution(symbol, N(r))
			s.Multiplicity = mult
			found = append(found, s)
			ctx.step("synthetic division by "+SubOf(S(symbol), N(r)).String(), diff, polyFromCoeffs(c, symbol))
			peeled = true
			break
		}
	}

	if len(c) > 3 {
		if len(found) == 0 {
			return ctx.fail("polynomial: no rational roots of %s", diff)
		}
		ctx.markPartial("polynomial: %s = 0 has no rational roots; its roots are missing", polyFromCoeffs(c, symbol))
		return mergeSolutions(found), true
	}
	if len(c) < 2 {
		return mergeSolutions(found), true
	}
	rest, ok := ctx.solveEquality(symbol, polyFromCoeffs(c, symbol), N(0))
	if !ok {
		if len(found) == 0 {
			return nil, false
		}
		ctx.markPartial("polynomial: could not solve the remainder %s = 0", polyFromCoeffs(c, symbol))
		return mergeSolutions(found), true
	}
	return mergeSolutions(found, rest), true
}
