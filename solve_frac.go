package gosolve

// fractionalStrategy clears denominators containing the symbol: simple
// fractions on both sides are cross-multiplied, anything else is rewritten
// over the least common factor of the denominators. Roots that zero a
// denominator are rejected.
type fractionalStrategy struct{}

func (fractionalStrategy) Name() string { return "fractional" }

func (fractionalStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("fractional") {
		return nil, false
	}
	var num, den Expr
	if !isSumExpr(left) && !isSumExpr(right) {
		a, b := NumeratorDenominator(left)
		c, d := NumeratorDenominator(right)
		num = Expand(SubOf(MulOf(a, d), MulOf(c, b)))
		den = MulOf(b, d)
		ctx.step("cross-multiply", Chain(left, OpSub, right), num)
	} else {
		num, den = combineOverLCF(CompoundFractions(SubOf(left, right)))
		ctx.step("rewrite over the common denominator "+den.String(), SubOf(left, right), num)
	}
	if !Contains(den, symbol) {
		return ctx.fail("fractional: no denominator of %s left to clear", symbol)
	}
	for _, f := range Factors(den) {
		if Contains(f, symbol) {
			base, _ := powParts(f)
			ctx.restrict(base, NotEqualTo, N(0))
		}
	}
	if hasDenominator(num, symbol) {
		return ctx.fail("fractional: could not clear the denominators of %s", SubOf(left, right))
	}

	sols, ok := ctx.solveEquality(symbol, num, N(0))
	if !ok {
		return nil, false
	}
	var out []Solution
	dropped := false
	for _, s := range sols {
		if s.Kind == SolutionExact && zeroes(den, symbol, s.Value) {
			ctx.step("reject a root of the denominator", S(symbol), s.Value)
			dropped = true
			continue
		}
		out = append(out, s)
	}
	if dropped && len(out) == 0 {
		return []Solution{noSolutions(symbol)}, true
	}
	return out, true
}

// zeroes reports whether substituting v makes e zero or undefined.
func zeroes(e Expr, symbol string, v Expr) bool {
	s := e.Sub(symbol, v)
	if isUndefined(s) {
		return true
	}
	if hasVariables(s) {
		return IsZero(s)
	}
	n, ok := s.Eval()
	return !ok || n.IsZero()
}
