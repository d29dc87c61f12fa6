package gosolve

// absStrategy splits |g| = r into g = r and g = -r. Several absolute values
// are split one at a time on the sign of their argument, and every
// candidate is checked against the unsplit equation.
type absStrategy struct{}

func (absStrategy) Name() string { return "absolute value" }

func (absStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("absolute value") {
		return nil, false
	}
	l, r := isolate(ctx, symbol, left, right)
	groups := Groups(l)

	if len(groups) == 1 && !Contains(r, symbol) {
		coef := symbolFreePart(groups[0], symbol)
		if abs, ok := symbolPart(groups[0], symbol).(*Func); ok && abs.kind == KindAbs {
			if hasVariables(coef) {
				ctx.restrict(coef, NotEqualTo, N(0))
			}
			v := DivOf(r, coef)
			inner := abs.args[0]
			if vn, ok := v.(*Num); ok {
				switch {
				case vn.IsNegative():
					ctx.step("an absolute value is never negative", abs, v)
					return []Solution{noSolutions(symbol)}, true
				case vn.IsZero():
					return ctx.solveEquality(symbol, inner, N(0))
				}
			} else {
				ctx.restrict(v, GreaterOrEqual, N(0))
			}
			ctx.step("split the absolute value", abs, v)
			sols, ok := simulSolve(ctx, symbol, [][2]Expr{{inner, v}, {inner, NegOf(v)}})
			if !ok {
				return nil, false
			}
			sols, _ = keepVerified(ctx, symbol, left, right, sols)
			return sols, true
		}
	}

	abs := firstAbs(SubOf(l, r), symbol)
	if abs == nil {
		return ctx.fail("absolute value: no |...| of %s to split", symbol)
	}
	inner := abs.args[0]
	diff := SubOf(l, r)
	ctx.step("split "+abs.String()+" on the sign of "+inner.String(), diff, diff)
	pos := Replace(diff, abs, inner)
	neg := Replace(diff, abs, NegOf(inner))
	sols, ok := simulSolve(ctx, symbol, [][2]Expr{{pos, N(0)}, {neg, N(0)}})
	if !ok {
		return nil, false
	}
	sols, _ = keepVerified(ctx, symbol, left, right, sols)
	return sols, true
}

func firstAbs(e Expr, symbol string) *Func {
	if f, ok := e.(*Func); ok && f.kind == KindAbs && Contains(f, symbol) {
		return f
	}
	for _, c := range e.Children() {
		if f := firstAbs(c, symbol); f != nil {
			return f
		}
	}
	return nil
}
