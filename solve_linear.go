package gosolve

// linearStrategy solves a*x + b (relation) c with a and c free of x. It is
// the only strategy that handles inequalities.
type linearStrategy struct{}

func (linearStrategy) Name() string { return "linear" }

func (linearStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	l, r := isolate(ctx, symbol, left, right)
	if !Contains(l, symbol) {
		return degenerate(ctx, symbol, l, r), true
	}

	if hasDenominator(l, symbol) {
		return ctx.fail("linear: %s has %s in a denominator", l, symbol)
	}

	l, r, ok := divideByVariableCoeffs(ctx, symbol, l, r)
	if !ok {
		return nil, false
	}

	coeffs, ok := PolyCoeffs(l, symbol)
	if ok && Degree(l, symbol) == 1 && IsZero(coeffs.Coefficient(0)) {
		a := coeffs.Coefficient(1)
		if IsZero(a) {
			return degenerate(ctx, symbol, N(0), r), true
		}
		if hasVariables(a) {
			if ctx.comparison != EqualTo {
				return ctx.fail("linear: coefficient %s has unknown sign", a)
			}
			ctx.restrict(a, NotEqualTo, N(0))
		} else if v, ok := a.Eval(); ok && v.IsNegative() {
			ctx.mirror()
		}
		value := Canonicalize(DivOf(r, a))
		ctx.step("divide by the coefficient of "+symbol, l, S(symbol))
		sol := exactSolution(symbol, value)
		sol.Comparison = ctx.comparison
		return []Solution{sol}, true
	}

	// the left side is not yet the bare symbol; another pass may compound a
	// nested fraction
	if ctx.linearRepeats >= ctx.opts.MaxLinearRepeats {
		return ctx.fail("linear: gave up after %d passes on %s = %s", ctx.linearRepeats, l, r)
	}
	ctx.linearRepeats++
	nl := Expand(CompoundFractions(l))
	if nl.Equal(l) {
		return ctx.fail("linear: %s is not linear in %s", l, symbol)
	}
	return ctx.Solve(symbol, nl, r)
}

// hasDenominator reports whether a group of e divides by something
// containing symbol.
func hasDenominator(e Expr, symbol string) bool {
	for _, g := range Groups(e) {
		_, d := NumeratorDenominator(g)
		if !IsOne(d) && Contains(d, symbol) {
			return true
		}
	}
	return false
}
