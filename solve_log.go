package gosolve

// logStrategy combines logarithms of one base and exponentiates:
// log_b(F) = r becomes F = b^r. Arguments are restricted to be positive
// and extraneous candidates are dropped.
type logStrategy struct{}

func (logStrategy) Name() string { return "logarithm" }

func (logStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("logarithm") {
		return nil, false
	}
	l, r := isolate(ctx, symbol, left, right)
	if Contains(r, symbol) {
		return ctx.fail("logarithm: %s is left on the right side", r)
	}

	var base Expr
	var parts []Expr
	for _, g := range Groups(l) {
		coef := symbolFreePart(g, symbol)
		lg, ok := symbolPart(g, symbol).(*Func)
		if !ok || lg.kind != KindLog || Contains(lg.args[1], symbol) {
			return ctx.fail("logarithm: %s is not a multiple of a logarithm", g)
		}
		if base == nil {
			base = lg.args[1]
		} else if !base.Equal(lg.args[1]) {
			return ctx.fail("logarithm: bases %s and %s differ", base, lg.args[1])
		}
		if _, ok := coef.(*Num); !ok {
			return ctx.fail("logarithm: coefficient %s is not a number", coef)
		}
		ctx.restrict(lg.args[0], GreaterThan, N(0))
		parts = append(parts, PowOf(lg.args[0], coef))
	}
	if base == nil {
		return ctx.fail("logarithm: no logarithm of %s", symbol)
	}

	arg := MulOf(parts...)
	rhs := PowOf(base, r)
	ctx.step("exponentiate with base "+base.String(), LogOf(arg, base), rhs)
	sols, ok := ctx.solveEquality(symbol, arg, rhs)
	if !ok {
		return nil, false
	}
	sols, _ = keepVerified(ctx, symbol, left, right, sols)
	return sols, true
}

// logBaseStrategy solves log_g(a) = r with the symbol in the base g by
// rewriting it as g^r = a, with g > 0 and g != 1.
type logBaseStrategy struct{}

func (logBaseStrategy) Name() string { return "log base" }

func (logBaseStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("log base") {
		return nil, false
	}
	l, r := isolate(ctx, symbol, left, right)
	groups := Groups(l)
	if len(groups) != 1 || Contains(r, symbol) {
		return ctx.fail("log base: cannot isolate a logarithm with %s in its base", symbol)
	}
	coef := symbolFreePart(groups[0], symbol)
	lg, ok := symbolPart(groups[0], symbol).(*Func)
	if !ok || lg.kind != KindLog || !Contains(lg.args[1], symbol) {
		return ctx.fail("log base: %s is not a logarithm with %s in its base", groups[0], symbol)
	}
	arg, base := lg.args[0], lg.args[1]
	v := DivOf(r, coef)
	ctx.restrict(base, GreaterThan, N(0))
	ctx.restrict(base, NotEqualTo, N(1))

	var sols []Solution
	if Contains(arg, symbol) {
		ctx.restrict(arg, GreaterThan, N(0))
		ctx.step("change of base", lg, DivOf(LnOf(arg), LnOf(base)))
		sols, ok = ctx.solveEquality(symbol, LnOf(arg), MulOf(v, LnOf(base)))
	} else {
		ctx.step("rewrite as a power", lg, PowOf(base, v))
		sols, ok = ctx.solveEquality(symbol, PowOf(base, v), arg)
	}
	if !ok {
		return nil, false
	}
	sols, _ = keepVerified(ctx, symbol, left, right, sols)
	return sols, true
}
