package gosolve

// powerStrategy solves c*g^k = r by raising both sides to 1/k, and removes
// a radical mixed with other groups by isolating and raising it.
type powerStrategy struct{}

func (powerStrategy) Name() string { return "power" }

func (powerStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("power") {
		return nil, false
	}
	l, r := isolate(ctx, symbol, left, right)
	groups := Groups(l)

	if len(groups) == 1 && !Contains(r, symbol) {
		coef := symbolFreePart(groups[0], symbol)
		base, k := powParts(symbolPart(groups[0], symbol))
		if Contains(k, symbol) {
			return ctx.fail("power: %s has %s in both base and exponent", groups[0], symbol)
		}
		if IsOne(k) {
			return ctx.fail("power: %s is not a power of %s", groups[0], symbol)
		}
		if hasVariables(coef) {
			ctx.restrict(coef, NotEqualTo, N(0))
		}
		sols, ok := powerRoots(ctx, symbol, base, k, DivOf(r, coef))
		if !ok {
			return nil, false
		}
		sols, _ = keepVerified(ctx, symbol, left, right, sols)
		return sols, true
	}

	// a radical next to other groups: isolate it and raise both sides
	for _, g := range groups {
		base, k := powParts(symbolPart(g, symbol))
		kn, ok := k.(*Num)
		if !ok || !Contains(base, symbol) {
			continue
		}
		_, q, ok := kn.Rational()
		if !ok || q < 2 {
			continue
		}
		rest := SubOf(r, SubOf(l, g))
		lhs := Expand(PowOf(g, N(float64(q))))
		rhs := Expand(PowOf(rest, N(float64(q))))
		ctx.step("isolate the radical and raise to the power "+N(float64(q)).String(), Chain(g, OpSub, rest), SubOf(lhs, rhs))
		sols, ok := ctx.solveEquality(symbol, lhs, rhs)
		if !ok {
			return nil, false
		}
		sols, _ = keepVerified(ctx, symbol, left, right, sols)
		return sols, true
	}
	return ctx.fail("power: no isolated power or radical of %s in %s = %s", symbol, l, r)
}

// powerRoots solves base^k = v. Even powers give two branches; even roots
// need v >= 0 and restrict the base to be non-negative.
func powerRoots(ctx *SolveContext, symbol string, base, k, v Expr) ([]Solution, bool) {
	kn, ok := k.(*Num)
	if !ok {
		if hasVariables(k) {
			ctx.restrict(k, NotEqualTo, N(0))
		}
		return ctx.solveEquality(symbol, base, PowOf(v, DivOf(N(1), k)))
	}
	if kn.IsZero() {
		return degenerate(ctx, symbol, N(1), v), true
	}
	p, q, ok := kn.Rational()
	if !ok {
		if vn, isNum := v.(*Num); isNum && vn.IsNegative() {
			return []Solution{noSolutions(symbol)}, true
		}
		return ctx.solveEquality(symbol, base, PowOf(v, numDiv(N(1), kn)))
	}
	if p < 0 {
		// base^(-p/q) = v  <=>  base^(p/q) = 1/v
		ctx.restrict(base, NotEqualTo, N(0))
		p, v = -p, DivOf(N(1), v)
		if isUndefined(v) {
			return []Solution{noSolutions(symbol)}, true
		}
	}
	inv := F(q, p)
	vn, numeric := v.(*Num)
	negative := numeric && vn.IsNegative()

	if q%2 == 0 {
		ctx.restrict(base, GreaterOrEqual, N(0))
		if negative {
			ctx.step("an even root is never negative", PowOf(base, kn), v)
			return []Solution{noSolutions(symbol)}, true
		}
		if hasVariables(v) {
			ctx.restrict(v, GreaterOrEqual, N(0))
		}
	}

	if p%2 != 0 {
		root := PowOf(v, inv)
		ctx.step("raise both sides to "+inv.String(), PowOf(base, kn), root)
		return ctx.solveEquality(symbol, base, root)
	}

	var root Expr
	switch {
	case negative && ctx.opts.ComplexMode && p == 2 && q == 1:
		root = MulOf(NC(0, 1), PowOf(numNeg(vn), inv))
	case negative:
		ctx.step("an even power is never negative", PowOf(base, kn), v)
		return []Solution{noSolutions(symbol)}, true
	default:
		if hasVariables(v) {
			ctx.restrict(v, GreaterOrEqual, N(0))
		}
		root = PowOf(v, inv)
	}
	ctx.step("take the root of both sides", PowOf(base, kn), root)
	if IsZero(root) {
		sols, ok := ctx.solveEquality(symbol, base, N(0))
		return withMultiplicity(sols, int(p)), ok
	}
	return simulSolve(ctx, symbol, [][2]Expr{{base, root}, {base, NegOf(root)}})
}
