package gosolve

// factorStrategy solves a product equal to zero factor by factor. A factor
// base^k contributes the roots of base = 0 with multiplicity k.
type factorStrategy struct{}

func (factorStrategy) Name() string { return "factor" }

func (factorStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("factor") {
		return nil, false
	}
	diff := SubOf(left, right)
	if isSumExpr(diff) {
		g := GroupGCF(diff)
		if !Contains(g, symbol) {
			return ctx.fail("factor: the groups of %s share no factor containing %s", diff, symbol)
		}
		rest := Expand(DivOf(diff, g))
		ctx.step("factor out "+g.String(), diff, MulOf(g, rest))
		return solveFactors(ctx, symbol, append(Factors(g), rest))
	}
	return solveFactors(ctx, symbol, Factors(diff))
}

func solveFactors(ctx *SolveContext, symbol string, factors []Expr) ([]Solution, bool) {
	var lists [][]Solution
	failed := 0
	bearing := 0
	for _, f := range factors {
		if !Contains(f, symbol) {
			if IsZero(f) {
				return []Solution{allSolutions(symbol)}, true
			}
			continue
		}
		bearing++
		base, k := powParts(f)
		mult := 1
		if kn, ok := k.(*Num); ok {
			switch {
			case kn.IsNegative():
				// never zero; only restricts the domain
				ctx.restrict(base, NotEqualTo, N(0))
				continue
			case kn.IsInteger():
				mult = int(kn.Int())
			}
		} else {
			base = f
		}
		sols, ok := ctx.solveEquality(symbol, base, N(0))
		if !ok {
			failed++
			continue
		}
		lists = append(lists, withMultiplicity(sols, mult))
	}
	if bearing == 0 {
		return ctx.fail("factor: no factor contains %s", symbol)
	}
	if len(lists) == 0 {
		if failed == 0 {
			return []Solution{noSolutions(symbol)}, true
		}
		return nil, false
	}
	if failed > 0 {
		ctx.markPartial("factor: %d of %d factors could not be solved", failed, bearing)
	}
	return mergeSolutions(lists...), true
}
