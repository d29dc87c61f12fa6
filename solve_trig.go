package gosolve

import "math"

// trigStrategy isolates one trigonometric application of a linear argument
// and returns general solutions principal + period*n.
type trigStrategy struct{}

func (trigStrategy) Name() string { return "trigonometric" }

// maxSpecialDenominator bounds the rational multiples of pi that are
// recognised as special angles.
const maxSpecialDenominator = 12

func (trigStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("trigonometric") {
		return nil, false
	}
	l, r := isolate(ctx, symbol, left, right)
	groups := Groups(l)
	if len(groups) != 1 || Contains(r, symbol) {
		return ctx.fail("trigonometric: cannot isolate a single trigonometric function of %s", symbol)
	}
	coef := symbolFreePart(groups[0], symbol)
	fn, ok := symbolPart(groups[0], symbol).(*Func)
	if !ok || !fn.kind.IsTrig() {
		return ctx.fail("trigonometric: %s is not a trigonometric function of %s", groups[0], symbol)
	}
	if hasVariables(coef) {
		ctx.restrict(coef, NotEqualTo, N(0))
	}
	v := DivOf(r, coef)
	inner := fn.args[0]

	if fn.kind.IsInverseTrig() {
		return solveInverseTrig(ctx, symbol, fn.kind, inner, v)
	}

	kind := fn.kind
	if rc := capabilities[kind]; rc.hasReciprocal {
		if IsZero(v) {
			if kind == KindCot {
				// cot(u) = 0 where cos(u) = 0
				kind, v = KindCos, N(0)
			} else {
				ctx.step(kind.String()+" is never zero", fn, v)
				return []Solution{noSolutions(symbol)}, true
			}
		} else {
			kind, v = rc.reciprocal, DivOf(N(1), v)
		}
		ctx.step("use the reciprocal function", fn, v)
	}

	vn, numeric := v.Eval()
	if !numeric || !vn.IsReal() {
		return ctx.fail("trigonometric: %s is not a real number", v)
	}
	if (kind == KindSin || kind == KindCos) && math.Abs(vn.re) > 1+epsilon {
		ctx.step(kind.String()+" stays within [-1, 1]", fn, v)
		return []Solution{noSolutions(symbol)}, true
	}

	angles := principalAngles(kind, vn.re)
	basePeriod, _ := kind.Period()
	coeffs, ok := PolyCoeffs(inner, symbol)
	if !ok || Degree(inner, symbol) != 1 {
		return ctx.fail("trigonometric: %s is not linear in %s", inner, symbol)
	}
	slope := coeffs.Coefficient(1)
	period := DivOf(basePeriod, slope)
	if p, ok := period.Eval(); ok && p.IsNegative() {
		period = NegOf(period)
	}
	iter := ctx.fresh("n")

	var out []Solution
	for _, a := range angles {
		ctx.step("principal value", fn, a)
		sols, ok := ctx.solveEquality(symbol, inner, a)
		if !ok {
			return nil, false
		}
		for _, s := range sols {
			if s.Kind != SolutionExact {
				continue
			}
			out = append(out, Solution{
				Symbol:       symbol,
				Kind:         SolutionGeneral,
				General:      &GeneralSolution{Principal: s.Value, Period: period, Iterator: iter},
				Multiplicity: 1,
			})
		}
	}
	if len(out) == 0 {
		return ctx.fail("trigonometric: no principal value for %s = %s", fn, v)
	}
	return mergeSolutions(out), true
}

// principalAngles returns the principal value and, for sin and cos, the
// second angle of the period.
func principalAngles(kind FunctionKind, v float64) []Expr {
	var p float64
	switch kind {
	case KindSin:
		p = math.Asin(clamp(v))
	case KindCos:
		p = math.Acos(clamp(v))
	case KindTan:
		p = math.Atan(v)
	default:
		panic("gosolve: principalAngles: " + kind.String() + " has no principal value")
	}
	first := angle(p, kind, v)
	var second Expr
	switch kind {
	case KindSin:
		second = SubOf(Pi(), first)
	case KindCos:
		second = NegOf(first)
	default:
		return []Expr{first}
	}
	if sameAngle(first, second) {
		return []Expr{first}
	}
	return []Expr{first, second}
}

func clamp(v float64) float64 { return math.Max(-1, math.Min(1, v)) }

// angle renders p as a rational multiple of pi when it is one, otherwise
// as the unevaluated inverse function.
func angle(p float64, kind FunctionKind, v float64) Expr {
	if a, ok := specialAngle(p); ok {
		return a
	}
	inv, _ := kind.Inverse()
	return apply(inv, N(v))
}

func specialAngle(p float64) (Expr, bool) {
	if closeTo(p, 0) {
		return N(0), true
	}
	num, den, ok := rational(p / math.Pi)
	if !ok || den > maxSpecialDenominator {
		return nil, false
	}
	return MulOf(F(num, den), Pi()), true
}

// sameAngle compares two angles modulo 2*pi.
func sameAngle(a, b Expr) bool {
	av, ok1 := a.Eval()
	bv, ok2 := b.Eval()
	if !ok1 || !ok2 {
		return a.Equal(b)
	}
	d := math.Mod(av.re-bv.re, 2*math.Pi)
	return closeTo(d, 0) || closeTo(math.Abs(d), 2*math.Pi)
}

// solveInverseTrig solves asin(g) = v as g = sin(v) after checking that v
// lies in the range of the inverse function.
func solveInverseTrig(ctx *SolveContext, symbol string, kind FunctionKind, inner, v Expr) ([]Solution, bool) {
	forward, _ := kind.Inverse()
	if vn, ok := v.Eval(); ok {
		if !vn.IsReal() || !inInverseRange(kind, vn.re) {
			ctx.step(kind.String()+" never reaches "+v.String(), apply(kind, inner), v)
			return []Solution{noSolutions(symbol)}, true
		}
	}
	rhs := apply(forward, v)
	ctx.step("apply "+forward.String()+" to both sides", apply(kind, inner), rhs)
	return ctx.solveEquality(symbol, inner, rhs)
}

func inInverseRange(kind FunctionKind, v float64) bool {
	h := math.Pi / 2
	switch kind {
	case KindAsin:
		return v >= -h-epsilon && v <= h+epsilon
	case KindAcos:
		return v >= -epsilon && v <= math.Pi+epsilon
	case KindAtan:
		return v > -h && v < h && !closeTo(math.Abs(v), h)
	case KindAcot:
		return v > 0 && v < math.Pi && !closeTo(v, 0) && !closeTo(v, math.Pi)
	case KindAsec:
		return v >= -epsilon && v <= math.Pi+epsilon && !closeTo(v, h)
	case KindAcsc:
		return v >= -h-epsilon && v <= h+epsilon && !closeTo(v, 0)
	}
	panic("gosolve: inInverseRange: " + kind.String() + " is not an inverse trigonometric function")
}
