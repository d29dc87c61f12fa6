package gosolve

import "math"

// exponentStrategy solves equations with the symbol in an exponent:
// c*b^f = r and c1*b1^f + c2*b2^g = 0. Numeric bases are rewritten over a
// common integer base when one exists; otherwise logarithms are taken.
type exponentStrategy struct{}

func (exponentStrategy) Name() string { return "exponent" }

func (exponentStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("exponent") {
		return nil, false
	}
	l, r := isolate(ctx, symbol, left, right)
	groups := Groups(l)

	switch {
	case len(groups) == 1 && !Contains(r, symbol):
		coef := symbolFreePart(groups[0], symbol)
		b, f, ok := exponential(symbolPart(groups[0], symbol), symbol)
		if !ok {
			return ctx.fail("exponent: %s is not a single power with %s in the exponent", groups[0], symbol)
		}
		if hasVariables(coef) {
			ctx.restrict(coef, NotEqualTo, N(0))
		}
		return solveExponential(ctx, symbol, b, f, DivOf(r, coef))

	case len(groups) == 2 && IsZero(r):
		c1, c2 := symbolFreePart(groups[0], symbol), symbolFreePart(groups[1], symbol)
		b1, f1, ok1 := exponential(symbolPart(groups[0], symbol), symbol)
		b2, f2, ok2 := exponential(symbolPart(groups[1], symbol), symbol)
		if !ok1 || !ok2 {
			return ctx.fail("exponent: %s is not a difference of two exponentials", l)
		}
		// c1*b1^f1 = rho*b2^f2 with rho = -c2
		rho := DivOf(NegOf(c2), c1)
		if n, ok := rho.(*Num); ok && !n.IsPositive() {
			return []Solution{noSolutions(symbol)}, true
		}
		base := Expr(E())
		if g, ok := commonBase(b1, b2); ok {
			base = N(float64(g))
		}
		lhs := MulOf(f1, LogOf(b1, base))
		rhs := AddOf(LogOf(rho, base), MulOf(f2, LogOf(b2, base)))
		ctx.step("take log base "+base.String()+" of both sides", l, SubOf(lhs, rhs))
		return ctx.solveEquality(symbol, lhs, rhs)
	}
	return ctx.fail("exponent: cannot isolate an exponential of %s in %s = %s", symbol, l, r)
}

// exponential splits b^f with symbol only in f.
func exponential(e Expr, symbol string) (Expr, Expr, bool) {
	f, ok := e.(*Func)
	if !ok || f.kind != KindPow || Contains(f.args[0], symbol) || !Contains(f.args[1], symbol) {
		return nil, nil, false
	}
	return f.args[0], f.args[1], true
}

// solveExponential solves b^f = v.
func solveExponential(ctx *SolveContext, symbol string, b, f, v Expr) ([]Solution, bool) {
	if bv, ok := b.Eval(); ok && bv.IsPositive() {
		if hasVariables(v) {
			ctx.restrict(v, GreaterThan, N(0))
		} else if vv, ok := v.Eval(); ok && vv.IsReal() && !vv.IsPositive() {
			ctx.step("a positive base never reaches "+v.String(), PowOf(b, f), v)
			return []Solution{noSolutions(symbol)}, true
		}
		if bv.IsOne() {
			return degenerate(ctx, symbol, N(1), v), true
		}
	}
	if IsOne(v) {
		return ctx.solveEquality(symbol, f, N(0))
	}
	if g, ok := commonBase(b, v); ok {
		m, _ := integerLog(b, g)
		k, _ := integerLog(v, g)
		ctx.step("rewrite over the common base "+N(float64(g)).String(), PowOf(b, f), PowOf(N(float64(g)), N(float64(k))))
		return ctx.solveEquality(symbol, MulOf(N(float64(m)), f), N(float64(k)))
	}
	rhs := LogOf(v, b)
	ctx.step("take log base "+b.String(), PowOf(b, f), rhs)
	return ctx.solveEquality(symbol, f, rhs)
}

// commonBase finds the smallest integer g >= 2 of which both a and b are
// integer powers (negative powers allowed for reciprocals).
func commonBase(a, b Expr) (int64, bool) {
	an, ok1 := a.(*Num)
	bn, ok2 := b.(*Num)
	if !ok1 || !ok2 || !an.IsPositive() || !bn.IsPositive() {
		return 0, false
	}
	g, ok := perfectPowerBase(an)
	if !ok {
		return 0, false
	}
	if _, ok := integerLog(bn, g); ok {
		return g, true
	}
	return 0, false
}

// perfectPowerBase returns the smallest g with n = g^m or n = g^-m.
func perfectPowerBase(n *Num) (int64, bool) {
	v := n.re
	if v < 1 {
		v = 1 / v
	}
	if !isInt(v) || v < 2 || v > 1e15 {
		return 0, false
	}
	iv := int64(math.Round(v))
	for m := int64(math.Floor(math.Log2(float64(iv)))); m >= 1; m-- {
		g := int64(math.Round(math.Pow(float64(iv), 1/float64(m))))
		for _, c := range []int64{g - 1, g, g + 1} {
			if c >= 2 && ipow(c, m) == iv {
				return c, true
			}
		}
	}
	return iv, true
}

func ipow(b, e int64) int64 {
	out := int64(1)
	for i := int64(0); i < e; i++ {
		out *= b
		if out > 1e15 {
			return -1
		}
	}
	return out
}

// integerLog returns k with e = g^k by repeated division.
func integerLog(e Expr, g int64) (int64, bool) {
	n, ok := e.(*Num)
	if !ok || !n.IsPositive() {
		return 0, false
	}
	v, sign := n.re, int64(1)
	if v < 1 {
		v, sign = 1/v, -1
	}
	if !isInt(v) {
		return 0, false
	}
	iv := int64(math.Round(v))
	k := int64(0)
	for iv > 1 {
		if iv%g != 0 {
			return 0, false
		}
		iv /= g
		k++
	}
	return sign * k, true
}
