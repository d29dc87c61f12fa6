package gosolve

// ============================================================
// Shared solving toolkit
// ============================================================

// prepare canonicalizes both sides and moves the symbol to the left when
// only the right side contains it.
func prepare(ctx *SolveContext, symbol string, left, right Expr) (Expr, Expr) {
	l, r := Canonicalize(left), Canonicalize(right)
	if !Contains(l, symbol) && Contains(r, symbol) {
		ctx.mirror()
		ctx.step("swap sides", l, r)
		l, r = r, l
	}
	return l, r
}

// splitGroups separates the groups of e into those containing symbol and
// the rest.
func splitGroups(e Expr, symbol string) (with, without []Expr) {
	for _, g := range Groups(e) {
		if Contains(g, symbol) {
			with = append(with, g)
		} else {
			without = append(without, g)
		}
	}
	return with, without
}

// constantsToRight subtracts the symbol-free groups of the left side from
// both sides.
func constantsToRight(ctx *SolveContext, symbol string, left, right Expr) (Expr, Expr) {
	with, without := splitGroups(left, symbol)
	if len(without) == 0 {
		return left, right
	}
	l := AddOf(with...)
	r := SubOf(right, AddOf(without...))
	ctx.step("move constants to the right", left, l)
	return l, r
}

// variablesToLeft subtracts the symbol-bearing groups of the right side
// from both sides.
func variablesToLeft(ctx *SolveContext, symbol string, left, right Expr) (Expr, Expr) {
	with, without := splitGroups(right, symbol)
	if len(with) == 0 {
		return left, right
	}
	l := SubOf(left, AddOf(with...))
	r := AddOf(without...)
	ctx.step("move variables to the left", right, r)
	return l, r
}

// isolate runs constantsToRight then variablesToLeft.
func isolate(ctx *SolveContext, symbol string, left, right Expr) (Expr, Expr) {
	l, r := constantsToRight(ctx, symbol, left, right)
	l, r = variablesToLeft(ctx, symbol, l, r)
	return constantsToRight(ctx, symbol, l, r)
}

// degenerate decides an equation in which the symbol no longer occurs.
func degenerate(ctx *SolveContext, symbol string, left, right Expr) []Solution {
	l, r := Canonicalize(left), Canonicalize(right)
	if hasVariables(l) || hasVariables(r) {
		if ctx.comparison == EqualTo && AreEqual(l, r) {
			return []Solution{allSolutions(symbol)}
		}
		if ctx.comparison == EqualTo {
			// a relation between other symbols; holds only for some of them
			ctx.restrict(l, EqualTo, r)
			return []Solution{allSolutions(symbol)}
		}
	}
	lv, ok1 := l.Eval()
	rv, ok2 := r.Eval()
	if ok1 && ok2 && lv.IsReal() && rv.IsReal() {
		if ctx.comparison.Holds(lv.re, rv.re) {
			return []Solution{allSolutions(symbol)}
		}
		return []Solution{noSolutions(symbol)}
	}
	if ctx.comparison == EqualTo && AreEqual(l, r) {
		return []Solution{allSolutions(symbol)}
	}
	return []Solution{noSolutions(symbol)}
}

// divideByVariableCoeffs divides both sides by the symbol-free common
// factor of the left groups. The divisor's sign mirrors inequalities; a
// symbolic divisor is restricted to be non-zero. ok is false when an
// inequality would be divided by a factor of unknown sign.
func divideByVariableCoeffs(ctx *SolveContext, symbol string, left, right Expr) (Expr, Expr, bool) {
	c := symbolFreePart(GroupGCF(left), symbol)
	if IsOne(c) || IsZero(c) {
		return left, right, true
	}
	if hasVariables(c) {
		if ctx.comparison != EqualTo {
			ctx.note("cannot divide an inequality by " + c.String() + " of unknown sign")
			return left, right, false
		}
		ctx.restrict(c, NotEqualTo, N(0))
	} else if v, ok := c.Eval(); ok && v.IsNegative() {
		ctx.mirror()
	}
	l := Expand(DivOf(left, c))
	r := Expand(DivOf(right, c))
	ctx.step("divide by "+c.String(), left, l)
	return l, r, true
}

// symbolFreePart keeps the factors of a single group that do not contain
// symbol.
func symbolFreePart(g Expr, symbol string) Expr {
	var keep []Expr
	for _, f := range Factors(g) {
		if !Contains(f, symbol) {
			keep = append(keep, f)
		}
	}
	if len(keep) == 0 {
		return N(1)
	}
	return MulOf(keep...)
}

// symbolPart keeps the factors of a single group that contain symbol.
func symbolPart(g Expr, symbol string) Expr {
	var keep []Expr
	for _, f := range Factors(g) {
		if Contains(f, symbol) {
			keep = append(keep, f)
		}
	}
	if len(keep) == 0 {
		return N(1)
	}
	return MulOf(keep...)
}

// powParts splits e into base and exponent; non-powers have exponent 1.
func powParts(e Expr) (Expr, Expr) {
	if f, ok := e.(*Func); ok && f.kind == KindPow {
		return f.args[0], f.args[1]
	}
	return e, N(1)
}

// verify substitutes v into both sides. Candidates that leave free symbols
// are kept; candidates making a side undefined or unequal are rejected.
func verify(ctx *SolveContext, symbol string, left, right Expr, v Expr) bool {
	l := left.Sub(symbol, v)
	r := right.Sub(symbol, v)
	if hasVariables(l) || hasVariables(r) {
		return true
	}
	lv, ok1 := l.Eval()
	rv, ok2 := r.Eval()
	if !ok1 || !ok2 {
		if cv, ok := v.Eval(); ok && !cv.IsReal() {
			return true
		}
		return false
	}
	if ctx.comparison != EqualTo && lv.IsReal() && rv.IsReal() {
		return ctx.comparison.Holds(lv.re, rv.re)
	}
	return closeRel(lv, rv)
}

// keepVerified drops exact candidates that fail verify against the given
// equation. The boolean reports whether anything was dropped.
func keepVerified(ctx *SolveContext, symbol string, left, right Expr, sols []Solution) ([]Solution, bool) {
	var out []Solution
	dropped := false
	for _, s := range sols {
		if s.Kind == SolutionExact && s.Comparison == EqualTo && !verify(ctx, symbol, left, right, s.Value) {
			ctx.step("reject extraneous root", S(symbol), s.Value)
			dropped = true
			continue
		}
		out = append(out, s)
	}
	if dropped && len(out) == 0 {
		out = []Solution{noSolutions(symbol)}
	}
	return out, dropped
}

// simulSolve solves every branch and merges the results. It fails only when
// every branch fails; a failing branch next to successful ones marks the
// result partial.
func simulSolve(ctx *SolveContext, symbol string, branches [][2]Expr) ([]Solution, bool) {
	var lists [][]Solution
	failed := 0
	for _, b := range branches {
		sols, ok := ctx.solveEquality(symbol, b[0], b[1])
		if !ok {
			failed++
			continue
		}
		lists = append(lists, sols)
	}
	if len(lists) == 0 {
		return nil, false
	}
	if failed > 0 {
		ctx.markPartial("%d of %d branches could not be solved", failed, len(branches))
	}
	return mergeSolutions(lists...), true
}

// withMultiplicity scales the multiplicity of exact solutions by k.
func withMultiplicity(sols []Solution, k int) []Solution {
	out := make([]Solution, len(sols))
	for i, s := range sols {
		if s.Kind == SolutionExact {
			if s.Multiplicity < 1 {
				s.Multiplicity = 1
			}
			s.Multiplicity *= k
		}
		out[i] = s
	}
	return out
}
