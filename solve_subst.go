package gosolve

import "sort"

// substitutionStrategy replaces a repeated sub-expression of the symbol by
// a fresh variable u, solves for u, then solves target = u for each value.
type substitutionStrategy struct{}

func (substitutionStrategy) Name() string { return "substitution" }

func (substitutionStrategy) Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	if !ctx.requireEquality("substitution") {
		return nil, false
	}
	diff := Canonicalize(SubOf(left, right))
	for _, target := range substitutionTargets(diff, symbol) {
		cp := ctx.checkpoint()
		sols, ok := substitute(ctx, symbol, diff, target)
		if ok {
			sols, _ = keepVerified(ctx, symbol, left, right, sols)
			return sols, true
		}
		ctx.rollback(cp)
	}
	return ctx.fail("substitution: no repeated sub-expression of %s to replace", symbol)
}

func substitute(ctx *SolveContext, symbol string, diff, target Expr) ([]Solution, bool) {
	u := ctx.fresh("u")
	reduced := replaceMultiples(diff, target, S(u))
	if Contains(reduced, symbol) || !Contains(reduced, u) {
		return nil, false
	}
	ctx.step("substitute "+u+" = "+target.String(), diff, reduced)

	before := len(ctx.restrictions)
	values, ok := ctx.solveEquality(u, reduced, N(0))
	if !ok {
		return nil, false
	}
	// restrictions on u are enforced below by solving target = value
	kept := ctx.restrictions[:before]
	for _, r := range ctx.restrictions[before:] {
		if !Contains(r.Expr, u) && !Contains(r.Bound, u) {
			kept = append(kept, r)
		}
	}
	ctx.restrictions = kept

	var branches [][2]Expr
	for _, v := range values {
		switch v.Kind {
		case SolutionNone:
			return []Solution{noSolutions(symbol)}, true
		case SolutionExact:
			if v.Comparison != EqualTo {
				return nil, false
			}
			if n, ok := v.Value.Eval(); ok && !n.IsReal() && !ctx.opts.ComplexMode {
				continue
			}
			branches = append(branches, [2]Expr{target, v.Value})
		default:
			return ctx.fail("substitution: %s has no finite set of values", u)
		}
	}
	if len(branches) == 0 {
		return []Solution{noSolutions(symbol)}, true
	}
	ctx.step("back-substitute "+target.String(), S(u), target)
	return simulSolve(ctx, symbol, branches)
}

// substitutionTargets lists candidate sub-expressions, best first: the
// lowest power of the symbol dividing every power, a base exponential, and
// repeated function applications or sums.
func substitutionTargets(e Expr, symbol string) []Expr {
	var out []Expr
	seen := map[string]bool{}
	add := func(t Expr) {
		if t == nil || seen[t.String()] {
			return
		}
		seen[t.String()] = true
		out = append(out, t)
	}

	if g := powerGCD(e, symbol); g >= 2 {
		add(PowOf(S(symbol), N(float64(g))))
	}
	add(baseExponential(e, symbol))

	counts := map[string]int{}
	nodes := map[string]Expr{}
	var walk func(Expr)
	walk = func(n Expr) {
		if f, ok := n.(*Func); ok && f.kind != KindPow && Contains(f, symbol) || isSumExpr(n) && Contains(n, symbol) {
			k := n.String()
			counts[k]++
			nodes[k] = n
		}
		if f, ok := n.(*Func); ok && f.kind == KindPow && Contains(f.args[0], symbol) && !isSym(f.args[0]) {
			counts[f.args[0].String()]++
			nodes[f.args[0].String()] = f.args[0]
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(e)
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		if counts[k] >= 2 || isTranscendentalOnce(nodes[k], e) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := Complexity(nodes[keys[i]]), Complexity(nodes[keys[j]])
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if nodes[k].Equal(e) {
			continue
		}
		add(nodes[k])
	}
	return out
}

func isSym(e Expr) bool {
	_, ok := e.(*Sym)
	return ok
}

// isTranscendentalOnce reports whether a single function application is
// raised to a power somewhere in e, as in ln(x)^2 = 4.
func isTranscendentalOnce(n, e Expr) bool {
	if _, ok := n.(*Func); !ok {
		return false
	}
	found := false
	var walk func(Expr)
	walk = func(x Expr) {
		if f, ok := x.(*Func); ok && f.kind == KindPow && f.args[0].Equal(n) {
			found = true
		}
		for _, c := range x.Children() {
			walk(c)
		}
	}
	walk(e)
	return found
}

// powerGCD returns the gcd of the integer exponents of symbol in e, or 0
// when the symbol appears any other way.
func powerGCD(e Expr, symbol string) int64 {
	var g int64
	ok := true
	var walk func(Expr)
	walk = func(n Expr) {
		if !ok {
			return
		}
		switch v := n.(type) {
		case *Sym:
			if v.name == symbol {
				g = gcdInt(g, 1)
			}
			return
		case *Func:
			if v.kind == KindPow {
				if s, isSym := v.args[0].(*Sym); isSym && s.name == symbol {
					k, isNum := v.args[1].(*Num)
					if !isNum || !k.IsInteger() || k.Int() == 0 {
						ok = false
						return
					}
					kk := k.Int()
					if kk < 0 {
						kk = -kk
					}
					g = gcdInt(g, kk)
					return
				}
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(e)
	if !ok {
		return 0
	}
	return g
}

// baseExponential finds b^h such that every exponential of the symbol in e
// is b^(k*h) for an integer k.
func baseExponential(e Expr, symbol string) Expr {
	var exps []*Func
	var walk func(Expr)
	walk = func(n Expr) {
		if f, ok := n.(*Func); ok && f.kind == KindPow && !Contains(f.args[0], symbol) && Contains(f.args[1], symbol) {
			exps = append(exps, f)
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(e)
	if len(exps) < 2 {
		return nil
	}
	sort.Slice(exps, func(i, j int) bool { return Complexity(exps[i]) < Complexity(exps[j]) })
	for _, cand := range exps {
		ok := true
		for _, x := range exps {
			if _, isMultiple := exponentMultiple(x, cand); !isMultiple {
				ok = false
				break
			}
		}
		if ok {
			return cand
		}
	}
	return nil
}

// exponentMultiple reports k with x = base^(k*h) when base is target's
// base, or a numeric power of it, and target = base^h.
func exponentMultiple(x, target *Func) (*Num, bool) {
	scale := Expr(N(1))
	if !x.args[0].Equal(target.args[0]) {
		g, ok := commonBase(x.args[0], target.args[0])
		if !ok {
			return nil, false
		}
		mx, _ := integerLog(x.args[0], g)
		mt, _ := integerLog(target.args[0], g)
		if mt == 0 {
			return nil, false
		}
		scale = F(mx, mt)
	}
	k, ok := MulOf(scale, DivOf(x.args[1], target.args[1])).(*Num)
	if !ok || !k.IsInteger() {
		return nil, false
	}
	return k, true
}

// replaceMultiples is Replace extended to exponentials: with target
// b^h, b^(k*h) becomes with^k.
func replaceMultiples(e, target, with Expr) Expr {
	if e.Equal(target) {
		return with
	}
	tf, ok := target.(*Func)
	if !ok || tf.kind != KindPow {
		return Replace(e, target, with)
	}
	if ef, ok := e.(*Func); ok && ef.kind == KindPow {
		if k, ok := exponentMultiple(ef, tf); ok {
			return PowOf(with, k)
		}
	}
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	changed := false
	for i, c := range children {
		r := replaceMultiples(c, target, with)
		if r != c {
			changed = true
		}
		children[i] = r
	}
	if !changed {
		return e
	}
	return e.Rebuild(children).Simplify()
}
