package gosolve

import "sort"

// ============================================================
// Canonicalizer
// ============================================================

// maxCanonicalPasses caps the fixpoint loop in Canonicalize.
const maxCanonicalPasses = 20

// ApplyOrderOfOperations turns flat operator sequences into a well-formed
// tree: ^ binds tightest and associates right, then * and /, then + and -.
// No arithmetic is performed.
func ApplyOrderOfOperations(e Expr) Expr {
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	for i, c := range children {
		children[i] = ApplyOrderOfOperations(c)
	}
	t, ok := e.(*Term)
	if !ok {
		return e.Rebuild(children)
	}
	return orderTerm(children, t.ops)
}

func orderTerm(nodes []Expr, ops []Op) Expr {
	var ns []Expr
	var os []Op
	for i := 0; i < len(nodes); {
		j := i
		for j < len(ops) && ops[j] == OpPow {
			j++
		}
		v := nodes[j]
		for k := j - 1; k >= i; k-- {
			v = &Func{kind: KindPow, args: []Expr{nodes[k], v}}
		}
		ns = append(ns, v)
		if j < len(ops) {
			os = append(os, ops[j])
		}
		i = j + 1
	}

	var sumNodes []Expr
	var sumOps []Op
	start := 0
	for k := 0; k <= len(os); k++ {
		if k < len(os) && os[k] != OpAdd && os[k] != OpSub {
			continue
		}
		if k == start {
			sumNodes = append(sumNodes, ns[start])
		} else {
			sumNodes = append(sumNodes, &Term{
				nodes: append([]Expr(nil), ns[start:k+1]...),
				ops:   append([]Op(nil), os[start:k]...),
			})
		}
		if k < len(os) {
			sumOps = append(sumOps, os[k])
		}
		start = k + 1
	}
	if len(sumNodes) == 1 {
		return sumNodes[0]
	}
	return &Term{nodes: sumNodes, ops: sumOps}
}

// MakeWorkable folds numeric-only subexpressions into numbers. Folding never
// crosses a domain-illegal operation: division by zero, logarithms of
// non-positive values and even roots of negatives stay unevaluated, as do
// inexact constants such as 2^(1/2).
func MakeWorkable(e Expr) Expr {
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	for i, c := range children {
		children[i] = MakeWorkable(c)
	}
	switch v := e.(type) {
	case *Term:
		t := &Term{nodes: children, ops: v.ops}
		if t.class() == classMixed || t.class() == classPower {
			return MakeWorkable(ApplyOrderOfOperations(t))
		}
		return foldTerm(t)
	case *Func:
		f := &Func{kind: v.kind, name: v.name, args: children}
		if v.kind == KindOpaque || v.kind == KindSum || !allNumbers(children) {
			return f
		}
		if r, ok := f.Eval(); ok && (v.kind == KindAbs || exact(r)) {
			return snapRational(r)
		}
		return f
	}
	return e.Rebuild(children)
}

func allNumbers(es []Expr) bool {
	for _, e := range es {
		if _, ok := e.(*Num); !ok {
			return false
		}
	}
	return true
}

// foldTerm combines the numeric nodes of a sum or product Term.
func foldTerm(t *Term) Expr {
	if t.class() == classSingle {
		return t.nodes[0]
	}
	if allNumbers(t.nodes) {
		if v, ok := t.Eval(); ok {
			return v
		}
		return t
	}
	if t.class() == classProduct {
		// only pure multiplication chains are reordered
		for _, op := range t.ops {
			if op != OpMul {
				return t
			}
		}
	}
	acc := (*Num)(nil)
	var nodes []Expr
	var ops []Op
	for i, n := range t.nodes {
		op := OpAdd
		if t.class() == classProduct {
			op = OpMul
		}
		if i > 0 {
			op = t.ops[i-1]
		}
		if v, ok := n.(*Num); ok {
			switch op {
			case OpSub:
				v = numNeg(v)
			}
			if acc == nil {
				acc = v
			} else if t.class() == classProduct {
				acc = numMul(acc, v)
			} else {
				acc = numAdd(acc, v)
			}
			continue
		}
		if len(nodes) > 0 {
			ops = append(ops, op)
		} else if op == OpSub {
			n = &Term{nodes: []Expr{N(-1), n}, ops: []Op{OpMul}}
		}
		nodes = append(nodes, n)
	}
	if acc == nil {
		return t
	}
	if t.class() == classProduct {
		if acc.IsOne() {
			return singleOrTerm(nodes, ops)
		}
		return singleOrTerm(append([]Expr{acc}, nodes...), append([]Op{OpMul}, ops...))
	}
	if acc.IsZero() {
		return singleOrTerm(nodes, ops)
	}
	if acc.IsNegative() {
		return singleOrTerm(append(nodes, numNeg(acc)), append(ops, OpSub))
	}
	return singleOrTerm(append(nodes, acc), append(ops, OpAdd))
}

func singleOrTerm(nodes []Expr, ops []Op) Expr {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &Term{nodes: nodes, ops: ops}
}

// RemoveRedundancies drops identities (+0, *1, ^1, ^0), unwraps singleton
// Terms and splices nested Terms of the same precedence into their parent.
func RemoveRedundancies(e Expr) Expr {
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	for i, c := range children {
		children[i] = RemoveRedundancies(c)
	}
	switch v := e.(type) {
	case *Func:
		if v.kind == KindPow {
			switch {
			case IsZero(children[1]):
				return N(1)
			case IsOne(children[1]):
				return children[0]
			}
		}
		return v.Rebuild(children)
	case *Term:
		return pruneTerm(&Term{nodes: children, ops: v.ops})
	}
	return e.Rebuild(children)
}

func pruneTerm(t *Term) Expr {
	cls := t.class()
	if cls != classSum && cls != classProduct {
		return singleOrTerm(t.nodes, t.ops)
	}
	var nodes []Expr
	var ops []Op
	push := func(op Op, n Expr) {
		if len(nodes) == 0 {
			switch op {
			case OpSub:
				n = &Term{nodes: []Expr{N(-1), n}, ops: []Op{OpMul}}
			case OpDiv:
				nodes = append(nodes, N(1))
				ops = append(ops, op)
			}
		} else {
			ops = append(ops, op)
		}
		nodes = append(nodes, n)
	}
	for i, n := range t.nodes {
		op := OpAdd
		if cls == classProduct {
			op = OpMul
		}
		if i > 0 {
			op = t.ops[i-1]
		}
		inner, nested := n.(*Term)
		switch {
		case cls == classSum && IsZero(n):
			continue
		case cls == classProduct && IsOne(n):
			continue
		case cls == classProduct && op == OpMul && IsZero(n):
			return N(0)
		case nested && inner.class() == cls:
			push(op, inner.nodes[0])
			for j, in := range inner.nodes[1:] {
				push(flipOp(op, inner.ops[j]), in)
			}
			continue
		}
		push(op, n)
	}
	if len(nodes) == 0 {
		if cls == classSum {
			return N(0)
		}
		return N(1)
	}
	return singleOrTerm(nodes, ops)
}

// flipOp returns the operator an inner op becomes after splicing behind outer.
func flipOp(outer, inner Op) Op {
	switch {
	case outer == OpSub && inner == OpAdd:
		return OpSub
	case outer == OpSub && inner == OpSub:
		return OpAdd
	case outer == OpDiv && inner == OpMul:
		return OpDiv
	case outer == OpDiv && inner == OpDiv:
		return OpMul
	}
	return inner
}

// Canonicalize runs every pass to a fixpoint. The result is idempotent:
// Canonicalize(Canonicalize(e)) equals Canonicalize(e).
func Canonicalize(e Expr) Expr {
	prev := ""
	for i := 0; i < maxCanonicalPasses; i++ {
		e = RemoveRedundancies(MakeWorkable(ApplyOrderOfOperations(e))).Simplify()
		s := e.String()
		if s == prev {
			break
		}
		prev = s
	}
	return e
}

// AreEqual reports whether a and b are equal after canonicalization; numeric
// values compare within tolerance, so 0.5 equals 1/2.
func AreEqual(a, b Expr) bool {
	ca, cb := Canonicalize(a), Canonicalize(b)
	if ca.Equal(cb) {
		return true
	}
	return IsZero(SubOf(ca, cb))
}

// ============================================================
// Predicates and queries
// ============================================================

func IsZero(e Expr) bool {
	if n, ok := e.(*Num); ok {
		return n.IsZero()
	}
	n, ok := e.Simplify().(*Num)
	return ok && n.IsZero()
}

func IsOne(e Expr) bool {
	if n, ok := e.(*Num); ok {
		return n.IsOne()
	}
	n, ok := e.Simplify().(*Num)
	return ok && n.IsOne()
}

// Contains reports whether the variable name occurs anywhere in e.
func Contains(e Expr, name string) bool {
	if s, ok := e.(*Sym); ok {
		return !s.constant && s.name == name
	}
	for _, c := range e.Children() {
		if Contains(c, name) {
			return true
		}
	}
	return false
}

func hasVariables(e Expr) bool {
	if s, ok := e.(*Sym); ok {
		return !s.constant
	}
	for _, c := range e.Children() {
		if hasVariables(c) {
			return true
		}
	}
	return false
}

// FreeSymbols returns the variable names of e; pi and e are excluded.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	if s, ok := e.(*Sym); ok {
		if !s.constant {
			out[s.name] = struct{}{}
		}
		return
	}
	for _, c := range e.Children() {
		collectSymbols(c, out)
	}
}

// SortedSymbols returns FreeSymbols in lexical order.
func SortedSymbols(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CountSymbols maps every variable of e to its number of occurrences.
func CountSymbols(e Expr) map[string]int {
	out := map[string]int{}
	var walk func(Expr)
	walk = func(e Expr) {
		if s, ok := e.(*Sym); ok {
			if !s.constant {
				out[s.name]++
			}
			return
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(e)
	return out
}

// Groups returns the signed additive groups of e.
func Groups(e Expr) []Expr {
	ms := toSum(e.Simplify())
	out := make([]Expr, len(ms))
	for i, m := range ms {
		out[i] = fromMonomial(m)
	}
	return out
}

// Factors returns the multiplicative factors of a single group, numeric
// coefficient first when it is not 1.
func Factors(e Expr) []Expr {
	s := e.Simplify()
	if isSumExpr(s) {
		return []Expr{s}
	}
	m := toMonomial(s)
	var out []Expr
	if !m.coeff.IsOne() || len(m.factors) == 0 {
		out = append(out, m.coeff)
	}
	for _, f := range m.factors {
		out = append(out, f.expr())
	}
	return out
}

// NumeratorDenominator splits a single group into the part with positive
// powers and the part with negative numeric powers.
func NumeratorDenominator(e Expr) (Expr, Expr) {
	s := e.Simplify()
	if isSumExpr(s) {
		return s, N(1)
	}
	m := toMonomial(s)
	num := monomial{coeff: N(1)}
	den := monomial{coeff: N(1)}
	if p, q, ok := m.coeff.Rational(); ok {
		num.coeff, den.coeff = N(float64(p)), N(float64(q))
	} else {
		num.coeff = m.coeff
	}
	for _, f := range m.factors {
		if en, ok := f.exp.(*Num); ok && en.IsNegative() {
			den.factors = append(den.factors, factor{base: f.base, exp: numNeg(en)})
			continue
		}
		num.factors = append(num.factors, f)
	}
	return fromMonomial(num), fromMonomial(den)
}

// Replace substitutes every structural occurrence of target in e. When
// target is a power b^k, occurrences b^m with m a multiple of k become
// with^(m/k).
func Replace(e, target, with Expr) Expr {
	if e.Equal(target) {
		return with
	}
	if tp, ok := target.(*Func); ok && tp.kind == KindPow {
		if ep, ok := e.(*Func); ok && ep.kind == KindPow && ep.args[0].Equal(tp.args[0]) {
			tk, ok1 := tp.args[1].(*Num)
			ek, ok2 := ep.args[1].(*Num)
			if ok1 && ok2 && !tk.IsZero() {
				if r := numDiv(ek, tk); r.IsInteger() {
					return PowOf(with, r)
				}
			}
		}
	}
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	changed := false
	for i, c := range children {
		r := Replace(c, target, with)
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

// Complexity is a weighted node count: leaves cost 1, operators 2 and
// function applications 3 plus their arguments.
func Complexity(e Expr) int {
	switch v := e.(type) {
	case *Num, *Sym:
		return 1
	case *Term:
		c := 2 * len(v.ops)
		for _, n := range v.nodes {
			c += Complexity(n)
		}
		return c
	case *Func:
		c := 3
		if v.kind == KindPow {
			c = 2
		}
		for _, a := range v.args {
			c += Complexity(a)
		}
		return c
	}
	return 1
}
