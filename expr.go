// Package gosolve is a symbolic equation solver.
//
// Expressions are immutable trees of numbers, symbols, composite terms and
// function applications. Every rewrite goes through the combinators
// (AddOf, MulOf, PowOf, ...) which keep results in a canonical form, so
// structural equality doubles as algebraic equality for like-term
// combination and cancellation.
//
// The solver classifies an equation by its shape and hands it to a matching
// strategy (linear, quadratic, polynomial, exponential, logarithmic,
// trigonometric, absolute value, fractional, radical, factoring,
// substitution). Strategies recurse through the same dispatcher, bounded by
// the caps held in a SolveContext.
package gosolve

import (
	"fmt"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(name string, value Expr) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	Children() []Expr
	// Rebuild returns a node of the same variant with new children. The
	// result is not simplified.
	Rebuild(children []Expr) Expr
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Sym: variable or named constant
// ============================================================

type Sym struct {
	name     string
	constant bool
}

func S(name string) *Sym { return &Sym{name: name} }

// Pi is the circle constant. It stays symbolic under simplification.
func Pi() *Sym { return &Sym{name: "pi", constant: true} }

// E is Euler's number, the base of natural logarithms.
func E() *Sym { return &Sym{name: "e", constant: true} }

func (s *Sym) Simplify() Expr   { return s }
func (s *Sym) String() string   { return s.name }
func (s *Sym) Name() string     { return s.name }
func (s *Sym) IsConstant() bool { return s.constant }
func (s *Sym) Children() []Expr { return nil }
func (s *Sym) exprType() string { return "sym" }

func (s *Sym) LaTeX() string {
	if s.constant && s.name == "pi" {
		return `\pi`
	}
	return s.name
}

func (s *Sym) Rebuild(children []Expr) Expr {
	if len(children) != 0 {
		panic("gosolve: Sym.Rebuild: symbols have no children")
	}
	return s
}

func (s *Sym) Eval() (*Num, bool) {
	if !s.constant {
		return nil, false
	}
	switch s.name {
	case "pi":
		return N(3.141592653589793), true
	case "e":
		return N(2.718281828459045), true
	}
	return nil, false
}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name && s.constant == o.constant
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if !s.constant && s.name == name {
		return value
	}
	return s
}

func (s *Sym) toJSON() map[string]interface{} {
	if s.constant {
		return map[string]interface{}{"type": "const", "name": s.name}
	}
	return map[string]interface{}{"type": "sym", "name": s.name}
}

// ============================================================
// Term: nodes interleaved with operators
// ============================================================

// Op is the operator between two adjacent nodes of a Term.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var opSymbols = map[Op]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^"}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp maps an operator symbol to its Op.
func ParseOp(s string) (Op, bool) {
	for op, sym := range opSymbols {
		if sym == s {
			return op, true
		}
	}
	return 0, false
}

// Term is a composite expression. A parse-level Term may mix any operators;
// canonical Terms are either sums (add/sub, each node a group) or products
// (mul/div).
type Term struct {
	nodes []Expr
	ops   []Op
}

type termClass int

const (
	classSingle termClass = iota
	classSum
	classProduct
	classPower
	classMixed
)

// NewTerm builds a raw Term. len(ops) must equal len(nodes)-1.
func NewTerm(nodes []Expr, ops []Op) *Term {
	if len(nodes) == 0 || len(ops) != len(nodes)-1 {
		panic(fmt.Sprintf("gosolve: NewTerm: %d nodes need %d operators, got %d", len(nodes), len(nodes)-1, len(ops)))
	}
	return &Term{nodes: append([]Expr(nil), nodes...), ops: append([]Op(nil), ops...)}
}

// Chain builds a raw Term from alternating nodes and operators:
// Chain(x, OpMul, N(2), OpAdd, N(1)).
func Chain(first Expr, rest ...interface{}) *Term {
	if len(rest)%2 != 0 {
		panic("gosolve: Chain: operators and nodes must alternate")
	}
	nodes := []Expr{first}
	ops := make([]Op, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		op, ok := rest[i].(Op)
		if !ok {
			panic(fmt.Sprintf("gosolve: Chain: position %d must be an Op", i+1))
		}
		node, ok := rest[i+1].(Expr)
		if !ok {
			panic(fmt.Sprintf("gosolve: Chain: position %d must be an Expr", i+2))
		}
		ops = append(ops, op)
		nodes = append(nodes, node)
	}
	return NewTerm(nodes, ops)
}

func (t *Term) Nodes() []Expr    { return append([]Expr(nil), t.nodes...) }
func (t *Term) Ops() []Op        { return append([]Op(nil), t.ops...) }
func (t *Term) Children() []Expr { return t.Nodes() }
func (t *Term) exprType() string { return "term" }

func (t *Term) Rebuild(children []Expr) Expr {
	if len(children) != len(t.nodes) {
		panic(fmt.Sprintf("gosolve: Term.Rebuild: want %d children, got %d", len(t.nodes), len(children)))
	}
	return &Term{nodes: append([]Expr(nil), children...), ops: t.ops}
}

func (t *Term) class() termClass {
	if len(t.ops) == 0 {
		return classSingle
	}
	var add, mul, pow bool
	for _, op := range t.ops {
		switch op {
		case OpAdd, OpSub:
			add = true
		case OpMul, OpDiv:
			mul = true
		case OpPow:
			pow = true
		}
	}
	switch {
	case add && !mul && !pow:
		return classSum
	case mul && !add && !pow:
		return classProduct
	case pow && !add && !mul:
		return classPower
	}
	return classMixed
}

func (t *Term) Simplify() Expr {
	switch t.class() {
	case classSingle:
		return t.nodes[0].Simplify()
	case classSum:
		parts := make([]Expr, len(t.nodes))
		parts[0] = t.nodes[0]
		for i, op := range t.ops {
			if op == OpSub {
				parts[i+1] = NegOf(t.nodes[i+1])
			} else {
				parts[i+1] = t.nodes[i+1]
			}
		}
		return AddOf(parts...)
	case classProduct:
		// folded here rather than through MulOf, which simplifies its
		// arguments and would hand this product straight back
		m := monomial{coeff: N(1)}
		for i, n := range t.nodes {
			s := n.Simplify()
			if isUndefined(s) {
				return Undefined()
			}
			nm := toMonomial(s)
			if i > 0 && t.ops[i-1] == OpDiv {
				nm = nm.inverse()
			}
			m = mulMonomials(m, nm)
		}
		return fromMonomial(m)
	}
	return ApplyOrderOfOperations(t).Simplify()
}

func (t *Term) Eval() (*Num, bool) {
	switch t.class() {
	case classSingle:
		return t.nodes[0].Eval()
	case classSum, classProduct:
		acc, ok := t.nodes[0].Eval()
		if !ok {
			return nil, false
		}
		for i, op := range t.ops {
			v, ok := t.nodes[i+1].Eval()
			if !ok {
				return nil, false
			}
			switch op {
			case OpAdd:
				acc = numAdd(acc, v)
			case OpSub:
				acc = numSub(acc, v)
			case OpMul:
				acc = numMul(acc, v)
			case OpDiv:
				acc = numDiv(acc, v)
			}
		}
		if acc.undefined {
			return nil, false
		}
		return acc, true
	}
	return ApplyOrderOfOperations(t).Eval()
}

func (t *Term) Sub(name string, value Expr) Expr {
	children := make([]Expr, len(t.nodes))
	for i, n := range t.nodes {
		children[i] = n.Sub(name, value)
	}
	return t.Rebuild(children).Simplify()
}

func (t *Term) Equal(other Expr) bool {
	o, ok := other.(*Term)
	if !ok || len(o.nodes) != len(t.nodes) {
		return false
	}
	for i := range t.ops {
		if t.ops[i] != o.ops[i] {
			return false
		}
	}
	for i := range t.nodes {
		if !t.nodes[i].Equal(o.nodes[i]) {
			return false
		}
	}
	return true
}

func (t *Term) String() string {
	var b strings.Builder
	cls := t.class()
	for i, n := range t.nodes {
		s := n.String()
		if needsParens(n, cls, i, t.ops) {
			s = "(" + s + ")"
		}
		if i == 0 {
			if cls == classProduct && len(t.ops) > 0 && t.ops[0] == OpMul && isNegOneNode(n) {
				b.WriteString("-")
				continue
			}
			b.WriteString(s)
			continue
		}
		op := t.ops[i-1]
		switch op {
		case OpAdd, OpSub:
			b.WriteString(" " + op.String() + " ")
		default:
			if op == OpMul && i == 1 && isNegOneNode(t.nodes[0]) && cls == classProduct {
				break
			}
			b.WriteString(op.String())
		}
		b.WriteString(s)
	}
	return b.String()
}

func (t *Term) LaTeX() string {
	switch t.class() {
	case classSum:
		var b strings.Builder
		for i, n := range t.nodes {
			s := n.LaTeX()
			if isSumExpr(n) {
				s = `\left(` + s + `\right)`
			}
			if i > 0 {
				b.WriteString(" " + t.ops[i-1].String() + " ")
			}
			b.WriteString(s)
		}
		return b.String()
	case classProduct:
		var num, den []string
		neg := false
		for i, n := range t.nodes {
			if i == 0 && isNegOneNode(n) && len(t.ops) > 0 && t.ops[0] == OpMul {
				neg = true
				continue
			}
			s := n.LaTeX()
			if isSumExpr(n) {
				s = `\left(` + s + `\right)`
			}
			if i > 0 && t.ops[i-1] == OpDiv {
				den = append(den, s)
			} else {
				num = append(num, s)
			}
		}
		out := strings.Join(num, ` \cdot `)
		if len(num) == 0 {
			out = "1"
		}
		if len(den) > 0 {
			out = `\frac{` + out + `}{` + strings.Join(den, ` \cdot `) + `}`
		}
		if neg {
			out = "-" + out
		}
		return out
	}
	return ApplyOrderOfOperations(t).LaTeX()
}

func (t *Term) toJSON() map[string]interface{} {
	nodes := make([]map[string]interface{}, len(t.nodes))
	for i, n := range t.nodes {
		nodes[i] = n.toJSON()
	}
	ops := make([]string, len(t.ops))
	for i, op := range t.ops {
		ops[i] = op.String()
	}
	return map[string]interface{}{"type": "term", "nodes": nodes, "ops": ops}
}

func needsParens(n Expr, cls termClass, i int, ops []Op) bool {
	switch v := n.(type) {
	case *Term:
		if cls == classSum {
			return i > 0 && ops[i-1] == OpSub && v.class() == classSum
		}
		if cls == classProduct && v.class() == classProduct {
			return i > 0 && ops[i-1] == OpDiv
		}
		return v.class() != classSingle
	case *Num:
		if cls == classProduct && i > 0 {
			return v.IsNegative() || !v.IsReal()
		}
		if cls == classSum && i > 0 {
			return v.IsNegative() && ops[i-1] == OpSub
		}
	}
	return false
}

func isNegOneNode(n Expr) bool {
	v, ok := n.(*Num)
	return ok && v.IsNegOne()
}

func isSumExpr(e Expr) bool {
	t, ok := e.(*Term)
	return ok && t.class() == classSum
}

func isProductExpr(e Expr) bool {
	t, ok := e.(*Term)
	return ok && t.class() == classProduct
}

func isUndefined(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.undefined
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(e Expr, name string, value Expr) Expr { return e.Sub(name, value) }

// SubAll substitutes every binding in turn.
func SubAll(e Expr, bindings map[string]Expr) Expr {
	for name, v := range bindings {
		e = e.Sub(name, v)
	}
	return e
}
