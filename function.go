package gosolve

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================
// Func: function application with a per-kind capability table
// ============================================================

type FunctionKind int

const (
	KindAbs FunctionKind = iota
	KindPow
	KindLog
	KindSin
	KindCos
	KindTan
	KindCsc
	KindSec
	KindCot
	KindAsin
	KindAcos
	KindAtan
	KindAcsc
	KindAsec
	KindAcot
	KindFactorial
	KindChoose
	KindPermute
	KindSum
	// KindOpaque carries kinds the solver never looks inside (derivatives,
	// integrals, matrices). They take part in structural equality only.
	KindOpaque
)

// seriesTermCap bounds the number of terms a Sum application expands into.
const seriesTermCap = 1000

type capability struct {
	name  string
	latex string
	arity int
	eval  func(args []float64) (float64, bool)
	// period of a periodic function in radians, 0 otherwise.
	period float64
	// inverse maps a forward trig kind to its inverse and back.
	inverse    FunctionKind
	hasInverse bool
	// reciprocal maps csc/sec/cot to sin/cos/tan.
	reciprocal    FunctionKind
	hasReciprocal bool
}

var capabilities = map[FunctionKind]capability{
	KindAbs: {name: "abs", arity: 1, eval: func(a []float64) (float64, bool) { return math.Abs(a[0]), true }},
	KindPow: {name: "pow", arity: 2},
	KindLog: {name: "log", latex: `\log`, arity: 2, eval: func(a []float64) (float64, bool) {
		if a[0] <= 0 || a[1] <= 0 || a[1] == 1 {
			return 0, false
		}
		return math.Log(a[0]) / math.Log(a[1]), true
	}},
	KindSin: {name: "sin", latex: `\sin`, arity: 1, period: 2 * math.Pi, inverse: KindAsin, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Sin(a[0]), true }},
	KindCos: {name: "cos", latex: `\cos`, arity: 1, period: 2 * math.Pi, inverse: KindAcos, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Cos(a[0]), true }},
	KindTan: {name: "tan", latex: `\tan`, arity: 1, period: math.Pi, inverse: KindAtan, hasInverse: true,
		eval: func(a []float64) (float64, bool) {
			if closeTo(math.Cos(a[0]), 0) {
				return 0, false
			}
			return math.Tan(a[0]), true
		}},
	KindCsc: {name: "csc", latex: `\csc`, arity: 1, period: 2 * math.Pi, inverse: KindAcsc, hasInverse: true,
		reciprocal: KindSin, hasReciprocal: true,
		eval: func(a []float64) (float64, bool) { return recip(math.Sin(a[0])) }},
	KindSec: {name: "sec", latex: `\sec`, arity: 1, period: 2 * math.Pi, inverse: KindAsec, hasInverse: true,
		reciprocal: KindCos, hasReciprocal: true,
		eval: func(a []float64) (float64, bool) { return recip(math.Cos(a[0])) }},
	KindCot: {name: "cot", latex: `\cot`, arity: 1, period: math.Pi, inverse: KindAcot, hasInverse: true,
		reciprocal: KindTan, hasReciprocal: true,
		eval: func(a []float64) (float64, bool) { return recip(math.Tan(a[0])) }},
	KindAsin: {name: "asin", latex: `\arcsin`, arity: 1, inverse: KindSin, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Asin(a[0]), math.Abs(a[0]) <= 1 }},
	KindAcos: {name: "acos", latex: `\arccos`, arity: 1, inverse: KindCos, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Acos(a[0]), math.Abs(a[0]) <= 1 }},
	KindAtan: {name: "atan", latex: `\arctan`, arity: 1, inverse: KindTan, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Atan(a[0]), true }},
	KindAcsc: {name: "acsc", latex: `\operatorname{arccsc}`, arity: 1, inverse: KindCsc, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Asin(1 / a[0]), math.Abs(a[0]) >= 1 }},
	KindAsec: {name: "asec", latex: `\operatorname{arcsec}`, arity: 1, inverse: KindSec, hasInverse: true,
		eval: func(a []float64) (float64, bool) { return math.Acos(1 / a[0]), math.Abs(a[0]) >= 1 }},
	KindAcot: {name: "acot", latex: `\operatorname{arccot}`, arity: 1, inverse: KindCot, hasInverse: true,
		eval: func(a []float64) (float64, bool) {
			if a[0] == 0 {
				return math.Pi / 2, true
			}
			return math.Atan(1 / a[0]), true
		}},
	KindFactorial: {name: "factorial", arity: 1, eval: func(a []float64) (float64, bool) {
		if !isInt(a[0]) || a[0] < 0 || a[0] > 170 {
			return 0, false
		}
		v, _ := math.Lgamma(math.Round(a[0]) + 1)
		return math.Round(math.Exp(v)), true
	}},
	KindChoose: {name: "choose", arity: 2, eval: func(a []float64) (float64, bool) {
		n, k, ok := combinatorialArgs(a)
		if !ok {
			return 0, false
		}
		return math.Round(fact(n) / (fact(k) * fact(n-k))), true
	}},
	KindPermute: {name: "permute", arity: 2, eval: func(a []float64) (float64, bool) {
		n, k, ok := combinatorialArgs(a)
		if !ok {
			return 0, false
		}
		return math.Round(fact(n) / fact(n-k)), true
	}},
	KindSum:    {name: "sum", arity: 4},
	KindOpaque: {name: "opaque", arity: -1},
}

func recip(v float64) (float64, bool) {
	if closeTo(v, 0) {
		return 0, false
	}
	return 1 / v, true
}

func fact(n float64) float64 {
	v, _ := math.Lgamma(n + 1)
	return math.Exp(v)
}

func combinatorialArgs(a []float64) (float64, float64, bool) {
	if !isInt(a[0]) || !isInt(a[1]) {
		return 0, 0, false
	}
	n, k := math.Round(a[0]), math.Round(a[1])
	if n < 0 || k < 0 || k > n || n > 170 {
		return 0, 0, false
	}
	return n, k, true
}

func (k FunctionKind) String() string {
	if c, ok := capabilities[k]; ok {
		return c.name
	}
	return fmt.Sprintf("FunctionKind(%d)", int(k))
}

// ParseFunctionKind maps a function name to its kind.
func ParseFunctionKind(name string) (FunctionKind, bool) {
	for k, c := range capabilities {
		if c.name == name {
			return k, true
		}
	}
	return 0, false
}

// IsTrig reports whether k is a forward or inverse trigonometric kind.
func (k FunctionKind) IsTrig() bool { return k >= KindSin && k <= KindAcot }

// IsInverseTrig reports whether k is one of asin .. acot.
func (k FunctionKind) IsInverseTrig() bool { return k >= KindAsin && k <= KindAcot }

// Period returns the period of a periodic kind.
func (k FunctionKind) Period() (Expr, bool) {
	switch capabilities[k].period {
	case 2 * math.Pi:
		return MulOf(N(2), Pi()), true
	case math.Pi:
		return Pi(), true
	}
	return nil, false
}

// Inverse returns the kind that undoes k.
func (k FunctionKind) Inverse() (FunctionKind, bool) {
	c := capabilities[k]
	return c.inverse, c.hasInverse
}

type Func struct {
	kind FunctionKind
	name string
	args []Expr
}

func apply(kind FunctionKind, args ...Expr) Expr {
	return (&Func{kind: kind, args: args}).Simplify()
}

func AbsOf(arg Expr) Expr  { return apply(KindAbs, arg) }
func SinOf(arg Expr) Expr  { return apply(KindSin, arg) }
func CosOf(arg Expr) Expr  { return apply(KindCos, arg) }
func TanOf(arg Expr) Expr  { return apply(KindTan, arg) }
func CscOf(arg Expr) Expr  { return apply(KindCsc, arg) }
func SecOf(arg Expr) Expr  { return apply(KindSec, arg) }
func CotOf(arg Expr) Expr  { return apply(KindCot, arg) }
func AsinOf(arg Expr) Expr { return apply(KindAsin, arg) }
func AcosOf(arg Expr) Expr { return apply(KindAcos, arg) }
func AtanOf(arg Expr) Expr { return apply(KindAtan, arg) }
func AcscOf(arg Expr) Expr { return apply(KindAcsc, arg) }
func AsecOf(arg Expr) Expr { return apply(KindAsec, arg) }
func AcotOf(arg Expr) Expr { return apply(KindAcot, arg) }

// LogOf is the logarithm of arg in the given base.
func LogOf(arg, base Expr) Expr { return apply(KindLog, arg, base) }
func LnOf(arg Expr) Expr        { return LogOf(arg, E()) }
func Log10Of(arg Expr) Expr     { return LogOf(arg, N(10)) }
func SqrtOf(arg Expr) Expr      { return PowOf(arg, F(1, 2)) }

// RootOf is the n-th root of arg.
func RootOf(arg Expr, n int64) Expr { return PowOf(arg, F(1, n)) }

// FactorialOf is n!.
func FactorialOf(n Expr) Expr { return apply(KindFactorial, n) }

// ChooseOf is the binomial coefficient n choose k.
func ChooseOf(n, k Expr) Expr { return apply(KindChoose, n, k) }

// PermuteOf counts the ordered selections of k from n.
func PermuteOf(n, k Expr) Expr { return apply(KindPermute, n, k) }

// SumOf is the finite series of body for index running from..to inclusive.
func SumOf(body Expr, index string, from, to Expr) Expr {
	return apply(KindSum, body, S(index), from, to)
}

// OpaqueOf wraps a function the solver treats as a black box.
func OpaqueOf(name string, args ...Expr) Expr {
	return (&Func{kind: KindOpaque, name: name, args: args}).Simplify()
}

// NewFunc builds an application of kind without simplifying it.
func NewFunc(kind FunctionKind, args ...Expr) *Func {
	if c, ok := capabilities[kind]; ok && c.arity >= 0 && len(args) != c.arity {
		panic(fmt.Sprintf("gosolve: NewFunc: %s takes %d arguments, got %d", c.name, c.arity, len(args)))
	}
	return &Func{kind: kind, args: append([]Expr(nil), args...)}
}

func (f *Func) Kind() FunctionKind { return f.kind }
func (f *Func) Args() []Expr       { return append([]Expr(nil), f.args...) }
func (f *Func) Children() []Expr   { return f.Args() }
func (f *Func) exprType() string   { return "func" }

// Name is the display name; opaque applications carry their own.
func (f *Func) Name() string {
	if f.kind == KindOpaque {
		return f.name
	}
	return f.kind.String()
}

func (f *Func) Rebuild(children []Expr) Expr {
	if len(children) != len(f.args) {
		panic(fmt.Sprintf("gosolve: Func.Rebuild: %s wants %d children, got %d", f.Name(), len(f.args), len(children)))
	}
	return &Func{kind: f.kind, name: f.name, args: append([]Expr(nil), children...)}
}

func (f *Func) Simplify() Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		if f.kind == KindSum && i == 1 {
			args[i] = a
			continue
		}
		args[i] = a.Simplify()
		if isUndefined(args[i]) {
			return Undefined()
		}
	}
	switch f.kind {
	case KindPow:
		return powOf(args[0], args[1])
	case KindLog:
		return logOf(args[0], args[1])
	case KindAbs:
		return absOf(args[0])
	case KindSum:
		return seriesOf(args)
	case KindOpaque:
		return &Func{kind: f.kind, name: f.name, args: args}
	}
	g := &Func{kind: f.kind, args: args}
	if len(args) == 1 {
		if inner, ok := args[0].(*Func); ok && !f.kind.IsInverseTrig() {
			if inv, ok := f.kind.Inverse(); ok && inner.kind == inv {
				return inner.args[0]
			}
		}
	}
	if !hasVariables(g) {
		if v, ok := g.Eval(); ok && exact(v) {
			return snapRational(v)
		}
	}
	return g
}

func logOf(arg, base Expr) Expr {
	raw := &Func{kind: KindLog, args: []Expr{arg, base}}
	if arg.Equal(base) {
		return N(1)
	}
	if IsOne(arg) {
		return N(0)
	}
	if p, ok := arg.(*Func); ok && p.kind == KindPow && p.args[0].Equal(base) {
		return p.args[1]
	}
	if !hasVariables(raw) {
		if v, ok := raw.Eval(); ok && exact(v) {
			return snapRational(v)
		}
	}
	return raw
}

func absOf(arg Expr) Expr {
	if n, ok := arg.(*Num); ok {
		return numAbs(n)
	}
	if inner, ok := arg.(*Func); ok && inner.kind == KindAbs {
		return inner
	}
	if !isSumExpr(arg) {
		m := toMonomial(arg)
		if m.coeff.IsReal() && !m.coeff.IsOne() && len(m.factors) > 0 {
			rest := fromMonomial(monomial{coeff: N(1), factors: m.factors})
			return MulOf(numAbs(m.coeff), &Func{kind: KindAbs, args: []Expr{rest}})
		}
	}
	if !hasVariables(arg) {
		if v, ok := arg.Eval(); ok && v.IsReal() {
			if v.re >= 0 {
				return arg
			}
			return NegOf(arg)
		}
	}
	return &Func{kind: KindAbs, args: []Expr{arg}}
}

func seriesOf(args []Expr) Expr {
	raw := &Func{kind: KindSum, args: args}
	idx, ok := args[1].(*Sym)
	if !ok {
		return raw
	}
	from, ok1 := args[2].(*Num)
	to, ok2 := args[3].(*Num)
	if !ok1 || !ok2 || !from.IsInteger() || !to.IsInteger() {
		return raw
	}
	lo, hi := from.Int(), to.Int()
	if hi < lo {
		return N(0)
	}
	if hi-lo+1 > seriesTermCap {
		return raw
	}
	terms := make([]Expr, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		terms = append(terms, args[0].Sub(idx.name, N(float64(i))))
	}
	return AddOf(terms...)
}

func (f *Func) Eval() (*Num, bool) {
	switch f.kind {
	case KindOpaque:
		return nil, false
	case KindSum:
		s := seriesOf(f.args)
		if sf, ok := s.(*Func); ok && sf.kind == KindSum {
			return nil, false
		}
		return s.Eval()
	}
	vals := make([]*Num, len(f.args))
	for i, a := range f.args {
		v, ok := a.Eval()
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	switch f.kind {
	case KindPow:
		v, ok := numPow(vals[0], vals[1])
		if !ok || v.undefined {
			return nil, false
		}
		return v, true
	case KindAbs:
		return numAbs(vals[0]), true
	}
	floats := make([]float64, len(vals))
	for i, v := range vals {
		if !v.IsReal() {
			return nil, false
		}
		floats[i] = v.re
	}
	r, ok := capabilities[f.kind].eval(floats)
	if !ok {
		return nil, false
	}
	v := N(r)
	if v.undefined {
		return nil, false
	}
	return v, true
}

func (f *Func) Sub(name string, value Expr) Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		if f.kind == KindSum {
			if idx, ok := f.args[1].(*Sym); ok && idx.name == name && i < 2 {
				args[i] = a
				continue
			}
		}
		args[i] = a.Sub(name, value)
	}
	return f.Rebuild(args).Simplify()
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	if !ok || o.kind != f.kind || o.name != f.name || len(o.args) != len(f.args) {
		return false
	}
	for i := range f.args {
		if !f.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (f *Func) String() string {
	switch f.kind {
	case KindPow:
		return powString(f.args[0], f.args[1])
	case KindAbs:
		return "|" + f.args[0].String() + "|"
	case KindLog:
		arg := f.args[0].String()
		switch {
		case f.args[1].Equal(E()):
			return "ln(" + arg + ")"
		case f.args[1].Equal(N(10)):
			return "log(" + arg + ")"
		}
		base := f.args[1].String()
		if _, compound := f.args[1].(*Term); compound {
			base = "(" + base + ")"
		}
		return "log_" + base + "(" + arg + ")"
	case KindFactorial:
		s := f.args[0].String()
		if _, ok := f.args[0].(*Term); ok {
			s = "(" + s + ")"
		}
		return s + "!"
	}
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.Name() + "(" + strings.Join(parts, ", ") + ")"
}

func powString(base, exp Expr) string {
	b, e := base.String(), exp.String()
	if atomicOperand(base) {
		b = "(" + b + ")"
	}
	if atomicOperand(exp) {
		e = "(" + e + ")"
	}
	return b + "^" + e
}

// atomicOperand reports whether e must be parenthesised as a power operand.
func atomicOperand(e Expr) bool {
	switch v := e.(type) {
	case *Term:
		return true
	case *Num:
		_, q, ok := v.Rational()
		return v.IsNegative() || !v.IsReal() || (ok && q != 1) || !ok
	case *Func:
		return v.kind == KindPow
	}
	return false
}

func (f *Func) LaTeX() string {
	switch f.kind {
	case KindPow:
		if n, ok := f.args[1].(*Num); ok && n.Equal(F(1, 2)) {
			return `\sqrt{` + f.args[0].LaTeX() + `}`
		}
		b := f.args[0].LaTeX()
		if atomicOperand(f.args[0]) {
			b = `\left(` + b + `\right)`
		}
		return b + "^{" + f.args[1].LaTeX() + "}"
	case KindAbs:
		return `\left|` + f.args[0].LaTeX() + `\right|`
	case KindLog:
		arg := `\left(` + f.args[0].LaTeX() + `\right)`
		switch {
		case f.args[1].Equal(E()):
			return `\ln` + arg
		case f.args[1].Equal(N(10)):
			return `\log` + arg
		}
		return `\log_{` + f.args[1].LaTeX() + `}` + arg
	case KindFactorial:
		return f.args[0].LaTeX() + "!"
	case KindChoose:
		return `\binom{` + f.args[0].LaTeX() + `}{` + f.args[1].LaTeX() + `}`
	case KindSum:
		return `\sum_{` + f.args[1].LaTeX() + `=` + f.args[2].LaTeX() + `}^{` + f.args[3].LaTeX() + `} ` + f.args[0].LaTeX()
	}
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.LaTeX()
	}
	cmd := capabilities[f.kind].latex
	if cmd == "" {
		cmd = `\operatorname{` + f.Name() + `}`
	}
	return cmd + `\left(` + strings.Join(parts, ", ") + `\right)`
}

func (f *Func) toJSON() map[string]interface{} {
	args := make([]map[string]interface{}, len(f.args))
	for i, a := range f.args {
		args[i] = a.toJSON()
	}
	return map[string]interface{}{"type": "func", "name": f.Name(), "opaque": f.kind == KindOpaque, "args": args}
}
