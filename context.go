package gosolve

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

// ============================================================
// Options
// ============================================================

// QuadraticMethod selects how quadratics are solved first.
type QuadraticMethod int

const (
	// QuadraticFactor tries integer factor pairs, then the formula.
	QuadraticFactor QuadraticMethod = iota
	// QuadraticFormula uses the discriminant directly.
	QuadraticFormula
	// QuadraticCompleteSquare rewrites to (x + b/2a)^2 = k and solves that.
	QuadraticCompleteSquare
)

func (m QuadraticMethod) String() string {
	switch m {
	case QuadraticFactor:
		return "factor"
	case QuadraticFormula:
		return "formula"
	case QuadraticCompleteSquare:
		return "complete-square"
	}
	return fmt.Sprintf("QuadraticMethod(%d)", int(m))
}

// ParseQuadraticMethod accepts "factor", "formula" and "complete-square".
func ParseQuadraticMethod(s string) (QuadraticMethod, bool) {
	for _, m := range []QuadraticMethod{QuadraticFactor, QuadraticFormula, QuadraticCompleteSquare} {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

// Default guard caps; see the matching With options.
const (
	// DefaultMaxLinearRepeats bounds how often the linear strategy
	// re-dispatches a rewritten equation.
	DefaultMaxLinearRepeats = 3

	// DefaultMaxEquations is the largest system SolveSystem accepts.
	DefaultMaxEquations = 3

	// DefaultMaxDepth bounds the recursion of the dispatcher.
	DefaultMaxDepth = 48
)

// Options configure an AlgebraSolver.
type Options struct {
	QuadraticMethod  QuadraticMethod
	ComplexMode      bool
	MaxLinearRepeats int
	MaxEquations     int
	MaxDepth         int
	Logger           *slog.Logger
	Steps            StepLogger
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		QuadraticMethod:  QuadraticFactor,
		MaxLinearRepeats: DefaultMaxLinearRepeats,
		MaxEquations:     DefaultMaxEquations,
		MaxDepth:         DefaultMaxDepth,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		Steps:            NopSteps{},
	}
}

// WithQuadraticMethod selects the first quadratic method tried.
func WithQuadraticMethod(m QuadraticMethod) Option {
	return func(o *Options) { o.QuadraticMethod = m }
}

// WithComplexMode makes negative discriminants yield complex conjugate roots.
func WithComplexMode(on bool) Option {
	return func(o *Options) { o.ComplexMode = on }
}

// WithMaxLinearRepeats caps linear re-dispatches. Non-positive values are ignored.
func WithMaxLinearRepeats(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxLinearRepeats = n
		}
	}
}

// WithMaxEquations caps the size of systems. Non-positive values are ignored.
func WithMaxEquations(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxEquations = n
		}
	}
}

// WithMaxDepth caps dispatcher recursion. Non-positive values are ignored.
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxDepth = n
		}
	}
}

// WithLogger sets the debug logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSteps sets the work-step collaborator. A nil logger is ignored.
func WithSteps(s StepLogger) Option {
	return func(o *Options) {
		if s != nil {
			o.Steps = s
		}
	}
}

// ============================================================
// SolveContext
// ============================================================

// SolveContext is the mutable state of one top-level solve. It is owned by
// that call and passed down by pointer; it is never shared between calls.
type SolveContext struct {
	solver *AlgebraSolver
	opts   Options
	log    *slog.Logger
	steps  StepLogger

	reserved      map[string]bool
	linearRepeats int
	depth         int
	comparison    Comparison
	signFlips     int

	strategy     string
	restrictions []Restriction
	messages     []string
	partial      bool
}

func newSolveContext(s *AlgebraSolver, c Comparison, reserved []string) *SolveContext {
	ctx := &SolveContext{
		solver:     s,
		opts:       s.opts,
		log:        s.opts.Logger,
		steps:      s.opts.Steps,
		reserved:   map[string]bool{},
		comparison: c,
	}
	for _, name := range reserved {
		ctx.reserved[name] = true
	}
	return ctx
}

// Comparison is the relation currently being solved.
func (ctx *SolveContext) Comparison() Comparison { return ctx.comparison }

// SignFlips counts side swaps and divisions by negative numbers.
func (ctx *SolveContext) SignFlips() int { return ctx.signFlips }

// Solve is the recursive entry point strategies use for sub-problems.
func (ctx *SolveContext) Solve(symbol string, left, right Expr) ([]Solution, bool) {
	return ctx.solver.dispatch(ctx, symbol, left, right)
}

// solveEquality solves a sub-problem that is always an equation, whatever
// relation the caller is working on.
func (ctx *SolveContext) solveEquality(symbol string, left, right Expr) ([]Solution, bool) {
	saved := ctx.comparison
	ctx.comparison = EqualTo
	defer func() { ctx.comparison = saved }()
	return ctx.Solve(symbol, left, right)
}

// fresh returns an unused symbol name: prefix, prefix1, prefix2, ...
func (ctx *SolveContext) fresh(prefix string) string {
	name := prefix
	for i := 1; ctx.reserved[name]; i++ {
		name = prefix + strconv.Itoa(i)
	}
	ctx.reserved[name] = true
	return name
}

// reserve marks every symbol of e as taken.
func (ctx *SolveContext) reserve(e Expr) {
	for name := range FreeSymbols(e) {
		ctx.reserved[name] = true
	}
}

// fail records a deduplicated message and reports failure.
func (ctx *SolveContext) fail(format string, args ...interface{}) ([]Solution, bool) {
	ctx.note(fmt.Sprintf(format, args...))
	return nil, false
}

func (ctx *SolveContext) note(msg string) {
	for _, m := range ctx.messages {
		if m == msg {
			return
		}
	}
	ctx.messages = append(ctx.messages, msg)
	ctx.log.Debug("solve note", "msg", msg, "depth", ctx.depth)
}

// markPartial flags the result as missing roots.
func (ctx *SolveContext) markPartial(format string, args ...interface{}) {
	ctx.partial = true
	ctx.note(fmt.Sprintf(format, args...))
}

// restrict adds a domain restriction unless it is already known or
// trivially true.
func (ctx *SolveContext) restrict(e Expr, c Comparison, bound Expr) {
	e, bound = e.Simplify(), bound.Simplify()
	if !hasVariables(e) && !hasVariables(bound) {
		return
	}
	r := Restriction{Expr: e, Comparison: c, Bound: bound}
	key := r.String()
	for _, x := range ctx.restrictions {
		if x.String() == key {
			return
		}
	}
	ctx.restrictions = append(ctx.restrictions, r)
}

// mirror swaps the relation after exchanging sides or multiplying by a
// negative number.
func (ctx *SolveContext) mirror() {
	ctx.comparison = ctx.comparison.Mirror()
	ctx.signFlips++
}

func (ctx *SolveContext) step(description string, before, after Expr) {
	ctx.steps.Step(description, before, after)
}

// requireEquality fails strategies that only handle equations.
func (ctx *SolveContext) requireEquality(strategy string) bool {
	if ctx.comparison == EqualTo {
		return true
	}
	ctx.note(fmt.Sprintf("%s: inequalities are only solved for linear shapes", strategy))
	return false
}

// checkpoint is the part of the context a failed strategy must not change.
type checkpoint struct {
	restrictions int
	comparison   Comparison
	signFlips    int
	partial      bool
}

func (ctx *SolveContext) checkpoint() checkpoint {
	return checkpoint{len(ctx.restrictions), ctx.comparison, ctx.signFlips, ctx.partial}
}

// rollback undoes what a failed strategy added.
func (ctx *SolveContext) rollback(cp checkpoint) {
	ctx.restrictions = ctx.restrictions[:cp.restrictions]
	ctx.comparison = cp.comparison
	ctx.signFlips = cp.signFlips
	ctx.partial = cp.partial
}
