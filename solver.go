package gosolve

import (
	"context"
	"fmt"
	"log/slog"
)

// ============================================================
// Dispatcher
// ============================================================

// Strategy solves one equation shape. Solve returns the solutions and true,
// or false after recording why the shape could not be handled. Strategies
// may recurse through ctx.Solve.
type Strategy interface {
	Name() string
	Solve(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool)
}

// AlgebraSolver classifies equations and delegates them to strategies. It
// holds only immutable options, so one solver may serve concurrent calls;
// every call gets its own SolveContext.
type AlgebraSolver struct {
	opts Options
}

// NewSolver returns a solver configured by opts.
func NewSolver(opts ...Option) *AlgebraSolver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &AlgebraSolver{opts: o}
}

// Options returns a copy of the solver configuration.
func (s *AlgebraSolver) Options() Options { return s.opts }

// With returns a new solver with opts applied on top of s's options.
func (s *AlgebraSolver) With(opts ...Option) *AlgebraSolver {
	o := s.opts
	for _, opt := range opts {
		opt(&o)
	}
	return &AlgebraSolver{opts: o}
}

// Solve solves eq for symbol.
func (s *AlgebraSolver) Solve(eq Equation, symbol string) SolveResult {
	if eq.Left == nil || eq.Right == nil {
		return SolveResult{Symbol: symbol, Messages: []string{"equation has a missing side"}}
	}
	ctx := newSolveContext(s, eq.Comparison, eq.Symbols())
	ctx.reserved[symbol] = true
	s.opts.Logger.Debug("solve", "eq", eq.String(), "symbol", symbol)

	sols, ok := s.dispatch(ctx, symbol, eq.Left, eq.Right)
	res := SolveResult{Symbol: symbol, Strategy: ctx.strategy}
	if !ok {
		res.Messages = ctx.messages
		if len(res.Messages) == 0 {
			res.Messages = []string{fmt.Sprintf("could not solve %s for %s", eq, symbol)}
		}
		s.opts.Logger.Debug("solve failed", "eq", eq.String(), "msgs", res.Messages)
		return res
	}

	if eq.Comparison == EqualTo {
		left, right := Canonicalize(eq.Left), Canonicalize(eq.Right)
		vctx := newSolveContext(s, EqualTo, nil)
		sols, _ = keepVerified(vctx, symbol, left, right, sols)
	}
	sols = applyRestrictions(symbol, sols, ctx.restrictions)
	sortSolutions(sols)

	res.Success = true
	res.Partial = ctx.partial
	res.Solutions = sols
	res.Restrictions = ctx.restrictions
	if ctx.partial {
		res.Messages = ctx.messages
	}
	s.opts.Logger.Debug("solved", "eq", eq.String(), "strategy", res.Strategy, "n", len(sols))
	return res
}

// applyRestrictions drops constant solutions that violate a restriction.
func applyRestrictions(symbol string, sols []Solution, rs []Restriction) []Solution {
	if len(rs) == 0 {
		return sols
	}
	var out []Solution
	dropped := false
	for _, s := range sols {
		if s.Kind == SolutionExact && s.Comparison == EqualTo {
			keep := true
			for _, r := range rs {
				if !r.Satisfied(symbol, s.Value) {
					keep = false
					break
				}
			}
			if !keep {
				dropped = true
				continue
			}
		}
		out = append(out, s)
	}
	if dropped && len(out) == 0 {
		return []Solution{noSolutions(symbol)}
	}
	return out
}

// dispatch is the recursive entry point: normalize, classify, delegate.
func (s *AlgebraSolver) dispatch(ctx *SolveContext, symbol string, left, right Expr) ([]Solution, bool) {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > ctx.opts.MaxDepth {
		return ctx.fail("recursion limit of %d reached", ctx.opts.MaxDepth)
	}

	l, r := prepare(ctx, symbol, left, right)
	if isUndefined(l) || isUndefined(r) {
		return []Solution{noSolutions(symbol)}, true
	}
	if !Contains(l, symbol) {
		return degenerate(ctx, symbol, l, r), true
	}
	if !Contains(SubOf(l, r), symbol) {
		// the symbol cancels between the sides
		l, r = isolate(ctx, symbol, l, r)
		return degenerate(ctx, symbol, l, r), true
	}

	candidates := classify(symbol, l, r)
	if ctx.log.Enabled(context.Background(), slog.LevelDebug) {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name()
		}
		ctx.log.Debug("classify", "left", l.String(), "right", r.String(), "symbol", symbol, "candidates", names)
	}
	for _, st := range candidates {
		cp := ctx.checkpoint()
		sols, ok := st.Solve(ctx, symbol, l, r)
		if ok {
			if ctx.depth == 1 {
				ctx.strategy = st.Name()
			}
			return sols, true
		}
		ctx.rollback(cp)
	}
	if len(candidates) == 0 {
		return ctx.fail("no strategy matches %s %s %s", l, ctx.comparison, r)
	}
	return ctx.fail("could not solve %s %s %s for %s", l, ctx.comparison, r, symbol)
}
