package gosolve_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

var (
	x = gosolve.S("x")
	y = gosolve.S("y")
	z = gosolve.S("z")
)

func n(v float64) *gosolve.Num { return gosolve.N(v) }

// eq builds left = right.
func eq(left, right gosolve.Expr) gosolve.Equation { return gosolve.NewEquation(left, right) }

// solve runs a default solver and requires success.
func solve(t *testing.T, e gosolve.Equation, symbol string, opts ...gosolve.Option) gosolve.SolveResult {
	t.Helper()
	res := gosolve.NewSolver(opts...).Solve(e, symbol)
	require.Truef(t, res.Success, "solve %s for %s: %v", e, symbol, res.Messages)
	return res
}

// assertFloats compares the sorted real solution values.
func assertFloats(t *testing.T, want []float64, res gosolve.SolveResult) {
	t.Helper()
	got := res.Floats()
	sort.Float64s(got)
	require.Lenf(t, got, len(want), "solutions of %s", res)
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], 1e-9, "solution %d of %s", i, res)
	}
}

func eval(t *testing.T, e gosolve.Expr) float64 {
	t.Helper()
	v, ok := e.Eval()
	require.Truef(t, ok, "%s has no numeric value", e)
	return v.Re()
}
