package gosolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

// ============================================================
// Canonicalizer
// ============================================================

func TestCanonicalize_Idempotent(t *testing.T) {
	cases := []gosolve.Expr{
		gosolve.Chain(x, gosolve.OpAdd, n(2), gosolve.OpMul, x, gosolve.OpSub, n(3)),
		gosolve.Chain(x, gosolve.OpPow, n(2), gosolve.OpDiv, x),
		gosolve.AddOf(gosolve.SinOf(x), gosolve.PowOf(gosolve.SinOf(x), n(2)), n(1)),
		gosolve.DivOf(gosolve.AddOf(x, n(1)), gosolve.SubOf(x, n(1))),
		gosolve.MulOf(n(2), gosolve.LogOf(gosolve.AddOf(x, y), n(10))),
		gosolve.PowOf(gosolve.AddOf(x, n(1)), gosolve.F(1, 2)),
		gosolve.AbsOf(gosolve.SubOf(x, n(3))),
	}
	for _, e := range cases {
		once := gosolve.Canonicalize(e)
		twice := gosolve.Canonicalize(once)
		assert.Truef(t, once.Equal(twice), "%s -> %s -> %s", e, once, twice)
	}
}

func TestCanonicalize_FoldsArithmetic(t *testing.T) {
	raw := gosolve.Chain(n(2), gosolve.OpMul, x, gosolve.OpAdd, n(3), gosolve.OpMul, x, gosolve.OpSub, n(4), gosolve.OpAdd, n(1))
	got := gosolve.Canonicalize(raw)
	want := gosolve.SubOf(gosolve.MulOf(n(5), x), n(3))
	assert.True(t, got.Equal(want), "got %s", got)
}

func TestCanonicalize_RemovesRedundancies(t *testing.T) {
	raw := gosolve.Chain(x, gosolve.OpMul, n(1), gosolve.OpAdd, n(0), gosolve.OpAdd, gosolve.Chain(y, gosolve.OpPow, n(1)))
	got := gosolve.Canonicalize(raw)
	assert.True(t, got.Equal(gosolve.AddOf(x, y)), "got %s", got)
}

func TestAreEqual(t *testing.T) {
	a := gosolve.Chain(x, gosolve.OpAdd, x)
	b := gosolve.MulOf(n(2), x)
	assert.True(t, gosolve.AreEqual(a, b))
	assert.False(t, gosolve.AreEqual(a, x))
	assert.True(t, gosolve.IsZero(gosolve.SubOf(a, b)))
	assert.True(t, gosolve.IsOne(gosolve.DivOf(a, b)))
}

func TestContainsAndSymbols(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(x, y), gosolve.SinOf(z), gosolve.Pi())
	assert.True(t, gosolve.Contains(e, "z"))
	assert.False(t, gosolve.Contains(e, "pi"))
	assert.Equal(t, []string{"x", "y", "z"}, gosolve.SortedSymbols(e))
	counts := gosolve.CountSymbols(gosolve.AddOf(gosolve.PowOf(x, n(2)), x, y))
	assert.Equal(t, 2, counts["x"])
	assert.Equal(t, 1, counts["y"])
}

func TestGroupsAndFactors(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(n(3), x, y), gosolve.NegOf(x), n(2))
	assert.Len(t, gosolve.Groups(e), 3)

	fs := gosolve.Factors(gosolve.MulOf(n(3), x, y))
	require.Len(t, fs, 3)
	assert.True(t, fs[0].Equal(n(3)))
}

func TestNumeratorDenominator(t *testing.T) {
	e := gosolve.DivOf(gosolve.MulOf(n(2), x), gosolve.MulOf(n(3), gosolve.AddOf(y, n(1))))
	num, den := gosolve.NumeratorDenominator(e)
	assert.True(t, num.Equal(gosolve.MulOf(n(2), x)), "num %s", num)
	assert.True(t, den.Equal(gosolve.MulOf(n(3), gosolve.AddOf(y, n(1)))), "den %s", den)
}

func TestReplace_PowerMultiples(t *testing.T) {
	e := gosolve.AddOf(gosolve.PowOf(x, n(4)), gosolve.PowOf(x, n(2)), n(1))
	u := gosolve.S("u")
	got := gosolve.Replace(e, gosolve.PowOf(x, n(2)), u)
	want := gosolve.AddOf(gosolve.PowOf(u, n(2)), u, n(1))
	assert.True(t, got.Equal(want), "got %s", got)
}

func TestComplexity_Orders(t *testing.T) {
	assert.Less(t, gosolve.Complexity(x), gosolve.Complexity(gosolve.MulOf(n(2), x)))
	assert.Less(t, gosolve.Complexity(gosolve.MulOf(n(2), x)), gosolve.Complexity(gosolve.SinOf(gosolve.MulOf(n(2), x))))
}

// ============================================================
// Polynomials
// ============================================================

func TestExpand(t *testing.T) {
	e := gosolve.PowOf(gosolve.AddOf(x, n(1)), n(2))
	got := gosolve.Expand(e)
	want := gosolve.AddOf(gosolve.PowOf(x, n(2)), gosolve.MulOf(n(2), x), n(1))
	assert.True(t, got.Equal(want), "got %s", got)

	prod := gosolve.Expand(gosolve.MulOf(gosolve.SubOf(x, n(1)), gosolve.SubOf(x, n(2)), gosolve.SubOf(x, n(3))))
	for _, v := range []float64{-1, 0.5, 4} {
		want := (v - 1) * (v - 2) * (v - 3)
		assert.InDelta(t, want, eval(t, prod.Sub("x", n(v))), 1e-9)
	}
}

func TestPolyCoeffsAndDegree(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(n(3), gosolve.PowOf(x, n(2))), gosolve.MulOf(y, x), n(5))
	coeffs, ok := gosolve.PolyCoeffs(e, "x")
	require.True(t, ok)
	assert.True(t, coeffs.Coefficient(2).Equal(n(3)))
	assert.True(t, coeffs.Coefficient(1).Equal(y))
	assert.True(t, coeffs.Coefficient(0).Equal(n(5)))
	assert.True(t, coeffs.Coefficient(7).Equal(n(0)))
	assert.Equal(t, 2, gosolve.Degree(e, "x"))
	assert.Equal(t, 1, gosolve.Degree(e, "y"))
	assert.Equal(t, -1, gosolve.Degree(gosolve.SinOf(x), "x"))
	assert.Equal(t, -1, gosolve.Degree(gosolve.DivOf(n(1), x), "x"))
}

func TestCollect(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(y, x), gosolve.MulOf(n(2), x), n(1))
	got := gosolve.Collect(e, "x")
	at := map[string]gosolve.Expr{"x": n(2), "y": n(3)}
	assert.InDelta(t, eval(t, gosolve.SubAll(e, at)), eval(t, gosolve.SubAll(got, at)), 1e-9)
	coeffs, ok := gosolve.PolyCoeffs(got, "x")
	require.True(t, ok)
	assert.True(t, gosolve.AreEqual(coeffs.Coefficient(1), gosolve.AddOf(y, n(2))))
}

func TestFactorExpr_Quadratic(t *testing.T) {
	e := gosolve.AddOf(gosolve.PowOf(x, n(2)), gosolve.MulOf(n(-5), x), n(6))
	res := gosolve.FactorExpr(e, "x")
	require.True(t, res.Success)
	assert.Len(t, res.Factors, 2)
	assert.True(t, gosolve.AreEqual(gosolve.Expand(res.Product()), e), "product %s", res.Product())
}

func TestFactorExpr_CommonFactor(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(n(2), gosolve.PowOf(x, n(3))), gosolve.MulOf(n(-8), x))
	res := gosolve.FactorExpr(e, "x")
	require.True(t, res.Success)
	assert.True(t, gosolve.AreEqual(gosolve.Expand(res.Product()), e))
	assert.GreaterOrEqual(t, len(res.Factors), 3)
}

func TestFactorExpr_Irreducible(t *testing.T) {
	e := gosolve.AddOf(gosolve.PowOf(x, n(2)), n(1))
	res := gosolve.FactorExpr(e, "x")
	assert.False(t, res.Success)
}

func TestGroupGCF(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(n(6), gosolve.PowOf(x, n(2)), y), gosolve.MulOf(n(9), x))
	g := gosolve.GroupGCF(e)
	assert.True(t, g.Equal(gosolve.MulOf(n(3), x)), "got %s", g)
}

func TestCombineFractions(t *testing.T) {
	e := gosolve.AddOf(gosolve.DivOf(n(1), x), gosolve.DivOf(n(1), gosolve.AddOf(x, n(1))))
	got := gosolve.CombineFractions(e)
	num, den := gosolve.NumeratorDenominator(got)
	assert.True(t, gosolve.Contains(den, "x"))
	for _, v := range []float64{1, 2, -3} {
		assert.InDelta(t, eval(t, e.Sub("x", n(v))), eval(t, got.Sub("x", n(v))), 1e-9)
	}
	assert.Equal(t, 1, gosolve.Degree(num, "x"))
}

func TestCompoundFractions(t *testing.T) {
	// (1/x) / (1 + 1/x) = 1/(x+1)
	e := gosolve.DivOf(gosolve.DivOf(n(1), x), gosolve.AddOf(n(1), gosolve.DivOf(n(1), x)))
	got := gosolve.CompoundFractions(e)
	for _, v := range []float64{1, 2, 5} {
		assert.InDelta(t, 1/(v+1), eval(t, got.Sub("x", n(v))), 1e-9)
	}
}
