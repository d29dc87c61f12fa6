package gosolve_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	assert.Equal(t, "42", n(42).String())
}

func TestNum_Rational(t *testing.T) {
	assert.Equal(t, "1/3", gosolve.F(1, 3).String())
	assert.Equal(t, "-1/3", gosolve.F(-1, 3).String())
	assert.Equal(t, "1/2", n(0.5).String())
}

func TestNum_LaTeX_Rational(t *testing.T) {
	assert.Equal(t, `\frac{2}{5}`, gosolve.F(2, 5).LaTeX())
	assert.Equal(t, `-\frac{1}{4}`, gosolve.F(-1, 4).LaTeX())
}

func TestNum_Complex(t *testing.T) {
	assert.Equal(t, "1+2i", gosolve.NC(1, 2).String())
	assert.Equal(t, "-i", gosolve.NC(0, -1).String())
	assert.False(t, gosolve.NC(1, 2).IsReal())
}

func TestNum_ToleranceEquality(t *testing.T) {
	assert.True(t, n(0.5).Equal(gosolve.F(1, 2)))
	assert.True(t, n(0.1+0.2).Equal(n(0.3)))
	assert.False(t, n(1).Equal(n(1.001)))
}

func TestNum_Undefined(t *testing.T) {
	u := gosolve.DivOf(n(1), n(0))
	num, ok := u.(*gosolve.Num)
	require.True(t, ok)
	assert.True(t, num.IsUndefined())
	assert.Equal(t, "undefined", u.String())
	_, ok = u.Eval()
	assert.False(t, ok)
	assert.True(t, gosolve.Undefined().Equal(gosolve.Undefined()))
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_String(t *testing.T) {
	assert.Equal(t, "x", x.String())
	assert.Equal(t, `\pi`, gosolve.Pi().LaTeX())
}

func TestSym_Constants(t *testing.T) {
	assert.InDelta(t, math.Pi, eval(t, gosolve.Pi()), 1e-12)
	assert.InDelta(t, math.E, eval(t, gosolve.E()), 1e-12)
	_, ok := x.Eval()
	assert.False(t, ok)
	// constants are never substituted
	assert.True(t, gosolve.Pi().Sub("pi", n(3)).Equal(gosolve.Pi()))
}

// ============================================================
// Combinators
// ============================================================

func TestAddOf_CollectsLikeGroups(t *testing.T) {
	e := gosolve.AddOf(x, x, gosolve.MulOf(n(3), x))
	assert.True(t, e.Equal(gosolve.MulOf(n(5), x)), "got %s", e)
}

func TestAddOf_Cancels(t *testing.T) {
	e := gosolve.SubOf(gosolve.AddOf(x, n(1)), gosolve.AddOf(x, n(1)))
	assert.True(t, gosolve.IsZero(e), "got %s", e)
}

func TestMulOf_CombinesPowers(t *testing.T) {
	e := gosolve.MulOf(x, gosolve.PowOf(x, n(2)))
	assert.True(t, e.Equal(gosolve.PowOf(x, n(3))), "got %s", e)
	assert.True(t, gosolve.DivOf(x, x).Equal(n(1)))
}

func TestTerm_SymbolicDivisor(t *testing.T) {
	inv := gosolve.DivOf(n(1), x)
	assert.True(t, inv.Simplify().Equal(inv), "got %s", inv.Simplify())
	assert.True(t, gosolve.PowOf(x, n(-1)).Equal(inv))
	assert.True(t, gosolve.MulOf(x, inv).Equal(n(1)))
	assert.True(t, gosolve.DivOf(gosolve.MulOf(n(2), x), gosolve.MulOf(n(4), x)).Equal(gosolve.F(1, 2)))

	quot := gosolve.DivOf(gosolve.AddOf(x, n(1)), gosolve.MulOf(n(2), y))
	assert.True(t, quot.Simplify().Equal(quot), "got %s", quot.Simplify())
	assert.InDelta(t, 1.5, eval(t, quot.Sub("x", n(2)).Sub("y", n(1))), 1e-9)
}

func TestPowOf_Identities(t *testing.T) {
	assert.True(t, gosolve.PowOf(x, n(0)).Equal(n(1)))
	assert.True(t, gosolve.PowOf(x, n(1)).Equal(x))
	assert.True(t, gosolve.PowOf(n(2), n(10)).Equal(n(1024)))
	assert.True(t, gosolve.PowOf(n(4), gosolve.F(1, 2)).Equal(n(2)))
}

func TestPowOf_ExtractsPerfectSquares(t *testing.T) {
	e := gosolve.SqrtOf(n(8))
	assert.InDelta(t, math.Sqrt(8), eval(t, e), 1e-12)
	assert.True(t, e.Equal(gosolve.MulOf(n(2), gosolve.SqrtOf(n(2)))), "got %s", e)
}

func TestSub_ReplacesSymbol(t *testing.T) {
	e := gosolve.AddOf(gosolve.MulOf(n(2), x), y)
	got := gosolve.SubAll(e, map[string]gosolve.Expr{"x": n(3), "y": n(1)})
	assert.InDelta(t, 7, eval(t, got), 1e-12)
}

func TestTerm_ChainOrderOfOperations(t *testing.T) {
	// 2 + 3 * 4 ^ 2
	raw := gosolve.Chain(n(2), gosolve.OpAdd, n(3), gosolve.OpMul, n(4), gosolve.OpPow, n(2))
	assert.InDelta(t, 50, eval(t, raw), 1e-12)
	assert.InDelta(t, 50, eval(t, gosolve.Canonicalize(raw)), 1e-12)
}

func TestTerm_RebuildKeepsOps(t *testing.T) {
	raw := gosolve.Chain(x, gosolve.OpSub, n(1))
	rebuilt := raw.Rebuild([]gosolve.Expr{y, n(2)})
	assert.Equal(t, "y - 2", rebuilt.String())
	assert.Panics(t, func() { raw.Rebuild([]gosolve.Expr{y}) })
}

func TestTerm_StringForms(t *testing.T) {
	assert.Equal(t, "x + 1", gosolve.Chain(x, gosolve.OpAdd, n(1)).String())
	assert.Equal(t, "2*x", gosolve.Chain(n(2), gosolve.OpMul, x).String())
}

// ============================================================
// Functions
// ============================================================

func TestFunc_ExactFolding(t *testing.T) {
	assert.True(t, gosolve.SinOf(gosolve.DivOf(gosolve.Pi(), n(6))).Equal(gosolve.F(1, 2)))
	assert.True(t, gosolve.CosOf(n(0)).Equal(n(1)))
	assert.True(t, gosolve.LogOf(n(8), n(2)).Equal(n(3)))
	assert.True(t, gosolve.AbsOf(n(-4)).Equal(n(4)))
	assert.True(t, gosolve.FactorialOf(n(5)).Equal(n(120)))
	assert.True(t, gosolve.ChooseOf(n(5), n(2)).Equal(n(10)))
}

func TestFunc_InexactStaysSymbolic(t *testing.T) {
	e := gosolve.SinOf(n(1))
	_, isNum := e.(*gosolve.Num)
	assert.False(t, isNum)
	assert.InDelta(t, math.Sin(1), eval(t, e), 1e-12)
}

func TestFunc_InverseCancels(t *testing.T) {
	assert.True(t, gosolve.SinOf(gosolve.AsinOf(x)).Equal(x))
	assert.True(t, gosolve.PowOf(n(2), gosolve.LogOf(x, n(2))).Equal(x))
	assert.True(t, gosolve.LogOf(gosolve.PowOf(n(3), x), n(3)).Equal(x))
}

func TestFunc_DomainErrors(t *testing.T) {
	_, ok := gosolve.LogOf(n(-1), n(10)).Eval()
	assert.False(t, ok)
	_, ok = gosolve.AsinOf(n(2)).Eval()
	assert.False(t, ok)
}

func TestFunc_Capabilities(t *testing.T) {
	p, ok := gosolve.KindSin.Period()
	require.True(t, ok)
	assert.InDelta(t, 2*math.Pi, eval(t, p), 1e-12)
	p, ok = gosolve.KindTan.Period()
	require.True(t, ok)
	assert.InDelta(t, math.Pi, eval(t, p), 1e-12)
	_, ok = gosolve.KindAbs.Period()
	assert.False(t, ok)

	inv, ok := gosolve.KindCos.Inverse()
	require.True(t, ok)
	assert.Equal(t, gosolve.KindAcos, inv)
	assert.True(t, gosolve.KindAtan.IsInverseTrig())
	assert.False(t, gosolve.KindLog.IsTrig())

	k, ok := gosolve.ParseFunctionKind("sec")
	require.True(t, ok)
	assert.Equal(t, gosolve.KindSec, k)
}

func TestFunc_Series(t *testing.T) {
	i := gosolve.S("i")
	e := gosolve.SumOf(gosolve.PowOf(i, n(2)), "i", n(1), n(4))
	assert.True(t, e.Equal(n(30)), "got %s", e)
}

func TestFunc_Opaque(t *testing.T) {
	d := gosolve.OpaqueOf("deriv", x, x)
	assert.True(t, d.Equal(gosolve.OpaqueOf("deriv", x, x)))
	assert.False(t, d.Equal(gosolve.OpaqueOf("integral", x, x)))
	_, ok := d.Eval()
	assert.False(t, ok)
}

func TestNewFunc_ArityPanics(t *testing.T) {
	assert.Panics(t, func() { gosolve.NewFunc(gosolve.KindSin, x, y) })
}
