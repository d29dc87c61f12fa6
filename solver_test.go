package gosolve_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

// ============================================================
// Linear and degenerate
// ============================================================

func TestSolve_Linear(t *testing.T) {
	cases := []struct {
		name        string
		left, right gosolve.Expr
		want        float64
	}{
		{"2x+3=7", gosolve.AddOf(gosolve.MulOf(n(2), x), n(3)), n(7), 2},
		{"x/4=3", gosolve.DivOf(x, n(4)), n(3), 12},
		{"3x-1=x+5", gosolve.SubOf(gosolve.MulOf(n(3), x), n(1)), gosolve.AddOf(x, n(5)), 3},
		{"-x=2", gosolve.NegOf(x), n(2), -2},
		{"0.5x=0.25", gosolve.MulOf(n(0.5), x), n(0.25), 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := solve(t, eq(tc.left, tc.right), "x")
			assert.Equal(t, "linear", res.Strategy)
			assertFloats(t, []float64{tc.want}, res)
		})
	}
}

func TestSolve_LinearSymbolicCoefficient(t *testing.T) {
	a := gosolve.S("a")
	b := gosolve.S("b")
	// a*x + b = 0 -> x = -b/a with a != 0
	res := solve(t, eq(gosolve.AddOf(gosolve.MulOf(a, x), b), n(0)), "x")
	vals := res.Values()
	require.Len(t, vals, 1)
	got := gosolve.SubAll(vals[0], map[string]gosolve.Expr{"a": n(2), "b": n(6)})
	assert.InDelta(t, -3, eval(t, got), 1e-9)
	require.NotEmpty(t, res.Restrictions)
	assert.Equal(t, gosolve.NotEqualTo, res.Restrictions[0].Comparison)
}

func TestSolve_Degenerate(t *testing.T) {
	res := solve(t, eq(gosolve.AddOf(x, n(1)), gosolve.AddOf(x, n(1))), "x")
	assert.True(t, res.AllSolutions(), "%s", res)

	res = solve(t, eq(gosolve.AddOf(x, n(1)), gosolve.AddOf(x, n(2))), "x")
	assert.True(t, res.NoSolutions(), "%s", res)
}

func TestSolve_DegenerateAfterCancelling(t *testing.T) {
	cases := []struct {
		name string
		eq   gosolve.Equation
		all  bool
	}{
		{"x=x", eq(x, x), true},
		{"2x=2x+1", eq(gosolve.MulOf(n(2), x), gosolve.AddOf(gosolve.MulOf(n(2), x), n(1))), false},
		{"3x-x=2x", eq(gosolve.SubOf(gosolve.MulOf(n(3), x), x), gosolve.MulOf(n(2), x)), true},
		{"x<x+1", gosolve.NewRelation(x, gosolve.LessThan, gosolve.AddOf(x, n(1))), true},
		{"x>x+1", gosolve.NewRelation(x, gosolve.GreaterThan, gosolve.AddOf(x, n(1))), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := solve(t, tc.eq, "x")
			if tc.all {
				assert.True(t, res.AllSolutions(), "%s", res)
			} else {
				assert.True(t, res.NoSolutions(), "%s", res)
			}
		})
	}
}

func TestSolve_SymbolAbsent(t *testing.T) {
	res := solve(t, eq(gosolve.AddOf(y, n(1)), n(3)), "x")
	// true for every x only where y = 2
	assert.True(t, res.AllSolutions(), "%s", res)
	require.Len(t, res.Restrictions, 1)
}

func TestSolve_Inequality(t *testing.T) {
	cases := []struct {
		name  string
		eq    gosolve.Equation
		value float64
		cmp   gosolve.Comparison
	}{
		{"2x+1>5", gosolve.NewRelation(gosolve.AddOf(gosolve.MulOf(n(2), x), n(1)), gosolve.GreaterThan, n(5)), 2, gosolve.GreaterThan},
		{"-2x+4>0", gosolve.NewRelation(gosolve.AddOf(gosolve.MulOf(n(-2), x), n(4)), gosolve.GreaterThan, n(0)), 2, gosolve.LessThan},
		{"5<=x+3", gosolve.NewRelation(n(5), gosolve.LessOrEqual, gosolve.AddOf(x, n(3))), 2, gosolve.GreaterOrEqual},
		{"x/-3>=1", gosolve.NewRelation(gosolve.DivOf(x, n(-3)), gosolve.GreaterOrEqual, n(1)), -3, gosolve.LessOrEqual},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := solve(t, tc.eq, "x")
			require.Len(t, res.Solutions, 1)
			s := res.Solutions[0]
			assert.Equal(t, tc.cmp, s.Comparison, "%s", s)
			assert.InDelta(t, tc.value, eval(t, s.Value), 1e-9)
		})
	}
}

func TestSolve_InequalityRejectsNonLinear(t *testing.T) {
	res := gosolve.NewSolver().Solve(gosolve.NewRelation(gosolve.PowOf(x, n(2)), gosolve.GreaterThan, n(4)), "x")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Messages)
}

func TestSolve_FailureCarriesMessages(t *testing.T) {
	res := gosolve.NewSolver().Solve(eq(gosolve.SinOf(x), x), "x")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Messages)
	assert.Contains(t, res.String(), "no result")
}

func TestSolve_MissingSide(t *testing.T) {
	res := gosolve.NewSolver().Solve(gosolve.Equation{Left: x}, "x")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Messages)
}

func TestSolve_DepthCapTerminates(t *testing.T) {
	e := eq(gosolve.AddOf(gosolve.PowOf(x, n(5)), x, n(1)), n(0))
	res := gosolve.NewSolver(gosolve.WithMaxDepth(2)).Solve(e, "x")
	if !res.Success {
		assert.NotEmpty(t, res.Messages)
	}
}

// ============================================================
// Quadratic and polynomial
// ============================================================

func quadratic(a, b, c float64) gosolve.Expr {
	return gosolve.AddOf(gosolve.MulOf(n(a), gosolve.PowOf(x, n(2))), gosolve.MulOf(n(b), x), n(c))
}

func TestSolve_QuadraticAllMethods(t *testing.T) {
	methods := []gosolve.QuadraticMethod{gosolve.QuadraticFactor, gosolve.QuadraticFormula, gosolve.QuadraticCompleteSquare}
	for _, m := range methods {
		t.Run(m.String(), func(t *testing.T) {
			res := solve(t, eq(quadratic(1, -5, 6), n(0)), "x", gosolve.WithQuadraticMethod(m))
			assert.Equal(t, "quadratic", res.Strategy)
			assertFloats(t, []float64{2, 3}, res)
		})
	}
}

func TestSolve_QuadraticIrrational(t *testing.T) {
	res := solve(t, eq(quadratic(1, 0, -2), n(0)), "x", gosolve.WithQuadraticMethod(gosolve.QuadraticFormula))
	assertFloats(t, []float64{-math.Sqrt2, math.Sqrt2}, res)
}

func TestSolve_QuadraticDoubleRoot(t *testing.T) {
	res := solve(t, eq(quadratic(1, -4, 4), n(0)), "x")
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, 2, res.Solutions[0].Multiplicity)
	assertFloats(t, []float64{2}, res)
}

func TestSolve_QuadraticNoRealRoots(t *testing.T) {
	res := solve(t, eq(quadratic(1, 0, 1), n(0)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)

	res = solve(t, eq(quadratic(1, 0, 1), n(0)), "x", gosolve.WithComplexMode(true))
	vals := res.Values()
	require.Len(t, vals, 2)
	var ims []float64
	for _, v := range vals {
		c, ok := v.Eval()
		require.True(t, ok)
		assert.InDelta(t, 0, c.Re(), 1e-9)
		ims = append(ims, c.Im())
	}
	sort.Float64s(ims)
	assert.InDelta(t, -1, ims[0], 1e-9)
	assert.InDelta(t, 1, ims[1], 1e-9)
}

func TestSolve_Cubic(t *testing.T) {
	// (x-1)(x-2)(x-3)
	cubic := gosolve.AddOf(gosolve.PowOf(x, n(3)), gosolve.MulOf(n(-6), gosolve.PowOf(x, n(2))), gosolve.MulOf(n(11), x), n(-6))
	res := solve(t, eq(cubic, n(0)), "x")
	assert.Equal(t, "polynomial", res.Strategy)
	assertFloats(t, []float64{1, 2, 3}, res)
}

func TestSolve_CubicWithQuadraticRemainder(t *testing.T) {
	// (x-1)(x^2-2)
	cubic := gosolve.Expand(gosolve.MulOf(gosolve.SubOf(x, n(1)), gosolve.SubOf(gosolve.PowOf(x, n(2)), n(2))))
	res := solve(t, eq(cubic, n(0)), "x")
	assertFloats(t, []float64{-math.Sqrt2, 1, math.Sqrt2}, res)
}

func TestSolve_PartialPolynomial(t *testing.T) {
	// (x-1)(x^3-x-1): the cubic factor has no rational roots
	quartic := gosolve.AddOf(gosolve.PowOf(x, n(4)), gosolve.NegOf(gosolve.PowOf(x, n(3))), gosolve.NegOf(gosolve.PowOf(x, n(2))), n(1))
	res := solve(t, eq(quartic, n(0)), "x")
	assert.True(t, res.Partial, "%s", res)
	assertFloats(t, []float64{1}, res)
	require.NotEmpty(t, res.Messages)
	assert.Contains(t, res.String(), "(partial)")
}

func TestSolve_Factored(t *testing.T) {
	e := gosolve.MulOf(x, gosolve.SubOf(x, n(2)), gosolve.PowOf(gosolve.AddOf(x, n(1)), n(2)))
	res := solve(t, eq(e, n(0)), "x")
	assert.Equal(t, "factor", res.Strategy)
	assertFloats(t, []float64{-1, 0, 2}, res)
	for _, s := range res.Solutions {
		if v, _ := s.Value.Eval(); v != nil && v.Re() == -1 {
			assert.Equal(t, 2, s.Multiplicity)
		}
	}
}

func TestSolve_Biquadratic(t *testing.T) {
	// x^4 - 5x^2 + 4 = 0
	e := gosolve.AddOf(gosolve.PowOf(x, n(4)), gosolve.MulOf(n(-5), gosolve.PowOf(x, n(2))), n(4))
	res := solve(t, eq(e, n(0)), "x")
	assertFloats(t, []float64{-2, -1, 1, 2}, res)
}

// ============================================================
// Absolute value, radicals and fractions
// ============================================================

func TestSolve_AbsoluteValue(t *testing.T) {
	res := solve(t, eq(gosolve.AbsOf(gosolve.SubOf(x, n(3))), n(5)), "x")
	assert.Equal(t, "absolute value", res.Strategy)
	assertFloats(t, []float64{-2, 8}, res)

	res = solve(t, eq(gosolve.AbsOf(x), n(-1)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)

	res = solve(t, eq(gosolve.MulOf(n(2), gosolve.AbsOf(gosolve.AddOf(x, n(1)))), n(0)), "x")
	assertFloats(t, []float64{-1}, res)
}

func TestSolve_Radical(t *testing.T) {
	res := solve(t, eq(gosolve.SqrtOf(x), n(3)), "x")
	assertFloats(t, []float64{9}, res)
	require.NotEmpty(t, res.Restrictions)

	res = solve(t, eq(gosolve.SqrtOf(x), n(-1)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)

	res = solve(t, eq(gosolve.PowOf(x, n(3)), n(8)), "x")
	assertFloats(t, []float64{2}, res)

	res = solve(t, eq(gosolve.PowOf(gosolve.SubOf(x, n(1)), n(2)), n(9)), "x")
	assertFloats(t, []float64{-2, 4}, res)
}

func TestSolve_RadicalRejectsExtraneous(t *testing.T) {
	// sqrt(x+2) = x has the extraneous candidate -1
	res := solve(t, eq(gosolve.SqrtOf(gosolve.AddOf(x, n(2))), x), "x")
	assertFloats(t, []float64{2}, res)
}

func TestSolve_Fractional(t *testing.T) {
	res := solve(t, eq(gosolve.DivOf(n(1), x), n(2)), "x")
	assertFloats(t, []float64{0.5}, res)

	res = solve(t, eq(gosolve.DivOf(x, gosolve.SubOf(x, n(1))), n(2)), "x")
	assertFloats(t, []float64{2}, res)

	// 1/x + 1/(x+1) = 3/2  ->  3x^2 - x - 2 = 0
	sum := gosolve.AddOf(gosolve.DivOf(n(1), x), gosolve.DivOf(n(1), gosolve.AddOf(x, n(1))))
	res = solve(t, eq(sum, gosolve.F(3, 2)), "x")
	assertFloats(t, []float64{-2.0 / 3, 1}, res)
}

func TestSolve_ReciprocalPowers(t *testing.T) {
	// x^-1 = 2 and 1/x = 1/(2x) + 1
	res := solve(t, eq(gosolve.PowOf(x, n(-1)), n(2)), "x")
	assertFloats(t, []float64{0.5}, res)

	res = solve(t, eq(gosolve.DivOf(n(1), x), gosolve.AddOf(gosolve.DivOf(n(1), gosolve.MulOf(n(2), x)), n(1))), "x")
	assertFloats(t, []float64{0.5}, res)
}

func TestSolve_FractionalRejectsPole(t *testing.T) {
	// (x^2-1)/(x-1) = 2 has only the pole x = 1 as a candidate
	e := gosolve.DivOf(gosolve.SubOf(gosolve.PowOf(x, n(2)), n(1)), gosolve.SubOf(x, n(1)))
	res := solve(t, eq(e, n(2)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)
}

// ============================================================
// Exponents and logarithms
// ============================================================

func TestSolve_Exponent(t *testing.T) {
	res := solve(t, eq(gosolve.PowOf(n(2), x), n(8)), "x")
	assert.Equal(t, "exponent", res.Strategy)
	assertFloats(t, []float64{3}, res)

	res = solve(t, eq(gosolve.PowOf(n(4), x), n(8)), "x")
	assertFloats(t, []float64{1.5}, res)

	res = solve(t, eq(gosolve.MulOf(n(3), gosolve.PowOf(gosolve.E(), x)), n(6)), "x")
	assertFloats(t, []float64{math.Log(2)}, res)

	res = solve(t, eq(gosolve.PowOf(n(2), x), n(-4)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)
}

func TestSolve_ExponentBothSides(t *testing.T) {
	// 2^(x+1) = 4^x
	res := solve(t, eq(gosolve.PowOf(n(2), gosolve.AddOf(x, n(1))), gosolve.PowOf(n(4), x)), "x")
	assertFloats(t, []float64{1}, res)
}

func TestSolve_ExponentialInBothPowers(t *testing.T) {
	// 4^x - 3*2^x + 2 = 0; every reported root must satisfy the equation
	lhs := gosolve.AddOf(gosolve.PowOf(n(4), x), gosolve.MulOf(n(-3), gosolve.PowOf(n(2), x)), n(2))
	res := gosolve.NewSolver().Solve(eq(lhs, n(0)), "x")
	if !res.Success {
		require.NotEmpty(t, res.Messages)
		return
	}
	for _, v := range res.Floats() {
		assert.InDelta(t, 0, eval(t, lhs.Sub("x", n(v))), 1e-9, "x = %v", v)
	}
}

func TestSolve_Logarithm(t *testing.T) {
	res := solve(t, eq(gosolve.LogOf(x, n(2)), n(3)), "x")
	assert.Equal(t, "logarithm", res.Strategy)
	assertFloats(t, []float64{8}, res)

	res = solve(t, eq(gosolve.LnOf(gosolve.AddOf(x, n(1))), n(0)), "x")
	assertFloats(t, []float64{0}, res)

	// log(x) + log(x-3) = 1 in base 10: x(x-3) = 10, x = 5 (x = -2 rejected)
	sum := gosolve.AddOf(gosolve.Log10Of(x), gosolve.Log10Of(gosolve.SubOf(x, n(3))))
	res = solve(t, eq(sum, n(1)), "x")
	assertFloats(t, []float64{5}, res)
}

func TestSolve_LogBase(t *testing.T) {
	res := solve(t, eq(gosolve.LogOf(n(9), x), n(2)), "x")
	assert.Equal(t, "log base", res.Strategy)
	assertFloats(t, []float64{3}, res)
}

// ============================================================
// Trigonometry
// ============================================================

func TestSolve_TrigSpecialAngles(t *testing.T) {
	res := solve(t, eq(gosolve.SinOf(x), gosolve.F(1, 2)), "x")
	assert.Equal(t, "trigonometric", res.Strategy)
	gen := res.General()
	require.Len(t, gen, 2)
	var principals []float64
	for _, g := range gen {
		principals = append(principals, eval(t, g.Principal))
		assert.InDelta(t, 2*math.Pi, eval(t, g.Period), 1e-9)
		assert.NotEmpty(t, g.Iterator)
	}
	sort.Float64s(principals)
	assert.InDelta(t, math.Pi/6, principals[0], 1e-9)
	assert.InDelta(t, 5*math.Pi/6, principals[1], 1e-9)
	assert.True(t, gen[0].Principal.Equal(gosolve.MulOf(gosolve.F(1, 6), gosolve.Pi())) ||
		gen[1].Principal.Equal(gosolve.MulOf(gosolve.F(1, 6), gosolve.Pi())))

	// every member of the family solves the equation
	for _, g := range gen {
		for _, k := range []int{-2, 0, 3} {
			v := eval(t, g.At(k))
			assert.InDelta(t, 0.5, math.Sin(v), 1e-9)
		}
	}
}

func TestSolve_TrigScaledArgument(t *testing.T) {
	res := solve(t, eq(gosolve.CosOf(gosolve.MulOf(n(2), x)), n(1)), "x")
	gen := res.General()
	require.Len(t, gen, 1)
	assert.InDelta(t, 0, eval(t, gen[0].Principal), 1e-9)
	assert.InDelta(t, math.Pi, eval(t, gen[0].Period), 1e-9)
}

func TestSolve_TrigOutOfRange(t *testing.T) {
	res := solve(t, eq(gosolve.SinOf(x), n(2)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)
}

func TestSolve_TrigReciprocal(t *testing.T) {
	res := solve(t, eq(gosolve.SecOf(x), n(2)), "x")
	gen := res.General()
	require.Len(t, gen, 2)
	for _, g := range gen {
		assert.InDelta(t, 0.5, math.Cos(eval(t, g.Principal)), 1e-9)
	}
}

func TestSolve_InverseTrig(t *testing.T) {
	res := solve(t, eq(gosolve.AtanOf(x), gosolve.DivOf(gosolve.Pi(), n(4))), "x")
	assertFloats(t, []float64{1}, res)

	res = solve(t, eq(gosolve.AsinOf(x), n(2)), "x")
	assert.True(t, res.NoSolutions(), "%s", res)
}

func TestSolve_TrigSubstitution(t *testing.T) {
	// sin(x)^2 - sin(x) = 0
	e := gosolve.SubOf(gosolve.PowOf(gosolve.SinOf(x), n(2)), gosolve.SinOf(x))
	res := solve(t, eq(e, n(0)), "x")
	gen := res.General()
	require.NotEmpty(t, gen)
	for _, g := range gen {
		s := math.Sin(eval(t, g.Principal))
		assert.True(t, math.Abs(s) < 1e-9 || math.Abs(s-1) < 1e-9, "sin(%s) = %v", g.Principal, s)
	}
}

// ============================================================
// Work steps and options
// ============================================================

func TestSolve_RecordsSteps(t *testing.T) {
	rec := &gosolve.StepRecorder{}
	solve(t, eq(gosolve.AddOf(gosolve.MulOf(n(2), x), n(3)), n(7)), "x", gosolve.WithSteps(rec))
	assert.NotEmpty(t, rec.Steps)
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	s := gosolve.NewSolver(gosolve.WithMaxDepth(-1), gosolve.WithMaxEquations(0), gosolve.WithLogger(nil))
	opts := s.Options()
	assert.Equal(t, gosolve.DefaultMaxDepth, opts.MaxDepth)
	assert.Equal(t, gosolve.DefaultMaxEquations, opts.MaxEquations)
	assert.NotNil(t, opts.Logger)

	w := s.With(gosolve.WithComplexMode(true))
	assert.True(t, w.Options().ComplexMode)
	assert.False(t, s.Options().ComplexMode)
}

func TestParseEnums(t *testing.T) {
	m, ok := gosolve.ParseQuadraticMethod("formula")
	require.True(t, ok)
	assert.Equal(t, gosolve.QuadraticFormula, m)

	c, ok := gosolve.ParseComparison(">=")
	require.True(t, ok)
	assert.Equal(t, gosolve.GreaterOrEqual, c)
	assert.Equal(t, gosolve.LessOrEqual, c.Mirror())

	mode, ok := gosolve.ParseSystemMode("Elimination")
	require.True(t, ok)
	assert.Equal(t, gosolve.SystemElimination, mode)
}
