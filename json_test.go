package gosolve_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

func TestJSON_RoundTrip(t *testing.T) {
	cases := []gosolve.Expr{
		gosolve.AddOf(gosolve.MulOf(n(3), gosolve.PowOf(x, n(2))), gosolve.SinOf(y), gosolve.Pi()),
		gosolve.DivOf(gosolve.LogOf(x, n(2)), gosolve.AddOf(x, n(1))),
		gosolve.NC(1, -2),
		gosolve.Undefined(),
		gosolve.OpaqueOf("deriv", x, x),
		gosolve.Chain(x, gosolve.OpSub, n(1)),
	}
	for _, e := range cases {
		s, err := gosolve.ToJSON(e)
		require.NoError(t, err)
		back, err := gosolve.ParseJSON([]byte(s))
		require.NoError(t, err, s)
		assert.Truef(t, gosolve.AreEqual(e, back) || e.Equal(back), "%s -> %s -> %s", e, s, back)
	}
}

func TestJSON_Shorthand(t *testing.T) {
	doc := `{"type":"add","terms":[
		{"type":"mul","factors":[{"type":"num","value":"2/3"},{"type":"sym","name":"x"}]},
		{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","value":2}},
		{"type":"func","name":"sqrt","arg":{"type":"num","re":9}}
	]}`
	e, err := gosolve.ParseJSON([]byte(doc))
	require.NoError(t, err)
	got := eval(t, e.Sub("x", n(3)))
	assert.InDelta(t, 2+9+3, got, 1e-9)
}

func TestJSON_FunctionNames(t *testing.T) {
	cases := []struct {
		doc  string
		want float64
	}{
		{`{"type":"func","name":"ln","args":[{"type":"const","name":"e"}]}`, 1},
		{`{"type":"func","name":"log","args":[{"type":"num","re":100}]}`, 2},
		{`{"type":"func","name":"log","args":[{"type":"num","re":8},{"type":"num","re":2}]}`, 3},
		{`{"type":"func","name":"exp","args":[{"type":"num","re":0}]}`, 1},
		{`{"type":"func","name":"cos","args":[{"type":"const","name":"pi"}]}`, -1},
		{`{"type":"func","name":"choose","args":[{"type":"num","re":4},{"type":"num","re":2}]}`, 6},
		{`{"type":"term","nodes":[{"type":"num","re":2},{"type":"num","re":3}],"ops":["^"]}`, 8},
	}
	for _, tc := range cases {
		e, err := gosolve.ParseJSON([]byte(tc.doc))
		require.NoError(t, err, tc.doc)
		assert.InDelta(t, tc.want, eval(t, e), 1e-9, tc.doc)
	}
}

func TestJSON_Errors(t *testing.T) {
	cases := []struct {
		doc  string
		want error
	}{
		{`{"name":"x"}`, gosolve.ErrInvalidExpr},
		{`{"type":"widget"}`, gosolve.ErrInvalidExpr},
		{`{"type":"num","value":"one third"}`, gosolve.ErrInvalidExpr},
		{`{"type":"const","name":"tau"}`, gosolve.ErrInvalidExpr},
		{`{"type":"term","nodes":[{"type":"sym","name":"x"}],"ops":["+"]}`, gosolve.ErrInvalidExpr},
		{`{"type":"func","name":"gamma","args":[{"type":"sym","name":"x"}]}`, gosolve.ErrUnknownFunction},
		{`{"type":"func","name":"sin","args":[{"type":"sym","name":"x"},{"type":"sym","name":"y"}]}`, gosolve.ErrArity},
		{`not json`, gosolve.ErrInvalidExpr},
	}
	for _, tc := range cases {
		_, err := gosolve.ParseJSON([]byte(tc.doc))
		require.Error(t, err, tc.doc)
		assert.Truef(t, errors.Is(err, tc.want), "%s: %v", tc.doc, err)
	}
}

func TestEquationFromJSON(t *testing.T) {
	var m map[string]interface{}
	doc := `{"left":{"type":"sym","name":"x"},"right":{"type":"num","re":2},"comparison":">="}`
	require.NoError(t, json.Unmarshal([]byte(doc), &m))
	e, err := gosolve.EquationFromJSON(m)
	require.NoError(t, err)
	assert.Equal(t, gosolve.GreaterOrEqual, e.Comparison)
	assert.Equal(t, []string{"x"}, e.Symbols())

	delete(m, "comparison")
	e, err = gosolve.EquationFromJSON(m)
	require.NoError(t, err)
	assert.Equal(t, gosolve.EqualTo, e.Comparison)

	m["comparison"] = "~"
	_, err = gosolve.EquationFromJSON(m)
	assert.True(t, errors.Is(err, gosolve.ErrInvalidEquation))

	delete(m, "right")
	_, err = gosolve.EquationFromJSON(m)
	assert.True(t, errors.Is(err, gosolve.ErrInvalidEquation))
}

func TestResultMap(t *testing.T) {
	res := solve(t, eq(gosolve.PowOf(x, n(2)), n(4)), "x")
	m := gosolve.ResultMap(res)
	assert.Equal(t, true, m["success"])
	sols, ok := m["solutions"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, sols, 2)
	assert.Equal(t, "exact", sols[0]["kind"])

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"symbol":"x"`)
}
