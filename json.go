package gosolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// JSON Serialization
// ============================================================

var (
	// ErrInvalidExpr indicates a JSON object that does not describe an expression.
	ErrInvalidExpr = errors.New("gosolve: invalid expression")
	// ErrUnknownFunction indicates a function name with no kind and no opaque flag.
	ErrUnknownFunction = errors.New("gosolve: unknown function")
	// ErrArity indicates a function applied to the wrong number of arguments.
	ErrArity = errors.New("gosolve: wrong number of arguments")
	// ErrInvalidEquation indicates an equation object with a missing side or relation.
	ErrInvalidEquation = errors.New("gosolve: invalid equation")
)

// ToJSON encodes e as the tree format FromJSON reads.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ExprMap returns the JSON object form of e.
func ExprMap(e Expr) map[string]interface{} { return e.toJSON() }

// ParseJSON decodes a JSON document into an expression.
func ParseJSON(data []byte) (Expr, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpr, err)
	}
	return FromJSON(m)
}

// FromJSON builds an expression from its object form. Besides the node
// types ToJSON writes (num, sym, const, term, func) it accepts the
// shorthand add, mul and pow objects.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: expression must be an object", ErrInvalidExpr)
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: field 'type' must be a non-empty string", ErrInvalidExpr)
	}

	subObj := func(field string) (Expr, error) {
		m, ok := data[field].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an object", ErrInvalidExpr, typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}
	subObjArray := func(field string) ([]Expr, error) {
		raw, ok := data[field].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an array", ErrInvalidExpr, typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s: %q[%d] must be an object", ErrInvalidExpr, typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}
	subString := func(field string) (string, error) {
		s, ok := data[field].(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%w: %s: %q must be a non-empty string", ErrInvalidExpr, typ, field)
		}
		return s, nil
	}

	switch typ {
	case "num":
		return numFromJSON(data)

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(name) {
		case "pi", "π":
			return Pi(), nil
		case "e":
			return E(), nil
		}
		return nil, fmt.Errorf("%w: unknown constant %q", ErrInvalidExpr, name)

	case "term":
		nodes, err := subObjArray("nodes")
		if err != nil {
			return nil, err
		}
		rawOps, ok := data["ops"].([]interface{})
		if !ok || len(nodes) == 0 || len(rawOps) != len(nodes)-1 {
			return nil, fmt.Errorf("%w: term: %d nodes need %d ops", ErrInvalidExpr, len(nodes), len(nodes)-1)
		}
		ops := make([]Op, len(rawOps))
		for i, r := range rawOps {
			s, _ := r.(string)
			op, ok := ParseOp(s)
			if !ok {
				return nil, fmt.Errorf("%w: term: unknown operator %v", ErrInvalidExpr, r)
			}
			ops[i] = op
		}
		return ApplyOrderOfOperations(NewTerm(nodes, ops)), nil

	case "add":
		terms, err := subObjArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subObjArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		var args []Expr
		if _, single := data["arg"]; single {
			a, err := subObj("arg")
			if err != nil {
				return nil, err
			}
			args = []Expr{a}
		} else if args, err = subObjArray("args"); err != nil {
			return nil, err
		}
		if opaque, _ := data["opaque"].(bool); opaque {
			return OpaqueOf(name, args...), nil
		}
		return funcFromName(name, args)
	}
	return nil, fmt.Errorf("%w: unknown expression type %q", ErrInvalidExpr, typ)
}

// numFromJSON reads {"re": 1.5, "im": 2}, {"value": "1/3"} or
// {"undefined": true}.
func numFromJSON(data map[string]interface{}) (Expr, error) {
	if u, _ := data["undefined"].(bool); u {
		return Undefined(), nil
	}
	if v, ok := data["value"]; ok {
		if s, ok := v.(string); ok {
			r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
			if !ok {
				return nil, fmt.Errorf("%w: num: invalid value %q", ErrInvalidExpr, s)
			}
			f, _ := r.Float64()
			return N(f), nil
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: num: 'value' must be a number or a string", ErrInvalidExpr)
		}
		return N(f), nil
	}
	re, ok := toFloat(data["re"])
	if !ok {
		return nil, fmt.Errorf("%w: num: missing 're'", ErrInvalidExpr)
	}
	im := 0.0
	if v, present := data["im"]; present {
		if im, ok = toFloat(v); !ok {
			return nil, fmt.Errorf("%w: num: 'im' must be a number", ErrInvalidExpr)
		}
	}
	return NC(re, im), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// funcFromName applies a named function kind. log with one argument is the
// common logarithm.
func funcFromName(name string, args []Expr) (Expr, error) {
	switch strings.ToLower(name) {
	case "ln":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: ln takes 1 argument, got %d", ErrArity, len(args))
		}
		return LnOf(args[0]), nil
	case "sqrt":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: sqrt takes 1 argument, got %d", ErrArity, len(args))
		}
		return SqrtOf(args[0]), nil
	case "exp":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: exp takes 1 argument, got %d", ErrArity, len(args))
		}
		return PowOf(E(), args[0]), nil
	}
	kind, ok := ParseFunctionKind(strings.ToLower(name))
	if !ok || kind == KindOpaque {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	if kind == KindLog && len(args) == 1 {
		args = append(args, N(10))
	}
	if kind == KindSum && len(args) == 4 {
		if _, ok := args[1].(*Sym); !ok {
			return nil, fmt.Errorf("%w: sum index must be a symbol", ErrInvalidExpr)
		}
	}
	if want := capabilities[kind].arity; want >= 0 && len(args) != want {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, name, want, len(args))
	}
	if kind == KindPow {
		return PowOf(args[0], args[1]), nil
	}
	return apply(kind, args...), nil
}

// ------------------------------------------------------------
// Equations and results
// ------------------------------------------------------------

// EquationFromJSON reads {"left": {...}, "right": {...}, "comparison": "<"}.
// The comparison defaults to "=".
func EquationFromJSON(data map[string]interface{}) (Equation, error) {
	lm, ok1 := data["left"].(map[string]interface{})
	rm, ok2 := data["right"].(map[string]interface{})
	if !ok1 || !ok2 {
		return Equation{}, fmt.Errorf("%w: 'left' and 'right' must be expression objects", ErrInvalidEquation)
	}
	left, err := FromJSON(lm)
	if err != nil {
		return Equation{}, fmt.Errorf("left: %w", err)
	}
	right, err := FromJSON(rm)
	if err != nil {
		return Equation{}, fmt.Errorf("right: %w", err)
	}
	c := EqualTo
	if s, ok := data["comparison"].(string); ok && s != "" {
		if c, ok = ParseComparison(s); !ok {
			return Equation{}, fmt.Errorf("%w: unknown comparison %q", ErrInvalidEquation, s)
		}
	}
	return NewRelation(left, c, right), nil
}

// EquationMap is the object form of eq.
func EquationMap(eq Equation) map[string]interface{} {
	return map[string]interface{}{
		"left":       eq.Left.toJSON(),
		"right":      eq.Right.toJSON(),
		"comparison": eq.Comparison.String(),
	}
}

func solutionMap(s Solution) map[string]interface{} {
	m := map[string]interface{}{
		"symbol": s.Symbol,
		"kind":   s.Kind.String(),
		"string": s.String(),
	}
	switch s.Kind {
	case SolutionExact:
		m["value"] = s.Value.toJSON()
		m["latex"] = s.Value.LaTeX()
		m["comparison"] = s.Comparison.String()
		if s.Multiplicity > 1 {
			m["multiplicity"] = s.Multiplicity
		}
	case SolutionGeneral:
		m["principal"] = s.General.Principal.toJSON()
		m["period"] = s.General.Period.toJSON()
		m["iterator"] = s.General.Iterator
		m["latex"] = s.General.Expr().LaTeX()
	}
	return m
}

// ResultMap is the object form of a SolveResult.
func ResultMap(r SolveResult) map[string]interface{} {
	sols := make([]map[string]interface{}, len(r.Solutions))
	for i, s := range r.Solutions {
		sols[i] = solutionMap(s)
	}
	rs := make([]string, len(r.Restrictions))
	for i, x := range r.Restrictions {
		rs[i] = x.String()
	}
	m := map[string]interface{}{
		"success":      r.Success,
		"symbol":       r.Symbol,
		"solutions":    sols,
		"restrictions": rs,
	}
	if r.Strategy != "" {
		m["strategy"] = r.Strategy
	}
	if r.Partial {
		m["partial"] = true
	}
	if len(r.Messages) > 0 {
		m["messages"] = r.Messages
	}
	return m
}

// SystemResultMap is the object form of a SystemResult.
func SystemResultMap(r SystemResult) map[string]interface{} {
	sets := make([]map[string]string, len(r.Sets))
	for i, s := range r.Sets {
		sets[i] = map[string]string{}
		for k, v := range s {
			sets[i][k] = v.String()
		}
	}
	m := map[string]interface{}{
		"success":      r.Success,
		"mode":         r.Mode.String(),
		"sets":         sets,
		"no_solutions": r.NoSolutions,
		"dependent":    r.Dependent,
	}
	if len(r.Messages) > 0 {
		m["messages"] = r.Messages
	}
	return m
}
