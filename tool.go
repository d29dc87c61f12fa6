package gosolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ============================================================
// Tool Interface
// ============================================================

var (
	// ErrUnknownTool indicates a tool name that HandleToolCall does not serve.
	ErrUnknownTool = errors.New("gosolve: unknown tool")
	// ErrInvalidParams indicates tool params that do not decode into the tool's request.
	ErrInvalidParams = errors.New("gosolve: invalid tool params")
)

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type exprParams struct {
	Expr map[string]interface{} `mapstructure:"expr"`
	Var  string                 `mapstructure:"var"`
}

type solveParams struct {
	Equation        map[string]interface{} `mapstructure:"equation"`
	Symbol          string                 `mapstructure:"symbol"`
	QuadraticMethod string                 `mapstructure:"quadratic_method"`
	Complex         bool                   `mapstructure:"complex"`
	Steps           bool                   `mapstructure:"steps"`
}

type systemParams struct {
	Equations []map[string]interface{} `mapstructure:"equations"`
	Mode      string                   `mapstructure:"mode"`
}

// decodeParams decodes a params map into out, rejecting unknown keys.
func decodeParams(params map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// HandleToolCall serves req with a solver built from default options.
func HandleToolCall(req ToolRequest) ToolResponse {
	return NewSolver().HandleToolCall(req)
}

// HandleToolCall serves one tool request. Errors are reported in the
// response, never returned.
func (s *AlgebraSolver) HandleToolCall(req ToolRequest) ToolResponse {
	resp, err := s.handleTool(req)
	if err != nil {
		s.opts.Logger.Debug("tool call failed", "tool", req.Tool, "err", err)
		return ToolResponse{Error: err.Error()}
	}
	return resp
}

func (s *AlgebraSolver) handleTool(req ToolRequest) (ToolResponse, error) {
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), LaTeX: LaTeX(e), String: String(e)}
	}
	getExpr := func() (Expr, string, error) {
		var p exprParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, "", err
		}
		if p.Expr == nil {
			return nil, "", fmt.Errorf("%w: missing param: expr", ErrInvalidParams)
		}
		e, err := FromJSON(p.Expr)
		return e, p.Var, err
	}
	needVar := func(v string) error {
		if v == "" {
			return fmt.Errorf("%w: missing param: var", ErrInvalidParams)
		}
		return nil
	}

	switch req.Tool {
	case "solve":
		var p solveParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if p.Equation == nil || p.Symbol == "" {
			return ToolResponse{}, fmt.Errorf("%w: solve needs equation and symbol", ErrInvalidParams)
		}
		eq, err := EquationFromJSON(p.Equation)
		if err != nil {
			return ToolResponse{}, err
		}
		solver := s
		var opts []Option
		if p.QuadraticMethod != "" {
			m, ok := ParseQuadraticMethod(p.QuadraticMethod)
			if !ok {
				return ToolResponse{}, fmt.Errorf("%w: unknown quadratic_method %q", ErrInvalidParams, p.QuadraticMethod)
			}
			opts = append(opts, WithQuadraticMethod(m))
		}
		if p.Complex {
			opts = append(opts, WithComplexMode(true))
		}
		var rec *StepRecorder
		if p.Steps {
			rec = &StepRecorder{}
			opts = append(opts, WithSteps(rec))
		}
		if len(opts) > 0 {
			solver = s.With(opts...)
		}
		res := solver.Solve(eq, p.Symbol)
		out := ResultMap(res)
		if rec != nil {
			out["steps"] = rec.Steps
		}
		return ToolResponse{Result: out, String: res.String(), LaTeX: solutionsLaTeX(res)}, nil

	case "solve_system":
		var p systemParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if len(p.Equations) == 0 {
			return ToolResponse{}, fmt.Errorf("%w: missing param: equations", ErrInvalidParams)
		}
		mode := SystemAuto
		if p.Mode != "" {
			m, ok := ParseSystemMode(p.Mode)
			if !ok {
				return ToolResponse{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, p.Mode)
			}
			mode = m
		}
		eqs := make([]Equation, len(p.Equations))
		for i, m := range p.Equations {
			eq, err := EquationFromJSON(m)
			if err != nil {
				return ToolResponse{}, fmt.Errorf("equations[%d]: %w", i, err)
			}
			eqs[i] = eq
		}
		res := s.SolveSystem(eqs, mode)
		return ToolResponse{Result: SystemResultMap(res), String: res.String()}, nil

	case "simplify":
		e, _, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(Canonicalize(e)), nil

	case "expand":
		e, _, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(Expand(e)), nil

	case "factor":
		e, v, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		if err := needVar(v); err != nil {
			return ToolResponse{}, err
		}
		return respond(FactorExpr(Canonicalize(e), v).Product()), nil

	case "combine_fractions":
		e, _, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(CombineFractions(Canonicalize(e))), nil

	case "degree":
		e, v, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		if err := needVar(v); err != nil {
			return ToolResponse{}, err
		}
		d := Degree(Canonicalize(e), v)
		return ToolResponse{Result: d, String: fmt.Sprint(d)}, nil

	case "free_symbols":
		e, _, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		names := SortedSymbols(e)
		return ToolResponse{Result: names, String: strings.Join(names, ", ")}, nil

	case "to_latex":
		e, _, err := getExpr()
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{LaTeX: LaTeX(e), String: LaTeX(e)}, nil

	case "tool_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "tool specification"}, nil
	}
	return ToolResponse{}, fmt.Errorf("%w: %s", ErrUnknownTool, req.Tool)
}

func solutionsLaTeX(r SolveResult) string {
	var parts []string
	for _, s := range r.Solutions {
		switch s.Kind {
		case SolutionExact:
			parts = append(parts, s.Symbol+" "+comparisonLaTeX(s.Comparison)+" "+s.Value.LaTeX())
		case SolutionGeneral:
			parts = append(parts, s.Symbol+" = "+s.General.Expr().LaTeX())
		}
	}
	return strings.Join(parts, ",\\ ")
}

func comparisonLaTeX(c Comparison) string {
	switch c {
	case GreaterOrEqual:
		return `\geq`
	case LessOrEqual:
		return `\leq`
	case NotEqualTo:
		return `\neq`
	}
	return c.String()
}

// ------------------------------------------------------------
// Tool specification
// ------------------------------------------------------------

// ToolSpec describes one tool: its name, a description and the JSON type
// of every parameter.
type ToolSpec struct {
	Name        string
	Description string
	Required    []string
	Properties  map[string]string
}

// InputSchema is the JSON schema object of the tool's params.
func (t ToolSpec) InputSchema() map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range t.Properties {
		properties[k] = map[string]interface{}{"type": typ}
	}
	required := t.Required
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Tools lists the tools HandleToolCall serves, ordered by name.
func Tools() []ToolSpec {
	tools := []ToolSpec{
		ts("solve", "Solve an equation or inequality for one symbol. equation={left,right,comparison}",
			[]string{"equation", "symbol"},
			map[string]string{"equation": "object", "symbol": "string", "quadratic_method": "string", "complex": "boolean", "steps": "boolean"}),
		ts("solve_system", "Solve up to three simultaneous equations. mode is auto, substitution or elimination",
			[]string{"equations"}, map[string]string{"equations": "array", "mode": "string"}),
		ts("simplify", "Canonicalize a symbolic expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("expand", "Algebraically expand expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("factor", "Factor polynomial in variable", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("combine_fractions", "Rewrite a sum over its least common denominator", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("degree", "Polynomial degree in variable, -1 when not a polynomial", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("tool_spec", "Return this tool schema", nil, map[string]string{}),
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

func ts(name, description string, required []string, props map[string]string) ToolSpec {
	return ToolSpec{Name: name, Description: description, Required: required, Properties: props}
}

// MCPToolSpec returns the tool list as an indented JSON document.
func MCPToolSpec() string {
	tools := make([]map[string]interface{}, 0, len(Tools()))
	for _, t := range Tools() {
		tools = append(tools, map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema(),
		})
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": tools}, "", "  ")
	return string(b)
}
