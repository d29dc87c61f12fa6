package mcpserver_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/mcpserver"
	"github.com/njchilds90/gosolve/internal/service"
)

func newServer() *mcpserver.Server {
	return mcpserver.NewServer(service.New(gosolve.NewSolver()), nil)
}

func call(t *testing.T, s *mcpserver.Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := s.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func sym(name string) map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": name}
}

func num(v float64) map[string]interface{} {
	return map[string]interface{}{"type": "num", "re": v}
}

func TestToolNames(t *testing.T) {
	s := newServer()
	var want []string
	for _, spec := range gosolve.Tools() {
		want = append(want, spec.Name)
	}
	assert.Equal(t, want, s.ToolNames())
}

func TestSolve(t *testing.T) {
	// x^2 = 9
	res := call(t, newServer(), "solve", map[string]interface{}{
		"symbol": "x",
		"equation": map[string]interface{}{
			"left":  map[string]interface{}{"type": "pow", "base": sym("x"), "exp": num(2)},
			"right": num(9),
		},
	})
	require.False(t, res.IsError)
	resp, ok := res.StructuredContent.(gosolve.ToolResponse)
	require.True(t, ok)
	assert.Contains(t, resp.String, "x = -3")
	assert.Contains(t, resp.String, "x = 3")
}

func TestFreeSymbols(t *testing.T) {
	res := call(t, newServer(), "free_symbols", map[string]interface{}{
		"expr": map[string]interface{}{"type": "add", "terms": []interface{}{sym("y"), sym("x")}},
	})
	require.False(t, res.IsError)
	resp := res.StructuredContent.(gosolve.ToolResponse)
	assert.Equal(t, []string{"x", "y"}, resp.Result)
}

func TestToolErrors(t *testing.T) {
	s := newServer()

	res := call(t, s, "solve", map[string]interface{}{"symbol": "x"})
	assert.True(t, res.IsError)

	res = call(t, s, "integrate", nil)
	assert.True(t, res.IsError)
}
