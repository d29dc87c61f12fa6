package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/cache"
	"github.com/njchilds90/gosolve/internal/logging"
	"github.com/njchilds90/gosolve/internal/server"
	"github.com/njchilds90/gosolve/internal/service"
)

func newHandler() http.Handler {
	svc := service.New(gosolve.NewSolver(), service.WithCache(cache.NewMemory(16, 0)))
	return server.NewHandler(svc, logging.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, newHandler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestSchema(t *testing.T) {
	rr := do(t, newHandler(), http.MethodGet, "/schema", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, gosolve.MCPToolSpec(), rr.Body.String())
}

func TestSolve(t *testing.T) {
	body := `{"symbol":"x","equation":{
		"left":{"type":"func","name":"abs","args":[{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"num","re":-3}]}]},
		"right":{"type":"num","re":5}}}`
	rr := do(t, newHandler(), http.MethodPost, "/solve", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp gosolve.ToolResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.String, "x = -2")
	assert.Contains(t, resp.String, "x = 8")
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "absolute value", result["strategy"])
}

func TestSolve_Reciprocal(t *testing.T) {
	// 1/x = 2
	body := `{"symbol":"x","equation":{
		"left":{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","re":-1}},
		"right":{"type":"num","re":2}}}`
	rr := do(t, newHandler(), http.MethodPost, "/solve", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "x = 1/2")
}

func TestSystem(t *testing.T) {
	body := `{"equations":[
		{"left":{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"sym","name":"y"}]},"right":{"type":"num","re":3}},
		{"left":{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"mul","factors":[{"type":"num","re":-1},{"type":"sym","name":"y"}]}]},"right":{"type":"num","re":1}}]}`
	rr := do(t, newHandler(), http.MethodPost, "/system", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"string":"{x = 2, y = 1}"`)
}

func TestTool(t *testing.T) {
	h := newHandler()
	rr := do(t, h, http.MethodPost, "/tool", `{"tool":"degree","params":{"expr":{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","re":3}},"var":"x"}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"result":3`)

	rr = do(t, h, http.MethodPost, "/tool", `{"tool":"integrate","params":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown tool")
}

func TestBadRequests(t *testing.T) {
	h := newHandler()
	cases := map[string]string{
		"malformed":     `{"tool":`,
		"unknown field": `{"tool":"simplify","params":{},"extra":1}`,
		"trailing data": `{"tool":"simplify","params":{}} {}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/tool", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "invalid JSON")
		})
	}

	rr := do(t, h, http.MethodGet, "/tool", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHandler()
	do(t, h, http.MethodPost, "/tool", `{"tool":"free_symbols","params":{"expr":{"type":"sym","name":"x"}}}`)
	rr := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `gosolve_tool_calls_total{outcome="ok",strategy="none",tool="free_symbols"} 1`)
}
