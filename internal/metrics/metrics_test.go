package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosolve/internal/metrics"
)

func TestMetrics_Exposition(t *testing.T) {
	m := metrics.New()
	m.ObserveCall("solve", "quadratic", "solved", 3*time.Millisecond)
	m.ObserveCall("simplify", "", "ok", time.Millisecond)
	m.ObserveCache("hit")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `gosolve_tool_calls_total{outcome="solved",strategy="quadratic",tool="solve"} 1`)
	assert.Contains(t, text, `gosolve_tool_calls_total{outcome="ok",strategy="none",tool="simplify"} 1`)
	assert.Contains(t, text, `gosolve_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, text, "gosolve_tool_duration_seconds_count")
}

func TestMetrics_Independent(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.ObserveCache("miss")
	mfs, err := b.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		assert.NotEqual(t, "gosolve_cache_lookups_total", mf.GetName())
	}
}
