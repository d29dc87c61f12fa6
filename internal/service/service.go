// Package service runs tool calls for the HTTP and MCP adapters: it
// consults the result cache, bounds each call with a deadline and records
// metrics.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/cache"
	"github.com/njchilds90/gosolve/internal/logging"
	"github.com/njchilds90/gosolve/internal/metrics"
)

// ErrTimeout is returned when a call exceeds its deadline.
var ErrTimeout = errors.New("service: solve timed out")

// Service is safe for concurrent use.
type Service struct {
	solver  *gosolve.AlgebraSolver
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Service)

// WithCache sets the result cache. The default stores nothing.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithMetrics sets the collectors calls are recorded in.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds every call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// New creates a service around solver.
func New(solver *gosolve.AlgebraSolver, opts ...Option) *Service {
	s := &Service{
		solver:  solver,
		cache:   cache.Nop{},
		metrics: metrics.New(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the collectors of this service.
func (s *Service) Metrics() *metrics.Metrics { return s.metrics }

// Call serves one tool request. Tool level failures (unknown tool, bad
// params, unsolvable input) come back in ToolResponse.Error; the error
// return is reserved for timeouts and cancellation.
func (s *Service) Call(ctx context.Context, req gosolve.ToolRequest) (gosolve.ToolResponse, error) {
	key, keyErr := cache.Key(req.Tool, req.Params)
	if keyErr == nil {
		if resp, ok := s.lookup(ctx, key); ok {
			return resp, nil
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan gosolve.ToolResponse, 1)
	// an abandoned call runs on in the background until the solver's
	// depth cap stops it
	go func() {
		done <- s.solver.HandleToolCall(req)
	}()

	var resp gosolve.ToolResponse
	select {
	case resp = <-done:
	case <-ctx.Done():
		s.metrics.ObserveCall(req.Tool, "", "timeout", time.Since(start))
		s.logger.Warn("tool call abandoned", "tool", req.Tool, "error", ctx.Err())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return gosolve.ToolResponse{}, fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
		}
		return gosolve.ToolResponse{}, ctx.Err()
	}

	strategy, outcome := classify(resp)
	s.metrics.ObserveCall(req.Tool, strategy, outcome, time.Since(start))
	s.logger.Debug("tool call", "tool", req.Tool, "outcome", outcome, "strategy", strategy, "elapsed", time.Since(start))

	if resp.Error == "" && keyErr == nil {
		s.store(ctx, key, resp)
	}
	return resp, nil
}

func (s *Service) lookup(ctx context.Context, key string) (gosolve.ToolResponse, bool) {
	var resp gosolve.ToolResponse
	data, err := s.cache.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.ObserveCache("miss")
		return resp, false
	case err != nil:
		s.metrics.ObserveCache("error")
		s.logger.Warn("cache get failed", "error", err)
		return resp, false
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		s.metrics.ObserveCache("error")
		s.logger.Warn("cached response is corrupt", "key", key, "error", err)
		return resp, false
	}
	s.metrics.ObserveCache("hit")
	return resp, true
}

func (s *Service) store(ctx context.Context, key string, resp gosolve.ToolResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("response not cacheable", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache set failed", "error", err)
	}
}

// classify derives metric labels from a response.
func classify(resp gosolve.ToolResponse) (strategy, outcome string) {
	if resp.Error != "" {
		return "", "error"
	}
	m, ok := resp.Result.(map[string]interface{})
	if !ok {
		return "", "ok"
	}
	success, solved := m["success"].(bool)
	if !solved {
		return "", "ok"
	}
	strategy, _ = m["strategy"].(string)
	switch {
	case !success:
		outcome = "unsolved"
	case m["partial"] == true:
		outcome = "partial"
	default:
		outcome = "solved"
	}
	return strategy, outcome
}
