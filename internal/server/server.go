// Package server exposes the solver tools over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/service"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// NewHandler routes:
//
//	POST /tool    any tool call {"tool": ..., "params": {...}}
//	POST /solve   params of the solve tool
//	POST /system  params of the solve_system tool
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
//	GET  /metrics Prometheus metrics
func NewHandler(svc *service.Service, logger *slog.Logger) http.Handler {
	h := &handler{svc: svc, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/tool", h.tool)
	r.Post("/solve", h.fixedTool("solve"))
	r.Post("/system", h.fixedTool("solve_system"))
	r.Get("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, gosolve.MCPToolSpec())
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Method(http.MethodGet, "/metrics", svc.Metrics().Handler())
	return r
}

type handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func (h *handler) tool(w http.ResponseWriter, r *http.Request) {
	var req gosolve.ToolRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.serve(w, r, req)
}

func (h *handler) fixedTool(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params map[string]interface{}
		if err := decodeBody(w, r, &params); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		h.serve(w, r, gosolve.ToolRequest{Tool: name, Params: params})
	}
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request, req gosolve.ToolRequest) {
	resp, err := h.svc.Call(r.Context(), req)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, service.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		h.logger.Warn("tool call failed", "tool", req.Tool, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, status, err)
		return
	}
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// decodeBody reads exactly one JSON document.
func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully within five seconds.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("gosolve server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
