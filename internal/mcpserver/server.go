// Package mcpserver exposes the solver tools as a Model Context Protocol
// server so agents can call them directly.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/logging"
	"github.com/njchilds90/gosolve/internal/service"
)

// ErrToolFailed wraps the error text of a tool response.
var ErrToolFailed = errors.New("tool failed")

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Server wraps a service.Service and exposes it as an MCP server.
type Server struct {
	svc       *service.Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
	handlers  map[string]toolHandler
}

// NewServer registers one MCP tool per solver tool.
func NewServer(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		svc:       svc,
		logger:    logger,
		mcpServer: server.NewMCPServer("gosolve", gosolve.Version),
		handlers:  make(map[string]toolHandler),
	}
	s.registerTools()
	return s
}

// ServeStdio serves on Stdin/Stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ToolNames lists the registered tools in name order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallTool dispatches request to the handler registered for its name, the
// same way the MCP transport does.
func (s *Server) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[request.Params.Name]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown tool %q", request.Params.Name)), nil
	}
	return h(ctx, request)
}

func (s *Server) registerTools() {
	for _, spec := range gosolve.Tools() {
		tool := mcp.NewTool(spec.Name, toolOptions(spec)...)
		h := mcp.NewStructuredToolHandler(s.handlerFor(spec.Name))
		s.handlers[spec.Name] = h
		s.mcpServer.AddTool(tool, h)
	}
}

func toolOptions(spec gosolve.ToolSpec) []mcp.ToolOption {
	required := make(map[string]bool, len(spec.Required))
	for _, r := range spec.Required {
		required[r] = true
	}
	names := make([]string, 0, len(spec.Properties))
	for name := range spec.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, name := range names {
		popts := []mcp.PropertyOption{mcp.Description(propertyDescription(name))}
		if required[name] {
			popts = append(popts, mcp.Required())
		}
		switch spec.Properties[name] {
		case "boolean":
			opts = append(opts, mcp.WithBoolean(name, popts...))
		case "object":
			opts = append(opts, mcp.WithObject(name, popts...))
		case "array":
			opts = append(opts, mcp.WithArray(name, popts...))
		default:
			opts = append(opts, mcp.WithString(name, popts...))
		}
	}
	return opts
}

func propertyDescription(name string) string {
	switch name {
	case "expr":
		return "Expression tree, e.g. {\"type\":\"add\",\"terms\":[...]}"
	case "equation":
		return "Equation {left, right, comparison}; comparison defaults to ="
	case "equations":
		return "Array of equations"
	case "symbol", "var":
		return "Symbol name"
	case "quadratic_method":
		return "factor, formula or complete-square"
	case "complex":
		return "Allow complex solutions"
	case "steps":
		return "Record the solving steps"
	case "mode":
		return "auto, substitution or elimination"
	}
	return name
}

func (s *Server) handlerFor(name string) func(context.Context, mcp.CallToolRequest, map[string]interface{}) (gosolve.ToolResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (gosolve.ToolResponse, error) {
		if args == nil {
			args = map[string]interface{}{}
		}
		resp, err := s.svc.Call(ctx, gosolve.ToolRequest{Tool: name, Params: args})
		if err != nil {
			s.logger.Warn("mcp tool call failed", "tool", name, "error", err)
			return gosolve.ToolResponse{}, err
		}
		if resp.Error != "" {
			return gosolve.ToolResponse{}, fmt.Errorf("%w: %s", ErrToolFailed, resp.Error)
		}
		return resp, nil
	}
}
