package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI is the resource holding the current panel state.
const StateURI = "workplane://state"

// CommandsURI is the resource listing every command.
const CommandsURI = "workplane://commands"

// Controller is the part of workplane.Controller exposed to agents.
type Controller interface {
	Dispatch(ctx context.Context, cmd domain.Command) (*domain.PanelState, error)
	Panel(ctx context.Context) (*domain.PanelState, error)
}

// Server exposes the controller as an MCP server: one tool per command and the panel state
// as a resource.
type Server struct {
	ctrl      Controller
	mcpServer *server.MCPServer
	tools     []mcp.Tool
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(ctrl Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:      ctrl,
		mcpServer: server.NewMCPServer("workplane-mcp", strings.TrimSpace(workplane.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ToolName maps a command name to its tool name ("plane-3d" becomes "plane_3d").
func ToolName(command string) string {
	return strings.ReplaceAll(command, "-", "_")
}

// Tools lists the registered tools.
func (s *Server) Tools() []mcp.Tool {
	return append([]mcp.Tool(nil), s.tools...)
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

var destructive = map[string]bool{
	workplane.CmdClear:            true,
	workplane.CmdRemoveDrawable:   true,
	workplane.CmdDeleteLastStroke: true,
}

func boolPtr(b bool) *bool { return &b }

func (s *Server) registerTools() {
	for _, spec := range workplane.Catalog() {
		opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
		for _, p := range spec.Params {
			opts = append(opts, paramOption(p))
		}
		if destructive[spec.Name] {
			opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}))
		}
		tool := mcp.NewTool(ToolName(spec.Name), opts...)
		s.tools = append(s.tools, tool)
		s.mcpServer.AddTool(tool, s.commandHandler(spec.Name))
	}
}

func paramOption(p workplane.Param) mcp.ToolOption {
	props := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		props = append(props, mcp.Required())
	}
	if len(p.Enum) > 0 {
		props = append(props, mcp.Enum(p.Enum...))
	}
	switch p.Type {
	case workplane.ParamNumber, workplane.ParamInteger:
		return mcp.WithNumber(p.Name, props...)
	case workplane.ParamBoolean:
		return mcp.WithBoolean(p.Name, props...)
	}
	return mcp.WithString(p.Name, props...)
}

// commandHandler runs one command. Controller errors are tool errors, visible to the agent.
func (s *Server) commandHandler(command string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if len(args) == 0 {
			args = nil
		}
		panel, err := s.ctrl.Dispatch(ctx, domain.Command{Name: command, Args: args})
		if err != nil {
			s.logger.Info("MCP: Command rejected", "command", command, "err", err)
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", command, err)), nil
		}
		data, err := json.Marshal(panel)
		if err != nil {
			return nil, fmt.Errorf("failed to encode panel: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Workplane Panel State",
		mcp.WithMIMEType("application/json"),
	), s.readState)

	s.mcpServer.AddResource(mcp.NewResource(CommandsURI, "Workplane Commands",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(workplane.Catalog())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: CommandsURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

func (s *Server) readState(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	panel, err := s.ctrl.Panel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read panel: %w", err)
	}
	data, err := json.Marshal(panel)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: StateURI, MIMEType: "application/json", Text: string(data)},
	}, nil
}
