package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/logstate"
	"github.com/aretw0/logstate/internal/logging"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI is the resource exposing the full record, call count included.
const StateURI = "logstate://state"

// LoggingResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type LoggingResponse struct {
	Path           *string `json:"path" jsonschema_description:"Path currently logged to, null when none"`
	PreviousPath   *string `json:"previousPath" jsonschema_description:"Path active before the current one"`
	Active         bool    `json:"active" jsonschema_description:"Whether logging is running"`
	RequestStatus  bool    `json:"requestStatus" jsonschema_description:"False when the request changed nothing"`
	RequestMessage string  `json:"requestMessage" jsonschema_description:"Human readable outcome"`
}

// StartArgs are the arguments of the start_logging tool.
type StartArgs struct {
	Path string `json:"path"`
}

// NoArgs is used by tools without parameters.
type NoArgs struct{}

// Controller defines the logging-state core used by the MCP server.
type Controller interface {
	Start(path string) (domain.Result, error)
	Stop() (domain.Result, error)
	Status() (domain.Result, error)
	Diagnostics() (domain.Record, error)
}

// Server exposes the controller as an MCP Server.
type Server struct {
	ctrl      Controller
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards output.
func NewServer(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		ctrl:      ctrl,
		logger:    logger,
		mcpServer: server.NewMCPServer("logstate-mcp", strings.TrimSpace(logstate.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: start_logging
	startTool := mcp.NewTool("start_logging",
		mcp.WithDescription("Begin logging to a path. Starting the path that is already active changes nothing and reports requestStatus=false."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to log to")),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOutputSchema[LoggingResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: stop_logging
	stopTool := mcp.NewTool("stop_logging",
		mcp.WithDescription("Halt the active logging session. Reports requestStatus=false when nothing was active."),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOutputSchema[LoggingResponse](),
	)
	s.mcpServer.AddTool(stopTool, mcp.NewStructuredToolHandler(s.handleStop))

	// TOOL: logging_status
	statusTool := mcp.NewTool("logging_status",
		mcp.WithDescription("Query whether logging is active and which paths are involved."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[LoggingResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (LoggingResponse, error) {
	res, err := s.ctrl.Start(args.Path)
	return s.toResponse("start_logging", res, err)
}

func (s *Server) handleStop(ctx context.Context, request mcp.CallToolRequest, _ NoArgs) (LoggingResponse, error) {
	res, err := s.ctrl.Stop()
	return s.toResponse("stop_logging", res, err)
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, _ NoArgs) (LoggingResponse, error) {
	res, err := s.ctrl.Status()
	return s.toResponse("logging_status", res, err)
}

func (s *Server) toResponse(tool string, res domain.Result, err error) (LoggingResponse, error) {
	if err != nil {
		s.logger.Error("MCP tool failed", "tool", tool, "error", err)
		return LoggingResponse{}, fmt.Errorf("%s failed: %w", tool, err)
	}
	return LoggingResponse{
		Path:           res.Path,
		PreviousPath:   res.PreviousPath,
		Active:         res.Active,
		RequestStatus:  res.Success,
		RequestMessage: res.Message,
	}, nil
}

// stateResource is the JSON body of StateURI.
type stateResource struct {
	Path         *string `json:"path"`
	PreviousPath *string `json:"previousPath"`
	Active       bool    `json:"active"`
	CallCount    uint64  `json:"callCount"`
}

func (s *Server) registerResources() {
	// EXPOSE: logstate://state
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Logging State",
		mcp.WithResourceDescription("Current logging state and controller call count. Reading it is not counted as a call."),
		mcp.WithMIMEType("application/json"),
	), s.readState)
}

func (s *Server) readState(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rec, err := s.ctrl.Diagnostics()
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	jsonBytes, err := json.Marshal(stateResource{
		Path:         rec.Path,
		PreviousPath: rec.PreviousPath,
		Active:       rec.Active,
		CallCount:    rec.CallCount,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StateURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
