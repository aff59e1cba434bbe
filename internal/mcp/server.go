package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/audit"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes floor plan tools.
type Server struct {
	state   *app.State
	source  app.Source
	history *audit.Store
	logger  *zap.Logger
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over state. When source is not nil the
// state is reloaded from it before every tool call.
func NewServer(state *app.State, source app.Source, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		state:  state,
		source: source,
		logger: logger.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"officespace",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listFloorsTool, s.handleListFloors)
	s.mcp.AddTool(getOfficeTool, s.handleGetOffice)
	s.mcp.AddTool(findOccupantTool, s.handleFindOccupant)
	s.mcp.AddTool(renderFloorTool, s.handleRenderFloor)
}

// SetHistory enables the office_history tool.
func (s *Server) SetHistory(store *audit.Store) {
	s.history = store
	s.mcp.AddTool(officeHistoryTool, s.handleOfficeHistory)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) refresh(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	if err := s.state.Load(ctx, s.source); err != nil {
		s.logger.Warn("reloading offices", zap.Error(err))
		if !s.state.Loaded() {
			return err
		}
	}
	return nil
}
