// Package mcpserver exposes the CAD addon to MCP clients. Every tool
// forwards to the addon's RPC endpoint through a lazily-established
// connection; mutation tools attach a screenshot of the active view to
// their result unless text-only feedback is configured.
package mcpserver

import (
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/parcad/parcad/pkg/client"
	"github.com/parcad/parcad/pkg/config"
	"github.com/parcad/parcad/pkg/console"
)

// Server wraps the MCP server and the addon connection.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	con       *console.Console

	mu   sync.Mutex
	conn *client.Client
}

// NewServer creates the MCP server and registers every tool.
func NewServer(cfg *config.Config, con *console.Console) *Server {
	if con == nil {
		con = console.Default()
	}
	mcpServer := server.NewMCPServer(
		"parcad",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer: mcpServer,
		cfg:       cfg,
		con:       con,
	}

	s.registerTools()
	s.registerNodeTools()
	s.registerPrompts()

	return s
}

// ServeStdio starts the server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close drops the addon connection if one was established.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// connection returns the live addon connection, dialing on first use.
// Dial and ping failures surface here so every tool reports the same
// connection error.
func (s *Server) connection() (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		if err := s.conn.Ping(); err == nil {
			return s.conn, nil
		}
		s.conn.Close()
		s.conn = nil
	}
	conn, err := client.Connect(s.cfg.Server.Host, s.cfg.Server.Port)
	if err != nil {
		s.con.Error("Failed to connect to CAD addon: %v", err)
		return nil, fmt.Errorf("Failed to connect to the CAD application. Make sure the addon's RPC server is running.")
	}
	s.conn = conn
	return conn, nil
}

// screenshotContents appends visual feedback to a tool result: the
// active-view screenshot when available, otherwise a note explaining why
// there is none. Text-only mode appends nothing.
func (s *Server) screenshotContents(conn *client.Client, contents []mcp.Content) []mcp.Content {
	if s.cfg.OnlyTextFeedback {
		return contents
	}
	shot, err := conn.GetActiveScreenshot("Isometric")
	if err == nil && shot != "" {
		return append(contents, mcp.NewImageContent(shot, "image/png"))
	}
	return append(contents, mcp.NewTextContent(
		"Note: Visual preview is unavailable in the current view type (such as a sheet view). "+
			"Switch to a 3D view to see visual feedback."))
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(format, args...))
}

func contentResult(contents ...mcp.Content) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: contents}
}
