// Package server exposes window listing, discovery, element location and
// stress sessions as Model Context Protocol tools.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/chatstress/internal/config"
	"github.com/mj1618/chatstress/internal/discovery"
	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/platform"
	"github.com/mj1618/chatstress/internal/version"
	"go.uber.org/zap"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the platform provider and cache. The
// provider is used by one tool call at a time.
type Server struct {
	provider   *platform.Provider
	discoverer locator.Discoverer
	base       *config.Config
	cache      *DiscoveryCache
	providerMu sync.Mutex
	logger     *zap.Logger
	mcp        *mcpserver.MCPServer
}

// New creates a server whose tools default to base. A nil discoverer scans
// in process.
func New(p *platform.Provider, d locator.Discoverer, base *config.Config, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d == nil {
		d = discovery.InProcess{Logger: logger}
	}
	s := &Server{
		provider:   p,
		discoverer: d,
		base:       base.Clone(),
		cache:      NewDiscoveryCache(cfg.CacheTTL),
		logger:     logger.Named("mcp"),
	}
	s.mcp = mcpserver.NewMCPServer("chatstress", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	// list_windows
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List the top-level windows the accessibility backend can see"),
		),
		s.handleListWindows,
	)

	// discover
	s.mcp.AddTool(
		mcp.NewTool("discover",
			mcp.WithDescription("Scan a window and return ranked candidates for the text input, send control and new conversation control"),
			mcp.WithString("window", mcp.Description("Window title regex (default: configured window_title_regex)")),
			mcp.WithNumber("timeout", mcp.Description("Discovery timeout in seconds (default: configured discovery_timeout_seconds)")),
		),
		s.handleDiscover,
	)

	// locate
	s.mcp.AddTool(
		mcp.NewTool("locate",
			mcp.WithDescription("Resolve a role to a usable element: known patterns first, then dynamic discovery"),
			mcp.WithString("role", mcp.Description("Role to locate"), mcp.Required(),
				mcp.Enum("text_input", "send_control", "new_session")),
			mcp.WithString("window", mcp.Description("Window title regex (default: configured window_title_regex)")),
			mcp.WithArray("patterns", mcp.Description("Known patterns to try first (default: configured patterns for the role)"),
				mcp.WithStringItems()),
		),
		s.handleLocate,
	)

	// run_session
	s.mcp.AddTool(
		mcp.NewTool("run_session",
			mcp.WithDescription("Run a stress session: send messages one by one and report how many were sent"),
			mcp.WithNumber("messages", mcp.Description("Number of messages to send (default: configured number_of_messages)")),
			mcp.WithNumber("wait", mcp.Description("Seconds between messages (default: configured wait_time_seconds)")),
			mcp.WithString("window", mcp.Description("Window title regex (default: configured window_title_regex)")),
			mcp.WithString("language", mcp.Description("Regenerate the corpus in this language: english, norsk, both")),
			mcp.WithNumber("seed", mcp.Description("Seed for corpus generation and message selection")),
		),
		s.handleRunSession,
	)
}
