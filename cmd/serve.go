package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/chatstress/internal/discovery"
	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing chatstress tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes list_windows,
discover, locate and run_session as tools. Tool arguments default to the
values in the configuration file.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  chatstress serve
  chatstress serve --transport streamable-http --port 8080
  chatstress serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Discovery result cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().Bool("helper", false, "Run dynamic discovery in a child process")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	cfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}

	base, err := loadConfig(false)
	if err != nil {
		return err
	}
	// stdout belongs to the stdio transport, so logs stay on stderr and in
	// the configured log file.
	logger, closeLog, err := newLogger(base.LogLevel, base.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := newProvider()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	var d locator.Discoverer
	if useHelper, _ := cmd.Flags().GetBool("helper"); useHelper || base.UseDiscoveryHelper {
		h, err := discovery.SelfHelper(append(backendArgs(), "--log-level", "error"), logger)
		if err != nil {
			return err
		}
		h.Timeout = base.DiscoveryTimeout()
		d = h
	}

	srv := server.New(provider, d, base, cfg, logger)
	return srv.Serve(cfg)
}
