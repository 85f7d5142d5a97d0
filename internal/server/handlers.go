package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/chatstress/internal/corpus"
	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"github.com/mj1618/chatstress/internal/session"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LocateResult is the locate tool's response.
type LocateResult struct {
	Role    model.Role       `yaml:"role"    json:"role"`
	Method  string           `yaml:"method"  json:"method"`
	Element model.Attributes `yaml:"element" json:"element"`
}

func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// connect attaches to the window matching pattern. The caller must hold the
// provider mutex.
func (s *Server) connect(ctx context.Context, pattern string) (platform.Window, error) {
	cfg := s.base.Clone()
	if pattern != "" {
		cfg.WindowTitleRegex = pattern
	}
	re, err := cfg.TitlePattern()
	if err != nil {
		return nil, fmt.Errorf("invalid window regex: %w", err)
	}
	win, err := s.provider.Backend.Connect(ctx, re, cfg.ConnectTimeout())
	if err != nil {
		return nil, model.ErrWindowNotFound.WithMessage(fmt.Sprintf("no window matching %q", cfg.WindowTitleRegex)).WithCause(err)
	}
	return win, nil
}

func (s *Server) handleListWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	windows, err := s.provider.Backend.ListWindows()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if windows == nil {
		windows = []model.Window{}
	}
	return mcp.NewToolResultText(toText(windows)), nil
}

func (s *Server) handleDiscover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	window := stringParam(params, "window", "")
	timeout := floatParam(params, "timeout", s.base.DiscoveryTimeoutSeconds)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	win, err := s.connect(ctx, window)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout*float64(time.Second)))
		defer cancel()
	}
	result, err := s.cache.Discover(ctx, s.discoverer, win)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleLocate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	role, err := model.ParseRole(stringParam(params, "role", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window := stringParam(params, "window", "")
	patterns := listParam(params, "patterns")
	if _, given := params["patterns"]; !given {
		patterns = s.base.Patterns(role)
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	win, err := s.connect(ctx, window)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc := locator.New(cachingDiscoverer{cache: s.cache, inner: s.discoverer}, s.base.DiscoveryTimeout(), s.logger)
	node, method, err := loc.Resolve(ctx, win, role, patterns)
	if node == nil {
		// Cached candidates may be stale; the next call rescans.
		s.cache.Invalidate(win.Title())
		return mcp.NewToolResultError(err.Error()), nil
	}
	attrs, err := node.Info()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(LocateResult{Role: role, Method: method, Element: attrs})), nil
}

func (s *Server) handleRunSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	cfg := s.base.Clone()
	cfg.NumberOfMessages = intParam(params, "messages", cfg.NumberOfMessages)
	cfg.WaitTimeSeconds = floatParam(params, "wait", cfg.WaitTimeSeconds)
	cfg.WindowTitleRegex = stringParam(params, "window", cfg.WindowTitleRegex)

	regenerate := false
	if lang, ok := params["language"]; ok {
		l, err := corpus.ParseLanguage(fmt.Sprintf("%v", lang))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg.Language = string(l)
		regenerate = true
	}
	if _, ok := params["seed"]; ok {
		seed := intParam(params, "seed", 0)
		if seed < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("seed must be non-negative, got %d", seed)), nil
		}
		cfg.Seed = uint64(seed)
		regenerate = true
	}
	if regenerate || len(cfg.SampleMessages) == 0 {
		cfg.RegenerateMessages()
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()
	defer s.cache.InvalidateAll()

	engine := session.NewEngine(s.provider, s.discoverer, s.logger)
	res := engine.RunSession(ctx, cfg, nil)
	s.logger.Info("session finished",
		zap.String("run_id", res.RunID),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("total", res.Total),
		zap.String("state", string(res.State)))
	if res.Failed() {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}
