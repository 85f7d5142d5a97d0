package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"go.uber.org/zap"
)

// DefaultHelperTimeout bounds a helper run when the caller's context has no
// deadline.
const DefaultHelperTimeout = 30 * time.Second

// Helper runs the scan in a child process and decodes the single JSON
// document it prints. The child is invoked as
//
//	<Path> <Args...> inspect --json --window ^<title>$
//
// so Args carries backend selection flags. Any failure is reported as
// model.ErrDiscoveryUnavailable.
type Helper struct {
	Path    string
	Args    []string
	Timeout time.Duration
	Logger  *zap.Logger
}

// SelfHelper returns a Helper that re-executes the running binary.
func SelfHelper(args []string, logger *zap.Logger) (*Helper, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, model.ErrDiscoveryUnavailable.WithCause(err)
	}
	return &Helper{Path: exe, Args: args, Logger: logger}, nil
}

// Discover implements the locator's discoverer.
func (h *Helper) Discover(ctx context.Context, win platform.Window) (*model.DiscoveryResult, error) {
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("helper")

	if h.Path == "" {
		return nil, model.ErrDiscoveryUnavailable.WithMessage("no discovery helper configured")
	}
	if _, ok := ctx.Deadline(); !ok {
		timeout := h.Timeout
		if timeout <= 0 {
			timeout = DefaultHelperTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := append(append([]string{}, h.Args...),
		"inspect", "--json", "--window", "^"+regexp.QuoteMeta(win.Title())+"$")
	cmd := exec.CommandContext(ctx, h.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	logger.Debug("helper finished",
		zap.String("path", h.Path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Error(err))
	if ctx.Err() != nil {
		return nil, model.ErrDiscoveryUnavailable.WithMessage("discovery helper timed out").WithCause(ctx.Err())
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
			msg = msg[i+1:]
		}
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, model.ErrDiscoveryUnavailable.WithCause(err)
	}
	return DecodeResult(stdout.Bytes())
}

// DecodeResult parses a helper document and checks its version.
func DecodeResult(data []byte) (*model.DiscoveryResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var result model.DiscoveryResult
	if err := dec.Decode(&result); err != nil {
		return nil, model.ErrDiscoveryUnavailable.WithMessage("malformed discovery document").WithCause(err)
	}
	if dec.More() {
		return nil, model.ErrDiscoveryUnavailable.WithMessage("discovery helper printed more than one document")
	}
	if result.Version != model.DiscoveryVersion {
		return nil, model.ErrDiscoveryUnavailable.WithCause(
			fmt.Errorf("discovery document version %d, want %d", result.Version, model.DiscoveryVersion))
	}
	if result.TextInput == nil {
		result.TextInput = []model.Candidate{}
	}
	if result.SendControl == nil {
		result.SendControl = []model.Candidate{}
	}
	if result.NewSession == nil {
		result.NewSession = []model.Candidate{}
	}
	return &result, nil
}

// EncodeResult writes result as the helper document.
func EncodeResult(result *model.DiscoveryResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
