// Package session runs a stress session: connect to (or launch) the chat
// window, optionally start a new conversation, then send messages one by
// one, tolerating per-message failures.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"github.com/mj1618/chatstress/internal/config"
	"github.com/mj1618/chatstress/internal/discovery"
	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"go.uber.org/zap"
)

// EnabledPollInterval is how often the send control's enabled state is
// re-read while waiting for it.
var EnabledPollInterval = 100 * time.Millisecond

// Engine drives sessions against one provider.
type Engine struct {
	provider   *platform.Provider
	discoverer locator.Discoverer
	logger     *zap.Logger
}

// NewEngine returns an Engine. A nil discoverer scans in process.
func NewEngine(p *platform.Provider, d locator.Discoverer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d == nil {
		d = discovery.InProcess{Logger: logger}
	}
	return &Engine{provider: p, discoverer: d, logger: logger}
}

// RunSession runs one session with the default in-process discovery.
func RunSession(ctx context.Context, p *platform.Provider, cfg *config.Config, sink ProgressSink) model.RunResult {
	return NewEngine(p, nil, nil).RunSession(ctx, cfg, sink)
}

// run holds the state of one session.
type run struct {
	e      *Engine
	cfg    *config.Config
	sink   ProgressSink
	log    *zap.Logger
	loc    *locator.Locator
	result model.RunResult
	start  time.Time
}

// RunSession runs a session to completion or cancellation and returns its
// result. It never panics and never returns a result with Succeeded >
// Total. cfg is copied; later changes to it do not affect the run.
func (e *Engine) RunSession(ctx context.Context, cfg *config.Config, sink ProgressSink) model.RunResult {
	if sink == nil {
		sink = nopSink{}
	}
	r := &run{
		e:     e,
		cfg:   cfg.Clone(),
		sink:  sink,
		start: time.Now(),
		result: model.RunResult{
			RunID: uuid.NewString(),
			Total: max(cfg.NumberOfMessages, 0),
		},
	}
	r.log = TeeProgress(e.logger, sink).With(zap.String("run_id", r.result.RunID))
	r.loc = locator.New(e.discoverer, r.cfg.DiscoveryTimeout(), r.log)

	if err := r.cfg.Validate(); err != nil {
		return r.fail(model.ErrUnexpected.WithMessage("invalid configuration").WithCause(err))
	}
	r.log.Info("starting session", zap.String("summary", r.cfg.Summary()), zap.String("backend", e.provider.Name))

	win, err := r.connect(ctx)
	if err != nil {
		return r.fail(err)
	}
	if err := r.validateWindow(win); err != nil {
		return r.fail(err)
	}
	r.startNewSession(ctx, win)
	return r.sendLoop(ctx, win)
}

func (r *run) enter(s model.State) {
	r.result.State = s
	r.sink.Emit(Event{Time: time.Now(), Kind: EventState, State: s})
	r.log.Debug("state", zap.String("state", string(s)))
}

func (r *run) finish() model.RunResult {
	r.result.Elapsed = time.Since(r.start).Round(time.Millisecond).String()
	return r.result
}

func (r *run) fail(err error) model.RunResult {
	r.enter(model.StateFailed)
	r.result.Error = err.Error()
	r.result.Code = model.KindOf(err)
	r.log.Error("session failed",
		zap.String("code", string(r.result.Code)),
		zap.Int("succeeded", r.result.Succeeded),
		zap.Int("total", r.result.Total),
		zap.Error(err))
	return r.finish()
}

func (r *run) cancelled(ctx context.Context) model.RunResult {
	return r.fail(model.ErrCancelled.WithCause(context.Cause(ctx)))
}

// connect finds the target window, launching the application once if it is
// missing and launching is enabled.
func (r *run) connect(ctx context.Context) (platform.Window, error) {
	r.enter(model.StateConnecting)
	pattern, err := r.cfg.TitlePattern()
	if err != nil {
		return nil, model.ErrWindowNotFound.WithCause(err)
	}
	backend := r.e.provider.Backend

	win, err := backend.Connect(ctx, pattern, r.cfg.ConnectTimeout())
	if err == nil {
		r.log.Info("connected", zap.String("window", win.Title()))
		return win, nil
	}
	if ctx.Err() != nil {
		return nil, model.ErrCancelled.WithCause(ctx.Err())
	}
	if !r.cfg.LaunchIfNotFound {
		return nil, model.ErrWindowNotFound.WithMessage(fmt.Sprintf("no window matching %q", r.cfg.WindowTitleRegex)).WithCause(err)
	}

	r.enter(model.StateLaunchingIfMissing)
	r.log.Info("window not found, launching", zap.String("command", r.cfg.LaunchCommand), zap.NamedError("connect_error", err))
	if err := r.e.provider.Launcher.Launch(ctx, r.cfg.LaunchCommand); err != nil {
		return nil, model.ErrLaunchFailed.WithCause(err)
	}
	if err := sleep(ctx, r.cfg.LaunchSettle()); err != nil {
		return nil, model.ErrCancelled.WithCause(err)
	}
	win, err = backend.Connect(ctx, pattern, r.cfg.RelaunchTimeout())
	if err != nil {
		if ctx.Err() != nil {
			return nil, model.ErrCancelled.WithCause(ctx.Err())
		}
		return nil, model.ErrWindowNotFound.WithMessage(fmt.Sprintf("no window matching %q after launch", r.cfg.WindowTitleRegex)).WithCause(err)
	}
	r.log.Info("connected after launch", zap.String("window", win.Title()))
	return win, nil
}

func (r *run) validateWindow(win platform.Window) error {
	r.enter(model.StateValidating)
	if !win.Exists() {
		return model.ErrWindowValidationFailed.WithMessage("window disappeared")
	}
	attrs, err := win.Info()
	if err != nil {
		return model.ErrWindowValidationFailed.WithCause(err)
	}
	if !attrs.Visible {
		return model.ErrWindowValidationFailed.WithMessage("window is not visible")
	}
	if !attrs.Enabled {
		return model.ErrWindowValidationFailed.WithMessage("window is disabled")
	}
	if err := win.Focus(); err != nil {
		return model.ErrWindowValidationFailed.WithMessage("window does not accept focus").WithCause(err)
	}
	return nil
}

// startNewSession clicks the new-conversation control if one can be found.
// With no configured patterns the control is still looked up by discovery.
// Nothing here fails the run.
func (r *run) startNewSession(ctx context.Context, win platform.Window) {
	r.enter(model.StateStartingNewSession)
	node, method := r.loc.Locate(ctx, win, model.RoleNewSession, r.cfg.NewConversationPatterns)
	if node == nil {
		r.log.Warn("new conversation control not found, continuing in current conversation")
		return
	}
	if err := node.Click(); err != nil {
		r.log.Warn("new conversation click failed, continuing", zap.String("method", method), zap.Error(err))
		return
	}
	r.log.Info("started new conversation", zap.String("method", method))
	if err := sleep(ctx, r.cfg.UISettle()); err != nil {
		r.log.Debug("settle interrupted", zap.Error(err))
	}
}

func (r *run) sendLoop(ctx context.Context, win platform.Window) model.RunResult {
	r.enter(model.StateSendingLoop)
	n := r.cfg.NumberOfMessages
	picker := rand.New(rand.NewPCG(r.cfg.Seed, uint64(n)))

	for i := 1; i <= n; i++ {
		if ctx.Err() != nil {
			return r.cancelled(ctx)
		}
		msg := r.cfg.SampleMessages[picker.IntN(len(r.cfg.SampleMessages))]
		out := r.sendOne(ctx, win, i, msg)
		r.result.Messages = append(r.result.Messages, out)
		if out.OK {
			r.result.Succeeded++
			r.log.Info(fmt.Sprintf("Message %d/%d sent", i, n), zap.String("method", out.Method))
		} else {
			r.log.Warn(fmt.Sprintf("Message %d/%d failed", i, n), zap.String("code", string(out.Code)), zap.String("error", out.Error))
		}
		o := out
		r.sink.Emit(Event{Time: time.Now(), Kind: EventMessage, Outcome: &o})
		if !out.OK && ctx.Err() != nil {
			return r.cancelled(ctx)
		}

		if i < n {
			if err := sleep(ctx, r.cfg.WaitTime()); err != nil {
				return r.cancelled(ctx)
			}
		}
	}

	r.enter(model.StateCompleted)
	r.log.Info("session completed", zap.Int("succeeded", r.result.Succeeded), zap.Int("total", r.result.Total))
	return r.finish()
}

// sendOne types msg into the text input and activates the send control.
// Every failure, including a panic in the backend, becomes a failed outcome.
func (r *run) sendOne(ctx context.Context, win platform.Window, index int, msg string) (out model.MessageOutcome) {
	out.Index = index
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("panic while sending", zap.Int("index", index), zap.Any("panic", p))
			out = failed(index, model.ErrUnexpected.WithCause(fmt.Errorf("panic: %v", p)))
		}
	}()

	input, inputMethod, err := r.loc.Resolve(ctx, win, model.RoleTextInput, r.cfg.TextInputPatterns)
	if input == nil {
		return missed(index, err)
	}
	if err := input.Focus(); err != nil {
		return failed(index, model.ErrActivationFailed.WithMessage("focus text input").WithCause(err))
	}
	if err := input.Clear(); err != nil {
		return failed(index, model.ErrActivationFailed.WithMessage("clear text input").WithCause(err))
	}
	if err := input.TypeText(msg); err != nil {
		return failed(index, model.ErrActivationFailed.WithMessage("type message").WithCause(err))
	}

	send, sendMethod, err := r.loc.Resolve(ctx, win, model.RoleSendControl, r.cfg.SendButtonPatterns)
	if send == nil {
		return missed(index, err)
	}
	if err := waitEnabled(ctx, send, r.cfg.EnabledWait()); err != nil {
		return failed(index, model.ErrActivationFailed.WithMessage("send control never became enabled").WithCause(err))
	}
	if err := send.Click(); err != nil {
		return failed(index, model.ErrActivationFailed.WithMessage("click send control").WithCause(err))
	}

	out.OK = true
	out.Method = strings.Join([]string{inputMethod, sendMethod}, " ")
	return out
}

func failed(index int, err *model.RunError) model.MessageOutcome {
	return model.MessageOutcome{Index: index, Code: err.Kind, Error: err.Error()}
}

// missed records a locator miss.
func missed(index int, err error) model.MessageOutcome {
	var re *model.RunError
	if errors.As(err, &re) {
		return failed(index, re)
	}
	return failed(index, model.ErrElementNotFound.WithCause(err))
}

var errNotEnabled = errors.New("element is disabled")

// waitEnabled polls node until it reports enabled, for at most timeout.
func waitEnabled(ctx context.Context, node platform.Node, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	b := backoff.WithContext(backoff.NewConstantBackOff(EnabledPollInterval), ctx)
	return backoff.Retry(func() error {
		attrs, err := node.Info()
		if err != nil {
			return err
		}
		if !attrs.Enabled {
			return errNotEnabled
		}
		return nil
	}, b)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
