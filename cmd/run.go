package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/chatstress/internal/config"
	"github.com/mj1618/chatstress/internal/corpus"
	"github.com/mj1618/chatstress/internal/discovery"
	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/output"
	"github.com/mj1618/chatstress/internal/platform"
	"github.com/mj1618/chatstress/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a stress session against the chat window",
	Long: `Connect to the chat window (launching the application if configured), start
a new conversation when possible, then send messages one at a time.

A message that cannot be sent is logged and skipped; the session carries on.
The exit code is 0 when at least one message was sent and no fatal error
occurred.

Ctrl-C stops the session after the current step. If it does not stop within
--grace, it is abandoned.

Examples:
  chatstress run
  chatstress run --messages 10 --wait 2
  chatstress run --language norsk --seed 42 --progress
  chatstress run --backend memtree --tree-file desktop.yaml --no-launch`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(c *cobra.Command) {
	c.Flags().Int("messages", 0, "Number of messages to send (default: config number_of_messages)")
	c.Flags().Float64("wait", 0, "Seconds between messages (default: config wait_time_seconds)")
	c.Flags().String("window", "", "Window title regex (default: config window_title_regex)")
	c.Flags().String("language", "", "Regenerate the corpus in this language: english, norsk, both")
	c.Flags().Uint64("seed", 0, "Seed for corpus generation and message selection")
	c.Flags().Bool("no-launch", false, "Do not launch the application when the window is missing")
	c.Flags().Bool("helper", false, "Run dynamic discovery in a child process")
	c.Flags().Bool("progress", false, "Print state changes and per-message results to stderr")
	c.Flags().Duration("timeout", 0, "Stop the session after this long (0 = no limit)")
	c.Flags().Duration("grace", 5*time.Second, "How long a stopped session may take to wind down")
}

// runOptions controls how a session is supervised.
type runOptions struct {
	Timeout  time.Duration
	Grace    time.Duration
	Progress io.Writer // nil discards progress
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := newProvider()
	if err != nil {
		return err
	}

	var d locator.Discoverer
	if cfg.UseDiscoveryHelper {
		h, err := discovery.SelfHelper(append(backendArgs(), "--log-level", "error"), logger)
		if err != nil {
			return err
		}
		h.Timeout = cfg.DiscoveryTimeout()
		d = h
	}

	opts := runOptions{}
	opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	opts.Grace, _ = cmd.Flags().GetDuration("grace")
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		opts.Progress = os.Stderr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := superviseSession(ctx, provider, d, cfg, logger, opts)
	if err != nil {
		return err
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if code := res.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// applyRunFlags overrides cfg with the flags that were set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("messages") {
		cfg.NumberOfMessages, _ = flags.GetInt("messages")
	}
	if flags.Changed("wait") {
		cfg.WaitTimeSeconds, _ = flags.GetFloat64("wait")
	}
	if flags.Changed("window") {
		cfg.WindowTitleRegex, _ = flags.GetString("window")
	}
	if flags.Changed("no-launch") {
		noLaunch, _ := flags.GetBool("no-launch")
		cfg.LaunchIfNotFound = !noLaunch
	}
	if flags.Changed("helper") {
		cfg.UseDiscoveryHelper, _ = flags.GetBool("helper")
	}

	regenerate := false
	if flags.Changed("language") {
		raw, _ := flags.GetString("language")
		lang, err := corpus.ParseLanguage(raw)
		if err != nil {
			return err
		}
		cfg.Language = string(lang)
		regenerate = true
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
		regenerate = true
	}
	if regenerate {
		cfg.RegenerateMessages()
	}
	return cfg.Validate()
}

// superviseSession runs cfg on a session worker. One goroutine drains
// progress while another waits for the result, stopping the worker when ctx
// ends or the timeout passes.
func superviseSession(ctx context.Context, p *platform.Provider, d locator.Discoverer, cfg *config.Config, logger *zap.Logger, opts runOptions) (model.RunResult, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	engine := session.NewEngine(p, d, logger.Named("session"))
	w := session.Start(context.Background(), engine, cfg)

	var (
		g   errgroup.Group
		res model.RunResult
	)
	g.Go(func() error {
		for batch := range w.Progress() {
			if opts.Progress == nil {
				continue
			}
			for _, ev := range batch {
				if err := printEvent(opts.Progress, ev, cfg.NumberOfMessages); err != nil {
					return err
				}
			}
		}
		return nil
	})
	g.Go(func() error {
		select {
		case res = <-w.Done():
		case <-ctx.Done():
			logger.Warn("stopping session", zap.Error(context.Cause(ctx)), zap.Duration("grace", opts.Grace))
			w.Stop(opts.Grace)
			res = <-w.Done()
		}
		return nil
	})
	err := g.Wait()
	return res, err
}

// printEvent writes state changes and message results. Log events are
// already on stderr through the logger.
func printEvent(out io.Writer, ev session.Event, total int) error {
	var err error
	switch ev.Kind {
	case session.EventState:
		_, err = fmt.Fprintf(out, "state: %s\n", ev.State)
	case session.EventMessage:
		o := ev.Outcome
		if o.OK {
			_, err = fmt.Fprintf(out, "[%d/%d] sent (%s)\n", o.Index, total, o.Method)
		} else {
			_, err = fmt.Fprintf(out, "[%d/%d] failed: %s\n", o.Index, total, o.Error)
		}
	}
	return err
}
