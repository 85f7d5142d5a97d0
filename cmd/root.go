package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/chatstress/internal/config"
	"github.com/mj1618/chatstress/internal/output"
	"github.com/mj1618/chatstress/internal/platform"
	"github.com/mj1618/chatstress/internal/platform/memtree"
	"github.com/mj1618/chatstress/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "chatstress",
	Short: "Stress-test a desktop chat client through its accessibility tree",
	Long: `Drive a desktop chat application through its accessibility layer: find the
compose box and send control (by known patterns, falling back to dynamic
discovery), then send a configurable number of messages and report how many
got through.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code for an outcome that has already been
// reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default: config log_level)")
	rootCmd.PersistentFlags().String("backend", "memtree", "Accessibility backend")
	rootCmd.PersistentFlags().String("tree-file", memtree.SampleName, "Tree document for the memtree backend (\"sample\" for the built-in demo)")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Configuration file (.json, .yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

// loadConfig reads the --config file. When the file is missing it returns
// the defaults, writing them first if create is set.
func loadConfig(create bool) (*config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if create {
		cfg, created, err := config.LoadOrCreate(path)
		if err != nil {
			return nil, err
		}
		if created {
			fmt.Fprintf(os.Stderr, "Created default configuration at %s\n", path)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// newProvider builds the provider selected by --backend and --tree-file.
func newProvider() (*platform.Provider, error) {
	backend, _ := rootCmd.PersistentFlags().GetString("backend")
	tree, _ := rootCmd.PersistentFlags().GetString("tree-file")
	return platform.NewProvider(backend, platform.Options{TreeFile: tree})
}

// backendArgs repeats the backend selection and configuration file for a
// child process.
func backendArgs() []string {
	backend, _ := rootCmd.PersistentFlags().GetString("backend")
	tree, _ := rootCmd.PersistentFlags().GetString("tree-file")
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return []string{"--backend", backend, "--tree-file", tree, "--config", path}
}

// newLogger builds a console logger on stderr, teed into logFile when set.
// The level comes from --log-level, then fallback.
func newLogger(fallback, logFile string) (*zap.Logger, func(), error) {
	levelName, _ := rootCmd.PersistentFlags().GetString("log-level")
	if levelName == "" {
		levelName = fallback
	}
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}

	cleanup := func() {}
	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level))
		cleanup = func() { _ = f.Close() }
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger, func() {
		_ = logger.Sync()
		cleanup()
	}, nil
}
