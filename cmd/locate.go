package cmd

import (
	"fmt"

	"github.com/mj1618/chatstress/internal/discovery"
	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/output"
	"github.com/mj1618/chatstress/internal/server"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <role>",
	Short: "Resolve a role to a usable element",
	Long: `Find the element that would be used for a role: text_input, send_control or
new_session. Known patterns are tried first (identifier, then control type
for the text input or title for controls); when none yields a usable element,
dynamic discovery ranks candidates and the first usable one wins.

Examples:
  chatstress locate text_input
  chatstress locate send_control --pattern SendButton --pattern "Send message"
  chatstress locate new_session --no-discovery`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().StringArray("pattern", nil, "Known pattern to try (repeatable; default: configured patterns for the role)")
	locateCmd.Flags().String("window", "", "Window title regex (default: config window_title_regex)")
	locateCmd.Flags().Bool("no-discovery", false, "Only try known patterns")
	locateCmd.Flags().Bool("helper", false, "Run dynamic discovery in a child process")
}

func runLocate(cmd *cobra.Command, args []string) error {
	role, err := model.ParseRole(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("window") {
		cfg.WindowTitleRegex, _ = cmd.Flags().GetString("window")
	}
	patterns := cfg.Patterns(role)
	if cmd.Flags().Changed("pattern") {
		patterns, _ = cmd.Flags().GetStringArray("pattern")
	}

	logger, closeLog, err := newLogger(cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := newProvider()
	if err != nil {
		return err
	}
	pattern, err := cfg.TitlePattern()
	if err != nil {
		return fmt.Errorf("invalid window regex: %w", err)
	}
	win, err := provider.Backend.Connect(cmd.Context(), pattern, cfg.ConnectTimeout())
	if err != nil {
		return model.ErrWindowNotFound.WithMessage(fmt.Sprintf("no window matching %q", cfg.WindowTitleRegex)).WithCause(err)
	}

	var d locator.Discoverer = discovery.InProcess{Logger: logger}
	if noDiscovery, _ := cmd.Flags().GetBool("no-discovery"); noDiscovery {
		d = nil
	} else if useHelper, _ := cmd.Flags().GetBool("helper"); useHelper {
		h, err := discovery.SelfHelper(append(backendArgs(), "--log-level", "error"), logger)
		if err != nil {
			return err
		}
		h.Timeout = cfg.DiscoveryTimeout()
		d = h
	}

	loc := locator.New(d, cfg.DiscoveryTimeout(), logger.Named("locate"))
	node, method, err := loc.Resolve(cmd.Context(), win, role, patterns)
	if node == nil {
		return err
	}
	attrs, err := node.Info()
	if err != nil {
		return err
	}
	return output.Print(server.LocateResult{Role: role, Method: method, Element: attrs})
}
