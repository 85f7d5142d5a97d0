package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mj1618/chatstress/internal/discovery"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/output"
	"github.com/mj1618/chatstress/internal/platform/memtree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Scan the chat window and rank candidate controls",
	Long: `Connect to the chat window, walk its accessibility tree and print the ranked
candidates for the text input, the send control and the new conversation
control, with the reasons behind each score.

--json prints exactly one JSON document on stdout (logs go to stderr). This
is the contract the out-of-process discovery helper relies on.

Examples:
  chatstress inspect
  chatstress inspect --json --window '^Copilot$'
  chatstress inspect --tree --depth 4
  chatstress inspect --overlay candidates.png
  chatstress inspect --snapshot desktop.yaml`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Print the discovery result as a single JSON document")
	inspectCmd.Flags().String("window", "", "Window title regex (default: config window_title_regex)")
	inspectCmd.Flags().Bool("tree", false, "Print the control tree instead of candidates")
	inspectCmd.Flags().Int("depth", 0, "Max depth for --tree and --snapshot (0 = unlimited)")
	inspectCmd.Flags().String("overlay", "", "Write a PNG with candidate bounds drawn to this path")
	inspectCmd.Flags().String("snapshot", "", "Save the window's tree as a memtree document to this path")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("window") {
		cfg.WindowTitleRegex, _ = cmd.Flags().GetString("window")
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	showTree, _ := cmd.Flags().GetBool("tree")
	depth, _ := cmd.Flags().GetInt("depth")
	overlayPath, _ := cmd.Flags().GetString("overlay")
	snapshotPath, _ := cmd.Flags().GetString("snapshot")

	// The helper contract keeps stdout for the result; logs always go to
	// stderr and never to the session log file.
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

	ctx := cmd.Context()
	win, err := provider.Backend.Connect(ctx, pattern, cfg.ConnectTimeout())
	if err != nil {
		return model.ErrWindowNotFound.WithMessage(fmt.Sprintf("no window matching %q", cfg.WindowTitleRegex)).WithCause(err)
	}

	if showTree || snapshotPath != "" {
		root, err := discovery.Snapshot(ctx, win, depth)
		if err != nil {
			return fmt.Errorf("snapshot %q: %w", win.Title(), err)
		}
		if snapshotPath != "" {
			if err := writeSnapshot(snapshotPath, root); err != nil {
				return err
			}
			logger.Info("saved snapshot", zap.String("path", snapshotPath))
		}
		if showTree {
			return printTree(cmd.OutOrStdout(), root, depth)
		}
		if overlayPath == "" && !asJSON {
			return nil
		}
	}

	dctx := ctx
	if timeout := cfg.DiscoveryTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result := discovery.Scan(dctx, win, logger.Named("inspect"))

	if overlayPath != "" {
		bounds, err := win.Info()
		if err != nil {
			return fmt.Errorf("read window bounds: %w", err)
		}
		if err := writeOverlay(overlayPath, bounds.Bounds, result); err != nil {
			return err
		}
		logger.Info("wrote overlay", zap.String("path", overlayPath))
	}

	if asJSON {
		data, err := discovery.EncodeResult(result)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	return output.Print(result)
}

// printTree writes one line per element, indented by depth, with hidden and
// disabled markers.
func printTree(w io.Writer, root model.Element, depth int) error {
	for _, el := range model.FlattenElements([]model.Element{root}, depth) {
		typ := el.ControlType
		if typ == "" {
			typ = "?"
		}
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", el.Depth))
		b.WriteString(typ)
		if el.AutomationID != "" {
			fmt.Fprintf(&b, " id=%q", el.AutomationID)
		}
		if el.Title != "" {
			fmt.Fprintf(&b, " title=%q", el.Title)
		}
		if el.ClassName != "" {
			fmt.Fprintf(&b, " class=%q", el.ClassName)
		}
		fmt.Fprintf(&b, " bounds=%v", el.Bounds)
		if !el.Visible {
			b.WriteString(" [hidden]")
		}
		if !el.Enabled {
			b.WriteString(" [disabled]")
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// writeSnapshot saves root as a single-window memtree document, JSON for
// .json paths and YAML otherwise.
func writeSnapshot(path string, root model.Element) error {
	format := output.FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = output.FormatJSON
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()
	doc := memtree.Document{Windows: []model.Element{root}}
	if err := output.Fprint(f, format, doc); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
