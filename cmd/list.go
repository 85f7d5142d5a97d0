package cmd

import (
	"strings"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available windows",
	Long:  "List the top-level windows the accessibility backend exposes, with title, class, process and bounds.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("title", "", "Filter windows by title substring (case-insensitive)")
	listCmd.Flags().String("process", "", "Filter windows by process name")
}

func runList(cmd *cobra.Command, args []string) error {
	provider, err := newProvider()
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	process, _ := cmd.Flags().GetString("process")

	windows, err := provider.Backend.ListWindows()
	if err != nil {
		return err
	}
	return output.Print(filterWindows(windows, title, process))
}

func filterWindows(windows []model.Window, title, process string) []model.Window {
	title = strings.ToLower(title)
	result := []model.Window{}
	for _, w := range windows {
		if title != "" && !strings.Contains(strings.ToLower(w.Title), title) {
			continue
		}
		if process != "" && !strings.EqualFold(w.Process, process) {
			continue
		}
		result = append(result, w)
	}
	return result
}
