package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecLauncher starts the target application as a detached child process.
// The command is split on whitespace; the first field is the executable.
type ExecLauncher struct{}

// Launch starts command and returns once the process has been spawned. The
// process is released, not waited for: launchers like `explorer.exe
// ms-copilot://` exit immediately while the app keeps running.
func (ExecLauncher) Launch(ctx context.Context, command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("launch: empty command")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c := exec.Command(fields[0], fields[1:]...)
	if err := c.Start(); err != nil {
		return fmt.Errorf("launch %q: %w", command, err)
	}
	return c.Process.Release()
}
