//go:build windows

package platform

import (
	"fmt"
	"os/exec"
)

func configureCommand(cmd *exec.Cmd) {}

// terminate kills the process. Windows has no SIGTERM equivalent for GUI
// processes started this way.
func terminate(cmd *exec.Cmd) error {
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill pid %d: %w", cmd.Process.Pid, err)
	}
	return nil
}
