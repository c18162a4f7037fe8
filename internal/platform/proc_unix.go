//go:build !windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureCommand puts the browser in its own process group so helper
// processes receive the terminate signal too.
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the process group, falling back to the
// process itself when the group is already gone.
func terminate(cmd *exec.Cmd) error {
	pid := cmd.Process.Pid
	err := unix.Kill(-pid, unix.SIGTERM)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.ESRCH) {
		if err := cmd.Process.Signal(unix.SIGTERM); err != nil {
			return fmt.Errorf("signal pid %d: %w", pid, err)
		}
		return nil
	}
	return fmt.Errorf("signal group %d: %w", pid, err)
}
