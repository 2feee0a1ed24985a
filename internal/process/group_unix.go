//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetGroup places the command in its own process group, so that
// KillProcessGroup reaches the command's descendants instead of the
// caller's own group.
func SetGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
