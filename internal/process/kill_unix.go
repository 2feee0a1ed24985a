//go:build !windows

package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as the exec layer's own kill provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
