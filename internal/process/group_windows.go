//go:build windows

package process

import "os/exec"

// SetGroup is a no-op on Windows; taskkill /T walks the process tree
// without any group setup.
func SetGroup(_ *exec.Cmd) {}
