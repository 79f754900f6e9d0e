//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// detachFromTerminal starts cmd in its own process group so a Ctrl+C at the
// terminal reaches droid and not the tool.
func detachFromTerminal(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
