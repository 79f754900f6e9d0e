//go:build !unix

package process

import "os/exec"

func detachFromTerminal(*exec.Cmd) {}
