//go:build !unix && !windows

package process

import "os/exec"

func configureCommand(cmd *exec.Cmd) {}
