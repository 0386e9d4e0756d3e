//go:build linux || darwin

package process

import (
	"os/exec"
	"syscall"
)

// command starts program in its own process group so terminate/kill can reach the whole
// tree it spawns, not just the immediate child.
func (e *Executor) command(program string, args ...string) *exec.Cmd {
	cmd := exec.Command(program, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

// terminate sends a graceful stop signal to cmd's whole process group.
func terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}

// kill sends a hard kill to cmd's whole process group.
func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
