//go:build windows

package process

import "os/exec"

// command starts program. Windows has no process-group signal model equivalent to
// Unix's, so there is nothing extra to set here; terminate/kill fall back to killing
// just the immediate child.
func (e *Executor) command(program string, args ...string) *exec.Cmd {
	return exec.Command(program, args...)
}

// terminate has no graceful-stop equivalent on Windows that every console/GUI program
// honors, so it goes straight to a hard kill.
func terminate(cmd *exec.Cmd) {
	kill(cmd)
}

// kill hard-kills the child process.
func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
}
