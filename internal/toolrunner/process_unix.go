//go:build !windows

package toolrunner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so cancellation
// can signal the whole group rather than just the immediate child
// (spec §4.6 "POSIX: SIGKILL to -pgid").
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the job's process group.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}

func shellPath() string { return "/bin/sh" }

func shellArgs(command string) []string { return []string{"-c", command} }
