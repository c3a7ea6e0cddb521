package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. The production implementation shells
// out; tests substitute a fake so nothing is spawned.
type Runner interface {
	// Run executes the command, waits for it to finish, and returns its
	// combined stdout and stderr with the trailing newline removed.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	// Interleave stdout and stderr the way a terminal would
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	text := strings.TrimRight(output.String(), "\n")
	if err != nil {
		return text, fmt.Errorf("command %q failed: %w", name+" "+strings.Join(args, " "), err)
	}
	return text, nil
}

// Elevate prefixes the command with sudo unless already running as root.
func Elevate(name string, args []string) (string, []string) {
	return ElevateFor(os.Geteuid(), name, args)
}

// ElevateFor is Elevate with the effective UID supplied by the caller.
func ElevateFor(euid int, name string, args []string) (string, []string) {
	if euid == 0 {
		return name, args
	}
	return "sudo", append([]string{name}, args...)
}
