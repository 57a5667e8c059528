// pattern: Imperative Shell

package tmux

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// RunTmux is the Executor for the tmux binary on PATH.
func RunTmux(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), commandError(args, stderr.String(), err)
	}
	return stdout.String(), nil
}

// AttachTmux runs tmux on the process terminal.
func AttachTmux(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", commandError(args, "", err)
	}
	return "", nil
}

func commandError(args []string, output string, err error) *CommandError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &CommandError{Args: args, Output: output, ExitCode: code, Err: err}
}
