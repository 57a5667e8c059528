// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"

	"rigit/internal/selector"
)

// Exit codes:
// - 0: success
// - 1: any runtime error (config, filesystem, tmux, selector)
// - 2: invalid arguments
// - 130: the selection was cancelled
const (
	ExitOK        = 0
	ExitError     = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// UsageError reports invalid command-line arguments.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ExitCode classifies err into a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, selector.ErrCancelled) {
		return ExitCancelled
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}
	return ExitError
}
