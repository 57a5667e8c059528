// pattern: Functional Core

package tmux

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCurrentSession is returned when no listed session is attached.
var ErrNoCurrentSession = errors.New("no attached tmux session")

// Session is one line of `tmux ls`.
type Session struct {
	Name     string
	Windows  int
	Attached bool
}

// IsActive returns true if the session has an attached client.
func (s Session) IsActive() bool {
	return s.Attached
}

// Exact addresses the session named exactly session. Without the '=' tmux
// also accepts a prefix or pattern match, so "proj" would find "project".
func Exact(session string) string {
	return "=" + session
}

// Target addresses window index of exactly session, e.g. "=proj:1".
func Target(session string, window int) string {
	return fmt.Sprintf("%s:%d", Exact(session), window)
}

// SessionName converts a candidate name into the name tmux will store.
// tmux rewrites '.' and ':' in session names to '_'.
func SessionName(name string) string {
	return strings.NewReplacer(".", "_", ":", "_").Replace(name)
}

// CommandError reports a failed tmux invocation.
type CommandError struct {
	Args     []string
	Output   string
	ExitCode int // -1 when the process could not be started
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("tmux %s: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += " (" + out + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError reports a `tmux ls` line without a name delimiter.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed tmux session line %q: missing ':' after session name", e.Line)
}
