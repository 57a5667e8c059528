// pattern: Imperative Shell

// Package selector presents candidates to the user and resolves the choice
// back to a registry entry.
package selector

import (
	"context"
	"errors"
	"strings"

	"rigit/internal/candidate"
	"rigit/internal/registry"
)

var (
	// ErrCancelled means the user left the selector without choosing.
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoMatch means the selector returned a name that was never offered.
	ErrNoMatch = errors.New("selection matches no candidate")
)

const (
	boldOn  = "\x1b[1m"
	boldOff = "\x1b[0m"
)

// Selector picks one candidate from a registry. query pre-fills the filter.
type Selector interface {
	Select(ctx context.Context, reg *registry.Registry, query string) (candidate.Candidate, error)
}

// Render formats candidates one per line. Live sessions are bold.
func Render(cands []candidate.Candidate) string {
	var b strings.Builder
	for _, c := range cands {
		b.WriteString(Line(c))
		b.WriteByte('\n')
	}
	return b.String()
}

// Line formats a single candidate.
func Line(c candidate.Candidate) string {
	if c.IsLive() {
		return boldOn + c.Name + boldOff
	}
	return c.Name
}

// Resolve maps raw selector output to a candidate. Empty output is
// ErrCancelled; a name the registry does not hold is ErrNoMatch.
func Resolve(reg *registry.Registry, output string) (candidate.Candidate, error) {
	choice := clean(output)
	if choice == "" {
		return candidate.Candidate{}, ErrCancelled
	}
	c, ok := reg.Lookup(choice)
	if !ok {
		return candidate.Candidate{}, &NoMatchError{Choice: choice}
	}
	return c, nil
}

// NoMatchError carries the unresolved choice.
type NoMatchError struct {
	Choice string
}

func (e *NoMatchError) Error() string {
	return ErrNoMatch.Error() + ": " + e.Choice
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}
