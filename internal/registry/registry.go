// pattern: Functional Core

// Package registry merges running sessions and discovered paths into one
// name-keyed set of candidates.
package registry

import (
	"slices"
	"strings"

	"rigit/internal/candidate"
	"rigit/internal/tmux"
)

// Registry maps candidates by the session name tmux would give them. The
// first insertion of a name wins; later candidates with the same session name
// are ignored, so a running session is never shadowed by a path discovered on
// disk, even when tmux rewrote the name ("my.app" runs as "my_app").
type Registry struct {
	defaultSession string
	byName         map[string]candidate.Candidate
}

// New creates a registry whose reserved session is already present as a
// live session, running or not.
func New(defaultSession string) *Registry {
	r := &Registry{
		defaultSession: defaultSession,
		byName:         make(map[string]candidate.Candidate),
	}
	r.Insert(candidate.Session(defaultSession))
	return r
}

// Build inserts the reserved session, then the running sessions, then the
// discovered candidates, in that order.
func Build(defaultSession string, sessions []string, discovered []candidate.Candidate) *Registry {
	r := New(defaultSession)
	for _, name := range sessions {
		r.Insert(candidate.Session(name))
	}
	r.Merge(discovered)
	return r
}

// Insert adds c unless its session name is taken. It reports whether c was
// added.
func (r *Registry) Insert(c candidate.Candidate) bool {
	key := tmux.SessionName(c.Name)
	if _, ok := r.byName[key]; ok {
		return false
	}
	r.byName[key] = c
	return true
}

// Merge inserts every candidate and returns how many were added.
func (r *Registry) Merge(cands []candidate.Candidate) int {
	added := 0
	for _, c := range cands {
		if r.Insert(c) {
			added++
		}
	}
	return added
}

// Lookup finds a candidate by its exact display name.
func (r *Registry) Lookup(name string) (candidate.Candidate, bool) {
	c, ok := r.byName[tmux.SessionName(name)]
	if !ok || c.Name != name {
		return candidate.Candidate{}, false
	}
	return c, true
}

// Len returns the number of candidates.
func (r *Registry) Len() int {
	return len(r.byName)
}

// DefaultSession returns the reserved session name.
func (r *Registry) DefaultSession() string {
	return r.defaultSession
}

// Sorted returns the candidates in display order: the reserved session,
// then live sessions, then path-bearing candidates, each group by name.
func (r *Registry) Sorted() []candidate.Candidate {
	out := make([]candidate.Candidate, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	slices.SortFunc(out, r.compare)
	return out
}

// Names returns the candidate names in display order.
func (r *Registry) Names() []string {
	sorted := r.Sorted()
	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.Name
	}
	return names
}

func (r *Registry) compare(a, b candidate.Candidate) int {
	if rank := r.rank(a) - r.rank(b); rank != 0 {
		return rank
	}
	return strings.Compare(a.Name, b.Name)
}

func (r *Registry) rank(c candidate.Candidate) int {
	switch {
	case tmux.SessionName(c.Name) == tmux.SessionName(r.defaultSession):
		return 0
	case !c.HasPath():
		return 1
	default:
		return 2
	}
}
