// pattern: Functional Core

package candidate

import (
	"fmt"
	"strings"
)

// Kind classifies a Candidate. The set is closed.
type Kind int

const (
	LiveSession Kind = iota
	Directory
	Repository
	Worktree
)

func (k Kind) String() string {
	switch k {
	case LiveSession:
		return "session"
	case Directory:
		return "directory"
	case Repository:
		return "repository"
	case Worktree:
		return "worktree"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Candidate is one selectable target: a running session or a path that can
// become one.
type Candidate struct {
	Name string
	Kind Kind
	Path string // empty for LiveSession
}

// Session returns a LiveSession candidate. Live sessions carry no path.
func Session(name string) Candidate {
	return Candidate{Name: name, Kind: LiveSession}
}

// NewDirectory returns a plain directory candidate.
func NewDirectory(name, path string) Candidate {
	return Candidate{Name: name, Kind: Directory, Path: path}
}

// NewRepository returns a git repository candidate.
func NewRepository(name, path string) Candidate {
	return Candidate{Name: name, Kind: Repository, Path: path}
}

// NewWorktree returns a git worktree candidate.
func NewWorktree(name, path string) Candidate {
	return Candidate{Name: name, Kind: Worktree, Path: path}
}

// HasPath reports whether the candidate is backed by a filesystem path.
func (c Candidate) HasPath() bool {
	return c.Path != ""
}

// IsLive reports whether the candidate is a running session.
func (c Candidate) IsLive() bool {
	return c.Kind == LiveSession
}

func (c Candidate) String() string {
	if c.Path == "" {
		return fmt.Sprintf("%s (%s)", c.Name, c.Kind)
	}
	return fmt.Sprintf("%s (%s: %s)", c.Name, c.Kind, c.Path)
}

// SearchMode selects which discovery passes run.
type SearchMode int

const (
	All SearchMode = iota
	Dirs
	Repos
	Worktrees
)

var modeNames = map[SearchMode]string{
	All:       "all",
	Dirs:      "dirs",
	Repos:     "repos",
	Worktrees: "worktrees",
}

func (m SearchMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SearchMode(%d)", int(m))
}

// ParseSearchMode parses the CLI spelling of a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return All, nil
	case "dirs", "dir", "directories":
		return Dirs, nil
	case "repos", "repo", "repositories":
		return Repos, nil
	case "worktrees", "worktree":
		return Worktrees, nil
	default:
		return All, fmt.Errorf("unknown search mode %q (want all, dirs, repos or worktrees)", s)
	}
}
