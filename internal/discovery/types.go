// pattern: Functional Core

package discovery

import (
	"errors"
	"io/fs"
)

// gitEntry marks a repository or worktree checkout.
const gitEntry = ".git"

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrUnreadable   = errors.New("unreadable directory")
	ErrNoLeaf       = errors.New("path has no final segment")
	ErrNotUTF8      = errors.New("path segment is not valid UTF-8")
)

// FS is the filesystem capability the Scanner needs.
type FS interface {
	// Canonical returns the absolute, symlink-free form of path.
	Canonical(path string) (string, error)
	// ReadDir lists the immediate children of a directory, sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)
	// Stat follows symlinks.
	Stat(path string) (fs.FileInfo, error)
}

// PathError attaches the offending path to a discovery failure.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
