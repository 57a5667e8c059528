// pattern: Imperative Shell

package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OSFS is the FS backed by the host filesystem.
type OSFS struct{}

// Canonical expands a leading ~, makes the path absolute and resolves symlinks.
func (OSFS) Canonical(path string) (string, error) {
	path = ExpandHome(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ExpandHome expands ~ to the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
