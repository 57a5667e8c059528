// pattern: Imperative Shell

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"rigit/internal/candidate"
	"rigit/internal/logging"
)

// Scanner classifies the children of configured root paths.
type Scanner struct {
	fs     FS
	logger *logging.ScopedLogger
}

// NewScanner creates a Scanner over the host filesystem.
func NewScanner(logProvider logging.LoggerProvider) *Scanner {
	return NewScannerWithFS(OSFS{}, logProvider)
}

// NewScannerWithFS creates a Scanner over the given filesystem.
func NewScannerWithFS(fsys FS, logProvider logging.LoggerProvider) *Scanner {
	logger := logging.NopLogger()
	if logProvider != nil {
		logger = logProvider.For("discovery")
	}
	return &Scanner{fs: fsys, logger: logger}
}

// ScanAll scans every root in order. The first failing root aborts the scan
// and no partial result is returned.
func (s *Scanner) ScanAll(roots []string, mode candidate.SearchMode) ([]candidate.Candidate, error) {
	var found []candidate.Candidate
	for _, root := range roots {
		cands, err := s.Scan(root, mode)
		if err != nil {
			return nil, err
		}
		found = append(found, cands...)
	}
	s.logger.Debug("scan complete", "roots", len(roots), "mode", mode.String(), "candidates", len(found))
	return found, nil
}

// Scan runs the passes selected by mode over a single root.
func (s *Scanner) Scan(root string, mode candidate.SearchMode) ([]candidate.Candidate, error) {
	r, err := s.resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var found []candidate.Candidate
	switch mode {
	case candidate.Dirs:
		return s.directories(r)
	case candidate.Repos:
		return s.repositories(r)
	case candidate.Worktrees:
		repos, err := s.repositories(r)
		if err != nil {
			return nil, err
		}
		worktrees, err := s.worktrees(r)
		if err != nil {
			return nil, err
		}
		return append(repos, worktrees...), nil
	case candidate.All:
		for _, pass := range []func(scanRoot) ([]candidate.Candidate, error){
			s.repositories, s.worktrees, s.directories,
		} {
			cands, err := pass(r)
			if err != nil {
				return nil, err
			}
			found = append(found, cands...)
		}
		return found, nil
	default:
		return nil, fmt.Errorf("unsupported search mode %v", mode)
	}
}

// scanRoot is a configured root in two forms. path is what the user wrote,
// made absolute with ~ expanded, and names the root's own candidates.
// resolved is the canonical directory that is actually read.
type scanRoot struct {
	path     string
	resolved string
}

func (s *Scanner) resolveRoot(root string) (scanRoot, error) {
	resolved, err := s.fs.Canonical(root)
	if err != nil {
		return scanRoot{}, &PathError{Path: root, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	info, err := s.fs.Stat(resolved)
	if err != nil {
		return scanRoot{}, &PathError{Path: root, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	if !info.IsDir() {
		return scanRoot{}, &PathError{Path: root, Err: ErrNotDirectory}
	}

	path, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		path = resolved
	}
	return scanRoot{path: path, resolved: resolved}, nil
}

// directories yields the root itself without descending. Symlinked roots
// keep their configured name and path.
func (s *Scanner) directories(r scanRoot) ([]candidate.Candidate, error) {
	name, err := leaf(r.path)
	if err != nil {
		return nil, err
	}
	return []candidate.Candidate{candidate.NewDirectory(name, r.path)}, nil
}

// repositories yields the root when it is a checkout itself, then every
// immediate child directory that directly contains a .git entry.
func (s *Scanner) repositories(r scanRoot) ([]candidate.Candidate, error) {
	var found []candidate.Candidate

	isRepo, err := s.hasGit(r.resolved)
	if err != nil {
		return nil, err
	}
	if isRepo {
		name, err := leaf(r.path)
		if err != nil {
			return nil, err
		}
		found = append(found, candidate.NewRepository(name, r.path))
	}

	children, err := s.childDirs(r.resolved)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		isRepo, err := s.hasGit(child)
		if err != nil {
			return nil, err
		}
		if !isRepo {
			continue
		}
		name, err := leaf(child)
		if err != nil {
			return nil, err
		}
		found = append(found, candidate.NewRepository(name, child))
	}
	return found, nil
}

// worktrees treats every child that is not itself a checkout as a worktree
// container and yields its children that hold a .git entry. Whether that entry
// is a gitdir pointer file or a full .git directory is not inspected.
func (s *Scanner) worktrees(r scanRoot) ([]candidate.Candidate, error) {
	var found []candidate.Candidate

	containers, err := s.childDirs(r.resolved)
	if err != nil {
		return nil, err
	}
	for _, container := range containers {
		isRepo, err := s.hasGit(container)
		if err != nil {
			return nil, err
		}
		if isRepo {
			continue
		}

		children, err := s.childDirs(container)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			ok, err := s.hasGit(child)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			name, err := worktreeName(child)
			if err != nil {
				return nil, err
			}
			found = append(found, candidate.NewWorktree(name, child))
		}
	}
	return found, nil
}

// childDirs lists the directories directly below dir, following symlinks.
// Entries named .git are never candidates.
func (s *Scanner) childDirs(dir string) ([]string, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, &PathError{Path: dir, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}

	var dirs []string
	for _, entry := range entries {
		if entry.Name() == gitEntry {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := s.fs.Stat(path)
			if err != nil {
				// Dangling links are not directories.
				continue
			}
			isDir = info.IsDir()
		}
		if isDir {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}

// hasGit reports whether dir directly contains an entry named .git.
func (s *Scanner) hasGit(dir string) (bool, error) {
	_, err := s.fs.Stat(filepath.Join(dir, gitEntry))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &PathError{Path: filepath.Join(dir, gitEntry), Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
}

// leaf returns the final segment of path.
func leaf(path string) (string, error) {
	name := filepath.Base(filepath.Clean(path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", &PathError{Path: path, Err: ErrNoLeaf}
	}
	if !utf8.ValidString(name) {
		return "", &PathError{Path: path, Err: ErrNotUTF8}
	}
	return name, nil
}

// worktreeName joins the last two segments of path with "/".
func worktreeName(path string) (string, error) {
	name, err := leaf(path)
	if err != nil {
		return "", err
	}
	parent := filepath.Dir(filepath.Clean(path))
	base, err := leaf(parent)
	if err != nil {
		return "", err
	}
	return base + "/" + name, nil
}
