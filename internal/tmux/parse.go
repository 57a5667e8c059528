// pattern: Functional Core

package tmux

import (
	"bufio"
	"strconv"
	"strings"
)

// ParseListSessions parses `tmux ls` output.
// The line format is: "name: N windows (created DATE) [(attached)]".
// Blank lines are skipped; a line without ':' is a *ParseError.
func ParseListSessions(output string) ([]Session, error) {
	var sessions []Session

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		session, err := parseSessionLine(line)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func parseSessionLine(line string) (Session, error) {
	var session Session

	name, rest, ok := strings.Cut(line, ": ")
	if !ok {
		name, rest, ok = strings.Cut(line, ":")
	}
	if !ok || name == "" {
		return session, &ParseError{Line: line}
	}
	session.Name = name

	// tmux uses "1 window" (singular) or "N windows" (plural)
	rest = strings.TrimSpace(rest)
	if idx := strings.Index(rest, " window"); idx > 0 {
		if n, err := strconv.Atoi(rest[:idx]); err == nil {
			session.Windows = n
		}
	}

	session.Attached = strings.HasSuffix(line, "(attached)")

	return session, nil
}

// isNoServer reports whether tmux output means no server is running, which
// is the same as having no sessions.
func isNoServer(output string) bool {
	return strings.Contains(output, "no server running") ||
		strings.Contains(output, "error connecting to") ||
		strings.Contains(output, "no sessions")
}
