//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rigit/internal/tmux"
)

// AnchorSession keeps the isolated server alive between test steps.
const AnchorSession = "e2e-anchor"

// SkipIfMissing skips the test if binary is not available.
func SkipIfMissing(t *testing.T, binary string) {
	t.Helper()
	if _, err := exec.LookPath(binary); err != nil {
		t.Skipf("Skipping test: %s not found in PATH", binary)
	}
}

// Server is a tmux server on a private socket, so tests never touch the
// user's sessions.
type Server struct {
	t      *testing.T
	socket string
}

// StartServer starts an isolated tmux server with windows numbered from 1.
func StartServer(t *testing.T) *Server {
	t.Helper()
	SkipIfMissing(t, "tmux")

	s := &Server{t: t, socket: fmt.Sprintf("rigit-e2e-%d", time.Now().UnixNano())}
	ctx := context.Background()

	if _, err := s.Exec(ctx, []string{"-f", "/dev/null", "new-session", "-ds", AnchorSession}); err != nil {
		t.Fatalf("Failed to start tmux server: %v", err)
	}
	if _, err := s.Exec(ctx, []string{"set-option", "-g", "base-index", "1"}); err != nil {
		t.Fatalf("Failed to set base-index: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.Exec(context.Background(), []string{"kill-server"})
	})
	return s
}

// Exec is a tmux.Executor bound to the private socket.
func (s *Server) Exec(ctx context.Context, args []string) (string, error) {
	return tmux.RunTmux(ctx, append([]string{"-L", s.socket}, args...))
}

// Windows returns "index name" for each window of session.
func (s *Server) Windows(session string) []string {
	s.t.Helper()
	out, err := s.Exec(context.Background(), []string{"list-windows", "-t", session, "-F", "#{window_index} #{window_name}"})
	if err != nil {
		s.t.Fatalf("Failed to list windows of %s: %v", session, err)
	}
	return strings.Split(strings.TrimSpace(out), "\n")
}

// PaneDir returns the working directory of the first pane of target.
func (s *Server) PaneDir(target string) string {
	s.t.Helper()
	out, err := s.Exec(context.Background(), []string{"display-message", "-p", "-t", target, "#{pane_current_path}"})
	if err != nil {
		s.t.Fatalf("Failed to read pane path of %s: %v", target, err)
	}
	return strings.TrimSpace(out)
}

// TestTree creates dirs (slash-separated, relative) under a fresh root and
// returns the root with symlinks resolved.
func TestTree(t *testing.T, dirs ...string) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	return root
}

// PickerRunner drives the picker through Update() calls instead of a
// terminal.
type PickerRunner struct {
	keys []tea.Msg
}

// NewPickerRunner queues keys to press in order.
func NewPickerRunner(keys ...tea.Msg) *PickerRunner {
	return &PickerRunner{keys: keys}
}

// Type queues the runes of s as one key press.
func Type(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Key queues a special key.
func Key(k tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: k}
}

// Run has the shape of tui.ProgramRunner.
func (r *PickerRunner) Run(_ context.Context, m tea.Model) (tea.Model, error) {
	for _, msg := range r.keys {
		m, _ = m.Update(msg)
	}
	return m, nil
}
