// pattern: Imperative Shell

// Package session turns a chosen candidate into a focused tmux session,
// creating it on first use.
package session

import (
	"context"
	"fmt"

	"rigit/internal/candidate"
	"rigit/internal/logging"
	"rigit/internal/tmux"
)

const (
	editorWindow = 1
	shellWindow  = 2
)

// Options controls how sessions are laid out and focused.
type Options struct {
	// Editor is typed into the first window of a new session. Empty skips it.
	Editor string
	// EditorLabel and ShellLabel name the two windows of a new session.
	EditorLabel string
	ShellLabel  string
	// Home roots sessions whose candidate has no path.
	Home string
	// InTmux selects switch-client over attach-session for focusing.
	InTmux bool
}

// Materializer creates and focuses tmux sessions. It is not transactional:
// a failed step leaves whatever tmux state the earlier steps created.
type Materializer struct {
	client *tmux.Client
	opts   Options
	logger *logging.ScopedLogger
}

// New creates a Materializer.
func New(client *tmux.Client, opts Options, logProvider logging.LoggerProvider) *Materializer {
	m := &Materializer{client: client, opts: opts, logger: logging.NopLogger()}
	if logProvider != nil {
		m.logger = logProvider.For("session")
	}
	return m
}

// Materialize focuses the session for c, creating it first when tmux has no
// session of that name.
func (m *Materializer) Materialize(ctx context.Context, c candidate.Candidate) error {
	name := tmux.SessionName(c.Name)

	exists, err := m.client.HasSession(ctx, name)
	if err != nil {
		return fmt.Errorf("check session %q: %w", name, err)
	}
	if exists {
		m.logger.Info("focusing existing session", "session", name)
		return m.Focus(ctx, name)
	}

	dir := c.Path
	if !c.HasPath() {
		dir = m.opts.Home
	}

	m.logger.Info("creating session", "session", name, "dir", dir, "kind", c.Kind.String())
	if err := m.Create(ctx, name, dir); err != nil {
		return err
	}

	// attach-session blocks until detach, so the editor has to start first.
	if !m.opts.InTmux {
		if err := m.launchEditor(ctx, name); err != nil {
			return err
		}
		return m.Focus(ctx, name)
	}
	if err := m.Focus(ctx, name); err != nil {
		return err
	}
	return m.launchEditor(ctx, name)
}

// Create builds the two-window layout: an editor window and a shell window,
// both rooted at dir.
func (m *Materializer) Create(ctx context.Context, name, dir string) error {
	editor := tmux.Target(name, editorWindow)
	shell := tmux.Target(name, shellWindow)

	if err := m.client.NewSession(ctx, name, dir); err != nil {
		return fmt.Errorf("create session %q: %w", name, err)
	}
	if err := m.client.RenameWindow(ctx, editor, m.opts.EditorLabel); err != nil {
		return fmt.Errorf("rename window %s: %w", editor, err)
	}
	if err := m.client.NewWindow(ctx, shell, dir); err != nil {
		return fmt.Errorf("create window %s: %w", shell, err)
	}
	if err := m.client.RenameWindow(ctx, shell, m.opts.ShellLabel); err != nil {
		return fmt.Errorf("rename window %s: %w", shell, err)
	}
	return nil
}

// CreatePlain builds a session with two unlabelled windows rooted at dir.
func (m *Materializer) CreatePlain(ctx context.Context, name, dir string) error {
	shell := tmux.Target(name, shellWindow)

	if err := m.client.NewSession(ctx, name, dir); err != nil {
		return fmt.Errorf("create session %q: %w", name, err)
	}
	if err := m.client.NewWindow(ctx, shell, dir); err != nil {
		return fmt.Errorf("create window %s: %w", shell, err)
	}
	return nil
}

// Focus brings the first window of name to the user: switch-client inside
// tmux, attach-session outside.
func (m *Materializer) Focus(ctx context.Context, name string) error {
	target := tmux.Target(name, editorWindow)
	if m.opts.InTmux {
		if err := m.client.SwitchClient(ctx, target); err != nil {
			return fmt.Errorf("switch to %s: %w", target, err)
		}
		return nil
	}
	if err := m.client.AttachSession(ctx, target); err != nil {
		return fmt.Errorf("attach to %s: %w", target, err)
	}
	return nil
}

func (m *Materializer) launchEditor(ctx context.Context, name string) error {
	if m.opts.Editor == "" {
		return nil
	}
	target := tmux.Target(name, editorWindow)
	if err := m.client.SendKeys(ctx, target, m.opts.Editor); err != nil {
		return fmt.Errorf("start editor in %s: %w", target, err)
	}
	return nil
}

// InTmux reports whether focusing uses switch-client.
func (m *Materializer) InTmux() bool {
	return m.opts.InTmux
}

// Home returns the directory for sessions without a path.
func (m *Materializer) Home() string {
	return m.opts.Home
}
