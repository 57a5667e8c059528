// pattern: Imperative Shell

package tmux

import (
	"context"
	"errors"

	"rigit/internal/logging"
)

// Executor runs tmux with args and returns its stdout. Failures are reported
// as *CommandError.
type Executor func(ctx context.Context, args []string) (string, error)

// Client issues tmux control commands through an Executor.
type Client struct {
	exec   Executor
	attach Executor
	logger *logging.ScopedLogger
}

// NewClient creates a Client that runs every command through exec,
// including attach-session.
func NewClient(exec Executor) *Client {
	return &Client{exec: exec, attach: exec, logger: logging.NopLogger()}
}

// NewClientWithLogger creates a Client that logs each command.
func NewClientWithLogger(exec Executor, logProvider logging.LoggerProvider) *Client {
	c := NewClient(exec)
	if logProvider != nil {
		c.logger = logProvider.For("tmux")
	}
	return c
}

// NewSystemClient creates a Client for the tmux binary on PATH. attach-session
// is given the process terminal.
func NewSystemClient(logProvider logging.LoggerProvider) *Client {
	c := NewClientWithLogger(RunTmux, logProvider)
	c.attach = AttachTmux
	return c
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.logger.Debug("tmux", "args", args)
	out, err := c.exec(ctx, args)
	if err != nil {
		c.logger.Debug("tmux command failed", "args", args, "error", err)
	}
	return out, err
}

// ListSessions returns the running sessions in `tmux ls` order. A missing
// server yields no sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	output, err := c.run(ctx, "ls")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && isNoServer(cmdErr.Output) {
			return []Session{}, nil
		}
		return nil, err
	}

	sessions, err := ParseListSessions(output)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("listed sessions", "count", len(sessions))
	return sessions, nil
}

// SessionNames returns the names of the running sessions.
func (c *Client) SessionNames(ctx context.Context) ([]string, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}
	return names, nil
}

// CurrentSession returns the name of the attached session.
func (c *Client) CurrentSession(ctx context.Context) (string, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range sessions {
		if s.IsActive() {
			return s.Name, nil
		}
	}
	return "", ErrNoCurrentSession
}

// HasSession reports whether a session named exactly name is running.
func (c *Client) HasSession(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "has-session", "-t", Exact(name))
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}

// NewSession creates a detached session rooted at dir.
func (c *Client) NewSession(ctx context.Context, name, dir string) error {
	_, err := c.run(ctx, "new-session", "-ds", name, "-c", dir)
	return err
}

// NewWindow creates a window at target ("session:index") rooted at dir.
func (c *Client) NewWindow(ctx context.Context, target, dir string) error {
	_, err := c.run(ctx, "new-window", "-t", target, "-c", dir)
	return err
}

// RenameWindow sets the label of the window at target.
func (c *Client) RenameWindow(ctx context.Context, target, label string) error {
	_, err := c.run(ctx, "rename-window", "-t", target, label)
	return err
}

// SwitchClient moves the current client to target, a session or window
// address built with Exact or Target.
func (c *Client) SwitchClient(ctx context.Context, target string) error {
	_, err := c.run(ctx, "switch-client", "-t", target)
	return err
}

// AttachSession attaches the terminal to target. It blocks until the client
// detaches.
func (c *Client) AttachSession(ctx context.Context, target string) error {
	args := []string{"attach-session", "-t", target}
	c.logger.Debug("tmux", "args", args)
	_, err := c.attach(ctx, args)
	return err
}

// SendKeys types keys into target, followed by Enter.
func (c *Client) SendKeys(ctx context.Context, target, keys string) error {
	_, err := c.run(ctx, "send-keys", "-t", target, keys, "Enter")
	return err
}

// KillSession destroys the session named exactly name.
func (c *Client) KillSession(ctx context.Context, name string) error {
	_, err := c.run(ctx, "kill-session", "-t", Exact(name))
	return err
}

// DisplayMessage shows text in the status line of the current client.
func (c *Client) DisplayMessage(ctx context.Context, text string) error {
	_, err := c.run(ctx, "display-message", text)
	return err
}
