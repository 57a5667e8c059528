// pattern: Imperative Shell

// Package sessionizer sequences session listing, discovery, selection and
// materialization into the user-facing operations.
package sessionizer

import (
	"context"
	"errors"
	"fmt"

	"rigit/internal/candidate"
	"rigit/internal/config"
	"rigit/internal/discovery"
	"rigit/internal/logging"
	"rigit/internal/registry"
	"rigit/internal/selector"
	"rigit/internal/session"
	"rigit/internal/tmux"
)

// OpenOptions selects what Open offers.
type OpenOptions struct {
	Mode  candidate.SearchMode
	Query string
}

// Service runs one invocation against a tmux server.
type Service struct {
	cfg          config.Config
	client       *tmux.Client
	scanner      *discovery.Scanner
	selector     selector.Selector
	materializer *session.Materializer
	logger       *logging.ScopedLogger
}

// New creates a Service. cfg should already be validated.
func New(
	cfg config.Config,
	client *tmux.Client,
	scanner *discovery.Scanner,
	sel selector.Selector,
	materializer *session.Materializer,
	logProvider logging.LoggerProvider,
) *Service {
	s := &Service{
		cfg:          cfg,
		client:       client,
		scanner:      scanner,
		selector:     sel,
		materializer: materializer,
		logger:       logging.NopLogger(),
	}
	if logProvider != nil {
		s.logger = logProvider.For("sessionizer")
	}
	return s
}

// Registry lists running sessions, scans every root and merges the two.
func (s *Service) Registry(ctx context.Context, mode candidate.SearchMode) (*registry.Registry, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	sessions, err := s.client.SessionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	discovered, err := s.scanner.ScanAll(s.cfg.Paths, mode)
	if err != nil {
		return nil, fmt.Errorf("scan roots: %w", err)
	}

	reg := registry.Build(s.cfg.DefaultSession, sessions, discovered)
	s.logger.Debug("registry built",
		"mode", mode.String(),
		"sessions", len(sessions),
		"discovered", len(discovered),
		"candidates", reg.Len())
	return reg, nil
}

// Candidates returns the merged candidates in display order.
func (s *Service) Candidates(ctx context.Context, mode candidate.SearchMode) ([]candidate.Candidate, error) {
	reg, err := s.Registry(ctx, mode)
	if err != nil {
		return nil, err
	}
	return reg.Sorted(), nil
}

// Open lets the user choose a candidate and focuses its session. A
// cancelled selection returns selector.ErrCancelled without touching tmux.
func (s *Service) Open(ctx context.Context, opts OpenOptions) (candidate.Candidate, error) {
	reg, err := s.Registry(ctx, opts.Mode)
	if err != nil {
		return candidate.Candidate{}, err
	}

	chosen, err := s.selector.Select(ctx, reg, opts.Query)
	if errors.Is(err, selector.ErrCancelled) {
		s.logger.Info("selection cancelled")
		return candidate.Candidate{}, err
	}
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("select candidate: %w", err)
	}

	if err := s.materializer.Materialize(ctx, chosen); err != nil {
		return chosen, fmt.Errorf("open %s %q: %w", chosen.Kind, chosen.Name, err)
	}
	s.logger.Info("session opened", "name", chosen.Name, "kind", chosen.Kind.String())
	return chosen, nil
}

// Kill moves the client to the default session and kills the session it
// was on. The default session itself is never killed.
func (s *Service) Kill(ctx context.Context) error {
	def := tmux.SessionName(s.cfg.DefaultSession)

	current, err := s.client.CurrentSession(ctx)
	if err != nil {
		return fmt.Errorf("find current session: %w", err)
	}

	if err := s.client.SwitchClient(ctx, tmux.Exact(def)); err != nil {
		return fmt.Errorf("switch to default session %q: %w", def, err)
	}

	if current == def {
		s.logger.Info("refusing to kill default session", "session", def)
		if err := s.client.DisplayMessage(ctx, fmt.Sprintf("Can't kill the default session: '%s'", def)); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		return nil
	}

	if err := s.client.KillSession(ctx, current); err != nil {
		return fmt.Errorf("kill session %q: %w", current, err)
	}
	s.logger.Info("session killed", "session", current)
	return nil
}

// KillAll moves the client to the default session and kills every other
// session. It returns the killed session names.
func (s *Service) KillAll(ctx context.Context) ([]string, error) {
	def := tmux.SessionName(s.cfg.DefaultSession)

	names, err := s.client.SessionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	if err := s.client.SwitchClient(ctx, tmux.Exact(def)); err != nil {
		return nil, fmt.Errorf("switch to default session %q: %w", def, err)
	}

	var killed []string
	for _, name := range names {
		if name == def {
			continue
		}
		if err := s.client.KillSession(ctx, name); err != nil {
			return killed, fmt.Errorf("kill session %q: %w", name, err)
		}
		killed = append(killed, name)
	}
	s.logger.Info("sessions killed", "count", len(killed))
	return killed, nil
}

// Startup creates the default session in the home directory and focuses it.
// Inside tmux an already running default session is only reported.
func (s *Service) Startup(ctx context.Context) error {
	def := tmux.SessionName(s.cfg.DefaultSession)

	exists, err := s.client.HasSession(ctx, def)
	if err != nil {
		return fmt.Errorf("check default session %q: %w", def, err)
	}

	if exists && s.materializer.InTmux() {
		if err := s.client.DisplayMessage(ctx, fmt.Sprintf("The default session '%s' is already running", def)); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		return nil
	}

	if !exists {
		s.logger.Info("creating default session", "session", def, "dir", s.materializer.Home())
		if err := s.materializer.CreatePlain(ctx, def, s.materializer.Home()); err != nil {
			return fmt.Errorf("create default session: %w", err)
		}
	}
	return s.materializer.Focus(ctx, def)
}
