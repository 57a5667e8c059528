// pattern: Imperative Shell

package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rigit/internal/candidate"
	"rigit/internal/logging"
	"rigit/internal/registry"
	"rigit/internal/selector"
)

// ProgramRunner runs a bubbletea model to completion and returns the final
// model.
type ProgramRunner func(ctx context.Context, m tea.Model) (tea.Model, error)

// RunProgram runs m full-screen, drawing on stderr so stdout stays clean.
func RunProgram(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
	)
	return p.Run()
}

// Picker is the in-process selector.
type Picker struct {
	theme  string
	run    ProgramRunner
	logger *logging.ScopedLogger
}

var _ selector.Selector = (*Picker)(nil)

// NewPicker creates a Picker styled with the named catppuccin flavour.
func NewPicker(theme string, logProvider logging.LoggerProvider) *Picker {
	return NewPickerWithRunner(theme, RunProgram, logProvider)
}

// NewPickerWithRunner creates a Picker that runs its model through run.
func NewPickerWithRunner(theme string, run ProgramRunner, logProvider logging.LoggerProvider) *Picker {
	p := &Picker{theme: theme, run: run, logger: logging.NopLogger()}
	if logProvider != nil {
		p.logger = logProvider.For("selector")
	}
	return p
}

// Select shows the registry in display order and returns the chosen entry.
func (p *Picker) Select(ctx context.Context, reg *registry.Registry, query string) (candidate.Candidate, error) {
	model := NewPickerModel(reg.Sorted(), query, p.theme)

	p.logger.Debug("starting picker", "candidates", reg.Len())
	final, err := p.run(ctx, model)
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("run picker: %w", err)
	}

	result, ok := final.(PickerModel)
	if !ok {
		return candidate.Candidate{}, fmt.Errorf("run picker: unexpected model %T", final)
	}
	chosen, ok := result.Chosen()
	if !ok {
		p.logger.Debug("selection cancelled")
		return candidate.Candidate{}, selector.ErrCancelled
	}

	c, err := selector.Resolve(reg, chosen.Name)
	if err != nil {
		return candidate.Candidate{}, err
	}
	p.logger.Info("candidate selected", "name", c.Name, "kind", c.Kind.String())
	return c, nil
}
