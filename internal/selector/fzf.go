// pattern: Imperative Shell

package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"rigit/internal/candidate"
	"rigit/internal/logging"
	"rigit/internal/registry"
)

// DefaultFzfArgs are the display flags passed to fzf when none are configured.
var DefaultFzfArgs = []string{"--margin=5%", "--padding=2%", "--border", "--ansi"}

// Runner spawns name with args, feeds it stdin and returns its stdout once
// it exits. A non-zero exit is reported as *CommandError.
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) (string, error)

// CommandError reports a selector process that failed or exited non-zero.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// RunProcess is the Runner for real binaries. The process draws its UI on
// the controlling terminal, so only stdout is captured.
func RunProcess(ctx context.Context, name string, args []string, stdin io.Reader) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return stdout.String(), &CommandError{Name: name, Args: args, ExitCode: code, Err: err}
	}
	return stdout.String(), nil
}

// Fzf selects through an external fzf process.
type Fzf struct {
	binary string
	args   []string
	run    Runner
	logger *logging.ScopedLogger
}

// FzfOption configures an Fzf selector.
type FzfOption func(*Fzf)

// WithArgs replaces the display flags. An empty slice keeps the defaults.
func WithArgs(args []string) FzfOption {
	return func(f *Fzf) {
		if len(args) > 0 {
			f.args = slices.Clone(args)
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(run Runner) FzfOption {
	return func(f *Fzf) { f.run = run }
}

// WithBinary sets the fzf executable.
func WithBinary(binary string) FzfOption {
	return func(f *Fzf) { f.binary = binary }
}

// WithLogger sets the logger scope provider.
func WithLogger(logProvider logging.LoggerProvider) FzfOption {
	return func(f *Fzf) {
		if logProvider != nil {
			f.logger = logProvider.For("selector")
		}
	}
}

// NewFzf creates an fzf selector.
func NewFzf(opts ...FzfOption) *Fzf {
	f := &Fzf{
		binary: "fzf",
		args:   slices.Clone(DefaultFzfArgs),
		run:    RunProcess,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Args returns the argv passed to fzf for query.
func (f *Fzf) Args(query string) []string {
	args := slices.Clone(f.args)
	if query != "" {
		args = append(args, "--query", query)
	}
	return args
}

// Select writes the registry in display order to fzf and resolves the line
// it prints.
func (f *Fzf) Select(ctx context.Context, reg *registry.Registry, query string) (candidate.Candidate, error) {
	args := f.Args(query)
	input := Render(reg.Sorted())

	f.logger.Debug("starting selector", "binary", f.binary, "candidates", reg.Len())
	output, err := f.run(ctx, f.binary, args, strings.NewReader(input))
	if err != nil {
		// fzf exits 1 on no match and 130 on abort; neither prints a choice.
		var cmdErr *CommandError
		if clean(output) == "" && errors.As(err, &cmdErr) && (cmdErr.ExitCode == 1 || cmdErr.ExitCode == 130) {
			f.logger.Debug("selection cancelled", "exit_code", cmdErr.ExitCode)
			return candidate.Candidate{}, ErrCancelled
		}
		return candidate.Candidate{}, fmt.Errorf("run selector: %w", err)
	}

	c, err := Resolve(reg, output)
	if err != nil {
		return candidate.Candidate{}, err
	}
	f.logger.Info("candidate selected", "name", c.Name, "kind", c.Kind.String())
	return c, nil
}

func clean(output string) string {
	return strings.TrimSpace(ansi.Strip(output))
}
