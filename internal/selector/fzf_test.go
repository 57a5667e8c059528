package selector

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"rigit/internal/candidate"
	"rigit/internal/logging"
	"rigit/internal/registry"
)

type runRecorder struct {
	name   string
	args   []string
	stdin  string
	output string
	err    error
	calls  int
}

func (r *runRecorder) run(_ context.Context, name string, args []string, stdin io.Reader) (string, error) {
	r.calls++
	r.name = name
	r.args = args
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	r.stdin = string(data)
	return r.output, r.err
}

func testRegistry() *registry.Registry {
	return registry.Build("Default",
		[]string{"live"},
		[]candidate.Candidate{
			candidate.NewRepository("proj", "/r/proj"),
			candidate.NewDirectory("code", "/code"),
		},
	)
}

func TestFzfSelect_WritesSortedLinesAndResolves(t *testing.T) {
	rec := &runRecorder{output: "proj\n"}
	f := NewFzf(WithRunner(rec.run))

	c, err := f.Select(context.Background(), testRegistry(), "")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if c != candidate.NewRepository("proj", "/r/proj") {
		t.Errorf("Select() = %+v", c)
	}

	if rec.name != "fzf" {
		t.Errorf("binary = %q, want fzf", rec.name)
	}
	if !reflect.DeepEqual(rec.args, DefaultFzfArgs) {
		t.Errorf("args = %v, want %v", rec.args, DefaultFzfArgs)
	}
	wantInput := "\x1b[1mDefault\x1b[0m\n\x1b[1mlive\x1b[0m\ncode\nproj\n"
	if rec.stdin != wantInput {
		t.Errorf("stdin = %q, want %q", rec.stdin, wantInput)
	}
}

func TestFzfSelect_Query(t *testing.T) {
	rec := &runRecorder{output: "code"}
	f := NewFzf(WithRunner(rec.run), WithArgs([]string{"--height=40%"}), WithBinary("/opt/fzf"))

	if _, err := f.Select(context.Background(), testRegistry(), "co"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if rec.name != "/opt/fzf" {
		t.Errorf("binary = %q", rec.name)
	}
	want := []string{"--height=40%", "--query", "co"}
	if !reflect.DeepEqual(rec.args, want) {
		t.Errorf("args = %v, want %v", rec.args, want)
	}
}

func TestFzfSelect_EmptyArgsKeepDefaults(t *testing.T) {
	f := NewFzf(WithArgs(nil))
	if got := f.Args(""); !reflect.DeepEqual(got, DefaultFzfArgs) {
		t.Errorf("Args() = %v, want defaults", got)
	}
}

func TestFzfSelect_Cancelled(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
	}{
		{name: "empty output", output: ""},
		{name: "escape exit 130", err: &CommandError{Name: "fzf", ExitCode: 130, Err: errors.New("exit status 130")}},
		{name: "no match exit 1", err: &CommandError{Name: "fzf", ExitCode: 1, Err: errors.New("exit status 1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &runRecorder{output: tt.output, err: tt.err}
			f := NewFzf(WithRunner(rec.run))

			_, err := f.Select(context.Background(), testRegistry(), "")
			if !errors.Is(err, ErrCancelled) {
				t.Errorf("Select() error = %v, want ErrCancelled", err)
			}
		})
	}
}

func TestFzfSelect_Failures(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		wantErr error
	}{
		{
			name:    "unknown name",
			output:  "ghost\n",
			wantErr: ErrNoMatch,
		},
		{
			name: "exit 2",
			err:  &CommandError{Name: "fzf", ExitCode: 2, Err: errors.New("exit status 2")},
		},
		{
			name: "not spawnable",
			err:  &CommandError{Name: "fzf", ExitCode: -1, Err: errors.New("executable file not found")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &runRecorder{output: tt.output, err: tt.err}
			f := NewFzf(WithRunner(rec.run))

			_, err := f.Select(context.Background(), testRegistry(), "")
			if err == nil {
				t.Fatal("Select() succeeded, want error")
			}
			if errors.Is(err, ErrCancelled) {
				t.Errorf("Select() error = %v, must not be cancellation", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Select() error = %v, want %v", err, tt.wantErr)
			}
			var cmdErr *CommandError
			if tt.err != nil && !errors.As(err, &cmdErr) {
				t.Errorf("Select() error = %v, want *CommandError in chain", err)
			}
		})
	}
}

func TestFzfSelect_Logs(t *testing.T) {
	lm := logging.NewTestLogManager(100)

	rec := &runRecorder{output: "proj"}
	f := NewFzf(WithRunner(rec.run), WithLogger(lm))

	if _, err := f.Select(context.Background(), testRegistry(), ""); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if _, ok := lm.Find("selector", "candidate selected"); !ok {
		t.Errorf("expected a selector log entry for the chosen candidate, got %v", lm.Entries())
	}
}

func TestCommandError(t *testing.T) {
	inner := errors.New("exit status 2")
	err := &CommandError{Name: "fzf", Args: []string{"--ansi"}, ExitCode: 2, Err: inner}

	if got := err.Error(); got != "fzf --ansi: exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("CommandError does not unwrap")
	}
}
