// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"rigit/internal/candidate"
	"rigit/internal/config"
	"rigit/internal/discovery"
	"rigit/internal/logging"
	"rigit/internal/selector"
	"rigit/internal/session"
	"rigit/internal/sessionizer"
	"rigit/internal/tmux"
	"rigit/internal/tui"
)

const defaultCommand = "open"

// rootsNote explains how roots are searched.
const rootsNote = `
Each configured path is a root. Repositories are the root itself and its
direct children holding .git. Worktrees are found one level deeper, under
children without .git, and are named "<container>/<worktree>". Configure the
directory that holds your bare-repo containers, not a container itself.`

// Env carries what commands need to build a sessionizer.Service.
type Env struct {
	Config config.Config
	// ConfigErr is returned by every command that needs the configuration.
	ConfigErr error
	Logs      logging.LoggerProvider

	// Executor runs tmux. Nil uses the tmux binary on PATH.
	Executor tmux.Executor
	// Selector overrides the configured selector.
	Selector selector.Selector
	// FS overrides the filesystem the scanner reads.
	FS discovery.FS

	InTmux bool
	Home   string

	Stdout io.Writer
	Stderr io.Writer
	// IsTerminal reports whether Stdout is a terminal. Nil checks the file
	// descriptor when Stdout is an *os.File.
	IsTerminal func() bool
}

// NewEnv fills an Env from the process environment.
func NewEnv(cfg config.Config, cfgErr error, logs logging.LoggerProvider) *Env {
	home, _ := os.UserHomeDir()
	return &Env{
		Config:    cfg,
		ConfigErr: cfgErr,
		Logs:      logs,
		InTmux:    os.Getenv("TMUX") != "",
		Home:      home,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

func (e *Env) stdoutIsTerminal() bool {
	if e.IsTerminal != nil {
		return e.IsTerminal()
	}
	f, ok := e.Stdout.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// service wires a Service. selectorName overrides the configured selector
// when non-empty.
func (e *Env) service(selectorName string) (*sessionizer.Service, error) {
	if e.ConfigErr != nil {
		return nil, e.ConfigErr
	}

	cfg := e.Config
	if selectorName != "" {
		cfg.Selector = selectorName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var client *tmux.Client
	if e.Executor != nil {
		client = tmux.NewClientWithLogger(e.Executor, e.Logs)
	} else {
		client = tmux.NewSystemClient(e.Logs)
	}

	scanner := discovery.NewScanner(e.Logs)
	if e.FS != nil {
		scanner = discovery.NewScannerWithFS(e.FS, e.Logs)
	}

	sel := e.Selector
	if sel == nil {
		sel = newSelector(cfg, e.Logs)
	}

	mat := session.New(client, session.Options{
		Editor:      cfg.Editor,
		EditorLabel: cfg.EditorWindow,
		ShellLabel:  cfg.ShellWindow,
		Home:        e.Home,
		InTmux:      e.InTmux,
	}, e.Logs)

	return sessionizer.New(cfg, client, scanner, sel, mat, e.Logs), nil
}

func newSelector(cfg config.Config, logs logging.LoggerProvider) selector.Selector {
	if cfg.DetectedSelector() == config.SelectorBuiltin {
		return tui.NewPicker(cfg.Theme, logs)
	}
	return selector.NewFzf(selector.WithArgs(cfg.FzfArgs), selector.WithLogger(logs))
}

// BuildApp creates and configures the CLI application with all commands.
func BuildApp(version string, env *Env) *App {
	app := NewApp(version)
	if env.Stderr != nil {
		app.Stderr = env.Stderr
	}

	app.AddCommand(&Command{
		Name:    "open",
		Summary: "Pick a session, repository, worktree or directory and switch to it",
		Usage:   "Usage: rigit open [--search all|dirs|repos|worktrees] [--selector fzf|builtin] [query]\n" + rootsNote,
		Run: func(ctx context.Context, args []string) error {
			return runOpen(ctx, env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "list",
		Summary: "Print the candidates in display order",
		Usage:   "Usage: rigit list [--search all|dirs|repos|worktrees] [--long] [query]\n" + rootsNote,
		Run: func(ctx context.Context, args []string) error {
			return runList(ctx, env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "kill",
		Summary: "Kill the current session and switch to the default session",
		Usage:   "Usage: rigit kill",
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return usageErrorf("kill takes no arguments")
			}
			svc, err := env.service("")
			if err != nil {
				return err
			}
			return svc.Kill(ctx)
		},
	})

	app.AddCommand(&Command{
		Name:    "kill-all",
		Summary: "Kill every session except the default session",
		Usage:   "Usage: rigit kill-all",
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return usageErrorf("kill-all takes no arguments")
			}
			svc, err := env.service("")
			if err != nil {
				return err
			}
			killed, err := svc.KillAll(ctx)
			for _, name := range killed {
				fmt.Fprintf(env.Stdout, "killed %s\n", name)
			}
			return err
		},
	})

	app.AddCommand(&Command{
		Name:    "startup",
		Summary: "Create the default session in the home directory and focus it",
		Usage:   "Usage: rigit startup",
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return usageErrorf("startup takes no arguments")
			}
			svc, err := env.service("")
			if err != nil {
				return err
			}
			return svc.Startup(ctx)
		},
	})

	app.AddCommand(&Command{
		Name:    "completion",
		Summary: "Print a shell completion script (bash or zsh)",
		Usage:   "Usage: rigit completion bash|zsh",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageErrorf("completion takes exactly one shell: %s", strings.Join(completionShells, ", "))
			}
			return app.WriteCompletion(env.Stdout, args[0])
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: rigit version",
		Run: func(ctx context.Context, args []string) error {
			fmt.Fprintln(env.Stdout, version)
			return nil
		},
	})

	return app
}

// searchFlags are the flags shared by open and list.
type searchFlags struct {
	fs     *flag.FlagSet
	search *string
}

func newSearchFlags(name string) searchFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return searchFlags{
		fs:     fs,
		search: fs.StringP("search", "s", "all", "candidates to offer: all, dirs, repos or worktrees"),
	}
}

// parse returns the search mode and the remaining words joined as a query.
func (f searchFlags) parse(args []string) (candidate.SearchMode, string, error) {
	if err := f.fs.Parse(args); err != nil {
		return 0, "", usageErrorf("%v", err)
	}
	mode, err := candidate.ParseSearchMode(*f.search)
	if err != nil {
		return 0, "", usageErrorf("%v", err)
	}
	return mode, strings.Join(f.fs.Args(), " "), nil
}

func runOpen(ctx context.Context, env *Env, args []string) error {
	flags := newSearchFlags("open")
	selectorName := flags.fs.String("selector", "", "selector to use: fzf or builtin")

	mode, query, err := flags.parse(args)
	if err != nil {
		return err
	}
	if *selectorName != "" && *selectorName != config.SelectorFzf && *selectorName != config.SelectorBuiltin {
		return usageErrorf("--selector must be '%s' or '%s', got: %s", config.SelectorFzf, config.SelectorBuiltin, *selectorName)
	}

	svc, err := env.service(*selectorName)
	if err != nil {
		return err
	}
	_, err = svc.Open(ctx, sessionizer.OpenOptions{Mode: mode, Query: query})
	return err
}

func runList(ctx context.Context, env *Env, args []string) error {
	flags := newSearchFlags("list")
	long := flags.fs.BoolP("long", "l", false, "also print kind and path")

	mode, query, err := flags.parse(args)
	if err != nil {
		return err
	}

	svc, err := env.service("")
	if err != nil {
		return err
	}
	cands, err := svc.Candidates(ctx, mode)
	if err != nil {
		return err
	}
	if query != "" {
		cands = selector.Candidates(selector.Filter(cands, query))
	}

	styled := env.stdoutIsTerminal()
	for _, c := range cands {
		name := c.Name
		if styled {
			name = selector.Line(c)
		}
		if *long {
			fmt.Fprintf(env.Stdout, "%s\t%s\t%s\n", name, c.Kind, c.Path)
		} else {
			fmt.Fprintln(env.Stdout, name)
		}
	}
	return nil
}
