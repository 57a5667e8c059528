// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(ctx context.Context, args []string) error
}

// App represents the top-level CLI application.
type App struct {
	commands map[string]*Command
	order    []string
	version  string

	// Stderr receives help and error output. Defaults to os.Stderr.
	Stderr io.Writer
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		commands: make(map[string]*Command),
		version:  version,
		Stderr:   os.Stderr,
	}
}

// AddCommand registers a command. Help lists commands in registration order.
func (a *App) AddCommand(cmd *Command) {
	if _, ok := a.commands[cmd.Name]; !ok {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// Execute dispatches args to a command and returns the process exit code.
// No arguments runs the default command.
func (a *App) Execute(ctx context.Context, args []string) int {
	if len(args) == 0 {
		args = []string{defaultCommand}
	}

	cmdName := args[0]
	if cmdName == "help" || cmdName == "--help" || cmdName == "-h" {
		a.PrintHelp(a.Stderr)
		return ExitOK
	}

	cmd, ok := a.commands[cmdName]
	if !ok {
		fmt.Fprintf(a.Stderr, "Error: unknown command %q\n\n", cmdName)
		a.PrintHelp(a.Stderr)
		return ExitUsage
	}

	for _, arg := range args[1:] {
		if arg == "--" {
			break
		}
		if arg == "--help" || arg == "-h" {
			fmt.Fprintf(a.Stderr, "%s\n", cmd.Usage)
			return ExitOK
		}
	}

	err := cmd.Run(ctx, args[1:])
	code := ExitCode(err)
	switch code {
	case ExitOK, ExitCancelled:
	case ExitUsage:
		fmt.Fprintf(a.Stderr, "Error: %v\n%s\n", err, cmd.Usage)
	default:
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	}
	return code
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: rigit [options] [command]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, name := range a.order {
		cmd := a.commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "(none)", "Same as \""+defaultCommand+"\"")
	fmt.Fprintf(w, "\nUse \"rigit <command> --help\" for command details.\n\n")
	fmt.Fprintf(w, "Options:\n")
}
