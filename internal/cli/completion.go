// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
	"strings"

	"rigit/internal/candidate"
	"rigit/internal/config"
)

// completionShells lists the shells the completion command can write for.
var completionShells = []string{"bash", "zsh"}

var searchModes = []string{
	candidate.All.String(), candidate.Dirs.String(), candidate.Repos.String(), candidate.Worktrees.String(),
}

// WriteCompletion writes a completion script for shell covering every
// registered command and the per-command flags.
func (a *App) WriteCompletion(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		_, err := io.WriteString(w, a.bashCompletion())
		return err
	case "zsh":
		_, err := io.WriteString(w, a.zshCompletion())
		return err
	default:
		return usageErrorf("unsupported shell %q, want one of: %s", shell, strings.Join(completionShells, ", "))
	}
}

func (a *App) commandNames() []string {
	return append(append([]string(nil), a.order...), "help")
}

func (a *App) bashCompletion() string {
	var b strings.Builder
	fmt.Fprintf(&b, `# bash completion for rigit
_rigit() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        --search|-s) COMPREPLY=($(compgen -W "%s" -- "$cur")); return ;;
        --selector) COMPREPLY=($(compgen -W "%s %s" -- "$cur")); return ;;
        --config-dir|-c) COMPREPLY=($(compgen -d -- "$cur")); return ;;
        completion) COMPREPLY=($(compgen -W "%s" -- "$cur")); return ;;
    esac
    if [[ "$cur" == -* ]]; then
        COMPREPLY=($(compgen -W "--search --selector --long --config-dir --verbose --help" -- "$cur"))
        return
    fi
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
    fi
}
complete -F _rigit rigit
`,
		strings.Join(searchModes, " "),
		config.SelectorFzf, config.SelectorBuiltin,
		strings.Join(completionShells, " "),
		strings.Join(a.commandNames(), " "),
	)
	return b.String()
}

func (a *App) zshCompletion() string {
	var b strings.Builder
	b.WriteString("#compdef rigit\n\n_rigit() {\n    local -a commands\n    commands=(\n")
	for _, name := range a.order {
		fmt.Fprintf(&b, "        '%s:%s'\n", name, zshQuote(a.commands[name].Summary))
	}
	b.WriteString("        'help:Show help'\n    )\n\n")
	fmt.Fprintf(&b, `    _arguments -C \
        '(-c --config-dir)'{-c,--config-dir}'[configuration directory]:directory:_files -/' \
        '(-v --verbose)'{-v,--verbose}'[log debug output to stderr]' \
        '1:command:->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                completion)
                    _values 'shell' %s
                    ;;
                *)
                    _arguments \
                        '(-s --search)'{-s,--search}'[candidates to offer]:mode:(%s)' \
                        '--selector[selector to use]:selector:(%s %s)' \
                        '(-l --long)'{-l,--long}'[also print kind and path]'
                    ;;
            esac
            ;;
    esac
}

_rigit "$@"
`,
		strings.Join(completionShells, " "),
		strings.Join(searchModes, " "),
		config.SelectorFzf, config.SelectorBuiltin,
	)
	return b.String()
}

// zshQuote makes s safe inside a single-quoted _describe entry.
func zshQuote(s string) string {
	s = strings.ReplaceAll(s, ":", `\:`)
	return strings.ReplaceAll(s, "'", `'\''`)
}
