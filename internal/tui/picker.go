// pattern: Imperative Shell

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rigit/internal/candidate"
	"rigit/internal/selector"
)

// chrome is the number of lines the picker draws around the list.
const chrome = 6

// PickerModel filters candidates as the user types and lets them choose one.
type PickerModel struct {
	styles *Styles
	input  textinput.Model

	all     []candidate.Candidate
	matches []selector.Match
	cursor  int
	offset  int

	width  int
	height int

	chosen    *candidate.Candidate
	cancelled bool
}

// NewPickerModel creates a picker over cands, which should already be in
// display order. query pre-fills the filter.
func NewPickerModel(cands []candidate.Candidate, query, theme string) PickerModel {
	styles := NewStyles(theme)

	input := textinput.New()
	input.Placeholder = "Filter candidates..."
	input.Prompt = styles.PromptStyle().Render("> ")
	input.CharLimit = 128
	input.SetValue(query)
	input.Focus()

	return PickerModel{
		styles:  styles,
		input:   input,
		all:     cands,
		matches: selector.Filter(cands, query),
		height:  20,
	}
}

func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PickerModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		if m.cursor < len(m.matches) {
			c := m.matches[m.cursor].Candidate
			m.chosen = &c
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyUp, tea.KeyCtrlP, tea.KeyCtrlK:
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampOffset()
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyCtrlJ, tea.KeyTab:
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
		m.clampOffset()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.matches = selector.Filter(m.all, m.input.Value())
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

func (m *PickerModel) visibleRows() int {
	rows := m.height - chrome
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *PickerModel) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m PickerModel) View() string {
	if m.chosen != nil || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.CountStyle().Render(fmt.Sprintf("  %d/%d", len(m.matches), len(m.all))))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(m.matches))
	for i := m.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.matches[i], i == m.cursor))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.HelpStyle().Render("enter select • esc cancel • ↑/↓ move"))
	return m.styles.BoxStyle().Render(b.String())
}

func (m PickerModel) renderRow(match selector.Match, selected bool) string {
	base := m.styles.ItemStyle()
	if match.Candidate.IsLive() {
		base = m.styles.LiveStyle()
	}
	if selected {
		base = m.styles.SelectedStyle()
	}

	matched := make(map[int]bool, len(match.Positions))
	for _, p := range match.Positions {
		matched[p] = true
	}

	var name strings.Builder
	for i, r := range []rune(match.Candidate.Name) {
		style := base
		if matched[i] {
			style = m.styles.MatchStyle().Bold(base.GetBold())
		}
		name.WriteString(style.Render(string(r)))
	}

	indicator := "  "
	if selected {
		indicator = m.styles.CursorStyle().Render("▸ ")
	}
	kind := m.styles.KindStyle().Render(" " + match.Candidate.Kind.String())
	return indicator + name.String() + kind
}

// Chosen returns the selected candidate, if any.
func (m PickerModel) Chosen() (candidate.Candidate, bool) {
	if m.chosen == nil {
		return candidate.Candidate{}, false
	}
	return *m.chosen, true
}

// Cancelled reports whether the user left without choosing.
func (m PickerModel) Cancelled() bool {
	return m.cancelled
}

// Matches returns the candidates that pass the current filter.
func (m PickerModel) Matches() []candidate.Candidate {
	return selector.Candidates(m.matches)
}

// Cursor returns the highlighted row.
func (m PickerModel) Cursor() int {
	return m.cursor
}
