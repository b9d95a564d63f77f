// ABOUTME: Bubble Tea list picker for choosing the game version and modloader during init
// ABOUTME: Typing filters the options with fuzzy matching; enter selects, esc cancels

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mauromedda/kjspkg-go/internal/suggest"
)

// Chooser picks one value out of a fixed set.
type Chooser interface {
	Choose(question string, options []string) (string, error)
}

// NewChooser returns the interactive picker when in is a terminal and
// lines otherwise. lines should be the prompt already reading in, so no
// buffered input is lost between questions.
func NewChooser(in io.Reader, out io.Writer, lines *LinePrompt) Chooser {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &Picker{in: in, out: out}
	}
	return lines
}

// Picker runs a pickerModel as a full Bubble Tea program.
type Picker struct {
	in  io.Reader
	out io.Writer
}

func (p *Picker) Choose(question string, options []string) (string, error) {
	prog := tea.NewProgram(newPickerModel(question, options), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("running picker: %w", err)
	}
	m := final.(pickerModel)
	if m.cancelled || m.chosen == "" {
		return "", ErrCancelled
	}
	return m.chosen, nil
}

// pickerModel keeps value semantics; every update returns a copy.
type pickerModel struct {
	question  string
	options   []string
	visible   []string
	filter    string
	selected  int
	chosen    string
	cancelled bool
}

func newPickerModel(question string, options []string) pickerModel {
	m := pickerModel{question: question, options: options}
	m.applyFilter()
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		if m.selected > 0 {
			m.selected--
		}
	case tea.KeyDown, tea.KeyTab:
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case tea.KeyEnter:
		if len(m.visible) > 0 {
			m.chosen = m.visible[m.selected]
			return m, tea.Quit
		}
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if m.filter != "" {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes:
		m.filter += string(key.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}
	s := Styles()
	var b strings.Builder
	b.WriteString(s.Bold.Render(m.question))
	if m.filter != "" {
		b.WriteString(" " + s.Dim.Render(m.filter))
	}
	b.WriteByte('\n')
	for i, opt := range m.visible {
		if i == m.selected {
			b.WriteString(s.Selection.Render("> " + opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteByte('\n')
	}
	if len(m.visible) == 0 {
		b.WriteString(s.Dim.Render("  no match") + "\n")
	}
	return b.String()
}

func (m *pickerModel) applyFilter() {
	m.selected = 0
	if m.filter == "" {
		m.visible = append([]string(nil), m.options...)
		return
	}
	matches := suggest.Find(m.filter, m.options)
	m.visible = make([]string, len(matches))
	for i, match := range matches {
		m.visible[i] = m.options[match.Index]
	}
}
