package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"strata/internal/report"
)

// MeasureFunc computes the layout of one type expression.
type MeasureFunc func(expr string) (report.TypeLayout, error)

type inspectModel struct {
	target  string
	measure MeasureFunc
	input   textinput.Model
	rows    []report.TypeLayout
	errLine string
	width   int
	done    bool
}

// NewInspectModel returns a Bubble Tea model that measures type
// expressions interactively against one target.
func NewInspectModel(target string, measure MeasureFunc) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "{i8, i32} or [10 x i32] ..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	return &inspectModel{
		target:  target,
		measure: measure,
		input:   ti,
		width:   80,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			expr := strings.TrimSpace(m.input.Value())
			if expr == "" {
				return m, nil
			}
			m.input.SetValue("")
			row, err := m.measure(expr)
			if err != nil {
				m.errLine = err.Error()
				return m, nil
			}
			m.errLine = ""
			m.rows = append(m.rows, row)
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inspectModel) View() string {
	if m.done {
		return ""
	}
	title := headerStyle.Render(fmt.Sprintf("strata inspect (%s)", m.target))
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	if len(m.rows) > 0 {
		b.WriteString(RenderLayoutTable(m.rows, m.width))
		b.WriteString("\n")
	}
	if m.errLine != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		b.WriteString(errStyle.Render(m.errLine))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: measure  esc: quit"))
	b.WriteString("\n")
	return b.String()
}
