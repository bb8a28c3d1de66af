package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/zenposter/pkg/scene"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// ModeListModel is the bubbletea model for interactive mode selection.
type ModeListModel struct {
	Modes    []scene.Mode
	Swatches []string
	Cursor   int
	Selected *scene.Mode
}

// NewModeListModel lists every mode of reg with its palette swatch.
func NewModeListModel(reg *scene.Registry) ModeListModel {
	modes := reg.Modes()
	swatches := make([]string, len(modes))
	for i, m := range modes {
		if p, err := reg.Palette(m.Palette); err == nil {
			swatches[i] = swatch(p.Colors())
		}
	}
	return ModeListModel{Modes: modes, Swatches: swatches}
}

func (m ModeListModel) Init() tea.Cmd {
	return nil
}

func (m ModeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Modes)-1 {
				m.Cursor++
			}
		case "1", "2", "3", "4":
			if n := int(msg.String()[0] - '1'); n < len(m.Modes) {
				m.Cursor = n
			}
		case "enter":
			if len(m.Modes) == 0 {
				return m, tea.Quit
			}
			sel := m.Modes[m.Cursor]
			m.Selected = &sel
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ModeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Mode"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  1-4 jump  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, mode := range m.Modes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%d  %-22s", cursor, int(mode.ID), mode.Name)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(" " + m.Swatches[i] + " " + listDimStyle.Render(mode.Palette))
		b.WriteString("\n")
	}
	return b.String()
}
