package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/purse/internal/logtail"
)

// diagnosticsLines is how much of today's log the panel keeps.
const diagnosticsLines = 200

type diagnosticsMsg []string

func diagnosticsCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Recent(dir, time.Now(), diagnosticsLines)
		if err != nil {
			return diagnosticsMsg{"log unavailable: " + err.Error()}
		}
		return diagnosticsMsg(lines)
	}
}

// setDiagnostics replaces the panel content, staying at the bottom when the
// user has not scrolled up.
func (m *Model) setDiagnostics(lines []string) {
	follow := m.diag.AtBottom()
	if len(lines) == 0 {
		lines = []string{"no log records today"}
	}
	m.diag.SetContent(strings.Join(lines, "\n"))
	if follow {
		m.diag.GotoBottom()
	}
}

func (m Model) renderDiagnostics(styles Styles) string {
	title := styles.AccentText.Render("Diagnostics")
	return lipgloss.JoinVertical(lipgloss.Left, title,
		styles.FaintText.Width(CardWidth).Render(m.diag.View()))
}
