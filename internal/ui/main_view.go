package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/purse/internal/render"
)

// renderMain draws the top bar and the current panel.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	bar := m.renderTopBar()
	body := m.renderPanel(styles)
	if m.frame.diagnostics {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", m.renderDiagnostics(styles))
	}
	if m.status != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", styles.DangerText.Render(m.status))
	}

	height := max(m.height-lipgloss.Height(bar), 0)
	return lipgloss.JoinVertical(lipgloss.Left, bar,
		lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body))
}

func (m Model) renderTopBar() string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()

	title := bg.Render(" purse", styles.Logo)
	hints := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(hints) - 1
	if gap < 1 {
		return bg.FillLine(title, m.width)
	}
	return bg.FillLine(title+bg.Spaces(gap)+hints, m.width)
}

// renderPanel draws exactly one of the four panels.
func (m Model) renderPanel(styles Styles) string {
	v := m.frame.view
	switch v.Kind {
	case render.KindCard:
		return renderCard(styles, v.Card)
	case render.KindError:
		return renderError(styles, v.Message)
	case render.KindRecovery:
		return renderRecovery(styles, v.Message)
	default:
		return styles.Card.Width(CardWidth).Render(m.spinner.View() + " Loading...")
	}
}

func renderCard(styles Styles, c render.Card) string {
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(c.Identity))
	if c.UserID != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("ID " + c.UserID))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Amount.Render(c.Amount + " " + c.Currency))
	if c.AsOf != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("as of " + c.AsOf))
	}
	return styles.Card.Width(CardWidth).Render(b.String())
}

func renderError(styles Styles, message string) string {
	body := styles.DangerText.Render("Error") + "\n\n" +
		styles.Text.Width(CardWidth-8).Render(message) + "\n\n" +
		styles.FaintText.Render("r to try again")
	return styles.ErrorPanel.Width(CardWidth).Render(body)
}

func renderRecovery(styles Styles, message string) string {
	body := styles.DangerText.Render("Something went wrong.") + "\n\n" +
		styles.MutedText.Width(CardWidth-8).Render(message) + "\n\n" +
		styles.WarningText.Render("R to reload")
	return styles.ErrorPanel.Width(CardWidth).Render(body)
}

// renderSplash draws the startup screen.
func (m Model) renderSplash() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("p u r s e"))
	b.WriteString("\n\n")
	b.WriteString(m.spinner.View())
	if m.version != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render(m.version))
	}
	return m.place(lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()))
}

// place centers content on the background.
func (m Model) place(content string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
