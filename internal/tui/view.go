package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAdding:
		content = m.viewForm()
	default:
		content = docStyle.Render(m.list.View())
	}

	var banner string
	if m.validationWarning != "" {
		banner = warningStyle.Render(m.validationWarning)
	}

	var status string
	if m.statusMsg != "" {
		status = statusStyle.Render(m.statusMsg)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		banner,
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	filter := filterOffStyle.Render("All locations")
	if m.openOnly {
		filter = filterOnStyle.Render("Open now")
	}
	count := statusStyle.Render(fmt.Sprintf("%d shown", len(m.list.Results())))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Food Assistance Locator"),
		filter,
		" ",
		count,
	)
}

func (m Model) viewForm() string {
	var errLine string
	if m.formError != "" {
		errLine = dangerStyle.Render(m.formError)
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Add location"),
		errLine,
		m.form.View(),
	))
}
