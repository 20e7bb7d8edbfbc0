package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateAdding:
		content = docStyle.Render(m.form.View())
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			docStyle.Render(m.summary.View()),
			m.records.View(),
		)
	}

	var banner string
	if m.milestone != "" {
		banner = milestoneStyle.Render(m.milestone)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, p := range m.panels {
		title := p.Category().Title()
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, windowStyle.Render("["+m.window.String()+"]"))
	if m.summary.Snapshot().Loading {
		tabs = append(tabs, m.spinner.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return dangerStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}
