package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/tui/components/records"
)

type deletedMsg struct {
	category constants.Category
	id       string
	err      error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.state == stateAdding {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.Type == tea.KeyEsc {
				m.state = stateBrowse
				m.form, m.quick = nil, nil
				return m, nil
			}
		case changedMsg:
			m.sync()
			return m, waitForChange(m.ctx, m.changes)
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			cmds = append(cmds, m.submit(m.quick))
			m.status, m.statusErr = "Saving…", false
			m.state = stateBrowse
			m.form, m.quick = nil, nil
		case huh.StateAborted:
			m.state = stateBrowse
			m.form, m.quick = nil, nil
		}
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.summary.SetSize(msg.Width-4, msg.Height/2)
		m.records.SetSize(msg.Width-4, msg.Height-msg.Height/2-8)
		return m, nil

	case changedMsg:
		m.sync()
		return m, waitForChange(m.ctx, m.changes)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case addedMsg:
		m.sync()
		if msg.err != nil {
			m.status, m.statusErr = fmt.Sprintf("Could not log %s: %v", msg.category, msg.err), true
			return m, nil
		}
		m.status, m.statusErr = fmt.Sprintf("Logged %s %s", msg.category, msg.summary), false
		m.milestone = ""
		if msg.milestone != nil {
			m.milestone = fmt.Sprintf("★ %s milestone: %s", msg.milestone.Category.Title(), msg.milestone.Message)
			return m, m.notify(msg.milestone)
		}
		return m, nil

	case deletedMsg:
		m.sync()
		if msg.err != nil {
			m.status, m.statusErr = fmt.Sprintf("Could not delete %s log %s: %v", msg.category, msg.id, msg.err), true
		} else {
			m.status, m.statusErr = fmt.Sprintf("Deleted %s log %s", msg.category, msg.id), false
		}
		return m, nil

	case records.AddLogMsg:
		m.quick = newQuickAdd(m.activePanel().Category(), m.today())
		m.form = m.quick.form()
		m.state = stateAdding
		return m, m.form.Init()

	case records.DeleteLogMsg:
		return m, m.deleteCmd(msg.ID)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.active = (m.active + 1) % len(m.panels)
			m.milestone = ""
			m.sync()
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.active = (m.active + len(m.panels) - 1) % len(m.panels)
			m.milestone = ""
			m.sync()
			return m, nil
		case key.Matches(msg, m.keys.Window):
			m.window = m.window.Next()
			for _, p := range m.panels {
				p.SetWindow(m.window)
			}
			m.sync()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			for _, p := range m.panels {
				p.Refresh()
			}
			m.status, m.statusErr = "Refreshing…", false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) deleteCmd(id string) tea.Cmd {
	ctx, p := m.ctx, m.activePanel()
	return func() tea.Msg {
		err := p.Delete(ctx, id)
		return deletedMsg{category: p.Category(), id: id, err: err}
	}
}

func (m Model) notify(ms *milestone.Milestone) tea.Cmd {
	n := m.cfg.Notifier
	if !n.Enabled() {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		n.NotifyMilestone(context.WithoutCancel(ctx), ms)
		logger.Debug("milestone forwarded", "category", ms.Category, "key", ms.Key)
		return nil
	}
}
