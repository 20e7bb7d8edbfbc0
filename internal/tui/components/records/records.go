// Package records lists the logs of the selected category.
package records

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type AddLogMsg struct{}

type DeleteLogMsg struct {
	ID string
}

type Item struct {
	ID     string
	Date   string
	Label  string
	Detail string
}

func (i Item) Title() string { return i.Label }

func (i Item) Description() string {
	if i.Detail == "" {
		return i.Date
	}
	return i.Date + " · " + i.Detail
}

func (i Item) FilterValue() string { return i.Label }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	d := list.NewDefaultDelegate()
	l := list.New(nil, d, width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func (m *Model) SetItems(items []Item) {
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}
	m.list.SetItems(li)
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(Item))
	}
	return out
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddLogMsg{} }
		case key.Matches(msg, m.keys.Delete):
			// Aggregated water rows carry no ID and cannot be deleted.
			if i, ok := m.list.SelectedItem().(Item); ok && i.ID != "" {
				return m, func() tea.Msg { return DeleteLogMsg{ID: i.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No logs in this range.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
