// Package tui is the interactive dashboard: one tab per category with its
// chart, its logs and a quick-add form.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/notifier"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/tui/components/records"
	"github.com/julianstephens/wellday/internal/tui/components/summary"
)

type sessionState int

const (
	stateBrowse sessionState = iota
	stateAdding
)

// Config carries what the dashboard needs from the command context.
type Config struct {
	Options  tracker.Options
	Goals    config.Goals
	Notifier *notifier.Notifier
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	now    func() time.Time

	water    *tracker.Tracker[models.WaterLog, models.WaterLogInput]
	sleep    *tracker.Tracker[models.SleepLog, models.SleepLogInput]
	exercise *tracker.Tracker[models.ExerciseLog, models.ExerciseLogInput]
	food     *tracker.Tracker[models.FoodLog, models.FoodLogInput]
	panels   []panel
	changes  chan struct{}

	state     sessionState
	active    int
	window    daterange.Window
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	summary   summary.Model
	records   records.Model
	form      *huh.Form
	quick     *quickAdd
	status    string
	statusErr bool
	milestone string
	quitting  bool
	width     int
	height    int
}

// NewModel creates a tracker per category and starts fetching.
func NewModel(ctx context.Context, cfg Config) Model {
	ctx, cancel := context.WithCancel(ctx)
	now := cfg.Options.Now
	if now == nil {
		now = time.Now
		cfg.Options.Now = now
	}
	window := cfg.Options.Window
	if window == "" {
		window = daterange.Week
		cfg.Options.Window = window
	}

	m := Model{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		now:      now,
		water:    tracker.New(ctx, tracker.Water, cfg.Options),
		sleep:    tracker.New(ctx, tracker.Sleep, cfg.Options),
		exercise: tracker.New(ctx, tracker.Exercise, cfg.Options),
		food:     tracker.New(ctx, tracker.Food, cfg.Options),
		changes:  make(chan struct{}, 1),
		window:   window,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		summary:  summary.New(),
		records:  records.New(0, 0),
	}
	m.panels = []panel{waterPanel(m.water), sleepPanel(m.sleep), exercisePanel(m.exercise), foodPanel(m.food)}

	changes := m.changes
	for _, p := range m.panels {
		p.OnChange(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		p.Start()
	}
	m.sync()
	return m
}

// Close stops every tracker.
func (m Model) Close() {
	for _, p := range m.panels {
		p.Close()
	}
	m.cancel()
}

type changedMsg struct{}

// waitForChange delivers the next tracker change as a message.
func waitForChange(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.ctx, m.changes))
}

func (m Model) activePanel() panel {
	return m.panels[m.active]
}

// sync copies the active tracker's state into the views.
func (m *Model) sync() {
	p := m.activePanel()
	m.summary.SetSnapshot(p.Snapshot(m.cfg.Goals.For(p.Category()), m.now()))
	m.records.SetItems(p.Items())
}

func (m Model) today() string {
	return m.now().Format(constants.DateFormat)
}

func (m Model) ShortHelp() []key.Binding {
	rk := m.records.Keys()
	return []key.Binding{m.keys.Tab, m.keys.Window, rk.Add, rk.Delete, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	rk := m.records.Keys()
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Window, m.keys.Refresh},
		{rk.Add, rk.Delete},
		{m.keys.Help, m.keys.Quit},
	}
}
