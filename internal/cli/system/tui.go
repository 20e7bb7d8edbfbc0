package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/tui"
)

type TuiCmd struct {
	Window string `help:"Initial date range: today, yesterday, week, month or year." short:"w" default:"week"`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	w, err := daterange.ParseWindow(c.Window)
	if err != nil {
		return err
	}
	opts, err := ctx.TrackerOptions(ctx.Context(), w)
	if err != nil {
		return err
	}

	m := tui.NewModel(ctx.Context(), tui.Config{
		Options:  opts,
		Goals:    ctx.Config.Goals,
		Notifier: ctx.Notifier(),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	_, err = p.Run()
	return err
}
