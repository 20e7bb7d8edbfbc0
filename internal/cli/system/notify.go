package system

import (
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/notifier"
)

// NotifyCmd sends a toast through the tray app, regardless of the
// notifications setting.
type NotifyCmd struct {
	Text   string `arg:"" help:"Toast text." default:"Notifications are working."`
	Title  string `help:"Toast title." default:"wellday"`
	DryRun bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		ctx.Printf("[DryRun] %s: %s\n", c.Title, c.Text)
		return nil
	}
	if err := notifier.New(true).Notify(ctx.Context(), c.Title, c.Text); err != nil {
		return err
	}
	ctx.OK("Notification sent")
	return nil
}
