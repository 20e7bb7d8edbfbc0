package logs

import (
	"fmt"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
	"github.com/julianstephens/wellday/internal/validation"
)

type SleepCmd struct {
	Add    SleepAddCmd    `cmd:"" help:"Log a sleep or a nap."`
	Show   SleepShowCmd   `cmd:"" help:"Show sleep." default:"1"`
	Delete SleepDeleteCmd `cmd:"" help:"Delete a sleep log."`
}

type SleepAddCmd struct {
	Start string `help:"Bedtime (HH:MM)." required:""`
	End   string `help:"Wake time (HH:MM). Earlier than start means the next morning." required:""`
	Type  string `help:"Sleep or Nap." default:"Sleep" enum:"Sleep,Nap"`
	Date  string `help:"Date the sleep started (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *SleepAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	_, err = add(ctx, tracker.Sleep, models.SleepLogInput{
		Date:      date,
		SleepType: c.Type,
		StartTime: c.Start,
		EndTime:   c.End,
	})
	return err
}

type SleepShowCmd struct {
	WindowFlag
}

func (c *SleepShowCmd) Run(ctx *cli.Context) error {
	w, err := c.parse()
	if err != nil {
		return err
	}
	tr, err := show(ctx, tracker.Sleep, w, func(r models.SleepLog) string {
		return fmt.Sprintf("%-5s %s–%s  %s", r.SleepType, r.StartTime, r.EndTime, utils.FormatMinutes(r.Metric()))
	})
	if err != nil {
		return err
	}
	defer tr.Close()

	s := tr.Summary()
	if len(s.ByType) > 1 {
		printByType(ctx, constants.CategorySleep, s, 0)
	}

	result := validation.New().ValidateSleepLogs(daterange.RecordsIn(tr.Buckets()))
	for _, issue := range result.Issues {
		ctx.Printf("%s %s\n", warn("⚠"), issue.Description)
	}
	return nil
}

type SleepDeleteCmd struct {
	ID string `arg:"" help:"Sleep log ID."`
}

func (c *SleepDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, tracker.Sleep, c.ID)
}
