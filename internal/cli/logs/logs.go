// Package logs holds the add, show and delete commands of each category.
package logs

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

const barWidth = 10

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	warn  = color.New(color.FgYellow).SprintFunc()
)

// WindowFlag selects the range a show command lists.
type WindowFlag struct {
	Window string `help:"Date range: today, yesterday, week, month or year." short:"w" default:"week"`
}

func (f WindowFlag) parse() (daterange.Window, error) {
	return daterange.ParseWindow(f.Window)
}

// open starts a tracker over w and waits for its first fetch. A fetch that
// fails without any data to show is returned as the error.
func open[R models.Record, In any](ctx *cli.Context, kind tracker.Kind[R, In], w daterange.Window) (*tracker.Tracker[R, In], error) {
	opts, err := ctx.TrackerOptions(ctx.Context(), w)
	if err != nil {
		return nil, err
	}
	tr := tracker.New(ctx.Context(), kind, opts)
	tr.Start()
	tr.Wait()
	if err := tr.Err(); err != nil && !tr.State().HasData {
		tr.Close()
		return nil, err
	}
	return tr, nil
}

// add logs in and reports the milestone it earned.
func add[R models.Record, In any](ctx *cli.Context, kind tracker.Kind[R, In], in In) (R, error) {
	tr, err := open(ctx, kind, daterange.Today)
	if err != nil {
		var zero R
		return zero, err
	}
	defer tr.Close()

	rec, m, err := tr.Add(ctx.Context(), in)
	if err != nil {
		return rec, err
	}
	ctx.OK("Logged %s %s on %s %s", utils.FormatMetric(kind.Category, rec.Metric()), kind.Category, rec.RecordDate(), faint("(id "+rec.RecordID()+")"))

	tr.Wait()
	today := tr.Today()
	if goal := ctx.Config.Goals.For(kind.Category); goal > 0 {
		ctx.Printf("  Today: %s of %s %s\n",
			utils.FormatMetric(kind.Category, today.Total),
			utils.FormatMetric(kind.Category, goal),
			utils.ProgressBar(aggregate.Progress(today.Total, goal), barWidth))
	}
	ctx.ReportMilestone(ctx.Context(), m)
	return rec, nil
}

func remove[R models.Record, In any](ctx *cli.Context, kind tracker.Kind[R, In], id string) error {
	tr, err := open(ctx, kind, daterange.Today)
	if err != nil {
		return err
	}
	defer tr.Close()

	if err := tr.Delete(ctx.Context(), id); err != nil {
		return fmt.Errorf("failed to delete %s log %s: %w", kind.Category, id, err)
	}
	ctx.OK("Deleted %s log %s", kind.Category, id)
	return nil
}

// show prints the window as one line per day, or one per month for a year.
// Records are listed under their day when the window is a week or shorter.
func show[R models.Record, In any](ctx *cli.Context, kind tracker.Kind[R, In], w daterange.Window, describe func(R) string) (*tracker.Tracker[R, In], error) {
	tr, err := open(ctx, kind, w)
	if err != nil {
		return nil, err
	}

	c := kind.Category
	now := ctx.Clock()
	start, end := w.Range(now)
	ctx.Printf("%s · %s (%s → %s)\n", bold(c.Title()), w, start, end)
	if err := tr.Err(); err != nil {
		ctx.Printf("%s\n", warn("Showing the last loaded data: "+err.Error()))
	}

	goal := ctx.Config.Goals.For(c)
	buckets := tr.Buckets()
	if w == daterange.Year {
		for _, g := range daterange.GroupByMonth(buckets) {
			ctx.Printf("  %-15s %s\n", g.Label, utils.FormatMetric(c, g.Total))
		}
	} else {
		listRecords := w.Len(now) <= 7
		for _, b := range buckets {
			marker := " "
			if b.IsToday {
				marker = "*"
			}
			if !b.HasRecords() {
				ctx.Printf("%s %s  %s\n", marker, dayLabel(b.Date), faint("—"))
				continue
			}
			line := fmt.Sprintf("%s %s  %-12s", marker, dayLabel(b.Date), utils.FormatMetric(c, b.Total))
			if goal > 0 {
				line += " " + utils.ProgressBar(aggregate.Progress(b.Total, goal), barWidth)
			}
			ctx.Println(line)
			if listRecords && describe != nil {
				for _, r := range b.Records {
					if id := r.RecordID(); id != "" {
						ctx.Printf("      %s %s\n", faint("["+id+"]"), describe(r))
					} else {
						ctx.Printf("      %s\n", describe(r))
					}
				}
			}
		}
	}

	s := tr.Summary()
	ctx.Printf("Total %s · avg %s/day · %d of %d days logged\n",
		utils.FormatMetric(c, s.Total), utils.FormatMetric(c, s.Average), s.ActiveDays, s.Days)
	return tr, nil
}

// printByType lists the per-kind totals of a summary, largest first.
func printByType(ctx *cli.Context, c constants.Category, s aggregate.Summary, limit int) {
	for i, tt := range s.ByType {
		if limit > 0 && i == limit {
			break
		}
		ctx.Printf("  %-22s %-10s %s\n", tt.Kind, utils.FormatMetric(c, tt.Total), faint(fmt.Sprintf("×%d", tt.Count)))
	}
}

func dayLabel(date string) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 01-02")
}
