package logs

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

// DashboardCmd prints one day of every category, with a tip for the
// category furthest from its goal and the day's affirmation.
type DashboardCmd struct {
	Date string `help:"Day to show (YYYY-MM-DD, today or yesterday)." default:"today"`
}

type dayTotal struct {
	category constants.Category
	total    float64
	tips     []models.Tip
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	clock := ctx.Clock()
	day, err := time.ParseInLocation(constants.DateFormat, date, clock.Location())
	if err != nil {
		return err
	}
	day = day.Add(12 * time.Hour)

	opts, err := ctx.TrackerOptions(ctx.Context(), daterange.Today)
	if err != nil {
		return err
	}
	opts.Now = func() time.Time { return day }

	var (
		totals       [4]dayTotal
		affirmations []models.Affirmation
	)
	g, gctx := errgroup.WithContext(ctx.Context())
	g.Go(func() (err error) { totals[0], err = dayOf(gctx, tracker.Water, opts); return })
	g.Go(func() (err error) { totals[1], err = dayOf(gctx, tracker.Sleep, opts); return })
	g.Go(func() (err error) { totals[2], err = dayOf(gctx, tracker.Exercise, opts); return })
	g.Go(func() (err error) { totals[3], err = dayOf(gctx, tracker.Food, opts); return })
	g.Go(func() error {
		list, err := tracker.Affirmations(gctx, opts.Requester)
		if err != nil {
			logger.Warn("failed to load affirmations", "error", err)
			return nil
		}
		affirmations = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	ctx.Printf("%s\n\n", bold(day.Format("Monday, January 2 2006")))
	lagging := -1
	lowest := 2.0
	for i, t := range totals {
		goal := ctx.Config.Goals.For(t.category)
		line := fmt.Sprintf("  %-9s %-12s", t.category.Title(), utils.FormatMetric(t.category, t.total))
		if goal > 0 {
			p := aggregate.Progress(t.total, goal)
			line += fmt.Sprintf(" %s %s", utils.ProgressBar(p, barWidth), faint("goal "+utils.FormatMetric(t.category, goal)))
			if p < lowest {
				lowest, lagging = p, i
			}
		}
		ctx.Println(line)
		if t.category == constants.CategoryWater {
			ctx.Printf("  %-9s %s\n", "", Droplets(t.total))
		}
	}

	seed := day.YearDay()
	if lagging >= 0 && lowest < 1 && len(totals[lagging].tips) > 0 {
		tips := totals[lagging].tips
		ctx.Printf("\nTip (%s): %s\n", totals[lagging].category, tips[seed%len(tips)].Text())
	}
	if len(affirmations) > 0 {
		ctx.Printf("\n%s\n", faint("“"+affirmations[seed%len(affirmations)].Text()+"”"))
	}
	return nil
}

func dayOf[R models.Record, In any](ctx context.Context, kind tracker.Kind[R, In], opts tracker.Options) (dayTotal, error) {
	t := dayTotal{category: kind.Category}

	tr := tracker.New(ctx, kind, opts)
	tr.Start()
	defer tr.Close()

	tips, err := tracker.Tips(ctx, opts.Requester, kind.Category)
	if err != nil {
		logger.Warn("failed to load tips", "category", kind.Category, "error", err)
	}
	t.tips = tips

	tr.Wait()
	if err := tr.Err(); err != nil && !tr.State().HasData {
		return t, fmt.Errorf("loading %s: %w", kind.Category, err)
	}
	t.total = tr.Today().Total
	return t, nil
}
