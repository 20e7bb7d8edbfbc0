package logs

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

var met = color.New(color.FgGreen).SprintFunc()

// CommitmentsCmd prints a year of one category as a grid, one row per month.
type CommitmentsCmd struct {
	Category string `help:"Category: water, sleep, exercise or food." short:"c" default:"water" enum:"water,sleep,exercise,food"`
	Year     int    `help:"Calendar year. Defaults to the current one."`
}

func (c *CommitmentsCmd) Run(ctx *cli.Context) error {
	category, ok := constants.ParseCategory(strings.ToLower(c.Category))
	if !ok {
		return fmt.Errorf("unknown category %q", c.Category)
	}
	now := ctx.Clock()
	year := c.Year
	if year == 0 {
		year = now.Year()
	}

	r, err := ctx.Requester(ctx.Context())
	if err != nil {
		return err
	}
	goal := ctx.Config.Goals.For(category)
	reg := ctx.Registry()

	var h aggregate.Heatmap
	switch category {
	case constants.CategoryWater:
		h, err = tracker.Commitments(ctx.Context(), tracker.Water, r, reg, year, goal, now)
	case constants.CategorySleep:
		h, err = tracker.Commitments(ctx.Context(), tracker.Sleep, r, reg, year, goal, now)
	case constants.CategoryExercise:
		h, err = tracker.Commitments(ctx.Context(), tracker.Exercise, r, reg, year, goal, now)
	case constants.CategoryFood:
		h, err = tracker.Commitments(ctx.Context(), tracker.Food, r, reg, year, goal, now)
	}
	if err != nil {
		return err
	}

	ctx.Printf("%s · %d\n", bold(category.Title()+" commitments"), year)
	for _, m := range h.Months {
		var row strings.Builder
		for _, d := range m.Days {
			row.WriteString(cell(d.Mark))
		}
		ctx.Printf("  %-3s %s\n", m.Label[:3], row.String())
	}

	ctx.Println()
	legend := fmt.Sprintf("  %s none  %s logged", cell(aggregate.MarkEmpty), cell(aggregate.MarkLogged))
	if goal > 0 {
		legend += fmt.Sprintf("  %s goal met (%s)", cell(aggregate.MarkGoalMet), utils.FormatMetric(category, goal))
	}
	ctx.Println(legend)
	ctx.Printf("%d days logged · %d goal met · longest streak %d", h.Logged, h.GoalMet, h.LongestStreak)
	if year == now.Year() {
		ctx.Printf(" · current streak %d", h.CurrentStreak)
	}
	ctx.Println()
	return nil
}

func cell(m aggregate.Mark) string {
	switch m {
	case aggregate.MarkLogged:
		return "▫"
	case aggregate.MarkGoalMet:
		return met("■")
	case aggregate.MarkFuture:
		return " "
	default:
		return faint("·")
	}
}
