package logs

import (
	"strings"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

type WaterCmd struct {
	Add    WaterAddCmd    `cmd:"" help:"Log water in ounces."`
	Show   WaterShowCmd   `cmd:"" help:"Show water intake." default:"1"`
	Delete WaterDeleteCmd `cmd:"" help:"Delete a water log."`
}

type WaterAddCmd struct {
	Amount float64 `arg:"" help:"Ounces poured."`
	Date   string  `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *WaterAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	_, err = add(ctx, tracker.Water, models.WaterLogInput{Date: date, AmountOz: c.Amount})
	return err
}

type WaterShowCmd struct {
	WindowFlag
}

func (c *WaterShowCmd) Run(ctx *cli.Context) error {
	w, err := c.parse()
	if err != nil {
		return err
	}
	tr, err := show(ctx, tracker.Water, w, func(r models.WaterLog) string {
		return utils.FormatMetric(constants.CategoryWater, r.Metric())
	})
	if err != nil {
		return err
	}
	defer tr.Close()

	ctx.Println()
	ctx.Printf("Today %s\n", Droplets(tr.Today().Total))
	return nil
}

type WaterDeleteCmd struct {
	ID string `arg:"" help:"Water log ID."`
}

func (c *WaterDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, tracker.Water, c.ID)
}

// Droplets draws an ounce total as a row of droplets, one per eight ounces.
func Droplets(totalOz float64) string {
	full, half := aggregate.Droplets(totalOz, constants.OuncesPerDroplet, constants.DropletsPerRow)
	var b strings.Builder
	b.WriteString(strings.Repeat("●", full))
	n := full
	if half {
		b.WriteString("◐")
		n++
	}
	b.WriteString(strings.Repeat("○", constants.DropletsPerRow-n))
	return b.String()
}
