package logs

import (
	"fmt"
	"strings"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

type FoodCmd struct {
	Add    FoodAddCmd    `cmd:"" help:"Log a meal."`
	Show   FoodShowCmd   `cmd:"" help:"Show meals and macros." default:"1"`
	Delete FoodDeleteCmd `cmd:"" help:"Delete a meal."`
}

type FoodAddCmd struct {
	Item     string  `arg:"" help:"What you ate."`
	Calories float64 `help:"Calories (kcal)."`
	Protein  float64 `help:"Protein (g)."`
	Carbs    float64 `help:"Carbohydrates (g)."`
	Fat      float64 `help:"Fat (g)."`
	Fiber    float64 `help:"Fiber (g)."`
	Date     string  `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *FoodAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	_, err = add(ctx, tracker.Food, models.FoodLogInput{
		Date:     date,
		FoodItem: strings.TrimSpace(c.Item),
		Calories: c.Calories,
		Protein:  c.Protein,
		Carbs:    c.Carbs,
		Fat:      c.Fat,
		Fiber:    c.Fiber,
	})
	return err
}

type FoodShowCmd struct {
	WindowFlag
	Top int `help:"How many foods to list in the breakdown." default:"5"`
}

func (c *FoodShowCmd) Run(ctx *cli.Context) error {
	w, err := c.parse()
	if err != nil {
		return err
	}
	tr, err := show(ctx, tracker.Food, w, func(r models.FoodLog) string {
		return fmt.Sprintf("%-24s %-10s %s", r.FoodItem, utils.FormatMetric(constants.CategoryFood, r.Metric()), Intensity(r))
	})
	if err != nil {
		return err
	}
	defer tr.Close()

	n := aggregate.Nutrients(tr.Buckets())
	ctx.Printf("Macros  protein %sg · carbs %sg · fat %sg · fiber %sg\n",
		utils.FormatNumber(n.Protein), utils.FormatNumber(n.Carbs), utils.FormatNumber(n.Fat), utils.FormatNumber(n.Fiber))

	s := tr.Summary()
	if len(s.ByType) > 0 {
		ctx.Println("Top foods")
		printByType(ctx, constants.CategoryFood, s, c.Top)
	}
	return nil
}

type FoodDeleteCmd struct {
	ID string `arg:"" help:"Food log ID."`
}

func (c *FoodDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, tracker.Food, c.ID)
}

// Intensity draws a meal's calorie class as up to five pips.
func Intensity(f models.FoodLog) string {
	n := f.Intensity()
	return strings.Repeat("▮", n) + strings.Repeat("▯", 5-n)
}
