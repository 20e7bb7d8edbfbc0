package logs

import (
	"fmt"
	"strings"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

type ExerciseCmd struct {
	Add    ExerciseAddCmd    `cmd:"" help:"Log a workout."`
	Show   ExerciseShowCmd   `cmd:"" help:"Show workouts." default:"1"`
	Delete ExerciseDeleteCmd `cmd:"" help:"Delete a workout."`
}

type ExerciseAddCmd struct {
	Type    string  `arg:"" help:"Cardio, Strength Training, Flexibility Training, Balance Training or Stretching."`
	Minutes float64 `arg:"" help:"Duration in minutes."`
	Date    string  `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *ExerciseAddCmd) Run(ctx *cli.Context) error {
	kind, err := ParseExerciseType(c.Type)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	_, err = add(ctx, tracker.Exercise, models.ExerciseLogInput{Date: date, ExerciseType: kind, Duration: c.Minutes})
	return err
}

// ParseExerciseType matches a type name case-insensitively, also accepting
// the first word alone ("strength" for "Strength Training").
func ParseExerciseType(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, t := range constants.ExerciseTypes {
		if strings.EqualFold(s, t) || strings.EqualFold(s, strings.Fields(t)[0]) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown exercise type %q (want one of %s)", s, strings.Join(constants.ExerciseTypes, ", "))
}

type ExerciseShowCmd struct {
	WindowFlag
}

func (c *ExerciseShowCmd) Run(ctx *cli.Context) error {
	w, err := c.parse()
	if err != nil {
		return err
	}
	tr, err := show(ctx, tracker.Exercise, w, func(r models.ExerciseLog) string {
		return fmt.Sprintf("%-20s %s", r.ExerciseType, utils.FormatMinutes(r.Metric()))
	})
	if err != nil {
		return err
	}
	defer tr.Close()

	s := tr.Summary()
	ctx.Printf("Active time %s\n", utils.FormatHours(s.Total))
	printByType(ctx, constants.CategoryExercise, s, 0)
	return nil
}

type ExerciseDeleteCmd struct {
	ID string `arg:"" help:"Exercise log ID."`
}

func (c *ExerciseDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, tracker.Exercise, c.ID)
}
