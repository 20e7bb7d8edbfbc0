package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

// quickAdd holds the raw form values for a new log of one category.
type quickAdd struct {
	Category     constants.Category
	Date         string
	Amount       string
	SleepType    string
	Start        string
	End          string
	ExerciseType string
	Minutes      string
	Item         string
	Calories     string
	Protein      string
	Carbs        string
	Fat          string
	Fiber        string
}

func newQuickAdd(c constants.Category, today string) *quickAdd {
	return &quickAdd{
		Category:     c,
		Date:         today,
		SleepType:    constants.SleepTypeSleep,
		ExerciseType: constants.ExerciseTypes[0],
	}
}

func (q *quickAdd) form() *huh.Form {
	var fields []huh.Field
	switch q.Category {
	case constants.CategoryWater:
		fields = append(fields,
			huh.NewInput().Title("Ounces").Value(&q.Amount).Validate(positive),
		)
	case constants.CategorySleep:
		fields = append(fields,
			huh.NewSelect[string]().Title("Type").
				Options(huh.NewOptions(constants.SleepTypeSleep, constants.SleepTypeNap)...).
				Value(&q.SleepType),
			huh.NewInput().Title("Start (HH:MM)").Value(&q.Start).Validate(clock),
			huh.NewInput().Title("End (HH:MM)").Value(&q.End).Validate(clock),
		)
	case constants.CategoryExercise:
		fields = append(fields,
			huh.NewSelect[string]().Title("Type").
				Options(huh.NewOptions(constants.ExerciseTypes...)...).
				Value(&q.ExerciseType),
			huh.NewInput().Title("Minutes").Value(&q.Minutes).Validate(positive),
		)
	case constants.CategoryFood:
		fields = append(fields,
			huh.NewInput().Title("Food").Value(&q.Item).Validate(required),
			huh.NewInput().Title("Calories (kcal)").Value(&q.Calories).Validate(optionalNumber),
			huh.NewInput().Title("Protein (g)").Value(&q.Protein).Validate(optionalNumber),
			huh.NewInput().Title("Carbs (g)").Value(&q.Carbs).Validate(optionalNumber),
			huh.NewInput().Title("Fat (g)").Value(&q.Fat).Validate(optionalNumber),
			huh.NewInput().Title("Fiber (g)").Value(&q.Fiber).Validate(optionalNumber),
		)
	}
	fields = append(fields, huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&q.Date).Validate(date))

	return huh.NewForm(huh.NewGroup(fields...).Title("Log " + strings.ToLower(q.Category.Title()))).
		WithShowHelp(true)
}

// submit returns the command that logs the form's values through the
// category's tracker.
func (m Model) submit(q *quickAdd) tea.Cmd {
	ctx := m.ctx
	switch q.Category {
	case constants.CategoryWater:
		return addCmd(ctx, m.water, models.WaterLogInput{Date: q.Date, AmountOz: number(q.Amount)})
	case constants.CategorySleep:
		return addCmd(ctx, m.sleep, models.SleepLogInput{
			Date:      q.Date,
			SleepType: q.SleepType,
			StartTime: strings.TrimSpace(q.Start),
			EndTime:   strings.TrimSpace(q.End),
		})
	case constants.CategoryExercise:
		return addCmd(ctx, m.exercise, models.ExerciseLogInput{
			Date:         q.Date,
			ExerciseType: q.ExerciseType,
			Duration:     number(q.Minutes),
		})
	case constants.CategoryFood:
		return addCmd(ctx, m.food, models.FoodLogInput{
			Date:     q.Date,
			FoodItem: strings.TrimSpace(q.Item),
			Calories: number(q.Calories),
			Protein:  number(q.Protein),
			Carbs:    number(q.Carbs),
			Fat:      number(q.Fat),
			Fiber:    number(q.Fiber),
		})
	}
	return nil
}

type addedMsg struct {
	category  constants.Category
	summary   string
	milestone *milestone.Milestone
	err       error
}

func addCmd[R models.Record, In any](ctx context.Context, t *tracker.Tracker[R, In], in In) tea.Cmd {
	return func() tea.Msg {
		rec, m, err := t.Add(ctx, in)
		msg := addedMsg{category: t.Category(), milestone: m, err: err}
		if err == nil {
			msg.summary = utils.FormatMetric(t.Category(), rec.Metric()) + " on " + rec.RecordDate()
		}
		return msg
	}
}

func number(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func positive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return errors.New("enter a number greater than 0")
	}
	return nil
}

func optionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return errors.New("enter a number of 0 or more")
	}
	return nil
}

func clock(s string) error {
	if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
		return errors.New("use HH:MM")
	}
	return nil
}

func date(s string) error {
	if !utils.ValidateDateFormat(s) {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}
