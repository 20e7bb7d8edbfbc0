package tracker

import (
	"time"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/utils"
)

// Kind describes how one category's input becomes a record.
type Kind[R models.Record, In any] struct {
	Category constants.Category
	// Date returns the calendar day the input is logged under.
	Date func(In) string
	// Prepare fills derived fields before the input is sent. Optional.
	Prepare func(In) (In, error)
	// Record builds the record the input created from the backend echo.
	Record func(in In, echo R) R
	// Merge folds a new record into a list. Nil appends.
	Merge func(rows []R, rec R, loc *time.Location) []R
}

var Water = Kind[models.WaterLog, models.WaterLogInput]{
	Category: constants.CategoryWater,
	Date:     func(in models.WaterLogInput) string { return in.Date },
	// The echo may be the day's aggregate; the milestone delta is the amount
	// just poured, so the record is rebuilt from the input.
	Record: func(in models.WaterLogInput, echo models.WaterLog) models.WaterLog {
		return models.WaterLog{ID: echo.ID, Date: in.Date, AmountOz: models.Number(in.AmountOz)}
	},
	Merge: mergeWater,
}

var Sleep = Kind[models.SleepLog, models.SleepLogInput]{
	Category: constants.CategorySleep,
	Date:     func(in models.SleepLogInput) string { return in.Date },
	Prepare: func(in models.SleepLogInput) (models.SleepLogInput, error) {
		if in.Duration > 0 {
			return in, nil
		}
		d, err := utils.SleepDuration(in.StartTime, in.EndTime)
		if err != nil {
			return in, err
		}
		in.Duration = d
		return in, nil
	},
	Record: func(in models.SleepLogInput, echo models.SleepLog) models.SleepLog {
		if echo.Date != "" {
			return echo
		}
		return models.SleepLog{
			ID:        echo.ID,
			Date:      in.Date,
			SleepType: in.SleepType,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Duration:  models.Number(in.Duration),
		}
	},
}

var Exercise = Kind[models.ExerciseLog, models.ExerciseLogInput]{
	Category: constants.CategoryExercise,
	Date:     func(in models.ExerciseLogInput) string { return in.Date },
	Record: func(in models.ExerciseLogInput, echo models.ExerciseLog) models.ExerciseLog {
		if echo.Date != "" {
			return echo
		}
		return models.ExerciseLog{
			ID:           echo.ID,
			Date:         in.Date,
			ExerciseType: in.ExerciseType,
			Duration:     models.Number(in.Duration),
		}
	},
}

var Food = Kind[models.FoodLog, models.FoodLogInput]{
	Category: constants.CategoryFood,
	Date:     func(in models.FoodLogInput) string { return in.Date },
	Record: func(in models.FoodLogInput, echo models.FoodLog) models.FoodLog {
		if echo.Date != "" {
			return echo
		}
		return models.FoodLog{
			ID:       echo.ID,
			Date:     in.Date,
			FoodItem: in.FoodItem,
			Calories: models.Number(in.Calories),
			Protein:  models.Number(in.Protein),
			Carbs:    models.Number(in.Carbs),
			Fat:      models.Number(in.Fat),
			Fiber:    models.Number(in.Fiber),
		}
	},
}

// mergeWater adds the poured amount to the day's aggregate row when the list
// holds aggregates, and appends otherwise.
func mergeWater(rows []models.WaterLog, rec models.WaterLog, loc *time.Location) []models.WaterLog {
	out := append([]models.WaterLog(nil), rows...)
	for i, row := range out {
		if row.TotalOz > 0 && sameDay(row.Date, rec.Date, loc) {
			out[i].Count = models.Number(row.Entries() + rec.Entries())
			out[i].TotalOz += rec.AmountOz
			return out
		}
	}
	return append(out, rec)
}

func sameDay(a, b string, loc *time.Location) bool {
	da, err := daterange.NormalizeDate(a, loc)
	if err != nil {
		return false
	}
	db, err := daterange.NormalizeDate(b, loc)
	return err == nil && da == db
}
