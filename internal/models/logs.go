package models

import (
	"strconv"
	"strings"
)

// WaterLog is either a single entry ({amount_oz}) or a per-day aggregate
// ({total_oz}), depending on the backend version.
type WaterLog struct {
	ID       ID     `json:"id,omitempty"`
	Date     string `json:"date"`
	AmountOz Number `json:"amount_oz,omitempty"`
	TotalOz  Number `json:"total_oz,omitempty"`
	// Count is the number of pours behind an aggregated row.
	Count Number `json:"count,omitempty"`
}

func (w WaterLog) RecordID() string   { return string(w.ID) }
func (w WaterLog) RecordDate() string { return w.Date }
func (w WaterLog) Kind() string       { return "water" }

// Entries is the number of logs the row stands for. An aggregated row
// without a count is taken as one.
func (w WaterLog) Entries() int {
	if w.TotalOz > 0 && w.Count > 0 {
		return int(w.Count)
	}
	return 1
}

func (w WaterLog) Metric() float64 {
	if w.TotalOz > 0 {
		return w.TotalOz.Float()
	}
	return w.AmountOz.Float()
}

type SleepLog struct {
	ID        ID     `json:"id,omitempty"`
	Date      string `json:"date"`
	SleepType string `json:"sleep_type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  Number `json:"duration"` // minutes
}

func (s SleepLog) RecordID() string   { return string(s.ID) }
func (s SleepLog) RecordDate() string { return s.Date }
func (s SleepLog) Kind() string       { return s.SleepType }

// Metric returns the slept minutes, deriving them from the clock times when
// the backend did not store a duration.
func (s SleepLog) Metric() float64 {
	if s.Duration > 0 {
		return s.Duration.Float()
	}
	start, end, ok := s.Segment()
	if !ok {
		return 0
	}
	return (end - start) * 60
}

// Segment returns the start and end of the sleep as fractional hours of the
// start day. Overnight sleeps end past 24.
func (s SleepLog) Segment() (start, end float64, ok bool) {
	start, ok1 := clockHours(s.StartTime)
	end, ok2 := clockHours(s.EndTime)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	if end <= start {
		end += 24
	}
	return start, end, true
}

func clockHours(v string) (float64, bool) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return float64(h) + float64(m)/60, true
}

type ExerciseLog struct {
	ID           ID     `json:"id,omitempty"`
	Date         string `json:"date"`
	ExerciseType string `json:"exercise_type"`
	Duration     Number `json:"duration"` // minutes
}

func (e ExerciseLog) RecordID() string   { return string(e.ID) }
func (e ExerciseLog) RecordDate() string { return e.Date }
func (e ExerciseLog) Metric() float64    { return e.Duration.Float() }
func (e ExerciseLog) Kind() string       { return e.ExerciseType }

type FoodLog struct {
	ID       ID     `json:"id,omitempty"`
	Date     string `json:"date"`
	FoodItem string `json:"food_item"`
	Calories Number `json:"calories"`
	Protein  Number `json:"protein"`
	Carbs    Number `json:"carbs"`
	Fat      Number `json:"fat"`
	Fiber    Number `json:"fiber"`
}

func (f FoodLog) RecordID() string   { return string(f.ID) }
func (f FoodLog) RecordDate() string { return f.Date }
func (f FoodLog) Metric() float64    { return f.Calories.Float() }
func (f FoodLog) Kind() string       { return f.FoodItem }

// Intensity buckets a meal by calories into 1..5 for rendering.
func (f FoodLog) Intensity() int {
	switch c := f.Calories.Float(); {
	case c >= 500:
		return 5
	case c >= 400:
		return 4
	case c >= 300:
		return 3
	case c >= 200:
		return 2
	default:
		return 1
	}
}

// Nutrients totals the macro fields of a set of meals.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Add accumulates a meal into the totals.
func (n *Nutrients) Add(f FoodLog) {
	n.Calories += f.Calories.Float()
	n.Protein += f.Protein.Float()
	n.Carbs += f.Carbs.Float()
	n.Fat += f.Fat.Float()
	n.Fiber += f.Fiber.Float()
}
