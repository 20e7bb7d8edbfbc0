package aggregate

import (
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
)

// Mark is the state of one heatmap cell.
type Mark int

const (
	MarkEmpty Mark = iota
	MarkLogged
	MarkGoalMet
	// MarkFuture is a day after today.
	MarkFuture
)

// HeatDay is one cell of a heatmap.
type HeatDay struct {
	Date  string
	Total float64
	Mark  Mark
}

type HeatMonth struct {
	Key   string
	Label string
	Days  []HeatDay
}

// Heatmap is a per-day grid of whether a category was logged and whether
// the day reached its goal.
type Heatmap struct {
	Months  []HeatMonth
	Logged  int
	GoalMet int
	// Streaks count consecutive logged days up to today.
	CurrentStreak int
	LongestStreak int
}

// BuildHeatmap marks every bucket against today (YYYY-MM-DD). A day meets
// the goal when goal > 0 and its total reaches it. Buckets must be in date
// order.
func BuildHeatmap[R models.Record](buckets []daterange.DayBucket[R], goal float64, today string) Heatmap {
	var h Heatmap
	run := 0
	for _, g := range daterange.GroupByMonth(buckets) {
		month := HeatMonth{Key: g.Key, Label: g.Label, Days: make([]HeatDay, 0, len(g.Buckets))}
		for _, b := range g.Buckets {
			day := HeatDay{Date: b.Date, Total: b.Total}
			switch {
			case b.Date > today:
				day.Mark = MarkFuture
			case !b.HasRecords():
				day.Mark = MarkEmpty
			case goal > 0 && b.Total >= goal:
				day.Mark = MarkGoalMet
			default:
				day.Mark = MarkLogged
			}

			switch day.Mark {
			case MarkLogged, MarkGoalMet:
				h.Logged++
				if day.Mark == MarkGoalMet {
					h.GoalMet++
				}
				run++
				h.LongestStreak = max(h.LongestStreak, run)
			case MarkEmpty:
				// Today not being logged yet does not break the streak.
				if b.Date != today {
					run = 0
				}
			}
			if day.Mark != MarkFuture {
				h.CurrentStreak = run
			}
			month.Days = append(month.Days, day)
		}
		h.Months = append(h.Months, month)
	}
	return h
}
