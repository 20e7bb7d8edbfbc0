package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/tui/components/records"
	"github.com/julianstephens/wellday/internal/tui/components/summary"
	"github.com/julianstephens/wellday/internal/utils"
	"github.com/julianstephens/wellday/internal/validation"
)

// panel is a category tracker seen through the views.
type panel interface {
	Category() constants.Category
	Start()
	Wait()
	Close()
	Refresh()
	Window() daterange.Window
	SetWindow(w daterange.Window)
	OnChange(fn func())
	Delete(ctx context.Context, id string) error
	Snapshot(goal float64, now time.Time) summary.Snapshot
	Items() []records.Item
}

type trackerPanel[R models.Record, In any] struct {
	*tracker.Tracker[R, In]
	describe func(R) (label, detail string)
	extra    func(t *tracker.Tracker[R, In]) []string
}

func (p trackerPanel[R, In]) Snapshot(goal float64, now time.Time) summary.Snapshot {
	w := p.Window()
	start, end := w.Range(now)
	st := p.State()
	buckets := p.Buckets()
	s := aggregate.Summarize(buckets)

	snap := summary.Snapshot{
		Category:   p.Category(),
		Window:     w,
		Start:      start,
		End:        end,
		Today:      p.Today().Total,
		Goal:       goal,
		Total:      s.Total,
		Average:    s.Average,
		ActiveDays: s.ActiveDays,
		Days:       s.Days,
		Loading:    st.Loading,
		Err:        st.Err,
	}
	if w == daterange.Year {
		for _, g := range daterange.GroupByMonth(buckets) {
			snap.Rows = append(snap.Rows, summary.Row{Label: g.Label, Total: g.Total, Logged: g.Total > 0})
		}
	} else {
		for _, b := range buckets {
			snap.Rows = append(snap.Rows, summary.Row{
				Label:  dayLabel(b.Date),
				Total:  b.Total,
				Today:  b.IsToday,
				Logged: b.HasRecords(),
			})
		}
	}
	if p.extra != nil {
		snap.Extra = p.extra(p.Tracker)
	}
	return snap
}

// Items lists the window's records, newest day first.
func (p trackerPanel[R, In]) Items() []records.Item {
	buckets := p.Buckets()
	var items []records.Item
	for i := len(buckets) - 1; i >= 0; i-- {
		for _, r := range buckets[i].Records {
			label, detail := p.describe(r)
			items = append(items, records.Item{ID: r.RecordID(), Date: buckets[i].Date, Label: label, Detail: detail})
		}
	}
	return items
}

func dayLabel(date string) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 01-02")
}

func waterPanel(t *tracker.Tracker[models.WaterLog, models.WaterLogInput]) panel {
	return trackerPanel[models.WaterLog, models.WaterLogInput]{
		Tracker: t,
		describe: func(r models.WaterLog) (string, string) {
			return utils.FormatMetric(constants.CategoryWater, r.Metric()), ""
		},
	}
}

func sleepPanel(t *tracker.Tracker[models.SleepLog, models.SleepLogInput]) panel {
	return trackerPanel[models.SleepLog, models.SleepLogInput]{
		Tracker: t,
		describe: func(r models.SleepLog) (string, string) {
			return fmt.Sprintf("%s %s", r.SleepType, utils.FormatMinutes(r.Metric())), r.StartTime + "–" + r.EndTime
		},
		extra: func(t *tracker.Tracker[models.SleepLog, models.SleepLogInput]) []string {
			var lines []string
			result := validation.New().ValidateSleepLogs(daterange.RecordsIn(t.Buckets()))
			for _, issue := range result.Issues {
				lines = append(lines, warningStyle.Render("⚠ "+issue.Description))
			}
			return lines
		},
	}
}

func exercisePanel(t *tracker.Tracker[models.ExerciseLog, models.ExerciseLogInput]) panel {
	return trackerPanel[models.ExerciseLog, models.ExerciseLogInput]{
		Tracker: t,
		describe: func(r models.ExerciseLog) (string, string) {
			return r.ExerciseType, utils.FormatMinutes(r.Metric())
		},
		extra: func(t *tracker.Tracker[models.ExerciseLog, models.ExerciseLogInput]) []string {
			s := t.Summary()
			lines := []string{"Active time " + utils.FormatHours(s.Total)}
			for _, tt := range s.ByType {
				lines = append(lines, fmt.Sprintf("  %-22s %s", tt.Kind, utils.FormatMinutes(tt.Total)))
			}
			return lines
		},
	}
}

func foodPanel(t *tracker.Tracker[models.FoodLog, models.FoodLogInput]) panel {
	return trackerPanel[models.FoodLog, models.FoodLogInput]{
		Tracker: t,
		describe: func(r models.FoodLog) (string, string) {
			return r.FoodItem, fmt.Sprintf("%s · P %sg C %sg F %sg",
				utils.FormatMetric(constants.CategoryFood, r.Metric()),
				utils.FormatNumber(r.Protein.Float()), utils.FormatNumber(r.Carbs.Float()), utils.FormatNumber(r.Fat.Float()))
		},
		extra: func(t *tracker.Tracker[models.FoodLog, models.FoodLogInput]) []string {
			n := aggregate.Nutrients(t.Buckets())
			return []string{fmt.Sprintf("Macros  protein %sg · carbs %sg · fat %sg · fiber %sg",
				utils.FormatNumber(n.Protein), utils.FormatNumber(n.Carbs), utils.FormatNumber(n.Fat), utils.FormatNumber(n.Fiber))}
		},
	}
}
