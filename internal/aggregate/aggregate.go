// Package aggregate derives totals and breakdowns from day buckets.
package aggregate

import (
	"sort"

	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
)

// Summary describes a window of buckets.
type Summary struct {
	Total float64
	// Average is per day over the whole window, including days with no records.
	Average    float64
	Days       int
	ActiveDays int
	Count      int
	ByType     []TypeTotal
}

// TypeTotal is the summed metric of one record kind.
type TypeTotal struct {
	Kind  string
	Total float64
	Count int
}

// Summarize totals the metric of every record across buckets.
func Summarize[R models.Record](buckets []daterange.DayBucket[R]) Summary {
	s := Summary{Days: len(buckets)}
	byKind := make(map[string]*TypeTotal)

	for _, b := range buckets {
		if b.HasRecords() {
			s.ActiveDays++
		}
		for _, rec := range b.Records {
			m := rec.Metric()
			s.Total += m
			s.Count++

			kind := rec.Kind()
			tt, ok := byKind[kind]
			if !ok {
				tt = &TypeTotal{Kind: kind}
				byKind[kind] = tt
			}
			tt.Total += m
			tt.Count++
		}
	}

	if s.Days > 0 {
		s.Average = s.Total / float64(s.Days)
	}

	for _, tt := range byKind {
		s.ByType = append(s.ByType, *tt)
	}
	sort.Slice(s.ByType, func(i, j int) bool {
		if s.ByType[i].Total != s.ByType[j].Total {
			return s.ByType[i].Total > s.ByType[j].Total
		}
		return s.ByType[i].Kind < s.ByType[j].Kind
	})
	return s
}

// Nutrients totals the macros of every meal across buckets.
func Nutrients(buckets []daterange.DayBucket[models.FoodLog]) models.Nutrients {
	var n models.Nutrients
	for _, b := range buckets {
		for _, f := range b.Records {
			n.Add(f)
		}
	}
	return n
}

// Today returns the bucket flagged as today, if the window contains it.
func Today[R models.Record](buckets []daterange.DayBucket[R]) (daterange.DayBucket[R], bool) {
	for _, b := range buckets {
		if b.IsToday {
			return b, true
		}
	}
	return daterange.DayBucket[R]{}, false
}

// Progress returns total/goal clamped to [0, 1]. A non-positive goal yields 0.
func Progress(total, goal float64) float64 {
	if goal <= 0 || total <= 0 {
		return 0
	}
	if total >= goal {
		return 1
	}
	return total / goal
}

// Droplets renders an ounce total as droplet counts: one full droplet per
// ounces-per-droplet, plus a half droplet when the remainder is at least half
// of one. The result never exceeds limit full droplets.
func Droplets(totalOz, ouncesPerDroplet float64, limit int) (full int, half bool) {
	if totalOz <= 0 || ouncesPerDroplet <= 0 {
		return 0, false
	}
	full = int(totalOz / ouncesPerDroplet)
	if full >= limit {
		return limit, false
	}
	rem := totalOz - float64(full)*ouncesPerDroplet
	return full, rem >= ouncesPerDroplet/2
}
