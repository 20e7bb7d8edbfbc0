package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
)

// DayBucket is one calendar day of a window with the records that fall on it.
type DayBucket[R models.Record] struct {
	Date    string
	Records []R
	Total   float64
	IsToday bool
}

// HasRecords reports whether anything was logged on the day.
func (b DayBucket[R]) HasRecords() bool {
	return len(b.Records) > 0
}

// MonthGroup is a run of consecutive buckets sharing a calendar month.
type MonthGroup[R models.Record] struct {
	Key     string // YYYY-MM
	Label   string // e.g. "June 2025"
	Buckets []DayBucket[R]
	Total   float64
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// NormalizeDate reduces a record's date field to a YYYY-MM-DD calendar day.
//
// Date-only values are returned unchanged. A timestamp at exactly midnight UTC
// is how a DATE column serializes, so its UTC day is the intended one. Other
// zoned timestamps are converted to loc before the day is taken, and zoneless
// timestamps are read as wall-clock time in loc.
func NormalizeDate(raw string, loc *time.Location) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	if len(s) == len(constants.DateFormat) {
		if _, err := time.Parse(constants.DateFormat, s); err != nil {
			return "", fmt.Errorf("invalid date %q: %w", raw, err)
		}
		return s, nil
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if u := t.UTC(); u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
			return u.Format(constants.DateFormat), nil
		}
		return t.In(loc).Format(constants.DateFormat), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Format(constants.DateFormat), nil
		}
	}

	return "", fmt.Errorf("invalid date %q", raw)
}

// FillMissingDates buckets records over every day of w. See FillDates.
func FillMissingDates[R models.Record](records []R, w Window, now time.Time) []DayBucket[R] {
	return FillDates(records, w.Dates(now), now)
}

// FillDates returns one bucket per entry of dates, in the same order. Each
// record is placed by its normalized date, read in now's location; records
// whose date is not in dates, or cannot be parsed, are left out. Records keep
// their input order within a bucket.
func FillDates[R models.Record](records []R, dates []string, now time.Time) []DayBucket[R] {
	today := now.Format(constants.DateFormat)
	buckets := make([]DayBucket[R], len(dates))
	index := make(map[string]int, len(dates))
	for i, d := range dates {
		buckets[i] = DayBucket[R]{Date: d, IsToday: d == today}
		if _, dup := index[d]; !dup {
			index[d] = i
		}
	}

	loc := now.Location()
	for _, rec := range records {
		day, err := NormalizeDate(rec.RecordDate(), loc)
		if err != nil {
			continue
		}
		i, ok := index[day]
		if !ok {
			continue
		}
		buckets[i].Records = append(buckets[i].Records, rec)
		buckets[i].Total += rec.Metric()
	}
	return buckets
}

// GroupByMonth splits buckets into consecutive calendar-month runs.
func GroupByMonth[R models.Record](buckets []DayBucket[R]) []MonthGroup[R] {
	var groups []MonthGroup[R]
	for _, b := range buckets {
		t, err := time.Parse(constants.DateFormat, b.Date)
		if err != nil {
			continue
		}
		key := t.Format("2006-01")
		if n := len(groups); n == 0 || groups[n-1].Key != key {
			groups = append(groups, MonthGroup[R]{Key: key, Label: t.Format("January 2006")})
		}
		g := &groups[len(groups)-1]
		g.Buckets = append(g.Buckets, b)
		g.Total += b.Total
	}
	return groups
}

// RecordsIn returns the records of every bucket, oldest day first.
func RecordsIn[R models.Record](buckets []DayBucket[R]) []R {
	var out []R
	for _, b := range buckets {
		out = append(out, b.Records...)
	}
	return out
}
