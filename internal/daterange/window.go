// Package daterange turns sparse dated records into dense per-day buckets.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wellday/internal/constants"
)

// Window is a named date range resolved against the current day.
type Window string

const (
	Today     Window = "today"
	Yesterday Window = "yesterday"
	Week      Window = "week"
	Month     Window = "month"
	Year      Window = "year"
)

// Windows lists every window in selector order.
var Windows = []Window{Today, Yesterday, Week, Month, Year}

// ParseWindow validates a window name. Matching is case-insensitive.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Windows {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown window %q (want one of today, yesterday, week, month, year)", s)
}

func (w Window) String() string { return string(w) }

// Next returns the window after w, wrapping around. The TUI cycles with it.
func (w Window) Next() Window {
	for i, known := range Windows {
		if known == w {
			return Windows[(i+1)%len(Windows)]
		}
	}
	return Today
}

// Dates returns every calendar date in the window as YYYY-MM-DD, oldest
// first, evaluated in now's location. Every window ends today: month runs
// from the 1st of the current month and year covers the 365 or 366 days
// since the same date last year.
func (w Window) Dates(now time.Time) []string {
	today := midnight(now)
	switch w {
	case Today:
		return []string{format(today)}
	case Yesterday:
		return []string{format(today.AddDate(0, 0, -1))}
	case Week:
		return LastNDays(now, 7)
	case Month:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return span(first, today)
	case Year:
		return span(today.AddDate(-1, 0, 1), today)
	default:
		return nil
	}
}

// Range returns the first and last date of the window, suitable for
// start_date/end_date query parameters.
func (w Window) Range(now time.Time) (start, end string) {
	dates := w.Dates(now)
	if len(dates) == 0 {
		return "", ""
	}
	return dates[0], dates[len(dates)-1]
}

// Len returns the number of days the window covers on now's date.
func (w Window) Len(now time.Time) int {
	return len(w.Dates(now))
}

// LastNDays returns the n calendar dates ending today, oldest first.
func LastNDays(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	today := midnight(now)
	return span(today.AddDate(0, 0, -(n-1)), today)
}

// CalendarYear returns every date from Jan 1 through Dec 31 of year in loc.
// Unlike the Year window it includes days that have not happened yet.
func CalendarYear(year int, loc *time.Location) []string {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return span(first, time.Date(year, time.December, 31, 0, 0, 0, 0, loc))
}

// span lists the days from first to last inclusive. Stepping with AddDate on
// the calendar date keeps DST transitions from skipping or repeating a day.
func span(first, last time.Time) []string {
	var dates []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, format(d))
	}
	return dates
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func format(t time.Time) string {
	return t.Format(constants.DateFormat)
}
