package daterange

import (
	"testing"
	"time"

	"github.com/julianstephens/wellday/internal/models"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

// checkDense fails unless dates are consecutive calendar days, oldest first.
func checkDense(t *testing.T, dates []string) {
	t.Helper()
	for i := 1; i < len(dates); i++ {
		prev, err := time.Parse("2006-01-02", dates[i-1])
		if err != nil {
			t.Fatalf("invalid date %q: %v", dates[i-1], err)
		}
		if want := prev.AddDate(0, 0, 1).Format("2006-01-02"); dates[i] != want {
			t.Fatalf("dates[%d] = %s, want %s (gap or duplicate)", i, dates[i], want)
		}
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{in: "today", want: Today},
		{in: "Week", want: Week},
		{in: " month ", want: Month},
		{in: "year", want: Year},
		{in: "yesterday", want: Yesterday},
		{in: "fortnight", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWindow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWindow(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWindowDates(t *testing.T) {
	tests := []struct {
		name      string
		window    Window
		now       time.Time
		wantLen   int
		wantFirst string
		wantLast  string
	}{
		{
			name:      "today",
			window:    Today,
			now:       time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC),
			wantLen:   1,
			wantFirst: "2025-06-07",
			wantLast:  "2025-06-07",
		},
		{
			name:      "yesterday across a month boundary",
			window:    Yesterday,
			now:       time.Date(2025, 3, 1, 0, 5, 0, 0, time.UTC),
			wantLen:   1,
			wantFirst: "2025-02-28",
			wantLast:  "2025-02-28",
		},
		{
			name:      "week ending today",
			window:    Week,
			now:       time.Date(2025, 6, 7, 23, 59, 0, 0, time.UTC),
			wantLen:   7,
			wantFirst: "2025-06-01",
			wantLast:  "2025-06-07",
		},
		{
			name:      "week across a year boundary",
			window:    Week,
			now:       time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC),
			wantLen:   7,
			wantFirst: "2024-12-28",
			wantLast:  "2025-01-03",
		},
		{
			name:      "month to date",
			window:    Month,
			now:       time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
			wantLen:   10,
			wantFirst: "2024-02-01",
			wantLast:  "2024-02-10",
		},
		{
			name:      "common february",
			window:    Month,
			now:       time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
			wantLen:   28,
			wantFirst: "2025-02-01",
			wantLast:  "2025-02-28",
		},
		{
			name:      "first of the month",
			window:    Month,
			now:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantLen:   1,
			wantFirst: "2025-06-01",
			wantLast:  "2025-06-01",
		},
		{
			name:      "year spanning a leap day",
			window:    Year,
			now:       time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC),
			wantLen:   366,
			wantFirst: "2023-07-05",
			wantLast:  "2024-07-04",
		},
		{
			name:      "common year",
			window:    Year,
			now:       time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC),
			wantLen:   365,
			wantFirst: "2024-07-05",
			wantLast:  "2025-07-04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := tt.window.Dates(tt.now)
			if len(dates) != tt.wantLen {
				t.Fatalf("Dates() returned %d dates, want %d", len(dates), tt.wantLen)
			}
			if dates[0] != tt.wantFirst || dates[len(dates)-1] != tt.wantLast {
				t.Errorf("Dates() = %s..%s, want %s..%s", dates[0], dates[len(dates)-1], tt.wantFirst, tt.wantLast)
			}
			checkDense(t, dates)

			start, end := tt.window.Range(tt.now)
			if start != tt.wantFirst || end != tt.wantLast {
				t.Errorf("Range() = (%s, %s), want (%s, %s)", start, end, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestWindowDatesAcrossDST(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	// Clocks spring forward on 2025-03-09 and fall back on 2025-11-02.
	for _, now := range []time.Time{
		time.Date(2025, 3, 12, 0, 30, 0, 0, ny),
		time.Date(2025, 11, 5, 23, 30, 0, 0, ny),
	} {
		dates := Week.Dates(now)
		if len(dates) != 7 {
			t.Fatalf("Week.Dates(%v) returned %d dates, want 7", now, len(dates))
		}
		checkDense(t, dates)
	}

	march := Month.Dates(time.Date(2025, 3, 31, 12, 0, 0, 0, ny))
	if len(march) != 31 {
		t.Fatalf("Month.Dates() in March returned %d dates, want 31", len(march))
	}
	checkDense(t, march)
}

func TestWindowsNeverExtendPastToday(t *testing.T) {
	for _, now := range []time.Time{
		time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC),
	} {
		today := now.Format("2006-01-02")
		for _, w := range Windows {
			dates := w.Dates(now)
			last := dates[len(dates)-1]
			if last > today {
				t.Errorf("%s.Dates(%s) ends at %s, after today", w, today, last)
			}
			if w != Yesterday && last != today {
				t.Errorf("%s.Dates(%s) ends at %s, want today", w, today, last)
			}
			checkDense(t, dates)
		}
	}
}

func TestFillMissingDatesMonthAverage(t *testing.T) {
	now := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
	buckets := FillMissingDates([]models.WaterLog{{Date: "2025-06-01", AmountOz: 32}}, Month, now)
	if len(buckets) != 7 {
		t.Fatalf("FillMissingDates() returned %d buckets, want 7", len(buckets))
	}
	if !buckets[6].IsToday {
		t.Error("last bucket should be today")
	}
}

func TestCalendarYear(t *testing.T) {
	if got := len(CalendarYear(2024, time.UTC)); got != 366 {
		t.Errorf("CalendarYear(2024) returned %d dates, want 366", got)
	}
	dates := CalendarYear(2025, time.UTC)
	if len(dates) != 365 || dates[0] != "2025-01-01" || dates[364] != "2025-12-31" {
		t.Errorf("CalendarYear(2025) = %d dates %s..%s", len(dates), dates[0], dates[len(dates)-1])
	}
	checkDense(t, dates)
}

func TestWindowDatesUseNowLocation(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")

	// 2025-06-07 20:00 UTC is already 2025-06-08 in Tokyo.
	now := time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC).In(tokyo)
	if got := Today.Dates(now); got[0] != "2025-06-08" {
		t.Errorf("Today.Dates() = %v, want [2025-06-08]", got)
	}
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	got := LastNDays(now, 30)
	if len(got) != 30 {
		t.Fatalf("LastNDays(30) returned %d dates", len(got))
	}
	if got[0] != "2025-02-01" || got[29] != "2025-03-02" {
		t.Errorf("LastNDays(30) = %s..%s, want 2025-02-01..2025-03-02", got[0], got[29])
	}
	checkDense(t, got)

	if got := LastNDays(now, 0); got != nil {
		t.Errorf("LastNDays(0) = %v, want nil", got)
	}
}

func TestWindowNext(t *testing.T) {
	w := Today
	seen := map[Window]bool{}
	for range Windows {
		seen[w] = true
		w = w.Next()
	}
	if w != Today {
		t.Errorf("cycling through every window should return to today, got %s", w)
	}
	if len(seen) != len(Windows) {
		t.Errorf("Next() visited %d windows, want %d", len(seen), len(Windows))
	}
}
