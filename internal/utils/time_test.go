package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	today, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("GetTodayInTimezone() error = %v", err)
	}
	if !ValidateDateFormat(today) {
		t.Errorf("GetTodayInTimezone() = %q, not a YYYY-MM-DD date", today)
	}

	if _, err := GetTodayInTimezone("Invalid/Timezone"); err == nil {
		t.Error("GetTodayInTimezone() should fail for an invalid timezone")
	}
}

func TestSleepDuration(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		want    int
		wantErr bool
	}{
		{name: "crosses midnight", start: "23:30", end: "06:00", want: 390},
		{name: "same day nap", start: "13:00", end: "14:30", want: 90},
		{name: "starts at midnight", start: "00:00", end: "07:15", want: 435},
		{name: "equal times is a full day", start: "22:00", end: "22:00", want: 1440},
		{name: "one minute before midnight", start: "23:59", end: "00:00", want: 1},
		{name: "invalid start", start: "25:00", end: "06:00", wantErr: true},
		{name: "invalid end", start: "22:00", end: "six", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SleepDuration(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SleepDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SleepDuration(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	got, err := ParseTimeToMinutes("06:45")
	if err != nil {
		t.Fatalf("ParseTimeToMinutes() error = %v", err)
	}
	if got != 405 {
		t.Errorf("ParseTimeToMinutes() = %d, want 405", got)
	}
}

func TestParseDateInLocation(t *testing.T) {
	est, _ := time.LoadLocation("America/New_York")

	got, err := ParseDateInLocation("2025-03-01", est)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 1 {
		t.Errorf("ParseDateInLocation() = %v", got)
	}
	if got.Location() != est {
		t.Errorf("ParseDateInLocation() location = %v, want %v", got.Location(), est)
	}

	if _, err := ParseDateInLocation("2026-13-01", est); err == nil {
		t.Error("ParseDateInLocation() should reject month 13")
	}
}

func TestValidateDateFormat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-06-01T00:00:00Z", false},
		{"06/01/2025", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateDateFormat(tt.in); got != tt.want {
			t.Errorf("ValidateDateFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     bool
	}{
		{"", true},
		{"Local", true},
		{"Europe/London", true},
		{"Invalid/Timezone", false},
		{"not-a-timezone", false},
	}
	for _, tt := range tests {
		if got := ValidateTimezone(tt.timezone); got != tt.want {
			t.Errorf("ValidateTimezone(%q) = %v, want %v", tt.timezone, got, tt.want)
		}
	}
}
