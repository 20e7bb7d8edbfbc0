package utils

import (
	"testing"

	"github.com/julianstephens/wellday/internal/constants"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		min  float64
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{120, "2h"},
		{390, "6h 30m"},
		{89.6, "1h 30m"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.min); got != tt.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", tt.min, got, tt.want)
		}
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		category constants.Category
		value    float64
		want     string
	}{
		{constants.CategoryWater, 64, "64 oz"},
		{constants.CategoryWater, 12.25, "12.3 oz"},
		{constants.CategorySleep, 480, "8h"},
		{constants.CategoryExercise, 30, "30m"},
		{constants.CategoryFood, 1850.5, "1850.5 kcal"},
	}
	for _, tt := range tests {
		if got := FormatMetric(tt.category, tt.value); got != tt.want {
			t.Errorf("FormatMetric(%s, %v) = %q, want %q", tt.category, tt.value, got, tt.want)
		}
	}

	if got := FormatHours(90); got != "1.5 h" {
		t.Errorf("FormatHours(90) = %q, want %q", got, "1.5 h")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		fraction float64
		width    int
		want     string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{1, 4, "████"},
		{1.7, 4, "████"},
		{-1, 4, "░░░░"},
		{0.5, 0, ""},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.fraction, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.fraction, tt.width, got, tt.want)
		}
	}
}
