package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/wellday/internal/constants"
)

// FormatNumber prints v with at most one decimal and no trailing zero.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// FormatMinutes renders a duration in minutes as "7h 30m", "45m" or "2h".
func FormatMinutes(min float64) string {
	total := int(math.Round(min))
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// FormatHours renders minutes as fractional hours, e.g. "1.5 h".
func FormatHours(min float64) string {
	return FormatNumber(min/60) + " h"
}

// FormatMetric renders a category's metric in its display unit.
func FormatMetric(c constants.Category, v float64) string {
	switch c {
	case constants.CategoryWater:
		return FormatNumber(v) + " oz"
	case constants.CategorySleep, constants.CategoryExercise:
		return FormatMinutes(v)
	case constants.CategoryFood:
		return FormatNumber(v) + " kcal"
	default:
		return FormatNumber(v)
	}
}

// ProgressBar renders a fraction in [0, 1] as a fixed-width bar.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
