package constants

import "time"

// Category is one of the tracked log categories
type Category string

const (
	AppName            = "wellday"
	DefaultKeyringUser = "api-token"
	DefaultConfigDir   = "~/.config/wellday"
	DefaultConfigPath  = "~/.config/wellday/config.yaml"
	DefaultCacheName   = "cache.db"
	DefaultAPIURL      = "http://localhost:3000"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// HTTP constants
	DefaultRequestTimeout = 15 * time.Second
	RequestIDHeader       = "X-Request-ID"

	// Notify constants
	NotifierLockfileName   = "wellday-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.wellday"
	TrayAppExecutable      = "wellday-tray"
	TraySecretHeader       = "X-Wellday-Secret"

	// Categories
	CategoryWater    Category = "water"
	CategorySleep    Category = "sleep"
	CategoryExercise Category = "exercise"
	CategoryFood     Category = "food"

	// Invalidation tags
	TagWaterLogs    = "water_logs"
	TagSleepLogs    = "sleep_logs"
	TagExerciseLogs = "exercise_logs"
	TagFoodLogs     = "food_logs"
	TagHealthInfo   = "health_info"
	TagRecipes      = "recipes"

	// Catalog and account resources
	RecipesResource  = "/recipes"
	RegisterResource = "/users/register"

	// Sleep types
	SleepTypeSleep = "Sleep"
	SleepTypeNap   = "Nap"

	// Water rendering
	OuncesPerDroplet = 8
	DropletsPerRow   = 10
)

// Categories lists every tracked category in display order.
var Categories = []Category{CategoryWater, CategorySleep, CategoryExercise, CategoryFood}

// ExerciseTypes lists the exercise kinds the backend accepts.
var ExerciseTypes = []string{
	"Cardio",
	"Strength Training",
	"Flexibility Training",
	"Balance Training",
	"Stretching",
}

// Resource returns the collection path for a category.
func (c Category) Resource() string {
	return "/" + string(c) + "_logs"
}

// Tag returns the invalidation tag for a category.
func (c Category) Tag() string {
	return string(c) + "_logs"
}

// Title returns the display name of the category.
func (c Category) Title() string {
	switch c {
	case CategoryWater:
		return "Water"
	case CategorySleep:
		return "Sleep"
	case CategoryExercise:
		return "Exercise"
	case CategoryFood:
		return "Food"
	default:
		return string(c)
	}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
