package constants

const (
	// Environment overrides
	EnvAPIURL   = "WELLDAY_API_URL"
	EnvToken    = "WELLDAY_TOKEN"
	EnvTimezone = "WELLDAY_TIMEZONE"
	EnvDebug    = "WELLDAY_DEBUG"

	// Default Settings Values
	DefaultTimezone          = "Local" // Use system local timezone by default
	DefaultRequestsPerSecond = 10
	DefaultWaterGoalOz       = 64
	DefaultSleepGoalMin      = 480
	DefaultExerciseGoalMin   = 30
	DefaultCalorieGoal       = 2000

	// Dev server
	DefaultDevServerAddr   = ":3000"
	DefaultDevServerSecret = "wellday-dev-secret"
)
