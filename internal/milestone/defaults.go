package milestone

import "github.com/julianstephens/wellday/internal/constants"

// DefaultRules returns the built-in rule set used when the config defines none.
func DefaultRules() []Rule {
	return []Rule{
		{Key: "1Glass", Category: constants.CategoryWater, Scope: ScopeDailyTotal, Threshold: 8, Message: "First glass of the day. Keep it flowing!"},
		{Key: "3Glasses", Category: constants.CategoryWater, Scope: ScopeDailyTotal, Threshold: 24, Message: "Three glasses down. Nice rhythm!"},
		{Key: "5Glasses", Category: constants.CategoryWater, Scope: ScopeDailyTotal, Threshold: 40, Message: "Five glasses! You're well on your way."},
		{Key: "8Glasses", Category: constants.CategoryWater, Scope: ScopeDailyTotal, Threshold: 64, Message: "Eight glasses. Daily hydration goal reached!"},
		{Key: "FirstWaterLog", Category: constants.CategoryWater, Scope: ScopeLifetimeCount, Threshold: 1, Message: "Your first water log. Welcome aboard!"},
		{Key: "50WaterLogs", Category: constants.CategoryWater, Scope: ScopeLifetimeCount, Threshold: 50, Message: "Fifty water logs. Hydration is a habit now."},

		{Key: "FullNight", Category: constants.CategorySleep, Scope: ScopeSession, Type: constants.SleepTypeSleep, Threshold: 420, Message: "Seven hours or more. Well rested!"},
		{Key: "PowerNap", Category: constants.CategorySleep, Scope: ScopeSession, Type: constants.SleepTypeNap, Threshold: 20, Message: "A proper power nap. Recharged!"},
		{Key: "FirstSleepLog", Category: constants.CategorySleep, Scope: ScopeLifetimeCount, Threshold: 1, Message: "First night tracked. Sweet dreams!"},
		{Key: "WeekOfSleep", Category: constants.CategorySleep, Scope: ScopeLifetimeCount, Threshold: 7, Message: "A full week of sleep logs!"},

		{Key: "Cardio30", Category: constants.CategoryExercise, Scope: ScopeSession, Type: "Cardio", Threshold: 30, Message: "Thirty minutes of cardio. Your heart thanks you!"},
		{Key: "Strength45", Category: constants.CategoryExercise, Scope: ScopeSession, Type: "Strength Training", Threshold: 45, Message: "A solid strength session!"},
		{Key: "Stretch15", Category: constants.CategoryExercise, Scope: ScopeSession, Type: "Stretching", Threshold: 15, Message: "Fifteen minutes of stretching. Nice and loose!"},
		{Key: "TwoWorkouts", Category: constants.CategoryExercise, Scope: ScopeDailyCount, Threshold: 2, Message: "Two workouts in one day!"},
		{Key: "ActiveHour", Category: constants.CategoryExercise, Scope: ScopeDailyTotal, Threshold: 60, Message: "An hour of movement today!"},
		{Key: "FirstWorkout", Category: constants.CategoryExercise, Scope: ScopeLifetimeCount, Threshold: 1, Message: "First workout logged. Let's go!"},
		{Key: "TenWorkouts", Category: constants.CategoryExercise, Scope: ScopeLifetimeCount, Threshold: 10, Message: "Ten workouts! Consistency pays off."},

		{Key: "ThreeMeals", Category: constants.CategoryFood, Scope: ScopeDailyCount, Threshold: 3, Message: "Three meals logged today. Great tracking!"},
		{Key: "FirstMeal", Category: constants.CategoryFood, Scope: ScopeLifetimeCount, Threshold: 1, Message: "First meal logged. Bon appétit!"},
		{Key: "FiftyMeals", Category: constants.CategoryFood, Scope: ScopeLifetimeCount, Threshold: 50, Message: "Fifty meals tracked!"},
	}
}
