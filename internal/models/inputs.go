package models

import "encoding/json"

// Request bodies for the create/update endpoints. Validation tags are checked
// client-side before any network call.

type WaterLogInput struct {
	Date     string  `json:"date" validate:"required,datefmt"`
	AmountOz float64 `json:"amount_oz" validate:"required,gt=0,lte=512"`
}

type SleepLogInput struct {
	Date      string `json:"date" validate:"required,datefmt"`
	SleepType string `json:"sleep_type" validate:"required,oneof=Sleep Nap"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Duration  int    `json:"duration" validate:"gte=0"`
}

type ExerciseLogInput struct {
	Date         string  `json:"date" validate:"required,datefmt"`
	ExerciseType string  `json:"exercise_type" validate:"required"`
	Duration     float64 `json:"duration" validate:"required,gt=0,lte=1440"`
}

type FoodLogInput struct {
	Date     string  `json:"date" validate:"required,datefmt"`
	FoodItem string  `json:"food_item" validate:"required,max=120"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
}

// HealthInfo is the user's profile data. Every field is required on submit.
type HealthInfo struct {
	ID            ID     `json:"id,omitempty"`
	Height        Number `json:"height" validate:"required,gt=0"`
	Weight        Number `json:"weight" validate:"required,gt=0"`
	Age           Number `json:"age" validate:"required,gt=0,lt=150"`
	BiologicalSex string `json:"biologicalSex" validate:"required"`
	Gender        string `json:"gender" validate:"required"`
}

// UnmarshalJSON accepts the snake_case biological_sex that stored rows use.
func (h *HealthInfo) UnmarshalJSON(data []byte) error {
	type plain HealthInfo
	var p struct {
		plain
		BiologicalSexRow string `json:"biological_sex"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*h = HealthInfo(p.plain)
	if h.BiologicalSex == "" {
		h.BiologicalSex = p.BiologicalSexRow
	}
	return nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// Account is the user record the register endpoint echoes.
type Account struct {
	ID        ID     `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type RegisterResponse struct {
	Message string  `json:"message,omitempty"`
	User    Account `json:"user"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
