package devserver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
)

type waterEntry struct {
	ID       int
	Date     string
	AmountOz float64
}

// account is everything one user has logged.
type account struct {
	userID   int
	water    []waterEntry
	sleep    []models.SleepLog
	exercise []models.ExerciseLog
	food     []models.FoodLog
	health   *models.HealthInfo

	// Set by registration; logins to a registered email must match password.
	profile  *models.Account
	password string
}

// store keeps every account in memory. It is reset when the process exits.
type store struct {
	mu       sync.Mutex
	nextID   int
	nextUser int
	accounts map[string]*account
	recipes  []models.Recipe
}

func newStore() *store {
	return &store{accounts: make(map[string]*account)}
}

// account returns the account for email, creating it on first use.
func (s *store) account(email string) *account {
	acc, ok := s.accounts[email]
	if !ok {
		s.nextUser++
		acc = &account{userID: s.nextUser}
		s.accounts[email] = acc
	}
	return acc
}

func (s *store) id() int {
	s.nextID++
	return s.nextID
}

// dateFilter mirrors the backend query parameters: an exact date, or an
// inclusive start/end range. Empty bounds are open.
type dateFilter struct {
	Date  string `form:"date"`
	Start string `form:"start_date"`
	End   string `form:"end_date"`
}

func (f dateFilter) match(date string) bool {
	if f.Date != "" && date != f.Date {
		return false
	}
	if f.Start != "" && date < f.Start {
		return false
	}
	if f.End != "" && date > f.End {
		return false
	}
	return true
}

// waterRow is the per-day aggregate the backend returns. Totals are strings
// and dates are midnight UTC timestamps, as a Postgres numeric/date column
// serializes them.
type waterRow struct {
	ID       string `json:"id,omitempty"`
	Date     string `json:"date"`
	AmountOz string `json:"amount_oz,omitempty"`
	TotalOz  string `json:"total_oz"`
	Count    string `json:"count"`
}

func timestamp(date string) string {
	return date + "T00:00:00.000Z"
}

func (s *store) waterDays(email string, f dateFilter) []waterRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range s.account(email).water {
		if f.match(e.Date) {
			totals[e.Date] += e.AmountOz
			counts[e.Date]++
		}
	}

	rows := make([]waterRow, 0, len(totals))
	for date, total := range totals {
		rows = append(rows, waterRow{Date: timestamp(date), TotalOz: formatNumeric(total), Count: strconv.Itoa(counts[date])})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

func (s *store) addWater(email string, in models.WaterLogInput) waterRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.account(email)
	e := waterEntry{ID: s.id(), Date: in.Date, AmountOz: in.AmountOz}
	acc.water = append(acc.water, e)

	var total float64
	var count int
	for _, w := range acc.water {
		if w.Date == e.Date {
			total += w.AmountOz
			count++
		}
	}
	return waterRow{
		ID:       strconv.Itoa(e.ID),
		Date:     timestamp(e.Date),
		AmountOz: formatNumeric(e.AmountOz),
		TotalOz:  formatNumeric(total),
		Count:    strconv.Itoa(count),
	}
}

func formatNumeric(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func (s *store) sleepLogs(email string, f dateFilter) []models.SleepLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.account(email).sleep, f)
}

func (s *store) addSleep(email string, in models.SleepLogInput) models.SleepLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.SleepLog{
		ID:        models.ID(strconv.Itoa(s.id())),
		Date:      in.Date,
		SleepType: in.SleepType,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Duration:  models.Number(in.Duration),
	}
	acc := s.account(email)
	acc.sleep = append(acc.sleep, rec)
	return rec
}

func (s *store) exerciseLogs(email string, f dateFilter) []models.ExerciseLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.account(email).exercise, f)
}

func (s *store) addExercise(email string, in models.ExerciseLogInput) models.ExerciseLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.ExerciseLog{
		ID:           models.ID(strconv.Itoa(s.id())),
		Date:         in.Date,
		ExerciseType: in.ExerciseType,
		Duration:     models.Number(in.Duration),
	}
	acc := s.account(email)
	acc.exercise = append(acc.exercise, rec)
	return rec
}

func (s *store) foodLogs(email string, f dateFilter) []models.FoodLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.account(email).food, f)
}

func (s *store) addFood(email string, in models.FoodLogInput) models.FoodLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.FoodLog{
		ID:       models.ID(strconv.Itoa(s.id())),
		Date:     in.Date,
		FoodItem: in.FoodItem,
		Calories: models.Number(in.Calories),
		Protein:  models.Number(in.Protein),
		Carbs:    models.Number(in.Carbs),
		Fat:      models.Number(in.Fat),
		Fiber:    models.Number(in.Fiber),
	}
	acc := s.account(email)
	acc.food = append(acc.food, rec)
	return rec
}

// remove deletes the record with id from the category and reports whether
// it existed.
func (s *store) remove(email string, category constants.Category, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.account(email)
	switch category {
	case constants.CategoryWater:
		for i, e := range acc.water {
			if strconv.Itoa(e.ID) == id {
				acc.water = append(acc.water[:i], acc.water[i+1:]...)
				return true
			}
		}
		return false
	case constants.CategorySleep:
		return removeByID(&acc.sleep, id)
	case constants.CategoryExercise:
		return removeByID(&acc.exercise, id)
	case constants.CategoryFood:
		return removeByID(&acc.food, id)
	default:
		return false
	}
}

func (s *store) healthInfo(email string) *models.HealthInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.account(email).health; h != nil {
		cp := *h
		return &cp
	}
	return nil
}

// saveHealthInfo stores info. With id set it only updates an existing row.
func (s *store) saveHealthInfo(email, id string, info models.HealthInfo) (models.HealthInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.account(email)
	if id != "" {
		if acc.health == nil || string(acc.health.ID) != id {
			return models.HealthInfo{}, false
		}
		info.ID = acc.health.ID
	} else if acc.health != nil {
		info.ID = acc.health.ID
	} else {
		info.ID = models.ID(strconv.Itoa(s.id()))
	}
	acc.health = &info
	return info, true
}

func filter[R models.Record](records []R, f dateFilter) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if f.match(r.RecordDate()) {
			out = append(out, r)
		}
	}
	return out
}

func removeByID[R models.Record](records *[]R, id string) bool {
	for i, r := range *records {
		if r.RecordID() == id {
			*records = append((*records)[:i], (*records)[i+1:]...)
			return true
		}
	}
	return false
}

// register records a sign-up. It reports false when the email already has
// a registered profile.
func (s *store) register(in models.RegisterInput) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	acc := s.account(email)
	if acc.profile != nil {
		return models.Account{}, false
	}
	acc.profile = &models.Account{
		ID:        models.ID(strconv.Itoa(acc.userID)),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Email:     email,
	}
	acc.password = in.Password
	return *acc.profile, true
}

// credentials returns the registered password for email, if any.
func (s *store) credentials(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok || acc.profile == nil {
		return "", false
	}
	return acc.password, true
}

// Recipes are shared by every account.

func (s *store) listRecipes() []models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Recipe{}, s.recipes...)
}

func (s *store) recipe(id string) (models.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.recipeIndex(id)
	if i < 0 {
		return models.Recipe{}, false
	}
	return s.recipes[i], true
}

func (s *store) addRecipe(email string, in models.RecipeInput, now string) models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := recipeFrom(in)
	rec.ID = models.ID(strconv.Itoa(s.id()))
	rec.UserID = models.ID(strconv.Itoa(s.account(email).userID))
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.recipes = append(s.recipes, rec)
	return rec
}

// recipeOwner reports whether email created the recipe with id. found is
// false when no such recipe exists.
func (s *store) recipeOwner(email, id string) (owner, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.recipeIndex(id)
	if i < 0 {
		return false, false
	}
	return s.recipes[i].UserID.String() == strconv.Itoa(s.account(email).userID), true
}

func (s *store) updateRecipe(id string, in models.RecipeInput, now string) (models.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.recipeIndex(id)
	if i < 0 {
		return models.Recipe{}, false
	}
	rec := recipeFrom(in)
	rec.ID = s.recipes[i].ID
	rec.UserID = s.recipes[i].UserID
	rec.CreatedAt = s.recipes[i].CreatedAt
	rec.UpdatedAt = now
	s.recipes[i] = rec
	return rec, true
}

func (s *store) removeRecipe(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.recipeIndex(id)
	if i < 0 {
		return false
	}
	s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
	return true
}

func (s *store) recipeIndex(id string) int {
	for i, r := range s.recipes {
		if r.ID.String() == id {
			return i
		}
	}
	return -1
}

func recipeFrom(in models.RecipeInput) models.Recipe {
	return models.Recipe{
		Title:        in.Title,
		ImageURL:     in.ImageURL,
		Description:  in.Description,
		Ingredients:  append(models.Ingredients{}, in.Ingredients...),
		Instructions: in.Instructions,
		CreatedBy:    in.CreatedBy,
	}
}
