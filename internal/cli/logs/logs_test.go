package logs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/clitest"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/validation"
)

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("output does not contain %q:\n%s", want, out)
	}
}

func TestWaterAddReportsMilestone(t *testing.T) {
	env := clitest.New(t)

	cmd := &WaterAddCmd{Amount: 24, Date: "today"}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("water add failed: %v", err)
	}

	out := env.Out.String()
	assertContains(t, out, "Logged 24 oz water on 2025-06-07")
	assertContains(t, out, "Today: 24 oz of 64 oz")
	assertContains(t, out, "★ Water milestone: Three glasses down. Nice rhythm!")
}

func TestWaterShow(t *testing.T) {
	env := clitest.New(t)

	for _, amount := range []float64{8, 12} {
		if err := (&WaterAddCmd{Amount: amount, Date: "today"}).Run(env.Ctx); err != nil {
			t.Fatalf("water add failed: %v", err)
		}
	}
	env.Out.Reset()

	cmd := &WaterShowCmd{WindowFlag: WindowFlag{Window: "week"}}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("water show failed: %v", err)
	}

	out := env.Out.String()
	assertContains(t, out, "Water · week (2025-06-01 → 2025-06-07)")
	assertContains(t, out, "* Sat 06-07  20 oz")
	assertContains(t, out, "Sun 06-01  —")
	assertContains(t, out, "Total 20 oz")
	assertContains(t, out, "1 of 7 days logged")
	assertContains(t, out, "Today ●●◐○○○○○○○")
}

func TestShowYearGroupsByMonth(t *testing.T) {
	env := clitest.New(t)

	if err := (&WaterAddCmd{Amount: 16, Date: "2025-05-20"}).Run(env.Ctx); err != nil {
		t.Fatalf("water add failed: %v", err)
	}
	env.Out.Reset()

	if err := (&WaterShowCmd{WindowFlag: WindowFlag{Window: "year"}}).Run(env.Ctx); err != nil {
		t.Fatalf("water show failed: %v", err)
	}
	out := env.Out.String()
	assertContains(t, out, "May 2025")
	assertContains(t, out, "June 2025")
	if strings.Contains(out, "Tue 05-20") {
		t.Errorf("year view should not list single days:\n%s", out)
	}
}

func TestShowRejectsUnknownWindow(t *testing.T) {
	env := clitest.New(t)
	if err := (&WaterShowCmd{WindowFlag: WindowFlag{Window: "fortnight"}}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unknown window")
	}
}

func TestSleepAddDerivesDuration(t *testing.T) {
	env := clitest.New(t)

	cmd := &SleepAddCmd{Start: "23:30", End: "06:00", Type: "Sleep", Date: "yesterday"}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("sleep add failed: %v", err)
	}

	out := env.Out.String()
	assertContains(t, out, "Logged 6h 30m sleep on 2025-06-06")
	assertContains(t, out, "★ Sleep milestone: First night tracked. Sweet dreams!")
}

func TestSleepShowFlagsOverlaps(t *testing.T) {
	env := clitest.New(t)

	adds := []SleepAddCmd{
		{Start: "22:00", End: "06:00", Type: "Sleep", Date: "2025-06-05"},
		{Start: "23:00", End: "23:30", Type: "Nap", Date: "2025-06-05"},
	}
	for _, cmd := range adds {
		if err := cmd.Run(env.Ctx); err != nil {
			t.Fatalf("sleep add failed: %v", err)
		}
	}
	env.Out.Reset()

	if err := (&SleepShowCmd{WindowFlag: WindowFlag{Window: "week"}}).Run(env.Ctx); err != nil {
		t.Fatalf("sleep show failed: %v", err)
	}
	out := env.Out.String()
	assertContains(t, out, "Sleep 22:00–06:00  8h")
	assertContains(t, out, "Nap   23:00–23:30  30m")
	assertContains(t, out, "⚠ Sleep 22:00-06:00 overlaps Nap 23:00-23:30 on 2025-06-05")
}

func TestParseExerciseType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Cardio", want: "Cardio"},
		{in: "cardio", want: "Cardio"},
		{in: "strength", want: "Strength Training"},
		{in: "Balance Training", want: "Balance Training"},
		{in: " stretching ", want: "Stretching"},
		{in: "training", wantErr: true},
		{in: "yoga", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExerciseType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExerciseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseExerciseType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func exerciseIDs(t *testing.T, ctx *cli.Context) []string {
	t.Helper()
	r, err := ctx.Requester(context.Background())
	if err != nil {
		t.Fatalf("requester: %v", err)
	}
	body, err := r.Request(context.Background(), "/exercise_logs", api.RequestOptions{})
	if err != nil {
		t.Fatalf("listing exercise logs: %v", err)
	}
	rows, err := api.Decode[[]models.ExerciseLog](body)
	if err != nil {
		t.Fatalf("decoding exercise logs: %v", err)
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.RecordID())
	}
	return ids
}

func TestExerciseAddShowDelete(t *testing.T) {
	env := clitest.New(t)

	if err := (&ExerciseAddCmd{Type: "cardio", Minutes: 30, Date: "today"}).Run(env.Ctx); err != nil {
		t.Fatalf("exercise add failed: %v", err)
	}
	assertContains(t, env.Out.String(), "★ Exercise milestone: Thirty minutes of cardio. Your heart thanks you!")

	if err := (&ExerciseAddCmd{Type: "strength", Minutes: 60, Date: "today"}).Run(env.Ctx); err != nil {
		t.Fatalf("exercise add failed: %v", err)
	}
	env.Out.Reset()

	if err := (&ExerciseShowCmd{WindowFlag: WindowFlag{Window: "today"}}).Run(env.Ctx); err != nil {
		t.Fatalf("exercise show failed: %v", err)
	}
	out := env.Out.String()
	assertContains(t, out, "Active time 1.5 h")
	assertContains(t, out, "Strength Training      1h")

	ids := exerciseIDs(t, env.Ctx)
	if len(ids) != 2 {
		t.Fatalf("expected 2 exercise logs, got %d", len(ids))
	}
	if err := (&ExerciseDeleteCmd{ID: ids[0]}).Run(env.Ctx); err != nil {
		t.Fatalf("exercise delete failed: %v", err)
	}
	if got := exerciseIDs(t, env.Ctx); len(got) != 1 {
		t.Errorf("expected 1 exercise log after delete, got %d", len(got))
	}

	err := (&ExerciseDeleteCmd{ID: ids[0]}).Run(env.Ctx)
	if err == nil {
		t.Fatal("deleting a missing log should fail")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Errorf("expected a 404 api error, got %v", err)
	}
}

func TestExerciseAddUnknownType(t *testing.T) {
	env := clitest.New(t)
	if err := (&ExerciseAddCmd{Type: "yoga", Minutes: 30}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unknown exercise type")
	}
}

func TestFoodShowMacros(t *testing.T) {
	env := clitest.New(t)

	meals := []FoodAddCmd{
		{Item: "Oatmeal", Calories: 350, Protein: 12, Carbs: 60, Fat: 6, Fiber: 8, Date: "today"},
		{Item: "Apple", Calories: 95, Carbs: 25, Fiber: 4.4, Date: "today"},
	}
	for _, cmd := range meals {
		if err := cmd.Run(env.Ctx); err != nil {
			t.Fatalf("food add failed: %v", err)
		}
	}
	assertContains(t, env.Out.String(), "★ Food milestone: First meal logged. Bon appétit!")
	env.Out.Reset()

	if err := (&FoodShowCmd{WindowFlag: WindowFlag{Window: "today"}, Top: 1}).Run(env.Ctx); err != nil {
		t.Fatalf("food show failed: %v", err)
	}
	out := env.Out.String()
	assertContains(t, out, "Total 445 kcal")
	assertContains(t, out, "Macros  protein 12g · carbs 85g · fat 6g · fiber 12.4g")
	assertContains(t, out, "Oatmeal                  350 kcal   ▮▮▮▯▯")
	if strings.Count(out, "Apple") != 1 {
		t.Errorf("top foods should be limited to one entry:\n%s", out)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	env := clitest.New(t)

	tests := []struct {
		name string
		run  func(*cli.Context) error
	}{
		{"food without item", (&FoodAddCmd{Calories: 100, Date: "today"}).Run},
		{"water without amount", (&WaterAddCmd{Date: "today"}).Run},
		{"sleep with bad clock", (&SleepAddCmd{Start: "25:00", End: "06:00", Type: "Sleep", Date: "today"}).Run},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(env.Ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !validation.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestAddRejectsBadDate(t *testing.T) {
	env := clitest.New(t)
	if err := (&WaterAddCmd{Amount: 8, Date: "06/07/2025"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestOfflineShowUsesCache(t *testing.T) {
	env := clitest.New(t)

	if err := (&WaterAddCmd{Amount: 16, Date: "today"}).Run(env.Ctx); err != nil {
		t.Fatalf("water add failed: %v", err)
	}
	if err := (&WaterShowCmd{WindowFlag: WindowFlag{Window: "week"}}).Run(env.Ctx); err != nil {
		t.Fatalf("water show failed: %v", err)
	}
	if err := env.Ctx.Close(); err != nil {
		t.Fatalf("closing context: %v", err)
	}

	out := &bytes.Buffer{}
	offline := &cli.Context{Config: env.Ctx.Config, Offline: true, Out: out, Now: clitest.Now}
	offline.Config.APIURL = "http://127.0.0.1:1"
	defer offline.Close()

	if err := (&WaterShowCmd{WindowFlag: WindowFlag{Window: "week"}}).Run(offline); err != nil {
		t.Fatalf("offline water show failed: %v", err)
	}
	assertContains(t, out.String(), "Total 16 oz")

	if err := (&WaterShowCmd{WindowFlag: WindowFlag{Window: "month"}}).Run(offline); !api.IsTransport(err) {
		t.Errorf("an uncached window should fail with a transport error, got %v", err)
	}
}

func TestDroplets(t *testing.T) {
	tests := []struct {
		oz   float64
		want string
	}{
		{0, "○○○○○○○○○○"},
		{8, "●○○○○○○○○○"},
		{12, "●◐○○○○○○○○"},
		{64, "●●●●●●●●○○"},
		{200, "●●●●●●●●●●"},
	}
	for _, tt := range tests {
		if got := Droplets(tt.oz); got != tt.want {
			t.Errorf("Droplets(%v) = %q, want %q", tt.oz, got, tt.want)
		}
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		calories float64
		want     string
	}{
		{120, "▮▯▯▯▯"},
		{250, "▮▮▯▯▯"},
		{650, "▮▮▮▮▮"},
	}
	for _, tt := range tests {
		if got := Intensity(models.FoodLog{Calories: models.Number(tt.calories)}); got != tt.want {
			t.Errorf("Intensity(%v) = %q, want %q", tt.calories, got, tt.want)
		}
	}
}
