package logs

import (
	"testing"

	"github.com/julianstephens/wellday/internal/cli/clitest"
)

func TestDashboard(t *testing.T) {
	env := clitest.New(t)

	if err := (&WaterAddCmd{Amount: 16, Date: "yesterday"}).Run(env.Ctx); err != nil {
		t.Fatalf("water add failed: %v", err)
	}
	env.Out.Reset()

	if err := (&DashboardCmd{Date: "yesterday"}).Run(env.Ctx); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	out := env.Out.String()
	assertContains(t, out, "Friday, June 6 2025")
	assertContains(t, out, "Water     16 oz")
	assertContains(t, out, "●●○○○○○○○○")
	assertContains(t, out, "Sleep     0m")
	assertContains(t, out, "goal 2000 kcal")
	// Sleep is the furthest behind; the day of year picks the tip and affirmation.
	assertContains(t, out, "Tip (sleep): Dim screens an hour before bed.")
	assertContains(t, out, "You are allowed to rest.")
}

func TestDashboardBadDate(t *testing.T) {
	env := clitest.New(t)
	if err := (&DashboardCmd{Date: "someday"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}
