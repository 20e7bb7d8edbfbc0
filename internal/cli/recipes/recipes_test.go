package recipes

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/clitest"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func addOats(t *testing.T, env *clitest.Env) {
	t.Helper()
	cmd := &AddCmd{
		Title:        "Overnight oats",
		Description:  "No-cook breakfast",
		Instructions: "Mix and chill.",
		Ingredient:   []string{"oats", " milk "},
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("recipes add failed: %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	env := clitest.New(t)
	if err := (&ListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("recipes list failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No recipes yet") {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}
}

func TestAddListShow(t *testing.T) {
	env := clitest.New(t)
	addOats(t, env)
	if !strings.Contains(env.Out.String(), "Added recipe 1: Overnight oats") {
		t.Errorf("unexpected add output:\n%s", env.Out.String())
	}
	env.Out.Reset()

	if err := (&ListCmd{Query: "OATS"}).Run(env.Ctx); err != nil {
		t.Fatalf("recipes list failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Overnight oats (yours)") {
		t.Errorf("unexpected list output:\n%s", env.Out.String())
	}
	env.Out.Reset()

	if err := (&ListCmd{Query: "soup"}).Run(env.Ctx); err != nil {
		t.Fatalf("recipes list failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No recipes match 'soup'") {
		t.Errorf("unexpected search output:\n%s", env.Out.String())
	}
	env.Out.Reset()

	if err := (&ShowCmd{ID: "1"}).Run(env.Ctx); err != nil {
		t.Fatalf("recipes show failed: %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"Overnight oats", "by casey@example.com", "  - oats", "  - milk", "Mix and chill."} {
		if !strings.Contains(out, want) {
			t.Errorf("show output does not contain %q:\n%s", want, out)
		}
	}
}

func TestAddValidates(t *testing.T) {
	env := clitest.New(t)
	err := (&AddCmd{Title: "Toast", Description: "Crunchy"}).Run(env.Ctx)
	if !validation.IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestEditAndDelete(t *testing.T) {
	env := clitest.New(t)
	addOats(t, env)

	if err := (&EditCmd{ID: "1"}).Run(env.Ctx); err == nil {
		t.Error("expected an error when no flags are given")
	}

	edit := &EditCmd{ID: "1", Title: ptr("Berry oats"), Ingredient: []string{"oats", "berries"}}
	if err := edit.Run(env.Ctx); err != nil {
		t.Fatalf("recipes edit failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "Berry oats") || !strings.Contains(out, "  - berries") || strings.Contains(out, "  - milk") {
		t.Errorf("unexpected edit output:\n%s", out)
	}

	if err := (&DeleteCmd{ID: "1"}).Run(env.Ctx); err != nil {
		t.Fatalf("recipes delete failed: %v", err)
	}
	err := (&ShowCmd{ID: "1"}).Run(env.Ctx)
	if !errors.Is(err, tracker.ErrRecipeNotFound) {
		t.Errorf("show after delete: got %v, want ErrRecipeNotFound", err)
	}
}

func TestOthersCannotEdit(t *testing.T) {
	env := clitest.New(t)
	addOats(t, env)

	other, err := env.Server.IssueToken("riley@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	cfg := clitest.Config(t)
	cfg.APIURL = env.URL
	ctx := &cli.Context{Config: cfg, Token: other, Out: env.Out, Now: clitest.Now}
	t.Cleanup(func() { ctx.Close() })

	err = (&EditCmd{ID: "1", Title: ptr("Mine now")}).Run(ctx)
	if !errors.Is(err, tracker.ErrNotOwner) {
		t.Errorf("edit by another user: got %v, want ErrNotOwner", err)
	}
	if err := (&DeleteCmd{ID: "1"}).Run(ctx); !errors.Is(err, tracker.ErrNotOwner) {
		t.Errorf("delete by another user: got %v, want ErrNotOwner", err)
	}
}
