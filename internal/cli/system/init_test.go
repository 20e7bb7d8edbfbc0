package system

import (
	"os"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/cli/clitest"
	"github.com/julianstephens/wellday/internal/config"
)

func TestInitCmd_WritesConfigAndCache(t *testing.T) {
	env := clitest.New(t)

	if err := (&InitCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := os.Stat(env.Ctx.Config.Path()); err != nil {
		t.Errorf("config file not written: %v", err)
	}
	if _, err := os.Stat(env.Ctx.Config.CachePath); err != nil {
		t.Errorf("cache file not created: %v", err)
	}

	loaded, err := config.Load(env.Ctx.Config.Path())
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.APIURL != env.URL {
		t.Errorf("APIURL = %q, want %q", loaded.APIURL, env.URL)
	}
	if !strings.Contains(env.Out.String(), "Initialized wellday cache at:") {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}
}

func TestInitCmd_KeepsExistingConfig(t *testing.T) {
	env := clitest.New(t)
	if err := (&InitCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	env.Out.Reset()

	if err := (&InitCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Config already exists at:") {
		t.Errorf("expected existing config to be kept:\n%s", env.Out.String())
	}
}

func TestInitCmd_ForceRecreatesCache(t *testing.T) {
	env := clitest.New(t)
	if err := (&InitCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	env.Out.Reset()

	if err := (&InitCmd{Force: true}).Run(env.Ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "Deleted existing cache at:") {
		t.Errorf("cache was not deleted:\n%s", out)
	}
	if !strings.Contains(out, "Wrote config to:") {
		t.Errorf("config was not rewritten:\n%s", out)
	}
}

func TestInitCmd_RejectsInvalidConfig(t *testing.T) {
	env := clitest.New(t)
	env.Ctx.Config.Timezone = "Not/AZone"

	if err := (&InitCmd{}).Run(env.Ctx); err == nil {
		t.Error("expected init to reject an invalid timezone")
	}
}
