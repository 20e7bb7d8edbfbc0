package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/cli/clitest"
)

func TestCacheCommands(t *testing.T) {
	env := clitest.New(t)

	for _, resource := range []string{"/water_logs", "/sleep_logs", "/affirmations"} {
		if err := (&FetchCmd{Resource: resource}).Run(env.Ctx); err != nil {
			t.Fatalf("fetch %s failed: %v", resource, err)
		}
	}
	env.Out.Reset()

	if err := (&CacheStatsCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Responses: 3") {
		t.Errorf("unexpected stats:\n%s", env.Out.String())
	}
	env.Out.Reset()

	if err := (&CacheClearCmd{Collection: "water_logs"}).Run(env.Ctx); err != nil {
		t.Fatalf("cache clear water_logs failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Cleared 1 cached water_logs response(s)") {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}

	if err := (&CacheClearCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	env.Out.Reset()
	if err := (&CacheStatsCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Responses: 0") {
		t.Errorf("cache not empty after clear:\n%s", env.Out.String())
	}
}

func TestCacheMigrate(t *testing.T) {
	env := clitest.New(t)

	if err := (&CacheMigrateCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("cache migrate failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Cache schema is up to date") {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}
}
