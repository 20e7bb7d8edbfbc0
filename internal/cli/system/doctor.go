package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/keyring"
	"github.com/julianstephens/wellday/internal/notifier"
	"github.com/julianstephens/wellday/internal/storage"
)

type DoctorCmd struct{}

// diagnostics prints check results in a fixed format and remembers failures.
type diagnostics struct {
	ctx      *cli.Context
	hasError bool
}

func (d *diagnostics) check(name string, err error) bool {
	if err != nil {
		d.ctx.Printf("❌ %s: FAIL\n", name)
		d.ctx.Printf("   Error: %v\n", err)
		d.hasError = true
		return false
	}
	d.ctx.Printf("✓ %s: OK\n", name)
	return true
}

func (d *diagnostics) warn(name string, err error) {
	if err != nil {
		d.ctx.Printf("⚠ %s: WARNING\n", name)
		d.ctx.Printf("   %v\n", err)
		return
	}
	d.ctx.Printf("✓ %s: OK\n", name)
}

func (d *diagnostics) skip(name, reason string) {
	d.ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	d := &diagnostics{ctx: ctx}

	d.check("Configuration", ctx.Config.Validate())
	d.check("Clock/timezone", checkClockTimezone(ctx))

	if keyring.IsAvailable() {
		d.warn("OS keyring", nil)
	} else {
		d.warn("OS keyring", errors.New("not available; pass --token or set WELLDAY_TOKEN instead"))
	}

	d.check("API token", checkToken(ctx))

	if ctx.Offline {
		d.skip("Backend reachable", "offline mode")
	} else {
		d.check("Backend reachable", checkBackend(ctx))
	}

	cache, err := ctx.Cache(ctx.Context())
	if d.check("Response cache", err) {
		d.check("Cache schema", checkSchema(ctx, cache))
	} else {
		d.skip("Cache schema", "cache not available")
	}

	if ctx.Config.Notifications {
		d.warn("Tray app", notifier.TrayStatus())
	} else {
		d.skip("Tray app", "notifications disabled")
	}

	ctx.Println()
	if d.hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if _, err := ctx.Config.Location(); err != nil {
		return err
	}
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkToken(ctx *cli.Context) error {
	token, err := ctx.Tokens().Token()
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("no API token; run 'wellday auth login'")
	}
	claims, err := api.TokenClaims(token)
	if err != nil {
		return err
	}
	if claims.Expired(ctx.Clock()) {
		return fmt.Errorf("token expired at %s; run 'wellday auth login'", claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// checkBackend calls an authenticated endpoint. A rejected token still
// proves the backend is up; that failure belongs to the token check.
func checkBackend(ctx *cli.Context) error {
	c := ctx.Client()
	_, err := c.Request(ctx.Context(), "/affirmations", api.RequestOptions{})
	if err != nil && !api.IsUnauthorized(err) {
		return fmt.Errorf("%s: %w", c.BaseURL(), err)
	}
	return nil
}

func checkSchema(ctx *cli.Context, cache *storage.Cache) error {
	current, latest, err := cache.SchemaVersion(ctx.Context())
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("cache schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}
