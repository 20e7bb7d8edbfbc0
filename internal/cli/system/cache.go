package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/wellday/internal/cli"
)

type CacheCmd struct {
	Stats   CacheStatsCmd   `cmd:"" help:"Show what the response cache holds." default:"1"`
	Clear   CacheClearCmd   `cmd:"" help:"Delete cached responses."`
	Migrate CacheMigrateCmd `cmd:"" help:"Apply pending cache schema migrations."`
}

type CacheStatsCmd struct{}

func (c *CacheStatsCmd) Run(ctx *cli.Context) error {
	cache, err := ctx.Cache(ctx.Context())
	if err != nil {
		return err
	}
	stats, err := cache.Stats(ctx.Context())
	if err != nil {
		return err
	}
	current, _, err := cache.SchemaVersion(ctx.Context())
	if err != nil {
		return err
	}

	ctx.Printf("Path:      %s\n", cache.Path())
	ctx.Printf("Schema:    v%d\n", current)
	ctx.Printf("Responses: %d\n", stats.Entries)
	if stats.Entries > 0 {
		ctx.Printf("Oldest:    %s\n", stats.Oldest.In(ctx.Clock().Location()).Format(time.DateTime))
		ctx.Printf("Newest:    %s\n", stats.Newest.In(ctx.Clock().Location()).Format(time.DateTime))
	}
	return nil
}

type CacheClearCmd struct {
	Collection string `arg:"" optional:"" help:"Only clear this collection, e.g. water_logs."`
}

func (c *CacheClearCmd) Run(ctx *cli.Context) error {
	cache, err := ctx.Cache(ctx.Context())
	if err != nil {
		return err
	}
	if c.Collection == "" {
		if err := cache.Clear(ctx.Context()); err != nil {
			return err
		}
		ctx.OK("Cleared all cached responses")
		return nil
	}

	n, err := cache.PurgeCollection(ctx.Context(), c.Collection)
	if err != nil {
		return err
	}
	ctx.OK("Cleared %d cached %s response(s)", n, c.Collection)
	return nil
}

// CacheMigrateCmd opens the cache, which applies any pending migration, and
// reports the resulting schema version.
type CacheMigrateCmd struct{}

func (c *CacheMigrateCmd) Run(ctx *cli.Context) error {
	cache, err := ctx.Cache(ctx.Context())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	current, latest, err := cache.SchemaVersion(ctx.Context())
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	ctx.Printf("Cache schema is up to date (v%d).\n", current)
	return nil
}
