package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/logger"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file and delete the response cache before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	cfgPath := ctx.Config.Path()
	_, statErr := os.Stat(cfgPath)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("failed to access config file: %w", statErr)
	}

	if c.Force {
		if err := ctx.Close(); err != nil {
			return fmt.Errorf("failed to close response cache: %w", err)
		}
		cachePath := ctx.Config.CachePath
		if err := os.Remove(cachePath); err == nil {
			ctx.Printf("Deleted existing cache at: %s\n", cachePath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete existing cache: %w", err)
		}
	}

	if err := ctx.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !exists || c.Force {
		if err := ctx.Config.Save(); err != nil {
			return err
		}
		ctx.Printf("Wrote config to: %s\n", cfgPath)
	} else {
		ctx.Printf("Config already exists at: %s\n", cfgPath)
	}

	cache, err := ctx.Cache(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize response cache: %w", err)
	}
	ctx.Printf("Initialized wellday cache at: %s\n", cache.Path())
	ctx.Printf("Logs are written to: %s\n", logger.File(ctx.Config.Dir()))
	ctx.Println("Next: sign in with 'wellday auth login', then run 'wellday doctor'.")
	return nil
}
