package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/health"
	"github.com/julianstephens/wellday/internal/cli/logs"
	"github.com/julianstephens/wellday/internal/cli/recipes"
	"github.com/julianstephens/wellday/internal/cli/system"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/errors"
	"github.com/julianstephens/wellday/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Token   string `help:"API bearer token. Overrides WELLDAY_TOKEN and the keyring."`
	Debug   bool   `help:"Log debug output to stderr."`
	Offline bool   `help:"Serve every read from the local response cache."`

	Init        system.InitCmd      `cmd:"" help:"Write the default config and create the response cache."`
	Doctor      system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Dashboard   logs.DashboardCmd   `cmd:"" help:"Show a day across every category."`
	Tui         system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Auth        system.AuthCmd      `cmd:"" help:"Sign in, register and manage the API token."`
	Water       logs.WaterCmd       `cmd:"" help:"Log and review water intake."`
	Sleep       logs.SleepCmd       `cmd:"" help:"Log and review sleep."`
	Exercise    logs.ExerciseCmd    `cmd:"" help:"Log and review workouts."`
	Food        logs.FoodCmd        `cmd:"" help:"Log and review meals."`
	Commitments logs.CommitmentsCmd `cmd:"" help:"Show a year of one category as a day grid."`
	Recipes     recipes.RecipesCmd  `cmd:"" help:"Browse and share recipes."`
	Health      health.HealthCmd    `cmd:"" help:"Manage your health info."`
	Cache       system.CacheCmd     `cmd:"" help:"Inspect and clear the response cache."`

	Fetch     system.FetchCmd     `cmd:"" hidden:"" help:"Print a backend resource as JSON."`
	Notify    system.NotifyCmd    `cmd:"" hidden:"" help:"Send a test notification through the tray app."`
	DevServer system.DevServerCmd `cmd:"" hidden:"" name:"dev-server" help:"Serve an in-memory backend for demos and tests."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track water, sleep, exercise and food against daily goals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"config_path":    constants.DefaultConfigPath,
			"devserver_addr": constants.DefaultDevServerAddr,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: cfg.Dir(),
		Quiet:     strings.HasPrefix(kctx.Command(), "tui"),
	}); err != nil {
		errors.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx:     ctx,
		Config:  cfg,
		Token:   CLI.Token,
		Offline: CLI.Offline,
	}

	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("failed to close response cache", "error", cerr)
	}
	if err != nil {
		stop()
		errors.Fatal(err)
	}
}
