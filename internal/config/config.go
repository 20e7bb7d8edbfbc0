// Package config loads wellday settings from defaults, a YAML file, .env
// files and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/utils"
	"github.com/julianstephens/wellday/internal/validation"
)

// Goals are the daily targets progress is measured against.
type Goals struct {
	WaterOz         float64 `yaml:"water_oz" json:"water_oz" validate:"gte=0"`
	SleepMinutes    float64 `yaml:"sleep_minutes" json:"sleep_minutes" validate:"gte=0"`
	ExerciseMinutes float64 `yaml:"exercise_minutes" json:"exercise_minutes" validate:"gte=0"`
	Calories        float64 `yaml:"calories" json:"calories" validate:"gte=0"`
}

// For returns the goal for a category, or 0 when none applies.
func (g Goals) For(c constants.Category) float64 {
	switch c {
	case constants.CategoryWater:
		return g.WaterOz
	case constants.CategorySleep:
		return g.SleepMinutes
	case constants.CategoryExercise:
		return g.ExerciseMinutes
	case constants.CategoryFood:
		return g.Calories
	default:
		return 0
	}
}

// Config is the resolved application configuration.
type Config struct {
	APIURL            string           `yaml:"api_url" json:"api_url" validate:"required,url"`
	Timezone          string           `yaml:"timezone" json:"timezone"`
	CachePath         string           `yaml:"cache_path" json:"cache_path"`
	RequestsPerSecond float64          `yaml:"requests_per_second" json:"requests_per_second" validate:"gte=0"`
	OfflineFallback   bool             `yaml:"offline_fallback" json:"offline_fallback"`
	Notifications     bool             `yaml:"notifications" json:"notifications"`
	Debug             bool             `yaml:"debug" json:"debug"`
	Goals             Goals            `yaml:"goals" json:"goals"`
	Milestones        []milestone.Rule `yaml:"milestones,omitempty" json:"milestones,omitempty" validate:"dive"`

	// Token is only ever read from the environment; it is never written to disk.
	Token string `yaml:"-" json:"-"`

	path string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:            constants.DefaultAPIURL,
		Timezone:          constants.DefaultTimezone,
		RequestsPerSecond: constants.DefaultRequestsPerSecond,
		OfflineFallback:   true,
		Notifications:     true,
		Goals: Goals{
			WaterOz:         constants.DefaultWaterGoalOz,
			SleepMinutes:    constants.DefaultSleepGoalMin,
			ExerciseMinutes: constants.DefaultExerciseGoalMin,
			Calories:        constants.DefaultCalorieGoal,
		},
	}
}

// Load resolves the configuration rooted at path. A missing file is not an
// error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.path = expanded

	data, err := os.ReadFile(expanded)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", expanded, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := loadDotEnv(cfg.Dir()); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(cfg.Dir(), constants.DefaultCacheName)
	} else if cfg.CachePath, err = ExpandPath(cfg.CachePath); err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return cfg, nil
}

// loadDotEnv loads .env from the working directory and then the config
// directory. Variables already set are never overridden.
func loadDotEnv(dir string) error {
	for _, p := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(constants.EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(constants.EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(constants.EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if err := validation.Check(c); err != nil {
		return err
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}

	seen := make(map[string]bool)
	for _, r := range c.Milestones {
		id := string(r.Category) + "/" + r.Key
		if seen[id] {
			return fmt.Errorf("duplicate milestone %q for %s", r.Key, r.Category)
		}
		seen[id] = true
	}
	return nil
}

// Save writes the configuration as YAML to its path, creating the directory.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file, logs and cache.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Now returns the current time in the configured timezone.
func (c *Config) Now() time.Time {
	loc, err := c.Location()
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// Rules returns the configured milestone rules, or the defaults when none are set.
func (c *Config) Rules() []milestone.Rule {
	if len(c.Milestones) == 0 {
		return milestone.DefaultRules()
	}
	return append([]milestone.Rule(nil), c.Milestones...)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
	}
	return p, nil
}
