// Package cli holds the state shared by every wellday command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/keyring"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/notifier"
	"github.com/julianstephens/wellday/internal/query"
	"github.com/julianstephens/wellday/internal/storage"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

var (
	milestoneColor = color.New(color.FgYellow, color.Bold)
	okColor        = color.New(color.FgGreen)
	mutedColor     = color.New(color.Faint)
)

// Context is handed to every command's Run method. The backend requester,
// the response cache and the invalidation registry are created on first use.
type Context struct {
	// Ctx is cancelled on interrupt. Nil means context.Background.
	Ctx    context.Context
	Config *config.Config
	// Token overrides WELLDAY_TOKEN and the keyring for this invocation.
	Token string
	// Offline serves every read from the response cache.
	Offline bool
	// Out defaults to os.Stdout.
	Out io.Writer
	// Now defaults to the configured timezone's clock.
	Now func() time.Time

	mu        sync.Mutex
	cache     *storage.Cache
	requester api.Requester
	registry  *query.Registry
	notifier  *notifier.Notifier
	rules     []milestone.Rule
}

// Context returns the context commands run under.
func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// OK prints a line prefixed with a green check mark.
func (c *Context) OK(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), "%s %s\n", okColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Muted prints a dimmed line.
func (c *Context) Muted(format string, args ...interface{}) {
	fmt.Fprintln(c.Stdout(), mutedColor.Sprintf(format, args...))
}

// Clock returns the current time in the configured timezone.
func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return c.Config.Now()
}

// Tokens resolves the bearer token: --token, then WELLDAY_TOKEN, then the keyring.
func (c *Context) Tokens() keyring.Source {
	override := c.Token
	if override == "" {
		override = c.Config.Token
	}
	return keyring.Source{Override: override}
}

// Client returns a backend client without the response cache.
func (c *Context) Client() *api.Client {
	burst := int(c.Config.RequestsPerSecond)
	return api.NewClient(c.Config.APIURL,
		api.WithTokenSource(c.Tokens()),
		api.WithRateLimit(c.Config.RequestsPerSecond, burst),
		api.WithLogger(logger.Logger),
	)
}

// Requester returns the backend requester, reading through the response
// cache. When the cache cannot be opened requests go straight to the
// backend, unless the context is offline.
func (c *Context) Requester(ctx context.Context) (api.Requester, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requester != nil {
		return c.requester, nil
	}

	client := c.Client()
	cache, err := c.openCacheLocked(ctx)
	if err != nil {
		if c.Offline {
			return nil, fmt.Errorf("offline mode needs the response cache: %w", err)
		}
		logger.Warn("response cache unavailable", "path", c.Config.CachePath, "error", err)
		c.requester = client
		return client, nil
	}

	c.requester = storage.NewCachedRequester(client, cache, c.cacheMode())
	return c.requester, nil
}

func (c *Context) cacheMode() storage.Mode {
	switch {
	case c.Offline:
		return storage.ModeOffline
	case c.Config.OfflineFallback:
		return storage.ModeFallback
	default:
		return storage.ModeOnline
	}
}

// Cache opens the response cache.
func (c *Context) Cache(ctx context.Context) (*storage.Cache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openCacheLocked(ctx)
}

func (c *Context) openCacheLocked(ctx context.Context) (*storage.Cache, error) {
	if c.cache != nil {
		return c.cache, nil
	}
	cache := storage.NewCache(c.Config.CachePath)
	if err := cache.Open(ctx); err != nil {
		return nil, err
	}
	c.cache = cache
	return cache, nil
}

// Registry is the invalidation registry shared by every query of the process.
func (c *Context) Registry() *query.Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registry == nil {
		c.registry = query.NewRegistry()
	}
	return c.registry
}

func (c *Context) Notifier() *notifier.Notifier {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notifier == nil {
		c.notifier = notifier.New(c.Config.Notifications)
	}
	return c.notifier
}

// Rules returns the configured milestone rules with the backend's
// encouragement messages merged in. The backend is asked once per process.
func (c *Context) Rules(ctx context.Context) []milestone.Rule {
	c.mu.Lock()
	rules := c.rules
	c.mu.Unlock()
	if rules != nil {
		return rules
	}

	rules = c.Config.Rules()
	if r, err := c.Requester(ctx); err == nil {
		rules = tracker.SyncRules(ctx, r, rules)
	}

	c.mu.Lock()
	c.rules = rules
	c.mu.Unlock()
	return rules
}

// TrackerOptions assembles the options shared by every tracker.
func (c *Context) TrackerOptions(ctx context.Context, w daterange.Window) (tracker.Options, error) {
	r, err := c.Requester(ctx)
	if err != nil {
		return tracker.Options{}, err
	}
	return tracker.Options{
		Requester: r,
		Registry:  c.Registry(),
		Rules:     c.Rules(ctx),
		Window:    w,
		Now:       c.Clock,
	}, nil
}

// ParseDate accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func (c *Context) ParseDate(s string) (string, error) {
	now := c.Clock()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(constants.DateFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}
	if !utils.ValidateDateFormat(s) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
	}
	return s, nil
}

// ReportMilestone prints a reached milestone and forwards it to the tray app.
func (c *Context) ReportMilestone(ctx context.Context, m *milestone.Milestone) {
	if m == nil {
		return
	}
	fmt.Fprintf(c.Stdout(), "%s %s\n", milestoneColor.Sprintf("★ %s milestone:", m.Category.Title()), m.Message)
	c.Notifier().NotifyMilestone(ctx, m)
}

// Close releases the response cache.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		return nil
	}
	err := c.cache.Close()
	c.cache = nil
	c.requester = nil
	return err
}
