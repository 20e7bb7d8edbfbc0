// Package clitest builds command contexts wired to an in-memory backend.
package clitest

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/devserver"
)

// Now is the fixed clock of every test context: Saturday 2025-06-07 noon UTC.
func Now() time.Time {
	return time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
}

// Env is a command context talking to a dev server.
type Env struct {
	Ctx    *cli.Context
	Out    *bytes.Buffer
	Server *devserver.Server
	URL    string
	Token  string
}

// New starts a dev server and returns a context signed in to it, with its
// config and cache under a temporary directory.
func New(t *testing.T) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	color.NoColor = true

	srv := devserver.New(devserver.Config{Secret: "test-secret", Now: Now})
	token, err := srv.IssueToken("casey@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := Config(t)
	cfg.APIURL = ts.URL

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config: cfg,
		Token:  token,
		Out:    out,
		Now:    Now,
	}
	t.Cleanup(func() { ctx.Close() })

	return &Env{Ctx: ctx, Out: out, Server: srv, URL: ts.URL, Token: token}
}

// Config loads a configuration rooted in a temporary directory with
// notifications off and the clock in UTC.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Timezone = "UTC"
	cfg.Notifications = false
	cfg.Token = ""
	return cfg
}
