package system

import (
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/devserver"
)

// DevServerCmd serves an in-memory backend until interrupted.
type DevServerCmd struct {
	Addr   string            `help:"Listen address." default:"${devserver_addr}"`
	Secret string            `help:"HS256 token secret." env:"WELLDAY_DEV_SECRET"`
	User   map[string]string `help:"Restrict logins to these email=password pairs." mapsep:","`
}

func (c *DevServerCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultDevServerAddr
	}
	srv := devserver.New(devserver.Config{Secret: c.Secret, Users: c.User})
	ctx.Printf("Serving the wellday API on %s (Ctrl+C to stop)\n", addr)
	return srv.Run(ctx.Context(), addr)
}
