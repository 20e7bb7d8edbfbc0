package system

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/cli"
)

// FetchCmd prints a backend resource as indented JSON, going through the
// response cache like every other read.
type FetchCmd struct {
	Resource string `arg:"" help:"Resource path, e.g. /water_logs?date=2025-06-01."`
}

func (cmd *FetchCmd) Run(ctx *cli.Context) error {
	path := cmd.Resource
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	r, err := ctx.Requester(ctx.Context())
	if err != nil {
		return err
	}
	body, err := r.Request(ctx.Context(), path, api.RequestOptions{})
	if err != nil {
		return err
	}
	if len(body) == 0 {
		ctx.Println("null")
		return nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	ctx.Println(out.String())
	return nil
}
