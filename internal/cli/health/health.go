// Package health holds the commands for the user's health profile.
package health

import (
	"errors"
	"strings"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
	"github.com/julianstephens/wellday/internal/utils"
)

type HealthCmd struct {
	Show ShowCmd `cmd:"" help:"Show your health info." default:"1"`
	Set  SetCmd  `cmd:"" help:"Create or update your health info."`
}

func openProfile(ctx *cli.Context) (*tracker.Profile, error) {
	r, err := ctx.Requester(ctx.Context())
	if err != nil {
		return nil, err
	}
	p := tracker.NewProfile(ctx.Context(), r, ctx.Registry())
	p.Start()
	p.Wait()
	if err := p.Err(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	p, err := openProfile(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	info, ok := p.Current()
	if !ok {
		ctx.Println("No health info saved. Use 'wellday health set' to add it.")
		return nil
	}
	printInfo(ctx, info)
	return nil
}

func printInfo(ctx *cli.Context, info models.HealthInfo) {
	ctx.Println("Health info:")
	ctx.Printf("  Height:         %s\n", utils.FormatNumber(info.Height.Float()))
	ctx.Printf("  Weight:         %s\n", utils.FormatNumber(info.Weight.Float()))
	ctx.Printf("  Age:            %s\n", utils.FormatNumber(info.Age.Float()))
	ctx.Printf("  Biological sex: %s\n", info.BiologicalSex)
	ctx.Printf("  Gender:         %s\n", info.Gender)
}

// SetCmd changes the given fields. Fields left out keep their saved value;
// the first save needs all of them.
type SetCmd struct {
	Height        *float64 `help:"Height."`
	Weight        *float64 `help:"Weight."`
	Age           *float64 `help:"Age in years."`
	BiologicalSex *string  `help:"Biological sex." name:"biological-sex"`
	Gender        *string  `help:"Gender."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	p, err := openProfile(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	info, _ := p.Current()
	updated := false
	if c.Height != nil {
		info.Height = models.Number(*c.Height)
		updated = true
	}
	if c.Weight != nil {
		info.Weight = models.Number(*c.Weight)
		updated = true
	}
	if c.Age != nil {
		info.Age = models.Number(*c.Age)
		updated = true
	}
	if c.BiologicalSex != nil {
		info.BiologicalSex = strings.TrimSpace(*c.BiologicalSex)
		updated = true
	}
	if c.Gender != nil {
		info.Gender = strings.TrimSpace(*c.Gender)
		updated = true
	}
	if !updated {
		return errors.New("no changes specified; pass --height, --weight, --age, --biological-sex or --gender")
	}

	saved, err := p.Save(ctx.Context(), info)
	if err != nil {
		return err
	}
	ctx.OK("Health info saved")
	printInfo(ctx, saved)
	return nil
}
