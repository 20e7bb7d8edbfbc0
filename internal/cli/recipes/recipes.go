// Package recipes holds the commands for the shared recipe catalog.
package recipes

import (
	"errors"
	"strings"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/tracker"
)

type RecipesCmd struct {
	List   ListCmd   `cmd:"" help:"List recipes, optionally filtered by title." default:"withargs"`
	Show   ShowCmd   `cmd:"" help:"Show a recipe's details."`
	Add    AddCmd    `cmd:"" help:"Add a recipe."`
	Edit   EditCmd   `cmd:"" help:"Edit a recipe you created."`
	Delete DeleteCmd `cmd:"" help:"Delete a recipe you created."`
}

// signedIn returns the claims of the current token. A token that is not a
// JWT yields empty claims.
func signedIn(ctx *cli.Context) api.Claims {
	token, err := ctx.Tokens().Token()
	if err != nil || token == "" {
		return api.Claims{}
	}
	claims, _ := api.TokenClaims(token)
	return claims
}

func openCatalog(ctx *cli.Context) (*tracker.Catalog, error) {
	r, err := ctx.Requester(ctx.Context())
	if err != nil {
		return nil, err
	}
	c := tracker.NewCatalog(ctx.Context(), r, ctx.Registry(), signedIn(ctx).UserID)
	c.Start()
	c.Wait()
	if err := c.Err(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

type ListCmd struct {
	Query string `arg:"" optional:"" help:"Part of the title to search for."`
}

func (cmd *ListCmd) Run(ctx *cli.Context) error {
	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	found := c.Search(cmd.Query)
	if len(found) == 0 {
		if cmd.Query != "" {
			ctx.Println("No recipes match '" + strings.TrimSpace(cmd.Query) + "'.")
		} else {
			ctx.Println("No recipes yet. Use 'wellday recipes add' to create one.")
		}
		return nil
	}
	for _, r := range found {
		mark := ""
		if c.Owns(r) {
			mark = " (yours)"
		}
		ctx.Printf("%4s  %s%s\n", r.ID, r.Title, mark)
		if r.Description != "" {
			ctx.Muted("      %s", r.Description)
		}
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Recipe id."`
}

func (cmd *ShowCmd) Run(ctx *cli.Context) error {
	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	r, err := c.Get(ctx.Context(), cmd.ID)
	if err != nil {
		return err
	}
	printRecipe(ctx, r)
	return nil
}

func printRecipe(ctx *cli.Context, r models.Recipe) {
	ctx.Printf("%s\n", r.Title)
	if r.CreatedBy != "" {
		ctx.Muted("by %s", r.CreatedBy)
	}
	if r.Description != "" {
		ctx.Printf("\n%s\n", r.Description)
	}
	if r.ImageURL != "" {
		ctx.Printf("Image: %s\n", r.ImageURL)
	}
	if len(r.Ingredients) > 0 {
		ctx.Println("\nIngredients:")
		for _, in := range r.Ingredients {
			ctx.Printf("  - %s\n", in)
		}
	}
	ctx.Println("\nInstructions:")
	ctx.Println(r.Instructions)
}

type AddCmd struct {
	Title        string   `help:"Recipe title." required:""`
	Description  string   `help:"Short description." required:""`
	Instructions string   `help:"Preparation steps." required:""`
	Ingredient   []string `help:"An ingredient. Repeat for each one." name:"ingredient" short:"i"`
	ImageURL     string   `help:"Link to a photo." name:"image-url"`
	CreatedBy    string   `help:"Author shown on the recipe. Defaults to your account email." name:"created-by"`
}

func (cmd *AddCmd) Run(ctx *cli.Context) error {
	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	author := strings.TrimSpace(cmd.CreatedBy)
	if author == "" {
		author = signedIn(ctx).Email
	}
	rec, err := c.Create(ctx.Context(), models.RecipeInput{
		Title:        strings.TrimSpace(cmd.Title),
		ImageURL:     strings.TrimSpace(cmd.ImageURL),
		Description:  strings.TrimSpace(cmd.Description),
		Ingredients:  trimAll(cmd.Ingredient),
		Instructions: strings.TrimSpace(cmd.Instructions),
		CreatedBy:    author,
	})
	if err != nil {
		return err
	}
	ctx.OK("Added recipe %s: %s", rec.ID, rec.Title)
	return nil
}

// EditCmd changes the given fields. Passing --ingredient replaces the whole list.
type EditCmd struct {
	ID           string   `arg:"" help:"Recipe id."`
	Title        *string  `help:"Recipe title."`
	Description  *string  `help:"Short description."`
	Instructions *string  `help:"Preparation steps."`
	Ingredient   []string `help:"An ingredient. Repeat for each one." name:"ingredient" short:"i"`
	ImageURL     *string  `help:"Link to a photo." name:"image-url"`
}

func (cmd *EditCmd) Run(ctx *cli.Context) error {
	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	current, err := c.Get(ctx.Context(), cmd.ID)
	if err != nil {
		return err
	}
	in := current.Input()
	updated := false
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			updated = true
		}
	}
	set(&in.Title, cmd.Title)
	set(&in.Description, cmd.Description)
	set(&in.Instructions, cmd.Instructions)
	set(&in.ImageURL, cmd.ImageURL)
	if len(cmd.Ingredient) > 0 {
		in.Ingredients = trimAll(cmd.Ingredient)
		updated = true
	}
	if !updated {
		return errors.New("no changes specified; pass --title, --description, --instructions, --ingredient or --image-url")
	}

	rec, err := c.Update(ctx.Context(), cmd.ID, in)
	if err != nil {
		return err
	}
	ctx.OK("Updated recipe %s", rec.ID)
	printRecipe(ctx, rec)
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Recipe id."`
}

func (cmd *DeleteCmd) Run(ctx *cli.Context) error {
	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Delete(ctx.Context(), cmd.ID); err != nil {
		return err
	}
	ctx.OK("Deleted recipe %s", cmd.ID)
	return nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
