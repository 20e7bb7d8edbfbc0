package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/query"
	"github.com/julianstephens/wellday/internal/validation"
)

// ErrNotOwner is returned when editing or deleting a recipe someone else created.
var ErrNotOwner = errors.New("only the recipe's creator can change it")

// ErrRecipeNotFound is returned when no recipe has the requested id.
var ErrRecipeNotFound = errors.New("recipe not found")

// Catalog is the controller for the shared recipe list. owner is the signed-in
// user's id; an empty owner leaves ownership checks to the backend.
type Catalog struct {
	req    api.Requester
	owner  string
	list   *query.Query[[]models.Recipe]
	create *query.Mutation[models.Recipe]
	update *query.Mutation[models.Recipe]
	remove *query.Mutation[struct{}]
}

func NewCatalog(ctx context.Context, r api.Requester, reg *query.Registry, owner string) *Catalog {
	res := constants.RecipesResource
	return &Catalog{
		req:    r,
		owner:  owner,
		list:   query.NewQuery[[]models.Recipe](ctx, r, reg, res, constants.TagRecipes),
		create: query.NewMutation[models.Recipe](r, reg, http.MethodPost, res, constants.TagRecipes),
		update: query.NewMutation[models.Recipe](r, reg, http.MethodPut, res, constants.TagRecipes),
		remove: query.NewMutation[struct{}](r, reg, http.MethodDelete, res, constants.TagRecipes),
	}
}

func (c *Catalog) Start() { c.list.Start() }
func (c *Catalog) Wait()  { c.list.Wait() }
func (c *Catalog) Close() { c.list.Close() }

func (c *Catalog) State() query.QueryState[[]models.Recipe] {
	return c.list.State()
}

func (c *Catalog) Err() error {
	return c.list.Err()
}

// Search returns the recipes whose title contains q, ignoring case. An empty
// q matches everything. Results are ordered by title.
func (c *Catalog) Search(q string) []models.Recipe {
	return SearchRecipes(c.list.State().Data, q)
}

// Owns reports whether the signed-in user created rec.
func (c *Catalog) Owns(rec models.Recipe) bool {
	return c.owner == "" || rec.UserID.String() == c.owner
}

// Get fetches one recipe by id.
func (c *Catalog) Get(ctx context.Context, id string) (models.Recipe, error) {
	body, err := c.req.Request(ctx, recipePath(id), api.RequestOptions{})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return models.Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
		}
		return models.Recipe{}, err
	}
	return api.Decode[models.Recipe](body)
}

func (c *Catalog) Create(ctx context.Context, in models.RecipeInput) (models.Recipe, error) {
	if err := validation.Check(in); err != nil {
		return models.Recipe{}, err
	}
	rec, err := c.create.Mutate(ctx, in)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	logger.Info("recipe created", "id", rec.ID, "title", rec.Title)
	return rec, nil
}

// Update replaces the recipe's fields with in.
func (c *Catalog) Update(ctx context.Context, id string, in models.RecipeInput) (models.Recipe, error) {
	if err := validation.Check(in); err != nil {
		return models.Recipe{}, err
	}
	if err := c.checkOwner(ctx, id); err != nil {
		return models.Recipe{}, err
	}
	rec, err := c.update.Mutate(ctx, in, recipePath(id))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe %s: %w", id, err)
	}
	return rec, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.checkOwner(ctx, id); err != nil {
		return err
	}
	if _, err := c.remove.Mutate(ctx, nil, recipePath(id)); err != nil {
		return fmt.Errorf("deleting recipe %s: %w", id, err)
	}
	logger.Info("recipe deleted", "id", id)
	return nil
}

func (c *Catalog) checkOwner(ctx context.Context, id string) error {
	if c.owner == "" {
		return nil
	}
	rec, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if !c.Owns(rec) {
		return ErrNotOwner
	}
	return nil
}

// SearchRecipes filters recipes by a case-insensitive title substring.
func SearchRecipes(recipes []models.Recipe, q string) []models.Recipe {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if q == "" || strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

func recipePath(id string) string {
	return constants.RecipesResource + "/" + url.PathEscape(id)
}
