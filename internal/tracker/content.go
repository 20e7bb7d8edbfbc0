package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/query"
	"github.com/julianstephens/wellday/internal/validation"
)

// SyncRules fetches every category's encouragements concurrently and merges
// their messages into rules. A category that fails to load keeps its
// built-in messages.
func SyncRules(ctx context.Context, r api.Requester, rules []milestone.Rule) []milestone.Rule {
	var (
		mu  sync.Mutex
		all []models.Encouragement
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range constants.Categories {
		g.Go(func() error {
			body, err := r.Request(gctx, "/encouragements?category="+url.QueryEscape(c.Title()), api.RequestOptions{})
			if err != nil {
				logger.Warn("failed to load encouragements", "category", c, "error", err)
				return nil
			}
			list, err := api.Decode[[]models.Encouragement](body)
			if err != nil {
				logger.Warn("failed to decode encouragements", "category", c, "error", err)
				return nil
			}
			mu.Lock()
			all = append(all, list...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return milestone.MergeMessages(rules, all)
}

// Tips returns the health tips for a category.
func Tips(ctx context.Context, r api.Requester, c constants.Category) ([]models.Tip, error) {
	body, err := r.Request(ctx, "/health_tips/category/"+url.PathEscape(string(c)), api.RequestOptions{})
	if err != nil {
		return nil, err
	}
	return api.Decode[[]models.Tip](body)
}

// Affirmations returns every affirmation the backend offers.
func Affirmations(ctx context.Context, r api.Requester) ([]models.Affirmation, error) {
	body, err := r.Request(ctx, "/affirmations", api.RequestOptions{})
	if err != nil {
		return nil, err
	}
	return api.Decode[[]models.Affirmation](body)
}

// Profile is the controller for the user's health info.
type Profile struct {
	info   *query.Query[[]models.HealthInfo]
	create *query.Mutation[models.HealthInfo]
	update *query.Mutation[models.HealthInfo]
}

func NewProfile(ctx context.Context, r api.Requester, reg *query.Registry) *Profile {
	return &Profile{
		info:   query.NewQuery[[]models.HealthInfo](ctx, r, reg, "/health_info", constants.TagHealthInfo),
		create: query.NewMutation[models.HealthInfo](r, reg, http.MethodPost, "/health_info", constants.TagHealthInfo),
		update: query.NewMutation[models.HealthInfo](r, reg, http.MethodPut, "/health_info", constants.TagHealthInfo),
	}
}

func (p *Profile) Start() { p.info.Start() }
func (p *Profile) Wait()  { p.info.Wait() }
func (p *Profile) Close() { p.info.Close() }

// State is the health info query's snapshot.
func (p *Profile) State() query.QueryState[[]models.HealthInfo] {
	return p.info.State()
}

// Err returns the last fetch error, or nil.
func (p *Profile) Err() error {
	return p.info.Err()
}

// Current returns the stored health info, if any.
func (p *Profile) Current() (models.HealthInfo, bool) {
	rows := p.info.State().Data
	if len(rows) == 0 {
		return models.HealthInfo{}, false
	}
	return rows[0], true
}

// Save creates the health info, or updates it when one is already stored.
// Every field is required.
func (p *Profile) Save(ctx context.Context, info models.HealthInfo) (models.HealthInfo, error) {
	if err := validation.Check(info); err != nil {
		return models.HealthInfo{}, err
	}

	p.info.Wait()
	current, ok := p.Current()
	if ok && current.ID != "" {
		info.ID = ""
		saved, err := p.update.Mutate(ctx, info, "/health_info/"+url.PathEscape(current.ID.String()))
		if err != nil {
			return models.HealthInfo{}, fmt.Errorf("updating health info: %w", err)
		}
		return saved, nil
	}

	saved, err := p.create.Mutate(ctx, info)
	if err != nil {
		return models.HealthInfo{}, fmt.Errorf("saving health info: %w", err)
	}
	return saved, nil
}
