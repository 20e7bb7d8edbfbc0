// Package tracker ties a category's queries, mutations and milestone rules
// together. A Tracker is what a view talks to: it lists the records of the
// selected window, logs new ones and reports the milestone each one earns.
package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/query"
	"github.com/julianstephens/wellday/internal/validation"
)

// Options configures a Tracker.
type Options struct {
	Requester api.Requester
	Registry  *query.Registry
	Rules     []milestone.Rule
	Window    daterange.Window
	// Now defaults to time.Now. Its location decides calendar days.
	Now func() time.Time
}

// Tracker is the controller for one category.
//
// It holds two queries under the category tag: one over the selected window
// and one over the whole collection, which supplies today's standing and the
// lifetime count for milestones.
type Tracker[R models.Record, In any] struct {
	kind Kind[R, In]
	now  func() time.Time

	list   *query.Query[[]R]
	all    *query.Query[[]R]
	create *query.Mutation[R]
	remove *query.Mutation[struct{}]
	eval   *milestone.Evaluator

	mu     sync.Mutex
	window daterange.Window
}

// New builds a tracker. Nothing is fetched until Start.
func New[R models.Record, In any](ctx context.Context, kind Kind[R, In], opts Options) *Tracker[R, In] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	window := opts.Window
	if window == "" {
		window = daterange.Week
	}
	rules := opts.Rules
	if rules == nil {
		rules = milestone.DefaultRules()
	}

	c := kind.Category
	return &Tracker[R, In]{
		kind:   kind,
		now:    now,
		window: window,
		list:   query.NewQuery[[]R](ctx, opts.Requester, opts.Registry, WindowResource(c, window, now()), c.Tag()),
		all:    query.NewQuery[[]R](ctx, opts.Requester, opts.Registry, c.Resource(), c.Tag()),
		create: query.NewMutation[R](opts.Requester, opts.Registry, http.MethodPost, c.Resource(), c.Tag()),
		remove: query.NewMutation[struct{}](opts.Requester, opts.Registry, http.MethodDelete, c.Resource(), c.Tag()),
		eval:   milestone.NewEvaluator(c, rules),
	}
}

// WindowResource is the collection path filtered to the dates of w.
func WindowResource(c constants.Category, w daterange.Window, now time.Time) string {
	start, end := w.Range(now)
	v := url.Values{}
	if start == end {
		v.Set("date", start)
	} else {
		v.Set("start_date", start)
		v.Set("end_date", end)
	}
	return c.Resource() + "?" + v.Encode()
}

func (t *Tracker[R, In]) Category() constants.Category { return t.kind.Category }

// Start performs the initial fetches.
func (t *Tracker[R, In]) Start() {
	t.list.Start()
	t.all.Start()
}

// Wait blocks until both queries have settled.
func (t *Tracker[R, In]) Wait() {
	t.list.Wait()
	t.all.Wait()
}

// Close cancels in-flight fetches and unregisters both queries.
func (t *Tracker[R, In]) Close() {
	t.list.Close()
	t.all.Close()
}

// OnChange calls fn after any state change of either query.
func (t *Tracker[R, In]) OnChange(fn func()) {
	t.list.OnChange(func(query.QueryState[[]R]) { fn() })
	t.all.OnChange(func(query.QueryState[[]R]) { fn() })
}

func (t *Tracker[R, In]) Window() daterange.Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window
}

// SetWindow switches the listed window and fetches it.
func (t *Tracker[R, In]) SetWindow(w daterange.Window) {
	t.mu.Lock()
	t.window = w
	t.mu.Unlock()
	t.list.SetResource(WindowResource(t.kind.Category, w, t.now()))
}

// Refresh re-targets the window at the current date and refetches both queries.
func (t *Tracker[R, In]) Refresh() {
	resource := WindowResource(t.kind.Category, t.Window(), t.now())
	if resource != t.list.Resource() {
		t.list.SetResource(resource)
	} else {
		t.list.Refetch()
	}
	t.all.Refetch()
}

// State is the window query's snapshot.
func (t *Tracker[R, In]) State() query.QueryState[[]R] {
	return t.list.State()
}

// Err returns the last fetch error of either query, or nil.
func (t *Tracker[R, In]) Err() error {
	if err := t.list.Err(); err != nil {
		return err
	}
	return t.all.Err()
}

// Buckets returns one bucket per day of the window.
func (t *Tracker[R, In]) Buckets() []daterange.DayBucket[R] {
	return daterange.FillMissingDates(t.list.State().Data, t.Window(), t.now())
}

// Summary aggregates the window.
func (t *Tracker[R, In]) Summary() aggregate.Summary {
	return aggregate.Summarize(t.Buckets())
}

// Today returns today's records from the full collection.
func (t *Tracker[R, In]) Today() daterange.DayBucket[R] {
	now := t.now()
	return daterange.FillDates(t.all.State().Data, []string{now.Format(constants.DateFormat)}, now)[0]
}

// Lifetime is the number of logs in the collection. An aggregated row counts
// as every log it stands for.
func (t *Tracker[R, In]) Lifetime() int {
	n := 0
	for _, r := range t.all.State().Data {
		n += entries(r)
	}
	return n
}

// Evaluator exposes the milestone state, mainly for tests and diagnostics.
func (t *Tracker[R, In]) Evaluator() *milestone.Evaluator {
	return t.eval
}

// CreateState is the create mutation's snapshot.
func (t *Tracker[R, In]) CreateState() query.MutationState[R] {
	return t.create.State()
}

// Add validates and logs in, then evaluates milestones against the standing
// before the write. The returned record is the one added to the lists.
func (t *Tracker[R, In]) Add(ctx context.Context, in In) (R, *milestone.Milestone, error) {
	var zero R
	if err := validation.Check(in); err != nil {
		return zero, nil, err
	}
	if t.kind.Prepare != nil {
		prepared, err := t.kind.Prepare(in)
		if err != nil {
			return zero, nil, err
		}
		in = prepared
	}

	t.all.Wait()
	// Without the collection the standing is unknown; evaluating against
	// zeros would re-award milestones already reached.
	known := t.all.State().HasData
	if !known {
		logger.Warn("skipping milestones: history unavailable", "category", t.kind.Category, "error", t.all.Err())
	}
	prev := t.standing(t.kind.Date(in))

	echo, err := t.create.Mutate(ctx, in)
	if err != nil {
		return zero, nil, err
	}

	rec := t.kind.Record(in, echo)
	t.insert(rec)
	if !known {
		return rec, nil, nil
	}

	m := t.eval.Evaluate(prev, rec)
	if m != nil {
		logger.Info("milestone reached", "category", t.kind.Category, "milestone", m.Key)
	}
	return rec, m, nil
}

// Delete removes the record with id.
func (t *Tracker[R, In]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%s log id is required", t.kind.Category)
	}
	resource := t.kind.Category.Resource() + "/" + url.PathEscape(id)
	if _, err := t.remove.Mutate(ctx, nil, resource); err != nil {
		return err
	}

	drop := func(rows []R) []R {
		out := make([]R, 0, len(rows))
		for _, r := range rows {
			if r.RecordID() != id {
				out = append(out, r)
			}
		}
		return out
	}
	t.list.Update(drop)
	t.all.Update(drop)
	return nil
}

// standing computes the milestone state for date from the full collection.
func (t *Tracker[R, In]) standing(date string) milestone.State {
	loc := t.now().Location()
	rows := t.all.State().Data

	var s milestone.State
	for _, r := range rows {
		n := entries(r)
		s.LifetimeCount += n
		day, err := daterange.NormalizeDate(r.RecordDate(), loc)
		if err != nil || day != date {
			continue
		}
		s.DayCount += n
		s.DayTotal += r.Metric()
	}
	return s
}

// entries is how many logs r stands for. Aggregated rows report their own
// count; everything else is a single log.
func entries[R models.Record](r R) int {
	if c, ok := any(r).(interface{ Entries() int }); ok {
		return c.Entries()
	}
	return 1
}

// insert applies rec to both lists ahead of the refetch the mutation triggered.
func (t *Tracker[R, In]) insert(rec R) {
	loc := t.now().Location()
	merge := t.kind.Merge
	if merge == nil {
		merge = func(rows []R, rec R, _ *time.Location) []R {
			return append(append([]R(nil), rows...), rec)
		}
	}
	t.all.Update(func(rows []R) []R { return merge(rows, rec, loc) })

	day, err := daterange.NormalizeDate(rec.RecordDate(), loc)
	if err != nil {
		return
	}
	for _, d := range t.Window().Dates(t.now()) {
		if d == day {
			t.list.Update(func(rows []R) []R { return merge(rows, rec, loc) })
			return
		}
	}
}
