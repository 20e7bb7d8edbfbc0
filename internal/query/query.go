package query

import (
	"context"
	"sync"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/logger"
)

// QueryState is a snapshot of a query. Data is only meaningful when HasData is set.
type QueryState[T any] struct {
	Resource string
	Data     T
	HasData  bool
	Loading  bool
	Err      string
}

// Query keeps the decoded result of a GET against a resource up to date.
//
// Every fetch supersedes the previous one: the older request's context is
// cancelled and its result, should it still arrive, is discarded. Changing the
// resource clears Data before the new fetch starts so a result is never shown
// under the wrong resource.
type Query[T any] struct {
	req api.Requester
	reg *Registry
	tag string

	mu       sync.Mutex
	ctx      context.Context
	stop     context.CancelFunc
	sub      *Subscription
	resource string
	state    QueryState[T]
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
	lastErr  error
	version  uint64
	wg       sync.WaitGroup
	observer func(QueryState[T])

	notifyMu  sync.Mutex
	delivered uint64
}

// NewQuery creates a query for resource. Nothing is fetched until Start.
// Fetches run under ctx; cancelling it has the same effect as Close for any
// in-flight request. An empty tag or nil registry skips registration.
func NewQuery[T any](ctx context.Context, r api.Requester, reg *Registry, resource, tag string) *Query[T] {
	qctx, stop := context.WithCancel(ctx)
	return &Query[T]{
		req:      r,
		reg:      reg,
		tag:      tag,
		ctx:      qctx,
		stop:     stop,
		resource: resource,
		state:    QueryState[T]{Resource: resource},
	}
}

// OnChange sets the observer called after every state transition. Snapshots
// are delivered in order; a snapshot older than one already delivered is dropped.
func (q *Query[T]) OnChange(fn func(QueryState[T])) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.observer = fn
}

// Start registers the query under its tag and performs the initial fetch.
func (q *Query[T]) Start() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if q.reg != nil && q.tag != "" {
		if q.sub == nil {
			q.sub = q.reg.Subscribe(q.tag, q.Refetch)
		} else {
			q.sub.Replace(q.Refetch)
		}
	}
	q.mu.Unlock()

	q.fetch(false)
}

// SetResource points the query at a new resource and fetches it. Setting the
// current resource again is a no-op.
func (q *Query[T]) SetResource(resource string) {
	q.mu.Lock()
	if q.closed || resource == q.resource {
		q.mu.Unlock()
		return
	}
	q.resource = resource
	q.mu.Unlock()

	q.fetch(true)
}

// Refetch reloads the current resource, keeping Data until the result arrives.
func (q *Query[T]) Refetch() {
	q.fetch(false)
}

// Update applies fn to Data for an optimistic change and reports whether it
// did. It only applies while a fetch is in flight, since that fetch replaces
// Data when it lands; once it has landed, Data already reflects the server.
func (q *Query[T]) Update(fn func(T) T) bool {
	q.mu.Lock()
	if q.closed || !q.state.Loading {
		q.mu.Unlock()
		return false
	}
	q.state.Data = fn(q.state.Data)
	q.state.HasData = true
	snap, v := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snap, v)
	return true
}

// State returns the current snapshot.
func (q *Query[T]) State() QueryState[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Err returns the error of the last settled fetch, or nil. Unlike the
// state's Err string it keeps the error's type for errors.Is and errors.As.
func (q *Query[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErr
}

// Resource returns the resource the query currently targets.
func (q *Query[T]) Resource() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resource
}

// Wait blocks until every fetch started so far has settled.
func (q *Query[T]) Wait() {
	q.wg.Wait()
}

// Close cancels any in-flight fetch, drops the tag registration and freezes
// the state. It is safe to call more than once.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	sub := q.sub
	q.sub = nil
	q.mu.Unlock()

	q.stop()
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (q *Query[T]) fetch(reset bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if q.cancel != nil {
		q.cancel()
	}
	q.gen++
	gen := q.gen
	ctx, cancel := context.WithCancel(q.ctx)
	q.cancel = cancel
	resource := q.resource

	if reset {
		var zero T
		q.state.Data = zero
		q.state.HasData = false
	}
	q.state.Resource = resource
	q.state.Loading = true
	q.state.Err = ""
	snap, v := q.snapshotLocked()
	q.wg.Add(1)
	q.mu.Unlock()

	q.notify(snap, v)

	go func() {
		defer q.wg.Done()
		defer cancel()

		body, err := q.req.Request(ctx, resource, api.RequestOptions{})
		var data T
		if err == nil {
			data, err = api.Decode[T](body)
		}

		q.mu.Lock()
		if q.closed || gen != q.gen {
			q.mu.Unlock()
			logger.Debug("discarding superseded response", "resource", resource)
			return
		}
		q.state.Loading = false
		q.lastErr = err
		if err != nil {
			q.state.Err = err.Error()
		} else {
			q.state.Data = data
			q.state.HasData = true
		}
		snap, v := q.snapshotLocked()
		q.mu.Unlock()

		if err != nil {
			logger.Warn("query failed", "resource", resource, "error", err)
		}
		q.notify(snap, v)
	}()
}

func (q *Query[T]) snapshotLocked() (QueryState[T], uint64) {
	q.version++
	return q.state, q.version
}

func (q *Query[T]) notify(s QueryState[T], v uint64) {
	q.mu.Lock()
	fn := q.observer
	q.mu.Unlock()
	if fn == nil {
		return
	}

	q.notifyMu.Lock()
	defer q.notifyMu.Unlock()
	if v <= q.delivered {
		return
	}
	q.delivered = v
	fn(s)
}
