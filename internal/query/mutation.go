package query

import (
	"context"
	"sync"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/logger"
)

// MutationState is a snapshot of a mutation.
type MutationState[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     string
}

// Mutation performs writes against a resource and invalidates its tags on success.
type Mutation[T any] struct {
	req      api.Requester
	reg      *Registry
	method   string
	resource string
	tags     []string

	mu       sync.Mutex
	state    MutationState[T]
	inflight int
}

// NewMutation creates a mutation issuing method against resource. Successful
// calls invalidate every tag in tags.
func NewMutation[T any](r api.Requester, reg *Registry, method, resource string, tags ...string) *Mutation[T] {
	return &Mutation[T]{
		req:      r,
		reg:      reg,
		method:   method,
		resource: resource,
		tags:     tags,
	}
}

// Mutate sends body and returns the decoded response. A non-empty
// resourceOverride targets a different path for this call only, e.g. a
// record's own URL for a delete. Request failures are recorded in the state
// and returned so callers can skip follow-on work.
func (m *Mutation[T]) Mutate(ctx context.Context, body any, resourceOverride ...string) (T, error) {
	resource := m.resource
	if len(resourceOverride) > 0 && resourceOverride[0] != "" {
		resource = resourceOverride[0]
	}

	m.mu.Lock()
	m.inflight++
	m.state.Loading = true
	m.state.Err = ""
	m.mu.Unlock()

	raw, err := m.req.Request(ctx, resource, api.RequestOptions{Method: m.method, Body: body})
	if err != nil {
		m.mu.Lock()
		m.inflight--
		m.state.Loading = m.inflight > 0
		m.state.Err = err.Error()
		m.mu.Unlock()
		logger.Warn("mutation failed", "method", m.method, "resource", resource, "error", err)
		var zero T
		return zero, err
	}

	// The write landed; a body that does not decode leaves Data empty.
	data, derr := api.Decode[T](raw)
	if derr != nil {
		logger.Warn("mutation response not understood", "method", m.method, "resource", resource, "error", derr)
	}

	m.mu.Lock()
	m.inflight--
	m.state.Loading = m.inflight > 0
	m.state.Data = data
	m.state.HasData = derr == nil
	m.mu.Unlock()

	if m.reg != nil && len(m.tags) > 0 {
		m.reg.Invalidate(m.tags...)
	}
	return data, nil
}

// State returns the current snapshot.
func (m *Mutation[T]) State() MutationState[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
