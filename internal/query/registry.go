package query

import (
	"sort"
	"sync"
)

// Registry maps invalidation tags to the refetch callbacks of live queries.
// Any number of subscriptions may share a tag; each is independent.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	tags   map[string]map[uint64]func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]map[uint64]func())}
}

// Subscription is one registration under a tag.
type Subscription struct {
	reg *Registry
	tag string
	id  uint64
}

// Subscribe registers fn under tag and returns a handle for replacing or
// removing the registration.
func (r *Registry) Subscribe(tag string, fn func()) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	subs, ok := r.tags[tag]
	if !ok {
		subs = make(map[uint64]func())
		r.tags[tag] = subs
	}
	subs[id] = fn
	return &Subscription{reg: r, tag: tag, id: id}
}

// Invalidate synchronously calls every live callback registered under each
// tag. Callbacks run outside the lock in subscription order, so a callback may
// itself subscribe or unsubscribe. Registrations survive invalidation.
func (r *Registry) Invalidate(tags ...string) {
	var fns []func()

	r.mu.Lock()
	seen := make(map[uint64]bool)
	for _, tag := range tags {
		subs := r.tags[tag]
		ids := make([]uint64, 0, len(subs))
		for id := range subs {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			fns = append(fns, subs[id])
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of live registrations under tag.
func (r *Registry) Len(tag string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tags[tag])
}

// Tag returns the tag the subscription was made under.
func (s *Subscription) Tag() string {
	return s.tag
}

// Replace swaps the callback of this registration, leaving every other
// registration under the same tag untouched.
func (s *Subscription) Replace(fn func()) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	if subs, ok := s.reg.tags[s.tag]; ok {
		if _, live := subs[s.id]; live {
			subs[s.id] = fn
		}
	}
}

// Unsubscribe removes the registration. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	subs, ok := s.reg.tags[s.tag]
	if !ok {
		return
	}
	delete(subs, s.id)
	if len(subs) == 0 {
		delete(s.reg.tags, s.tag)
	}
}
