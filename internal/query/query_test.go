package query

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wellday/internal/api"
)

type response struct {
	body string
	err  error
}

// fakeRequester serves canned responses per path. A gated path blocks until
// a response is sent on its gate, ignoring cancellation, which models a late
// network reply.
type fakeRequester struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string]response
	gates     map[string]chan response
	methods   []string
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{
		calls:     make(map[string]int),
		responses: make(map[string]response),
		gates:     make(map[string]chan response),
	}
}

func (f *fakeRequester) set(path, body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = response{body: body, err: err}
}

func (f *fakeRequester) gate(path string) chan response {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan response, 1)
	f.gates[path] = ch
	return ch
}

func (f *fakeRequester) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeRequester) Request(ctx context.Context, path string, opts api.RequestOptions) ([]byte, error) {
	f.mu.Lock()
	f.calls[path]++
	f.methods = append(f.methods, opts.Method)
	resp := f.responses[path]
	gate := f.gates[path]
	delete(f.gates, path)
	f.mu.Unlock()

	if gate != nil {
		resp = <-gate
	}
	if resp.err != nil {
		return nil, resp.err
	}
	if resp.body == "" {
		return nil, nil
	}
	return []byte(resp.body), nil
}

type entry struct {
	Date     string  `json:"date"`
	AmountOz float64 `json:"amount_oz"`
}

func TestQueryFetchesOnStart(t *testing.T) {
	f := newFakeRequester()
	f.set("/water_logs", `[{"date":"2025-06-01","amount_oz":32}]`, nil)

	q := NewQuery[[]entry](context.Background(), f, NewRegistry(), "/water_logs", "water_logs")
	defer q.Close()
	q.Start()
	q.Wait()

	s := q.State()
	require.True(t, s.HasData)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Err)
	assert.Equal(t, []entry{{Date: "2025-06-01", AmountOz: 32}}, s.Data)
	assert.Equal(t, 1, f.count("/water_logs"))
}

func TestQueryUpdateWhileFetching(t *testing.T) {
	f := newFakeRequester()
	f.set("/water_logs", `[]`, nil)

	q := NewQuery[[]entry](context.Background(), f, nil, "/water_logs", "")
	defer q.Close()
	q.Start()
	q.Wait()

	add := func(es []entry) []entry { return append(es, entry{Date: "2025-06-02", AmountOz: 16}) }
	assert.False(t, q.Update(add), "settled data already reflects the server")
	assert.Empty(t, q.State().Data)

	gate := f.gate("/water_logs")
	q.Refetch()
	require.True(t, q.Update(add))
	assert.Equal(t, []entry{{Date: "2025-06-02", AmountOz: 16}}, q.State().Data)

	gate <- response{body: `[{"date":"2025-06-02","amount_oz":16},{"date":"2025-06-02","amount_oz":8}]`}
	q.Wait()
	assert.Len(t, q.State().Data, 2, "the fetch result replaces the optimistic data")

	q.Close()
	assert.False(t, q.Update(func([]entry) []entry { return nil }))
	assert.Len(t, q.State().Data, 2)
}

func TestQueryErrorKeepsData(t *testing.T) {
	f := newFakeRequester()
	f.set("/water_logs", `[{"date":"2025-06-01","amount_oz":8}]`, nil)

	q := NewQuery[[]entry](context.Background(), f, nil, "/water_logs", "")
	defer q.Close()
	q.Start()
	q.Wait()
	before := q.State().Data

	gate := f.gate("/water_logs")
	q.Refetch()

	s := q.State()
	assert.True(t, s.Loading)
	assert.Equal(t, before, s.Data, "data must survive while a refetch is in flight")

	gate <- response{err: &api.Error{Status: http.StatusInternalServerError, Message: "database unavailable"}}
	q.Wait()

	s = q.State()
	assert.False(t, s.Loading)
	assert.Equal(t, "database unavailable", s.Err)
	assert.Equal(t, before, s.Data)
	assert.True(t, s.HasData)

	var apiErr *api.Error
	require.ErrorAs(t, q.Err(), &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	q.Refetch()
	q.Wait()
	assert.NoError(t, q.Err(), "a successful fetch clears the error")
}

func TestQueryResourceChangeClearsData(t *testing.T) {
	f := newFakeRequester()
	f.set("/a", `[{"date":"2025-06-01","amount_oz":1}]`, nil)
	f.set("/b", `[{"date":"2025-06-02","amount_oz":2}]`, nil)

	q := NewQuery[[]entry](context.Background(), f, nil, "/a", "")
	defer q.Close()
	q.Start()
	q.Wait()

	gate := f.gate("/b")
	q.SetResource("/b")

	s := q.State()
	assert.True(t, s.Loading)
	assert.False(t, s.HasData)
	assert.Nil(t, s.Data)
	assert.Equal(t, "/b", s.Resource)

	gate <- response{body: `[{"date":"2025-06-02","amount_oz":2}]`}
	q.Wait()
	assert.Equal(t, []entry{{Date: "2025-06-02", AmountOz: 2}}, q.State().Data)

	q.SetResource("/b")
	q.Wait()
	assert.Equal(t, 1, f.count("/b"), "setting the same resource must not refetch")
}

func TestQueryLastRequestWins(t *testing.T) {
	f := newFakeRequester()
	f.set("/b", `[{"date":"2025-06-02","amount_oz":2}]`, nil)
	gateA := f.gate("/a")

	q := NewQuery[[]entry](context.Background(), f, nil, "/a", "")
	defer q.Close()
	q.Start()
	q.SetResource("/b")

	require.Eventually(t, func() bool { return q.State().HasData }, time.Second, time.Millisecond)

	// A resolves after B.
	gateA <- response{body: `[{"date":"2025-06-01","amount_oz":1}]`}
	q.Wait()

	s := q.State()
	assert.Equal(t, "/b", s.Resource)
	assert.Equal(t, []entry{{Date: "2025-06-02", AmountOz: 2}}, s.Data)
	assert.False(t, s.Loading)
}

func TestQueryCloseDropsLateResults(t *testing.T) {
	f := newFakeRequester()
	reg := NewRegistry()
	gate := f.gate("/a")

	q := NewQuery[[]entry](context.Background(), f, reg, "/a", "a")
	q.Start()
	require.Equal(t, 1, reg.Len("a"))

	q.Close()
	assert.Equal(t, 0, reg.Len("a"))

	gate <- response{body: `[{"date":"2025-06-01","amount_oz":1}]`}
	q.Wait()
	assert.False(t, q.State().HasData)

	reg.Invalidate("a")
	assert.Equal(t, 1, f.count("/a"), "closed query must not refetch")
	q.Close()
}

func TestQueryObserverSeesOrderedStates(t *testing.T) {
	f := newFakeRequester()
	f.set("/a", `[]`, nil)

	var mu sync.Mutex
	var seen []QueryState[[]entry]

	q := NewQuery[[]entry](context.Background(), f, nil, "/a", "")
	defer q.Close()
	q.OnChange(func(s QueryState[[]entry]) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})
	q.Start()
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.True(t, seen[1].HasData)
}

func TestInvalidationRefetchesEachQueryOnce(t *testing.T) {
	f := newFakeRequester()
	f.set("/water_logs?date=2025-06-01", `[]`, nil)
	f.set("/water_logs?start_date=2025-06-01&end_date=2025-06-07", `[]`, nil)
	f.set("/sleep_logs", `[]`, nil)
	f.set("/water_logs", `{"date":"2025-06-01","amount_oz":8}`, nil)
	reg := NewRegistry()

	dash := NewQuery[[]entry](context.Background(), f, reg, "/water_logs?date=2025-06-01", "water_logs")
	week := NewQuery[[]entry](context.Background(), f, reg, "/water_logs?start_date=2025-06-01&end_date=2025-06-07", "water_logs")
	sleep := NewQuery[[]entry](context.Background(), f, reg, "/sleep_logs", "sleep_logs")
	for _, q := range []*Query[[]entry]{dash, week, sleep} {
		q.Start()
		defer q.Close()
	}
	dash.Wait()
	week.Wait()
	sleep.Wait()

	m := NewMutation[entry](f, reg, http.MethodPost, "/water_logs", "water_logs")
	got, err := m.Mutate(context.Background(), entry{Date: "2025-06-01", AmountOz: 8})
	require.NoError(t, err)
	assert.Equal(t, entry{Date: "2025-06-01", AmountOz: 8}, got)

	dash.Wait()
	week.Wait()
	sleep.Wait()

	assert.Equal(t, 2, f.count("/water_logs?date=2025-06-01"))
	assert.Equal(t, 2, f.count("/water_logs?start_date=2025-06-01&end_date=2025-06-07"))
	assert.Equal(t, 1, f.count("/sleep_logs"))
}

func TestMutationFailure(t *testing.T) {
	f := newFakeRequester()
	f.set("/food_logs", ``, &api.Error{Status: http.StatusBadRequest, Message: "food_item is required"})
	f.set("/food_list", `[]`, nil)
	reg := NewRegistry()

	list := NewQuery[[]entry](context.Background(), f, reg, "/food_list", "food_logs")
	list.Start()
	defer list.Close()
	list.Wait()

	m := NewMutation[entry](f, reg, http.MethodPost, "/food_logs", "food_logs")
	_, err := m.Mutate(context.Background(), map[string]any{})
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))

	s := m.State()
	assert.Equal(t, "food_item is required", s.Err)
	assert.False(t, s.Loading)
	assert.False(t, s.HasData)

	list.Wait()
	assert.Equal(t, 1, f.count("/food_list"), "failed mutation must not invalidate")
}

func TestMutationUndecodableSuccessStillInvalidates(t *testing.T) {
	f := newFakeRequester()
	f.set("/exercise_logs/7", `[{"id":7}]`, nil)
	f.set("/exercise_list", `[]`, nil)
	reg := NewRegistry()

	list := NewQuery[[]entry](context.Background(), f, reg, "/exercise_list", "exercise_logs")
	list.Start()
	defer list.Close()
	list.Wait()

	m := NewMutation[struct{}](f, reg, http.MethodDelete, "/exercise_logs", "exercise_logs")
	_, err := m.Mutate(context.Background(), nil, "/exercise_logs/7")
	require.NoError(t, err, "the write succeeded, so the call succeeds")

	s := m.State()
	assert.Empty(t, s.Err)
	assert.False(t, s.HasData)
	assert.False(t, s.Loading)

	list.Wait()
	assert.Equal(t, 2, f.count("/exercise_list"), "a committed write must invalidate")
}

func TestMutationResourceOverride(t *testing.T) {
	f := newFakeRequester()
	reg := NewRegistry()
	m := NewMutation[struct{}](f, reg, http.MethodDelete, "/exercise_logs", "exercise_logs")

	_, err := m.Mutate(context.Background(), nil, "/exercise_logs/42")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("/exercise_logs/42"))
	assert.Equal(t, 0, f.count("/exercise_logs"))
	assert.Equal(t, []string{http.MethodDelete}, f.methods)
}

func TestMutationLoadingDuringCall(t *testing.T) {
	f := newFakeRequester()
	gate := f.gate("/water_logs")
	m := NewMutation[entry](f, nil, http.MethodPost, "/water_logs")

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Mutate(context.Background(), entry{Date: "2025-06-01", AmountOz: 8})
	}()

	require.Eventually(t, func() bool { return m.State().Loading }, time.Second, time.Millisecond)
	gate <- response{body: `{"date":"2025-06-01","amount_oz":8}`}
	<-done

	s := m.State()
	assert.False(t, s.Loading)
	assert.True(t, s.HasData)
}
