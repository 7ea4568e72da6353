package search

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/registry"
)

// fakeSearcher answers from a table; queries listed in gates block until the
// gate is closed, ignoring cancellation to mimic an uncooperative backend.
type fakeSearcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string][]model.Crate
	errs    map[string]error
	calls   atomic.Int32
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		gates:   make(map[string]chan struct{}),
		results: make(map[string][]model.Crate),
		errs:    make(map[string]error),
	}
}

func (f *fakeSearcher) gate(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[query] = ch
	return ch
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]model.Crate, int, error) {
	f.calls.Add(1)
	f.mu.Lock()
	gate := f.gates[query]
	crates := f.results[query]
	err := f.errs[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, 0, err
	}
	return crates, len(crates), nil
}

type panicSearcher struct{}

func (panicSearcher) Search(context.Context, string, int) ([]model.Crate, int, error) {
	panic("boom")
}

// pollUntil polls d until a result arrives or the timeout expires
func pollUntil(t *testing.T, d *Dispatcher, timeout time.Duration) Result {
	t.Helper()
	var res Result
	require.Eventually(t, func() bool {
		var ok bool
		res, ok = d.Poll()
		return ok
	}, timeout, time.Millisecond)
	return res
}

func TestPollBeforeCompletionReturnsNothing(t *testing.T) {
	f := newFakeSearcher()
	gate := f.gate("serde")
	d := New(f)
	defer d.Close()

	gen := d.Submit("serde")
	assert.Equal(t, uint64(1), gen)

	_, ok := d.Poll()
	assert.False(t, ok)
	assert.True(t, d.Pending())

	close(gate)
	res := pollUntil(t, d, time.Second)
	assert.Equal(t, "serde", res.Query)
}

func TestResultDeliveredExactlyOnce(t *testing.T) {
	f := newFakeSearcher()
	f.results["serde"] = []model.Crate{{Name: "serde", MaxVersion: "1.0.210"}}
	d := New(f)
	defer d.Close()

	d.Submit("serde")
	res := pollUntil(t, d, time.Second)

	require.NoError(t, res.Err)
	require.NotNil(t, res.Results)
	assert.Equal(t, []string{"serde"}, res.Results.Names())
	assert.Equal(t, uint64(1), res.Results.Generation)
	assert.False(t, d.Pending())

	_, ok := d.Poll()
	assert.False(t, ok, "second poll must return nothing")
}

func TestLatestSubmissionWins(t *testing.T) {
	f := newFakeSearcher()
	fooGate := f.gate("foo")
	f.results["foo"] = []model.Crate{{Name: "foo"}}
	f.results["bar"] = []model.Crate{{Name: "bar"}}
	d := New(f)
	defer d.Close()

	d.Submit("foo")
	barGen := d.Submit("bar")

	res := pollUntil(t, d, time.Second)
	assert.Equal(t, "bar", res.Query)
	assert.Equal(t, barGen, res.Generation)

	// foo finishes after bar; its result must never surface
	close(fooGate)
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		if late, ok := d.Poll(); ok {
			t.Fatalf("stale result delivered: %+v", late)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSupersededWorkerContextIsCancelled(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	s := searcherFunc(func(ctx context.Context, query string, _ int) ([]model.Crate, int, error) {
		if query == "slow" {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return nil, 0, ctx.Err()
		}
		return nil, 0, nil
	})
	d := New(s)
	defer d.Close()

	d.Submit("slow")
	<-started
	d.Submit("fast")

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded search was not cancelled")
	}

	res := pollUntil(t, d, time.Second)
	assert.Equal(t, "fast", res.Query)
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	f := newFakeSearcher()
	d := New(f)
	defer d.Close()

	d.Submit("")
	res := pollUntil(t, d, time.Second)

	require.NoError(t, res.Err)
	require.NotNil(t, res.Results)
	assert.True(t, res.Results.IsEmpty())
	assert.NotNil(t, res.Results.Crates)
}

func TestRegistryFailureIsDeliveredAsError(t *testing.T) {
	f := newFakeSearcher()
	f.errs["serde"] = &registry.Error{StatusCode: http.StatusServiceUnavailable, Detail: "maintenance"}
	d := New(f)
	defer d.Close()

	d.Submit("serde")
	res := pollUntil(t, d, time.Second)

	require.Error(t, res.Err)
	assert.Nil(t, res.Results)

	var searchErr *Error
	require.True(t, errors.As(res.Err, &searchErr))
	assert.Equal(t, "serde", searchErr.Query)

	var regErr *registry.Error
	require.True(t, errors.As(res.Err, &regErr))
	assert.Equal(t, http.StatusServiceUnavailable, regErr.StatusCode)
}

func TestPanickingSearcherDoesNotCrash(t *testing.T) {
	d := New(panicSearcher{})
	defer d.Close()

	d.Submit("boom")
	res := pollUntil(t, d, time.Second)

	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, ErrWorkerPanic))
}

func TestTimeoutSurfacesAsError(t *testing.T) {
	s := searcherFunc(func(ctx context.Context, _ string, _ int) ([]model.Crate, int, error) {
		<-ctx.Done()
		return nil, 0, ctx.Err()
	})
	d := New(s, WithTimeout(20*time.Millisecond))
	defer d.Close()

	d.Submit("slow")
	res := pollUntil(t, d, time.Second)
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))
}

func TestStressSubmissions(t *testing.T) {
	f := newFakeSearcher()
	d := New(f)
	defer d.Close()

	const submissions = 50
	var last uint64
	for i := 0; i < submissions; i++ {
		last = d.Submit("q")
	}
	assert.Equal(t, uint64(submissions), last)

	delivered := 0
	require.Eventually(t, func() bool {
		if _, ok := d.Poll(); ok {
			delivered++
		}
		return !d.Pending()
	}, 2*time.Second, time.Millisecond)

	// give straggling workers a moment, then drain
	time.Sleep(20 * time.Millisecond)
	for {
		if _, ok := d.Poll(); !ok {
			break
		}
		delivered++
	}

	assert.Equal(t, 1, delivered)
	assert.LessOrEqual(t, delivered, submissions)
}

func TestNotifyIsCalledAfterEnqueue(t *testing.T) {
	f := newFakeSearcher()
	f.results["serde"] = []model.Crate{{Name: "serde"}}

	woke := make(chan struct{}, 1)
	d := New(f, WithNotify(func() {
		woke <- struct{}{}
	}))
	defer d.Close()

	d.Submit("serde")

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("notify was not called")
	}

	res, ok := d.Poll()
	require.True(t, ok, "result must be pollable once notify fired")
	assert.Equal(t, "serde", res.Query)
}

func TestLimitIsPassedToSearcher(t *testing.T) {
	got := make(chan int, 1)
	s := searcherFunc(func(_ context.Context, _ string, limit int) ([]model.Crate, int, error) {
		got <- limit
		return nil, 0, nil
	})

	d := New(s)
	d.Submit("x")
	assert.Equal(t, DefaultLimit, <-got)
	d.Close()

	d = New(s, WithLimit(10))
	d.Submit("x")
	assert.Equal(t, 10, <-got)
	d.Close()
}

func TestClosedDispatcherIgnoresSubmit(t *testing.T) {
	f := newFakeSearcher()
	d := New(f)
	d.Close()

	assert.Equal(t, uint64(0), d.Submit("serde"))
	assert.False(t, d.Pending())
	assert.Equal(t, int32(0), f.calls.Load())
}

type searcherFunc func(ctx context.Context, query string, limit int) ([]model.Crate, int, error)

func (f searcherFunc) Search(ctx context.Context, query string, limit int) ([]model.Crate, int, error) {
	return f(ctx, query, limit)
}
