package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ytget/cargo-manager/internal/model"
)

// Dispatcher defaults
const (
	DefaultLimit   = 64
	DefaultTimeout = 30 * time.Second
)

// ErrWorkerPanic is wrapped into Result.Err when a searcher panics
var ErrWorkerPanic = errors.New("search worker panicked")

// Searcher performs one blocking registry query
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.Crate, int, error)
}

// Result is the message a worker hands back to the UI goroutine. Exactly one
// of Results and Err is set.
type Result struct {
	Generation uint64
	Query      string
	Results    *model.ResultSet
	Err        error
}

// Error wraps a failed search with the query that caused it
type Error struct {
	Query      string
	Generation uint64
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("search %q failed: %v", e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Dispatcher runs registry searches off the UI goroutine and hands results
// back through a non-blocking Poll. Every Submit starts a new generation;
// only the latest generation's result is ever returned by Poll, and it is
// returned once.
type Dispatcher struct {
	searcher Searcher
	limit    int
	timeout  time.Duration
	notify   func()

	mu         sync.Mutex
	generation uint64 // latest submitted
	delivered  uint64 // latest returned by Poll
	cancel     context.CancelFunc
	closed     bool

	results chan Result
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLimit sets the page size passed to the searcher
func WithLimit(limit int) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.limit = limit
		}
	}
}

// WithTimeout bounds a single search. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout >= 0 {
			d.timeout = timeout
		}
	}
}

// WithNotify registers a wake-up hook called by a worker after its result is
// queued. The hook runs on the worker goroutine; UI code should schedule the
// actual Poll onto its own goroutine.
func WithNotify(notify func()) Option {
	return func(d *Dispatcher) {
		d.notify = notify
	}
}

// New creates a dispatcher around searcher
func New(searcher Searcher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		searcher: searcher,
		limit:    DefaultLimit,
		timeout:  DefaultTimeout,
		results:  make(chan Result, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit starts a search for query and returns its generation. The previous
// worker, if any, is cancelled and its result will be discarded.
func (d *Dispatcher) Submit(query string) uint64 {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	gen := d.generation
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	go d.work(ctx, gen, query)
	return gen
}

// Poll returns the current generation's result if it has arrived and has not
// been returned before. It never blocks.
func (d *Dispatcher) Poll() (Result, bool) {
	var out Result
	found := false
	for {
		select {
		case res := <-d.results:
			d.mu.Lock()
			current := res.Generation == d.generation && res.Generation > d.delivered
			if current {
				d.delivered = res.Generation
			}
			d.mu.Unlock()

			if current {
				out, found = res, true
			} else {
				log.Printf("search: dropping stale result for %q (generation %d)", res.Query, res.Generation)
			}
		default:
			return out, found
		}
	}
}

// Pending reports whether the latest submitted search has not been delivered yet
func (d *Dispatcher) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.delivered < d.generation
}

// Generation returns the generation of the latest submitted search
func (d *Dispatcher) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Close cancels the running search. Later Submit calls are ignored.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Dispatcher) isCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && gen == d.generation
}

// work runs on its own goroutine. ctx is cancelled when the search is superseded.
func (d *Dispatcher) work(ctx context.Context, gen uint64, query string) {
	res := d.search(ctx, gen, query)

	if !d.isCurrent(gen) {
		return
	}

	select {
	case d.results <- res:
		if d.notify != nil {
			d.notify()
		}
	case <-ctx.Done():
	}
}

func (d *Dispatcher) search(ctx context.Context, gen uint64, query string) (res Result) {
	res = Result{Generation: gen, Query: query}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("search: worker for %q panicked: %v", query, r)
			res.Results = nil
			res.Err = &Error{Query: query, Generation: gen, Err: fmt.Errorf("%w: %v", ErrWorkerPanic, r)}
		}
	}()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	crates, total, err := d.searcher.Search(ctx, query, d.limit)
	if err != nil {
		res.Err = &Error{Query: query, Generation: gen, Err: err}
		return res
	}

	res.Results = model.NewResultSet(query, gen, crates, total)
	return res
}
