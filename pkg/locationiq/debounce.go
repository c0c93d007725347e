package locationiq

import (
	"context"
	"sync"
	"time"

	"github.com/tagmail/contact-cli/internal/model"
)

// SearchResult delivers the outcome of one dispatched search to the
// debouncer's subscriber.
type SearchResult struct {
	Query   string
	Options []model.LocationOption
	Err     error
}

// Debouncer coalesces keystroke-driven queries so that only the query
// standing after a quiet period reaches the network, and discards responses
// from stale dispatches so the subscriber only ever observes results for the
// most recently dispatched query (last-dispatched-wins, not last-arrived).
type Debouncer struct {
	client  Client
	delay   time.Duration
	onEvent func(SearchResult)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	gen     uint64 // newest dispatched generation
	stopped bool
}

// NewDebouncer wraps client with a debounce window. onEvent receives results
// for non-stale dispatches; it is called from the dispatch goroutine.
func NewDebouncer(client Client, delay time.Duration, onEvent func(SearchResult)) *Debouncer {
	if delay <= 0 {
		delay = 400 * time.Millisecond
	}
	return &Debouncer{client: client, delay: delay, onEvent: onEvent}
}

// Update records a new keystroke value and (re)arms the quiet-period timer.
// When the timer fires, the query recorded at that instant is dispatched.
// An empty query delivers an empty result immediately with no network call.
func (d *Debouncer) Update(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = query
	if d.timer != nil {
		d.timer.Stop()
	}

	if query == "" {
		d.gen++
		d.timer = nil
		go d.onEvent(SearchResult{Query: ""})
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.dispatch(ctx)
	})
}

// dispatch issues the network call for the pending query under a fresh
// generation, then delivers the result unless a newer dispatch has started.
func (d *Debouncer) dispatch(ctx context.Context) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	query := d.pending
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	options, err := d.client.Search(ctx, query)

	d.mu.Lock()
	stale := gen != d.gen || d.stopped
	d.mu.Unlock()
	if stale {
		return
	}

	d.onEvent(SearchResult{Query: query, Options: options, Err: err})
}

// Stop cancels any pending timer and marks the debouncer stopped. In-flight
// requests run to completion but their results are discarded; Stop does not
// guarantee network abort, only that the subscriber sees nothing further.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
