// Package search bounds the request volume typeahead inputs generate
// against the commerce API. Identical queries inside the refresh interval
// are served from cache, concurrent identical queries share one in-flight
// fetch, and every fetch carries a generation stamp so a slow response that
// arrives after a newer one can never overwrite it.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultRefreshInterval matches the console's input debounce.
const DefaultRefreshInterval = 600 * time.Millisecond

// storeWriteTimeout bounds the background persist so a hung store cannot
// pin request goroutines.
const storeWriteTimeout = 2 * time.Second

// Fetcher retrieves the raw search result for a query.
type Fetcher func(ctx context.Context, query string) ([]byte, error)

// Store is an optional shared cache for fetched results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Typeahead guards one search operation.
type Typeahead struct {
	fetch    Fetcher
	store    Store
	interval time.Duration
	ttl      time.Duration

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

type entry struct {
	gen      uint64 // generation of the last issued fetch
	applied  uint64 // generation of the last accepted result
	result   []byte
	err      error
	storedAt time.Time
	issuedAt time.Time
	inflight chan struct{}
}

// New builds a Typeahead. store may be nil; interval and ttl fall back to
// the default refresh interval when non-positive.
func New(fetch Fetcher, store Store, interval, ttl time.Duration) *Typeahead {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if ttl <= 0 {
		ttl = 10 * interval
	}
	return &Typeahead{
		fetch:    fetch,
		store:    store,
		interval: interval,
		ttl:      ttl,
		entries:  make(map[string]*entry),
	}
}

// Normalize canonicalizes a query for cache keying.
func Normalize(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Lookup returns the search result for query, fetching at most once per
// refresh interval per normalized query.
func (t *Typeahead) Lookup(ctx context.Context, query string) ([]byte, error) {
	key := Normalize(query)
	if key == "" {
		return nil, nil
	}

	t.mu.Lock()
	now := time.Now()
	t.sweep(now)

	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	if e.result != nil && now.Sub(e.storedAt) < t.interval {
		result := e.result
		t.mu.Unlock()
		return result, nil
	}

	// Join an in-flight fetch; a fetch older than the interval is treated as
	// stalled and superseded instead of waited on.
	if e.inflight != nil && now.Sub(e.issuedAt) < t.interval {
		ch := e.inflight
		t.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		t.mu.Lock()
		result, err := e.result, e.err
		t.mu.Unlock()
		return result, err
	}

	e.gen++
	gen := e.gen
	ch := make(chan struct{})
	e.inflight = ch
	e.issuedAt = now
	t.mu.Unlock()

	if t.store != nil {
		if body, hit, err := t.store.Get(ctx, key); err == nil && hit {
			t.complete(key, gen, ch, body, nil, false)
			return body, nil
		}
	}

	body, err := t.fetch(ctx, query)
	t.complete(key, gen, ch, body, err, true)
	return body, err
}

// sweep evicts entries that outlived the TTL so the map cannot grow without
// bound on arbitrary query input. Runs at most once per TTL; the caller
// holds t.mu.
func (t *Typeahead) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < t.ttl {
		return
	}
	t.lastSweep = now
	for key, e := range t.entries {
		if e.inflight != nil {
			continue
		}
		if now.Sub(e.storedAt) > t.ttl && now.Sub(e.issuedAt) > t.ttl {
			delete(t.entries, key)
		}
	}
}

// complete records a finished fetch. Results from a generation older than
// the last accepted one are dropped so stale responses lose the race.
func (t *Typeahead) complete(key string, gen uint64, ch chan struct{}, body []byte, err error, persist bool) {
	accepted := false

	t.mu.Lock()
	e := t.entries[key]
	if e == nil {
		// Entry was evicted while the fetch was in flight.
		t.mu.Unlock()
		close(ch)
		return
	}
	if gen >= e.applied {
		e.applied = gen
		e.err = err
		if err == nil {
			e.result = body
			e.storedAt = time.Now()
			accepted = true
		}
	}
	if e.inflight == ch {
		e.inflight = nil
	}
	t.mu.Unlock()

	close(ch)

	if accepted && persist && t.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
		_ = t.store.Set(ctx, key, body, t.ttl)
		cancel()
	}
}

// Latest returns the currently accepted result for a query without fetching.
func (t *Typeahead) Latest(query string) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[Normalize(query)]
	if !ok || e.result == nil {
		return nil, false
	}
	return e.result, true
}
