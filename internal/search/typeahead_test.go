package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("  Cotton   Shirt "); got != "cotton shirt" {
		t.Fatalf("normalize: got %q", got)
	}
	if got := Normalize("   "); got != "" {
		t.Fatalf("blank query should normalize empty, got %q", got)
	}
}

func TestResultCachedWithinInterval(t *testing.T) {
	var calls int32
	ta := New(func(ctx context.Context, q string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{"data":[]}`), nil
	}, nil, 50*time.Millisecond, 0)

	for i := 0; i < 5; i++ {
		if _, err := ta.Lookup(context.Background(), "shirt"); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one upstream fetch, got %d", got)
	}
}

func TestConcurrentLookupsCoalesce(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	ta := New(func(ctx context.Context, q string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("result"), nil
	}, nil, time.Second, 0)

	var wg sync.WaitGroup
	results := make([][]byte, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, err := ta.Lookup(context.Background(), "shirt")
			if err != nil {
				t.Errorf("lookup %d: %v", i, err)
			}
			results[i] = body
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected coalesced single fetch, got %d", got)
	}
	for i, body := range results {
		if string(body) != "result" {
			t.Fatalf("caller %d got %q", i, body)
		}
	}
}

func TestStaleResponseCannotOverwriteNewer(t *testing.T) {
	blockFirst := make(chan struct{})
	var calls int32
	ta := New(func(ctx context.Context, q string) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-blockFirst
			return []byte("old"), nil
		}
		return []byte("new"), nil
	}, nil, 10*time.Millisecond, 0)

	done := make(chan []byte)
	go func() {
		body, _ := ta.Lookup(context.Background(), "shirt")
		done <- body
	}()

	// Let the first fetch stall past the refresh interval, then issue a
	// newer one that completes immediately.
	time.Sleep(30 * time.Millisecond)
	body, err := ta.Lookup(context.Background(), "shirt")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if string(body) != "new" {
		t.Fatalf("second lookup: want new, got %q", body)
	}

	close(blockFirst)
	first := <-done
	if string(first) != "old" {
		t.Fatalf("first caller should see its own response, got %q", first)
	}

	// The late response must not have replaced the newer accepted result.
	latest, ok := ta.Latest("shirt")
	if !ok || string(latest) != "new" {
		t.Fatalf("stale response overwrote newer result: %q", latest)
	}
}

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (s *mapStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *mapStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = value
	s.sets++
	return nil
}

func TestExpiredEntriesAreEvicted(t *testing.T) {
	ta := New(func(ctx context.Context, q string) ([]byte, error) {
		return []byte("r"), nil
	}, nil, 5*time.Millisecond, 20*time.Millisecond)

	for _, q := range []string{"s", "sh", "shi", "shir"} {
		if _, err := ta.Lookup(context.Background(), q); err != nil {
			t.Fatalf("lookup %q: %v", q, err)
		}
	}

	time.Sleep(50 * time.Millisecond)
	if _, err := ta.Lookup(context.Background(), "kurta"); err != nil {
		t.Fatalf("lookup after expiry: %v", err)
	}

	ta.mu.Lock()
	defer ta.mu.Unlock()
	if len(ta.entries) != 1 {
		t.Fatalf("expired entries kept, map has %d entries", len(ta.entries))
	}
	if _, ok := ta.entries["kurta"]; !ok {
		t.Fatal("live entry missing after sweep")
	}
}

type deadlineStore struct {
	mapStore
	hasDeadline bool
}

func (s *deadlineStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, s.hasDeadline = ctx.Deadline()
	return s.mapStore.Set(ctx, key, value, ttl)
}

func TestPersistRunsUnderDeadline(t *testing.T) {
	store := &deadlineStore{}
	ta := New(func(ctx context.Context, q string) ([]byte, error) {
		return []byte("r"), nil
	}, store, time.Millisecond, time.Minute)

	if _, err := ta.Lookup(context.Background(), "shirt"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if store.sets != 1 {
		t.Fatalf("expected one persisted result, got %d", store.sets)
	}
	if !store.hasDeadline {
		t.Fatal("store write should carry a deadline")
	}
}

func TestSharedStoreShortCircuitsFetch(t *testing.T) {
	store := &mapStore{data: map[string][]byte{"shirt": []byte("cached")}}
	ta := New(func(ctx context.Context, q string) ([]byte, error) {
		t.Fatal("fetch should not run on store hit")
		return nil, nil
	}, store, time.Millisecond, time.Minute)

	body, err := ta.Lookup(context.Background(), "Shirt")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if string(body) != "cached" {
		t.Fatalf("want store hit, got %q", body)
	}
	if store.sets != 0 {
		t.Fatalf("store hit should not be re-persisted, sets=%d", store.sets)
	}
}
