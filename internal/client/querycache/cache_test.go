package querycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = 2 * time.Second

// gatedFetcher counts calls and blocks each call until released.
type gatedFetcher struct {
	calls atomic.Int32
	gate  chan struct{}
	value func(n int32) (any, error)
}

func newGated(value func(n int32) (any, error)) *gatedFetcher {
	return &gatedFetcher{gate: make(chan struct{}), value: value}
}

func (g *gatedFetcher) fetch(ctx context.Context) (any, error) {
	n := g.calls.Add(1)
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.value(n)
}

func (g *gatedFetcher) release() { g.gate <- struct{}{} }

func instant(v any) Fetcher {
	return func(context.Context) (any, error) { return v, nil }
}

func newCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c := New(opts...)
	t.Cleanup(c.Close)
	return c
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, `["reviews"]`, K("reviews").String())
	assert.Equal(t, `["users","42"]`, K("users", "42").String())
	assert.Equal(t, `["paymentlist","7","images"]`, K("paymentlist", "7", "images").String())
	assert.Equal(t, Key{Resource: "users", ID: "42"}, K("users", "42"))
}

func TestMatchers(t *testing.T) {
	u42 := K("users", "42")

	assert.True(t, u42.Match(K("users", "42")))
	assert.False(t, u42.Match(K("users", "43")))
	assert.True(t, Prefix("users").Match(K("users", "1")))
	assert.False(t, Prefix("users").Match(K("reviews")))
	assert.True(t, MatchFunc(func(k Key) bool { return k.ID == "42" }).Match(u42))
}

func TestGet_FetchesOnceThenHits(t *testing.T) {
	c := newCache(t)
	var calls atomic.Int32
	f := func(context.Context) (any, error) {
		calls.Add(1)
		return []string{"a"}, nil
	}

	e, err := c.Get(context.Background(), K("reviews"), f)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, []string{"a"}, e.Data)
	assert.False(t, e.LastFetchedAt.IsZero())

	e, err = c.Get(context.Background(), K("reviews"), f)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubscribe_ConcurrentSubscribersShareOneFetch(t *testing.T) {
	c := newCache(t)
	g := newGated(func(int32) (any, error) { return "hero", nil })
	key := K("homehero")

	const n = 10
	var got sync.WaitGroup
	got.Add(n)
	var subs []*Subscription
	var mu sync.Mutex

	var start sync.WaitGroup
	start.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer start.Done()
			var once sync.Once
			_, sub := c.Subscribe(key, g.fetch, func(e Entry) {
				if e.Status == StatusSuccess {
					once.Do(got.Done)
				}
			})
			mu.Lock()
			subs = append(subs, sub)
			mu.Unlock()
		}()
	}
	start.Wait()
	g.release()

	done := make(chan struct{})
	go func() { got.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(wait):
		t.Fatal("subscribers were not notified")
	}

	assert.EqualValues(t, 1, g.calls.Load())
	for _, s := range subs {
		s.Unsubscribe()
	}
}

func TestSubscribe_ReturnsLoadingSnapshot(t *testing.T) {
	c := newCache(t)
	g := newGated(func(int32) (any, error) { return 1, nil })

	e, sub := c.Subscribe(K("master"), g.fetch, nil)
	defer sub.Unsubscribe()

	assert.Equal(t, StatusLoading, e.Status)
	assert.Nil(t, e.Data)
	g.release()
}

func TestSubscribe_NoFetcherStaysIdle(t *testing.T) {
	c := newCache(t)

	e, err := c.Get(context.Background(), K("master"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, e.Status)
}

func TestInvalidate_WithoutSubscribers_RefetchesOnNextSubscribe(t *testing.T) {
	c := newCache(t)
	var calls atomic.Int32
	f := func(context.Context) (any, error) { return calls.Add(1), nil }
	key := K("reviews")

	_, err := c.Get(context.Background(), key, f)
	require.NoError(t, err)

	c.Invalidate(key)

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, e.Stale)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.EqualValues(t, 1, calls.Load())

	e, err = c.Get(context.Background(), key, f)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.EqualValues(t, 2, e.Data)
	assert.False(t, e.Stale)
}

func TestInvalidate_WithSubscriber_RefetchesAndNotifies(t *testing.T) {
	c := newCache(t)
	var calls atomic.Int32
	f := func(context.Context) (any, error) { return calls.Add(1), nil }
	key := K("reviews")

	updates := make(chan Entry, 16)
	_, sub := c.Subscribe(key, f, func(e Entry) { updates <- e })
	defer sub.Unsubscribe()

	waitFor(t, updates, func(e Entry) bool { return e.Status == StatusSuccess && e.Data == int32(1) })

	c.Invalidate(Prefix("reviews"))

	waitFor(t, updates, func(e Entry) bool { return e.Status == StatusLoading })
	waitFor(t, updates, func(e Entry) bool { return e.Status == StatusSuccess && e.Data == int32(2) })
}

func TestInvalidate_DuringFetch_RunsExactlyOneFollowUp(t *testing.T) {
	c := newCache(t)
	g := newGated(func(n int32) (any, error) { return fmt.Sprintf("v%d", n), nil })
	key := K("users")

	updates := make(chan Entry, 16)
	_, sub := c.Subscribe(key, g.fetch, func(e Entry) { updates <- e })
	defer sub.Unsubscribe()

	require.Eventually(t, func() bool { return g.calls.Load() == 1 }, wait, time.Millisecond)

	c.Invalidate(key)
	c.Invalidate(key)
	c.Invalidate(Prefix("users"))

	g.release()
	require.Eventually(t, func() bool { return g.calls.Load() == 2 }, wait, time.Millisecond)
	g.release()

	waitFor(t, updates, func(e Entry) bool { return e.Status == StatusSuccess && e.Data == "v2" })

	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 2, g.calls.Load())
}

func TestFetchFailure_KeepsPreviousData(t *testing.T) {
	c := newCache(t)
	boom := errors.New("boom")
	var fail atomic.Bool
	f := func(context.Context) (any, error) {
		if fail.Load() {
			return nil, boom
		}
		return "ok", nil
	}
	key := K("master")

	_, err := c.Get(context.Background(), key, f)
	require.NoError(t, err)

	fail.Store(true)
	c.Invalidate(key)
	e, err := c.Get(context.Background(), key, f)
	require.NoError(t, err)

	assert.Equal(t, StatusError, e.Status)
	assert.ErrorIs(t, e.Err, boom)
	assert.Equal(t, "ok", e.Data)
}

func TestFirstFetchFailure_LeavesDataNil(t *testing.T) {
	c := newCache(t)
	boom := errors.New("boom")

	e, err := c.Get(context.Background(), K("users", "1"), func(context.Context) (any, error) { return nil, boom })
	require.NoError(t, err)
	assert.Equal(t, StatusError, e.Status)
	assert.Nil(t, e.Data)
	assert.ErrorIs(t, e.Err, boom)
}

func TestMutate(t *testing.T) {
	c := newCache(t)
	key := K("reviews")
	_, err := c.Get(context.Background(), key, instant("list"))
	require.NoError(t, err)

	boom := errors.New("validation failed")
	_, err = c.Mutate(context.Background(), func(context.Context) (any, error) { return nil, boom }, key)
	require.ErrorIs(t, err, boom)

	e, _ := c.Peek(key)
	assert.False(t, e.Stale, "failed mutation must not invalidate")

	res, err := c.Mutate(context.Background(), func(context.Context) (any, error) { return "created", nil }, key)
	require.NoError(t, err)
	assert.Equal(t, "created", res)

	e, _ = c.Peek(key)
	assert.True(t, e.Stale)
}

func TestUnsubscribe_DoesNotCancelFetch(t *testing.T) {
	c := newCache(t, WithGCGrace(0))
	g := newGated(func(int32) (any, error) { return "done", nil })
	key := K("domains")

	_, sub := c.Subscribe(key, g.fetch, nil)
	sub.Unsubscribe()
	sub.Unsubscribe()
	g.release()

	require.Eventually(t, func() bool {
		e, _ := c.Peek(key)
		return e.Status == StatusSuccess
	}, wait, time.Millisecond)
}

func TestGC_CollectsUnsubscribedEntries(t *testing.T) {
	c := newCache(t, WithGCGrace(20*time.Millisecond))

	_, err := c.Get(context.Background(), K("reviews"), instant(1))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return c.Len() == 0 }, wait, 5*time.Millisecond)
}

func TestGC_ResubscribeCancelsCollection(t *testing.T) {
	c := newCache(t, WithGCGrace(30*time.Millisecond))
	key := K("reviews")

	_, err := c.Get(context.Background(), key, instant(1))
	require.NoError(t, err)

	_, sub := c.Subscribe(key, nil, nil)
	defer sub.Unsubscribe()

	time.Sleep(60 * time.Millisecond)
	_, ok := c.Peek(key)
	assert.True(t, ok)
}

func TestPurge(t *testing.T) {
	c := newCache(t, WithGCGrace(0))

	_, err := c.Get(context.Background(), K("a"), instant(1))
	require.NoError(t, err)
	_, sub := c.Subscribe(K("b"), instant(2), nil)
	defer sub.Unsubscribe()

	c.Purge()

	_, okA := c.Peek(K("a"))
	_, okB := c.Peek(K("b"))
	assert.False(t, okA)
	assert.True(t, okB)
}

// concurrencyFetcher records how many calls overlap.
type concurrencyFetcher struct {
	mu      sync.Mutex
	running int
	peak    int
	calls   int
	gate    chan struct{}
}

func (f *concurrencyFetcher) fetch(ctx context.Context) (any, error) {
	f.mu.Lock()
	f.running++
	f.calls++
	n := f.calls
	if f.running > f.peak {
		f.peak = f.running
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()
	select {
	case <-f.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return n, nil
}

func (f *concurrencyFetcher) stats() (calls, peak int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.peak
}

func TestPurge_DuringFetch_KeepsOneFetchPerKey(t *testing.T) {
	c := newCache(t, WithGCGrace(0))
	f := &concurrencyFetcher{gate: make(chan struct{})}
	key := K("reviews")

	_, sub := c.Subscribe(key, f.fetch, nil)
	require.Eventually(t, func() bool { calls, _ := f.stats(); return calls == 1 }, wait, time.Millisecond)
	sub.Unsubscribe()
	c.Purge()

	e, ok := c.Peek(key)
	require.True(t, ok, "entry with a running fetch stays until the fetch returns")
	assert.Nil(t, e.Data)

	updates := make(chan Entry, 8)
	_, sub = c.Subscribe(key, f.fetch, func(e Entry) { updates <- e })
	defer sub.Unsubscribe()

	calls, peak := f.stats()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, peak)

	f.gate <- struct{}{}
	f.gate <- struct{}{}
	got := waitFor(t, updates, func(e Entry) bool { return e.Status == StatusSuccess && e.Data == 2 })
	assert.Equal(t, 2, got.Data, "data fetched before the purge is replaced by a follow-up fetch")

	calls, peak = f.stats()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, peak)
}

func TestPurge_DuringFetch_DropsEntryWhenDone(t *testing.T) {
	c := newCache(t, WithGCGrace(0))
	g := newGated(func(int32) (any, error) { return "old", nil })
	key := K("users")

	_, sub := c.Subscribe(key, g.fetch, nil)
	sub.Unsubscribe()
	c.Purge()
	g.release()

	require.Eventually(t, func() bool { return c.Len() == 0 }, wait, time.Millisecond)
}

func TestGC_DuringFetch_WaitsForFetch(t *testing.T) {
	c := newCache(t, WithGCGrace(10*time.Millisecond))
	f := &concurrencyFetcher{gate: make(chan struct{})}
	key := K("domains")

	_, sub := c.Subscribe(key, f.fetch, nil)
	sub.Unsubscribe()
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Peek(key)
	require.True(t, ok)
	_, sub = c.Subscribe(key, f.fetch, nil)
	defer sub.Unsubscribe()

	_, peak := f.stats()
	assert.Equal(t, 1, peak)

	f.gate <- struct{}{}
	require.Eventually(t, func() bool {
		e, _ := c.Peek(key)
		return e.Status == StatusSuccess
	}, wait, time.Millisecond)
	calls, _ := f.stats()
	assert.Equal(t, 1, calls)
}

func TestGet_ContextCancelled(t *testing.T) {
	c := newCache(t)
	g := newGated(func(int32) (any, error) { return 1, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e, err := c.Get(ctx, K("slow"), g.fetch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusLoading, e.Status)
}

func TestClose_CancelsFetchContext(t *testing.T) {
	c := New()
	started := make(chan struct{})
	cancelled := make(chan struct{})

	c.Subscribe(K("slow"), func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}, nil)

	<-started
	c.Close()

	select {
	case <-cancelled:
	case <-time.After(wait):
		t.Fatal("fetch context was not cancelled")
	}
	c.Close()
}

func TestRefetch(t *testing.T) {
	c := newCache(t)
	var calls atomic.Int32
	f := func(context.Context) (any, error) { return calls.Add(1), nil }
	key := K("projects-count")

	_, err := c.Get(context.Background(), key, f)
	require.NoError(t, err)

	c.Refetch(key)
	c.Refetch(K("unknown"))

	require.Eventually(t, func() bool {
		e, _ := c.Peek(key)
		return e.Status == StatusSuccess && e.Data == int32(2)
	}, wait, time.Millisecond)
}

func TestTyped(t *testing.T) {
	v, ok := Typed[[]string](Entry{Data: []string{"x"}})
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, v)

	_, ok = Typed[int](Entry{})
	assert.False(t, ok)
}

func waitFor(t *testing.T, ch <-chan Entry, pred func(Entry) bool) Entry {
	t.Helper()
	deadline := time.After(wait)
	for {
		select {
		case e := <-ch:
			if pred(e) {
				return e
			}
		case <-deadline:
			t.Fatal("timed out waiting for entry")
			return Entry{}
		}
	}
}
