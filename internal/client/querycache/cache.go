// Package querycache keeps fetched resources keyed by identity, shares
// in-flight fetches between subscribers and refetches entries after
// mutations invalidate them.
//
// Per key the entry moves idle -> loading -> success|error and back to
// loading on invalidation. At most one fetch per key runs at a time; an
// invalidation that arrives during a fetch schedules exactly one follow-up
// fetch. Listeners are called from a single dispatcher goroutine, in the
// order the snapshots were produced, without any cache lock held.
package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/client/metrics"
	"github.com/dmitrijs2005/homepoint/internal/logging"
)

const DefaultGCGrace = 5 * time.Minute

var ErrClosed = errors.New("query cache is closed")

type Option func(*Cache)

// WithGCGrace sets how long an entry without subscribers is kept. Zero
// disables timed collection.
func WithGCGrace(d time.Duration) Option {
	return func(c *Cache) { c.gcGrace = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.log = l }
}

type slot struct {
	key       Key
	data      any
	status    Status
	err       error
	fetchedAt time.Time
	stale     bool

	fetcher  Fetcher
	subs     map[uint64]Listener
	inFlight bool
	pending  bool
	evict    bool
	gcTimer  *time.Timer
}

func (s *slot) snapshot() Entry {
	return Entry{
		Key:           s.key,
		Data:          s.data,
		Status:        s.status,
		Err:           s.err,
		LastFetchedAt: s.fetchedAt,
		Stale:         s.stale,
	}
}

func (s *slot) listeners(except uint64) []Listener {
	out := make([]Listener, 0, len(s.subs))
	for id, l := range s.subs {
		if id != except && l != nil {
			out = append(out, l)
		}
	}
	return out
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*slot
	nextID  uint64
	closed  bool

	gcGrace time.Duration
	log     logging.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	d *dispatcher
}

func New(opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		entries: make(map[Key]*slot),
		gcGrace: DefaultGCGrace,
		log:     logging.Nop(),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		d:       newDispatcher(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Subscription is returned by Subscribe. Unsubscribe never cancels a fetch
// that is already running.
type Subscription struct {
	c    *Cache
	key  Key
	id   uint64
	once sync.Once
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.c.unsubscribe(s.key, s.id) })
}

// Subscribe registers listener for key and returns the current snapshot.
// A fetch is started when the entry is idle, stale or failed and no fetch is
// already running. fetcher replaces the one remembered for key when non-nil.
func (c *Cache) Subscribe(key Key, fetcher Fetcher, listener Listener) (Entry, *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	sub := &Subscription{c: c, key: key, id: c.nextID}

	s := c.entries[key]
	if s == nil {
		s = &slot{key: key, subs: make(map[uint64]Listener)}
		c.entries[key] = s
	}
	if s.gcTimer != nil {
		s.gcTimer.Stop()
		s.gcTimer = nil
	}
	s.evict = false
	if fetcher != nil {
		s.fetcher = fetcher
	}
	s.subs[sub.id] = listener

	needsFetch := s.status == StatusIdle || s.status == StatusError || s.stale
	switch {
	case needsFetch && s.inFlight:
		if s.stale {
			s.pending = true
		}
	case needsFetch:
		if c.startFetch(s) {
			c.notify(s, sub.id)
		}
	case s.status == StatusSuccess:
		metrics.RecordCacheHit(key.Resource)
	}

	return s.snapshot(), sub
}

// Get subscribes, waits until the entry is settled and unsubscribes. The
// returned error is only set when ctx ends first; fetch failures are in
// Entry.Err.
func (c *Cache) Get(ctx context.Context, key Key, fetcher Fetcher) (Entry, error) {
	settled := make(chan Entry, 1)
	e, sub := c.Subscribe(key, fetcher, func(e Entry) {
		if e.Settled() && !e.Stale {
			select {
			case settled <- e:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	if e.Settled() && !e.Stale {
		return e, nil
	}
	if e.Status == StatusIdle {
		// no fetcher known for this key
		return e, nil
	}

	select {
	case e = <-settled:
		return e, nil
	case <-ctx.Done():
		return e, ctx.Err()
	case <-c.ctx.Done():
		return e, ErrClosed
	}
}

// Peek returns the snapshot for key without subscribing.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.entries[key]
	if !ok {
		return Entry{Key: key}, false
	}
	return s.snapshot(), true
}

// Invalidate marks every matching entry stale. Entries with subscribers are
// refetched right away (or after the running fetch); the rest are refetched
// by their next subscriber.
func (c *Cache) Invalidate(m Matcher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, s := range c.entries {
		if !m.Match(key) {
			continue
		}
		s.stale = true
		if len(s.subs) == 0 {
			continue
		}
		if s.inFlight {
			s.pending = true
			continue
		}
		if c.startFetch(s) {
			c.notify(s, 0)
		}
	}
}

// Refetch forces a fetch of key using its remembered fetcher, even when
// nobody is subscribed.
func (c *Cache) Refetch(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.entries[key]
	if !ok {
		return
	}
	s.stale = true
	if s.inFlight {
		s.pending = true
		return
	}
	if c.startFetch(s) {
		c.notify(s, 0)
	}
}

// Mutate runs op and, only if it succeeds, invalidates every matcher.
func (c *Cache) Mutate(ctx context.Context, op func(ctx context.Context) (any, error), invalidate ...Matcher) (any, error) {
	res, err := op(ctx)
	if err != nil {
		c.log.Debug(ctx, "mutation failed, nothing invalidated", "error", err)
		return nil, err
	}
	for _, m := range invalidate {
		c.Invalidate(m)
	}
	return res, nil
}

// Purge drops all entries that have no subscribers. An entry whose fetch
// is still running loses its data at once and is removed when the fetch
// returns, so a new subscriber joins that fetch instead of starting another.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, s := range c.entries {
		if len(s.subs) > 0 {
			continue
		}
		if s.gcTimer != nil {
			s.gcTimer.Stop()
			s.gcTimer = nil
		}
		if s.inFlight {
			s.data, s.err, s.fetchedAt = nil, nil, time.Time{}
			s.stale = true
			s.evict = true
			continue
		}
		delete(c.entries, key)
	}
}

// Len returns the number of entries held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close cancels running fetches, waits for them and stops the dispatcher.
// Pending notifications are delivered first.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, s := range c.entries {
		if s.gcTimer != nil {
			s.gcTimer.Stop()
		}
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.d.close()
}

// startFetch must be called with c.mu held. It returns false when there is
// nothing to fetch with. Stale is cleared here so that an invalidation
// arriving while the fetch runs is still visible when it completes.
func (c *Cache) startFetch(s *slot) bool {
	if c.closed || s.fetcher == nil {
		return false
	}
	s.inFlight = true
	s.pending = false
	s.stale = false
	s.status = StatusLoading

	fetcher := s.fetcher
	c.wg.Add(1)
	go c.runFetch(s, fetcher)

	c.log.Debug(c.ctx, "cache fetch started", "key", s.key.String())
	return true
}

func (c *Cache) runFetch(s *slot, fetcher Fetcher) {
	defer c.wg.Done()

	data, err := fetcher(c.ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	s.inFlight = false
	if c.entries[s.key] != s {
		return
	}
	if s.evict {
		// purged or collected while loading, nobody came back
		delete(c.entries, s.key)
		c.log.Debug(c.ctx, "cache entry dropped after fetch", "key", s.key.String())
		return
	}

	if err != nil {
		s.status = StatusError
		s.err = err
		metrics.RecordCacheFetch(s.key.Resource, "error")
		c.log.Warn(c.ctx, "cache fetch failed", "key", s.key.String(), "error", err)
	} else {
		s.status = StatusSuccess
		s.data = data
		s.err = nil
		s.fetchedAt = c.now()
		metrics.RecordCacheFetch(s.key.Resource, "success")
		c.log.Debug(c.ctx, "cache fetch done", "key", s.key.String())
	}
	c.notify(s, 0)

	if s.pending && c.startFetch(s) {
		c.notify(s, 0)
	}
}

func (c *Cache) unsubscribe(key Key, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.entries[key]
	if !ok {
		return
	}
	delete(s.subs, id)
	if len(s.subs) > 0 || c.gcGrace <= 0 || c.closed {
		return
	}
	s.gcTimer = time.AfterFunc(c.gcGrace, func() { c.collect(s) })
}

func (c *Cache) collect(s *slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[s.key] != s || len(s.subs) > 0 {
		return
	}
	if s.inFlight {
		s.evict = true
		return
	}
	delete(c.entries, s.key)
	c.log.Debug(c.ctx, "cache entry collected", "key", s.key.String())
}

// notify queues the current snapshot for all listeners of s except the
// subscription with id except. Must be called with c.mu held.
func (c *Cache) notify(s *slot, except uint64) {
	ls := s.listeners(except)
	if len(ls) == 0 {
		return
	}
	c.d.push(notification{listeners: ls, entry: s.snapshot()})
}
