package querycache

import (
	"context"
	"time"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Entry is a read-only snapshot of a cache slot.
type Entry struct {
	Key           Key
	Data          any
	Status        Status
	Err           error
	LastFetchedAt time.Time
	Stale         bool
}

// Settled reports whether the entry holds the outcome of a fetch.
func (e Entry) Settled() bool {
	return e.Status == StatusSuccess || e.Status == StatusError
}

// Fetcher loads the value for a key. It receives a context owned by the
// cache, not by the subscriber that triggered it.
type Fetcher func(ctx context.Context) (any, error)

// Listener receives every new snapshot of the entry it subscribed to.
type Listener func(Entry)

// Typed returns e.Data as T. ok is false when the entry has no data or the
// data has another type.
func Typed[T any](e Entry) (v T, ok bool) {
	v, ok = e.Data.(T)
	return v, ok
}
