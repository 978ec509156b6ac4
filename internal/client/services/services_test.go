package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	body   any
}

// fakeDoer answers by "METHOD /path" and records every call.
type fakeDoer struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]string
	errs    map[string]error
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{replies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeDoer) on(route, body string) *fakeDoer {
	f.mu.Lock()
	f.replies[route] = body
	f.mu.Unlock()
	return f
}

func (f *fakeDoer) fail(route string, err error) *fakeDoer {
	f.mu.Lock()
	f.errs[route] = err
	f.mu.Unlock()
	return f
}

func (f *fakeDoer) Do(_ context.Context, method, path string, body any, _ http.Header) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method, path, body})
	route := method + " " + path
	if err := f.errs[route]; err != nil {
		return nil, err
	}
	if r, ok := f.replies[route]; ok {
		return json.RawMessage(r), nil
	}
	return nil, nil
}

func (f *fakeDoer) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			n++
		}
	}
	return n
}

func requireCount(t *testing.T, f *fakeDoer, method, path string, want int) {
	t.Helper()
	require.Equal(t, want, f.count(method, path), "%s %s", method, path)
}
