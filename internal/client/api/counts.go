package api

import (
	"context"
	"net/http"
)

// Counts serves the dashboard counters that are not tied to another module.
type Counts struct{ d Doer }

func (c *Counts) Projects(ctx context.Context) (int64, error) {
	return count(ctx, c.d, "/projects-count")
}

func (c *Counts) Users(ctx context.Context) (int64, error) {
	return count(ctx, c.d, "/users-count")
}

func count(ctx context.Context, d Doer, path string) (int64, error) {
	raw, err := d.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return 0, err
	}
	return unwrapCount(raw)
}
