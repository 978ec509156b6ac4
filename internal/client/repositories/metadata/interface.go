// Package metadata is a small key/value store in the local sqlite database.
// The auth service keeps the session token and display name here.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany upserts all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
	// Replace deletes remove and upserts values in one transaction.
	Replace(ctx context.Context, values map[string][]byte, remove ...string) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
