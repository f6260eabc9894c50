// Package cache holds the key-value stores used by the bot: a Store for
// small persistent state (the poll digest) and an LRU of API answers.
package cache

import "context"

// Store is a minimal string key-value store.
type Store interface {
	// MGet returns one value per key, "" for keys that are not set.
	MGet(ctx context.Context, keys ...string) ([]string, error)

	// MSet writes all pairs.
	MSet(ctx context.Context, pairs map[string]string) error
}
