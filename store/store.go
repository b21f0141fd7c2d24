// Package store defines the persistence abstraction used by recocache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g., compression), they MUST be fully
// reversed so that the bytes returned by Get are identical to the bytes
// provided to Set.
//
// Important: keys under the manager's configured prefix (default
// "channel_recommendations") are owned by recocache. External code MUST NOT
// write values under the prefix. Foreign writes may be treated as corruption
// by strict envelope validation and deleted.
package store

import "context"

// Store is a minimal byte store. Must be safe for concurrent use.
//
// There are no TTLs here: entries carry their freshness inside the value,
// so a stale entry must still be readable to be served while it refreshes.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value until it is overwritten or deleted.
	Set(ctx context.Context, key string, value []byte) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// DelPrefix removes every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
