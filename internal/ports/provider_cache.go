package ports

import "context"

// Cache kinds stored by ProviderCache.
const (
	CacheKindRoute     = "route"
	CacheKindIsochrone = "isochrone"
)

// Persistent store for raw provider responses keyed by kind and request key.
type ProviderCache interface {
	// Return the cached payload and whether it was found.
	Get(ctx context.Context, kind, key string) ([]byte, bool, error)
	Put(ctx context.Context, kind, key string, payload []byte) error
}
