package interfaces

import (
	"context"

	"agents-registry/pkg/models"
)

// DiscoveryServiceInterface is the façade handlers call for search and
// trending views. The rate check always runs before dispatch.
type DiscoveryServiceInterface interface {
	// CheckLimit counts the request and decides admission
	CheckLimit(ctx context.Context, identifier, endpoint string) models.Decision
	// Search answers a filtered, sorted, paginated catalog query
	Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error)
	// Trending returns the current popularity ranking (or its live fallback)
	Trending(ctx context.Context, limit int) (*models.TrendingSnapshot, error)
	// RefreshTrending requests an out-of-band snapshot rebuild
	RefreshTrending()
}

// CounterServiceInterface maintains per-entity popularity counters
type CounterServiceInterface interface {
	// Increment bumps one counter atomically and returns the new value
	Increment(ctx context.Context, entityID string, kind models.CounterKind) (uint64, error)
}

// CatalogServiceInterface is read-only catalog glue for the portal
type CatalogServiceInterface interface {
	// ResolveLatest returns the entry and its latest version in canonical form
	ResolveLatest(ctx context.Context, name string) (*models.Agent, string, error)
	// Stats returns the public entry count
	Stats(ctx context.Context) (uint64, error)
}

// BackupServiceInterface uploads and restores the registry data
type BackupServiceInterface interface {
	Backup() error
	Restore() error
}
