// pkg/services/discovery.go
package service

import (
	"context"

	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"
)

// DiscoveryService is the entry point for inbound discovery requests: the
// rate limiter decides admission first, then the request dispatches to the
// search engine or the trending cache. Counter increments are separate
// endpoints and are never a side effect of a list or search call.
type DiscoveryService struct {
	limiter  *RateLimiter
	search   *SearchService
	trending *TrendingService
	log      *utils.Logger
}

func NewDiscoveryService(limiter *RateLimiter, search *SearchService, trending *TrendingService, log *utils.Logger) *DiscoveryService {
	return &DiscoveryService{
		limiter:  limiter,
		search:   search,
		trending: trending,
		log:      log,
	}
}

// CheckLimit runs the admission decision for one request
func (s *DiscoveryService) CheckLimit(ctx context.Context, identifier, endpoint string) models.Decision {
	return s.limiter.CheckAndIncrement(ctx, identifier, endpoint)
}

// Search dispatches to the search engine. Callers must have passed the
// rate check already; this method does not touch the limiter.
func (s *DiscoveryService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	return s.search.Search(ctx, q)
}

// Trending dispatches to the trending cache (or its live fallback)
func (s *DiscoveryService) Trending(ctx context.Context, limit int) (*models.TrendingSnapshot, error) {
	return s.trending.GetTrending(ctx, limit)
}

// RefreshTrending requests an out-of-band snapshot rebuild
func (s *DiscoveryService) RefreshTrending() {
	s.trending.TriggerRefresh()
}
