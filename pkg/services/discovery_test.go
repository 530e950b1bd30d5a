// pkg/services/discovery_test.go
package service

import (
	"context"
	"testing"
	"time"

	"agents-registry/config"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDiscoveryFlow wires the real limiter, search and trending services
// together and drives them through the façade the way the handlers do.
func TestDiscoveryFlow(t *testing.T) {
	log := utils.NewLogger(utils.Config{})
	at := time.Date(2026, 6, 1, 12, 0, 30, 0, time.UTC)
	old := at.AddDate(0, 0, -30)

	limiter := newTestLimiter(newMemoryWindowStore(), testRateLimitConfig(), at)
	searchSvc := newTestSearch(&captureSearchStore{
		results: []models.Agent{{Name: "found"}},
		total:   1,
	})
	trendingSvc := newTestTrending(&fakeTrendingStore{
		candidates: []models.Agent{trendingAgent("popular", 200, old, old)},
	}, &config.TrendingConfig{SnapshotSize: 100, MaxAge: config.Duration(time.Hour)}, at)
	require.NoError(t, trendingSvc.Refresh(context.Background()))

	discovery := NewDiscoveryService(limiter, searchSvc, trendingSvc, log)
	ctx := context.Background()

	// Admission first
	decision := discovery.CheckLimit(ctx, "ip:10.0.0.1", "search")
	assert.True(t, decision.Allowed)

	resp, err := discovery.Search(ctx, models.SearchQuery{Text: "found"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.TotalCount)

	snap, err := discovery.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "popular", snap.Entries[0].Name)

	// The quota applies per identifier across the façade
	for i := 0; i < 2; i++ {
		discovery.CheckLimit(ctx, "ip:10.0.0.1", "search")
	}
	decision = discovery.CheckLimit(ctx, "ip:10.0.0.1", "search")
	assert.False(t, decision.Allowed)

	// RefreshTrending is a non-blocking trigger
	discovery.RefreshTrending()
	assert.Len(t, trendingSvc.trigger, 1)
}
