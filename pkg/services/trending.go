// pkg/services/trending.go
package service

import (
	"context"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"agents-registry/config"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/sirupsen/logrus"
)

// TrendingStore supplies the candidate set and the live fallback query
type TrendingStore interface {
	TrendingCandidates(ctx context.Context) ([]models.Agent, error)
	TopByDownloads(ctx context.Context, limit int) ([]models.Agent, error)
}

// TrendingService maintains the precomputed popularity ranking. Readers see
// the current snapshot through an atomic pointer; a refresh builds a whole
// new snapshot and swaps it in, so a reader never observes a partial update.
type TrendingService struct {
	store   TrendingStore
	config  *config.TrendingConfig
	log     *utils.Logger
	timeout time.Duration

	snapshot atomic.Pointer[models.TrendingSnapshot]
	trigger  chan struct{}

	// injectable clock for staleness and scoring tests
	now func() time.Time
}

func NewTrendingService(store TrendingStore, cfg *config.TrendingConfig, log *utils.Logger) *TrendingService {
	return &TrendingService{
		store:   store,
		config:  cfg,
		log:     log,
		timeout: 10 * time.Second,
		trigger: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// trendingScore reproduces the canonical ranking formula:
// log-scaled downloads plus capped recency bonuses for creation and update.
func trendingScore(downloads uint64, createdAt, updatedAt, now time.Time) float64 {
	score := math.Log(float64(downloads)+1) * 10

	daysSinceCreated := now.Sub(createdAt).Hours() / 24
	if bonus := 7 - daysSinceCreated; bonus > 0 {
		score += bonus * 2
	}

	daysSinceUpdated := now.Sub(updatedAt).Hours() / 24
	if bonus := 3 - daysSinceUpdated; bonus > 0 {
		score += bonus * 1
	}

	return score
}

// GetTrending returns the top entries of the current snapshot. When the
// snapshot is cold or expired it never silently returns stale or empty
// results: it answers from a live downloads-ordered query and triggers an
// out-of-band refresh for next time.
func (s *TrendingService) GetTrending(ctx context.Context, limit int) (*models.TrendingSnapshot, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > s.config.SnapshotSize {
		limit = s.config.SnapshotSize
	}

	snap := s.snapshot.Load()
	if !snap.IsEmpty() && !snap.IsStale(s.now(), s.config.MaxAge.Duration()) {
		entries := snap.Entries
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return &models.TrendingSnapshot{Entries: entries, ComputedAt: snap.ComputedAt}, nil
	}

	// Degraded path, not an error: log it and serve a live query
	s.log.WithFunc().WithFields(logrus.Fields{
		"empty": snap.IsEmpty(),
	}).Warn("Trending snapshot cold or expired, falling back to live query")
	s.TriggerRefresh()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	agents, err := s.store.TopByDownloads(ctx, limit)
	if err != nil {
		s.log.WithFunc().WithError(err).Error("Trending fallback query failed")
		return nil, models.ErrStoreUnavailable
	}

	now := s.now()
	entries := make([]models.RankedAgent, 0, len(agents))
	for _, agent := range agents {
		entries = append(entries, models.RankedAgent{
			Agent:         agent,
			TrendingScore: trendingScore(agent.DownloadCount, agent.CreatedAt, agent.UpdatedAt, now),
		})
	}
	return &models.TrendingSnapshot{Entries: entries, ComputedAt: now}, nil
}

// TriggerRefresh requests an out-of-band snapshot rebuild. Non-blocking;
// a refresh already pending absorbs the trigger.
func (s *TrendingService) TriggerRefresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Refresh rebuilds the snapshot from the candidate set and swaps it in
func (s *TrendingService) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := s.store.TrendingCandidates(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	ranked := make([]models.RankedAgent, 0, len(candidates))
	for _, agent := range candidates {
		ranked = append(ranked, models.RankedAgent{
			Agent:         agent,
			TrendingScore: trendingScore(agent.DownloadCount, agent.CreatedAt, agent.UpdatedAt, now),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TrendingScore != ranked[j].TrendingScore {
			return ranked[i].TrendingScore > ranked[j].TrendingScore
		}
		if ranked[i].DownloadCount != ranked[j].DownloadCount {
			return ranked[i].DownloadCount > ranked[j].DownloadCount
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})

	if len(ranked) > s.config.SnapshotSize {
		ranked = ranked[:s.config.SnapshotSize]
	}

	s.snapshot.Store(&models.TrendingSnapshot{Entries: ranked, ComputedAt: now})

	s.log.WithFunc().WithFields(logrus.Fields{
		"entries":    len(ranked),
		"candidates": len(candidates),
	}).Info("Trending snapshot refreshed")

	return nil
}

// RunRefresher recomputes the snapshot on a fixed interval and on explicit
// trigger until ctx is done. Request serving keeps reading the previous
// snapshot while a refresh is in progress.
func (s *TrendingService) RunRefresher(ctx context.Context) {
	interval := s.config.RefreshInterval.Duration()
	if interval <= 0 {
		interval = 2 * time.Hour
	}

	// Warm the snapshot at startup so the first requests hit the cache
	if err := s.Refresh(ctx); err != nil {
		s.log.WithFunc().WithError(err).Warn("Initial trending refresh failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithFunc().WithField("interval", interval).Info("Trending refresher started")

	for {
		select {
		case <-ctx.Done():
			s.log.WithFunc().Info("Trending refresher stopped")
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.log.WithFunc().WithError(err).Warn("Scheduled trending refresh failed")
			}
		case <-s.trigger:
			if err := s.Refresh(ctx); err != nil {
				s.log.WithFunc().WithError(err).Warn("Triggered trending refresh failed")
			}
		}
	}
}
