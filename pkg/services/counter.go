// pkg/services/counter.go
package service

import (
	"context"
	"errors"
	"time"

	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/sirupsen/logrus"
)

// CounterStore is the single write path counters use: one atomic
// increment-and-read per call, no separate read/write round trips.
type CounterStore interface {
	IncrementCounter(ctx context.Context, id string, kind models.CounterKind) (uint64, error)
}

// CounterService maintains the per-entity popularity counters
type CounterService struct {
	store   CounterStore
	log     *utils.Logger
	timeout time.Duration
}

func NewCounterService(store CounterStore, log *utils.Logger) *CounterService {
	return &CounterService{
		store:   store,
		log:     log,
		timeout: 3 * time.Second,
	}
}

// Increment bumps one counter and returns the authoritative new value.
// Exactly one increment per call; a missing entity is ErrNotFound, never a
// silent no-op. Failures are always surfaced to the caller.
func (s *CounterService) Increment(ctx context.Context, entityID string, kind models.CounterKind) (uint64, error) {
	if !kind.Valid() {
		return 0, models.ErrInvalidArgument
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.store.IncrementCounter(ctx, entityID, kind)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidArgument) {
			return 0, err
		}
		s.log.WithFunc().WithError(err).WithFields(logrus.Fields{
			"entity": entityID,
			"kind":   kind,
		}).Error("Counter increment failed")
		return 0, models.ErrStoreUnavailable
	}

	s.log.WithFunc().WithFields(logrus.Fields{
		"entity": entityID,
		"kind":   kind,
		"count":  count,
	}).Debug("Counter incremented")

	return count, nil
}
