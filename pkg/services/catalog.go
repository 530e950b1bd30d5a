// pkg/services/catalog.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/Masterminds/semver/v3"
)

// CatalogStore reads published entries by name
type CatalogStore interface {
	GetAgentByName(ctx context.Context, name string) (*models.Agent, error)
	CountAgents(ctx context.Context) (uint64, error)
}

// CatalogService is read-only glue over the catalog table: lookups for the
// portal and latest-version resolution. Publishing lives outside this layer.
type CatalogService struct {
	store   CatalogStore
	log     *utils.Logger
	timeout time.Duration
}

func NewCatalogService(store CatalogStore, log *utils.Logger) *CatalogService {
	return &CatalogService{
		store:   store,
		log:     log,
		timeout: 3 * time.Second,
	}
}

// ResolveLatest returns the named public entry together with its latest
// version in canonical semver form ("v" prefixes and missing segments
// normalized away).
func (s *CatalogService) ResolveLatest(ctx context.Context, name string) (*models.Agent, string, error) {
	if err := utils.ValidateAgentName(name); err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	agent, err := s.store.GetAgentByName(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", err
		}
		s.log.WithFunc().WithError(err).WithField("agent", name).Error("Catalog lookup failed")
		return nil, "", models.ErrStoreUnavailable
	}

	version, err := semver.NewVersion(agent.CurrentVersion)
	if err != nil {
		s.log.WithFunc().WithError(err).WithField("version", agent.CurrentVersion).Warn("Entry carries a non-semver version")
		// Serve the stored string as-is rather than failing the lookup
		return agent, agent.CurrentVersion, nil
	}
	return agent, version.String(), nil
}

// Stats returns the public entry count for the portal page
func (s *CatalogService) Stats(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.store.CountAgents(ctx)
	if err != nil {
		return 0, models.ErrStoreUnavailable
	}
	return count, nil
}
