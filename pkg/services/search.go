// pkg/services/search.go
package service

import (
	"context"
	"fmt"
	"strings"

	"agents-registry/config"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/sirupsen/logrus"
)

// SearchStore runs a normalized catalog query
type SearchStore interface {
	SearchAgents(ctx context.Context, q models.SearchQuery) ([]models.Agent, uint64, error)
}

// SearchService filters, sorts and paginates the public catalog
type SearchService struct {
	store  SearchStore
	config *config.SearchConfig
	log    *utils.Logger
}

func NewSearchService(store SearchStore, cfg *config.SearchConfig, log *utils.Logger) *SearchService {
	return &SearchService{
		store:  store,
		config: cfg,
		log:    log,
	}
}

// Search answers a catalog query. Out-of-range pagination values are clamped
// so the endpoint is always answerable; only a structurally malformed query
// (unknown sort key or order, invalid tag) raises ErrInvalidArgument. A store failure is
// fatal to the request: search has no fallback.
func (s *SearchService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	normalized, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout.Duration())
	defer cancel()

	results, total, err := s.store.SearchAgents(ctx, normalized)
	if err != nil {
		s.log.WithFunc().WithError(err).Error("Search query failed")
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	s.log.WithFunc().WithFields(logrus.Fields{
		"text":  normalized.Text,
		"sort":  normalized.Sort,
		"page":  normalized.Page,
		"total": total,
	}).Debug("Search completed")

	if results == nil {
		results = []models.Agent{}
	}
	return &models.SearchResponse{
		Results:    results,
		TotalCount: total,
		Page:       normalized.Page,
		PageSize:   normalized.PageSize,
	}, nil
}

// normalize clamps pagination, defaults sort/order and validates the enums
func (s *SearchService) normalize(q models.SearchQuery) (models.SearchQuery, error) {
	q.Text = strings.TrimSpace(q.Text)
	q.Author = strings.TrimSpace(q.Author)

	tags := q.Tags[:0]
	for _, tag := range q.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			if err := utils.ValidateTag(tag); err != nil {
				return q, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
			}
			tags = append(tags, tag)
		}
	}
	q.Tags = tags

	if q.Sort == "" {
		q.Sort = models.SortRelevance
	}
	if !q.Sort.Valid() {
		return q, fmt.Errorf("%w: unknown sort key %q", models.ErrInvalidArgument, q.Sort)
	}

	switch q.Order {
	case "":
		q.Order = models.OrderDesc
	case models.OrderAsc, models.OrderDesc:
	default:
		return q, fmt.Errorf("%w: unknown sort order %q", models.ErrInvalidArgument, q.Order)
	}

	// Clamp rather than error: the endpoint stays answerable
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	if q.PageSize > s.config.MaxPageSize {
		q.PageSize = s.config.MaxPageSize
	}

	return q, nil
}
