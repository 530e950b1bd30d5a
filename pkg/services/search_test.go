// pkg/services/search_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agents-registry/config"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSearchStore struct {
	got     models.SearchQuery
	results []models.Agent
	total   uint64
	err     error
}

func (c *captureSearchStore) SearchAgents(_ context.Context, q models.SearchQuery) ([]models.Agent, uint64, error) {
	c.got = q
	return c.results, c.total, c.err
}

func newTestSearch(store SearchStore) *SearchService {
	cfg := &config.SearchConfig{MaxPageSize: 100, Timeout: config.Duration(time.Second)}
	return NewSearchService(store, cfg, utils.NewLogger(utils.Config{}))
}

func TestSearch_Defaults(t *testing.T) {
	store := &captureSearchStore{}
	svc := newTestSearch(store)

	resp, err := svc.Search(context.Background(), models.SearchQuery{})
	require.NoError(t, err)

	assert.Equal(t, models.SortRelevance, store.got.Sort)
	assert.Equal(t, models.OrderDesc, store.got.Order)
	assert.Equal(t, uint32(1), store.got.Page)
	assert.Equal(t, uint32(1), store.got.PageSize)
	assert.NotNil(t, resp.Results, "empty result is a slice, not nil")
}

func TestSearch_ClampsPagination(t *testing.T) {
	store := &captureSearchStore{}
	svc := newTestSearch(store)

	_, err := svc.Search(context.Background(), models.SearchQuery{
		Page:     0,
		PageSize: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), store.got.Page)
	assert.Equal(t, uint32(100), store.got.PageSize)
}

func TestSearch_TrimsFilters(t *testing.T) {
	store := &captureSearchStore{}
	svc := newTestSearch(store)

	_, err := svc.Search(context.Background(), models.SearchQuery{
		Text:     "  helper  ",
		Author:   " alice ",
		Tags:     []string{" code ", "", "docs"},
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "helper", store.got.Text)
	assert.Equal(t, "alice", store.got.Author)
	assert.Equal(t, []string{"code", "docs"}, store.got.Tags)
}

func TestSearch_InvalidSortKey(t *testing.T) {
	svc := newTestSearch(&captureSearchStore{})

	_, err := svc.Search(context.Background(), models.SearchQuery{Sort: "popularity"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestSearch_InvalidOrder(t *testing.T) {
	svc := newTestSearch(&captureSearchStore{})

	_, err := svc.Search(context.Background(), models.SearchQuery{Order: "sideways"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestSearch_InvalidTag(t *testing.T) {
	svc := newTestSearch(&captureSearchStore{})

	_, err := svc.Search(context.Background(), models.SearchQuery{Tags: []string{"has spaces"}})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestSearch_StoreFailure(t *testing.T) {
	store := &captureSearchStore{err: errors.New("disk on fire")}
	svc := newTestSearch(store)

	_, err := svc.Search(context.Background(), models.SearchQuery{})
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestSearch_PassesThroughResults(t *testing.T) {
	store := &captureSearchStore{
		results: []models.Agent{{Name: "found-one"}},
		total:   37,
	}
	svc := newTestSearch(store)

	resp, err := svc.Search(context.Background(), models.SearchQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(37), resp.TotalCount)
	assert.Equal(t, uint32(2), resp.Page)
	assert.Equal(t, uint32(10), resp.PageSize)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "found-one", resp.Results[0].Name)
}
