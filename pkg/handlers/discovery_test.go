// pkg/handlers/discovery_test.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupDiscoveryTestEnv(t *testing.T) (*fiber.App, *MockDiscoveryService, *DiscoveryHandler) {
	t.Helper()
	log := utils.NewLogger(utils.Config{})
	mockService := new(MockDiscoveryService)
	handler := NewDiscoveryHandler(mockService, log)
	app := fiber.New()
	return app, mockService, handler
}

func TestHandleSearch(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Get("/search", handler.HandleSearch)

	expected := models.SearchQuery{
		Text:     "terraform",
		Tags:     []string{"infra", "cli"},
		Author:   "alice",
		Sort:     models.SortDownloads,
		Order:    models.OrderDesc,
		Page:     2,
		PageSize: 10,
	}
	mockService.On("Search", mock.Anything, expected).Return(&models.SearchResponse{
		Results:    []models.Agent{{Name: "terraform-helper"}},
		TotalCount: 11,
		Page:       2,
		PageSize:   10,
	}, nil)

	req := httptest.NewRequest("GET",
		"/search?q=terraform&tags=infra,cli&author=alice&sort=downloads&order=desc&page=2&pageSize=10", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body models.SearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(11), body.TotalCount)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "terraform-helper", body.Results[0].Name)
	mockService.AssertExpectations(t)
}

func TestHandleSearch_InvalidSort(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Get("/search", handler.HandleSearch)

	mockService.On("Search", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidArgument)

	req := httptest.NewRequest("GET", "/search?sort=bogus", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSearch_StoreUnavailable(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Get("/search", handler.HandleSearch)

	mockService.On("Search", mock.Anything, mock.Anything).Return(nil, models.ErrStoreUnavailable)

	req := httptest.NewRequest("GET", "/search", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleSearch_NegativePageClamped(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Get("/search", handler.HandleSearch)

	mockService.On("Search", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
		return q.Page == 1 && q.PageSize == 1
	})).Return(&models.SearchResponse{Results: []models.Agent{}}, nil)

	req := httptest.NewRequest("GET", "/search?page=-4&pageSize=-1", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	mockService.AssertExpectations(t)
}

func TestHandleTrending(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Get("/trending", handler.HandleTrending)

	computed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	mockService.On("Trending", mock.Anything, 5).Return(&models.TrendingSnapshot{
		Entries: []models.RankedAgent{
			{Agent: models.Agent{Name: "hot-agent"}, TrendingScore: 46.1},
		},
		ComputedAt: computed,
	}, nil)

	req := httptest.NewRequest("GET", "/trending?limit=5", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body models.TrendingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "hot-agent", body.Entries[0].Name)
	assert.Equal(t, "2026-05-01T10:00:00Z", body.ComputedAt)
	mockService.AssertExpectations(t)
}

func TestHandleTrending_StoreUnavailable(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Get("/trending", handler.HandleTrending)

	mockService.On("Trending", mock.Anything, mock.Anything).Return(nil, models.ErrStoreUnavailable)

	req := httptest.NewRequest("GET", "/trending", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleRefreshTrending(t *testing.T) {
	app, mockService, handler := setupDiscoveryTestEnv(t)
	app.Post("/trending/refresh", handler.HandleRefreshTrending)

	mockService.On("RefreshTrending").Return()

	req := httptest.NewRequest("POST", "/trending/refresh", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "refresh triggered")
	mockService.AssertExpectations(t)
}
