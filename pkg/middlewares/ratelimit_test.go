// pkg/middlewares/ratelimit_test.go
package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDiscovery records the identifiers the middleware resolves and answers
// with a canned decision
type stubDiscovery struct {
	decision    models.Decision
	identifiers []string
	endpoints   []string
}

func (s *stubDiscovery) CheckLimit(_ context.Context, identifier, endpoint string) models.Decision {
	s.identifiers = append(s.identifiers, identifier)
	s.endpoints = append(s.endpoints, endpoint)
	return s.decision
}

func (s *stubDiscovery) Search(_ context.Context, _ models.SearchQuery) (*models.SearchResponse, error) {
	return nil, nil
}

func (s *stubDiscovery) Trending(_ context.Context, _ int) (*models.TrendingSnapshot, error) {
	return nil, nil
}

func (s *stubDiscovery) RefreshTrending() {}

func setupLimitTestEnv(t *testing.T, decision models.Decision) (*fiber.App, *stubDiscovery) {
	t.Helper()
	stub := &stubDiscovery{decision: decision}
	mw := NewRateLimitMiddleware(stub, utils.NewLogger(utils.Config{}))

	app := fiber.New()
	app.Get("/search", mw.Limit("search"), func(c *fiber.Ctx) error {
		return c.SendString("reached")
	})
	return app, stub
}

func TestLimit_Allowed(t *testing.T) {
	app, stub := setupLimitTestEnv(t, models.Decision{Allowed: true, CurrentCount: 1})

	req := httptest.NewRequest("GET", "/search", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, stub.endpoints, 1)
	assert.Equal(t, "search", stub.endpoints[0])
}

func TestLimit_Rejected(t *testing.T) {
	app, _ := setupLimitTestEnv(t, models.Decision{
		Allowed:      false,
		CurrentCount: 4,
		RetryAfter:   29500 * time.Millisecond,
	})

	req := httptest.NewRequest("GET", "/search", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"), "Retry-After rounds up to whole seconds")
}

func TestLimit_RetryAfterNeverZero(t *testing.T) {
	app, _ := setupLimitTestEnv(t, models.Decision{Allowed: false})

	req := httptest.NewRequest("GET", "/search", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestIdentify(t *testing.T) {
	app, stub := setupLimitTestEnv(t, models.Decision{Allowed: true})

	// Bearer token wins over everything
	req := httptest.NewRequest("GET", "/search", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	_, err := app.Test(req)
	require.NoError(t, err)

	// Explicit API key header
	req = httptest.NewRequest("GET", "/search", nil)
	req.Header.Set("X-API-Key", "key-456")
	_, err = app.Test(req)
	require.NoError(t, err)

	// Anonymous requests fall back to the client IP
	req = httptest.NewRequest("GET", "/search", nil)
	_, err = app.Test(req)
	require.NoError(t, err)

	require.Len(t, stub.identifiers, 3)
	assert.Equal(t, "key:tok-123", stub.identifiers[0])
	assert.Equal(t, "key:key-456", stub.identifiers[1])
	assert.Contains(t, stub.identifiers[2], "ip:")
}
