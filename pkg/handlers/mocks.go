// pkg/handlers/mocks.go
package handlers

import (
	"context"

	"agents-registry/pkg/models"

	"github.com/stretchr/testify/mock"
)

type MockDiscoveryService struct {
	mock.Mock
}

func (m *MockDiscoveryService) CheckLimit(ctx context.Context, identifier, endpoint string) models.Decision {
	args := m.Called(ctx, identifier, endpoint)
	return args.Get(0).(models.Decision)
}

func (m *MockDiscoveryService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResponse), args.Error(1)
}

func (m *MockDiscoveryService) Trending(ctx context.Context, limit int) (*models.TrendingSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrendingSnapshot), args.Error(1)
}

func (m *MockDiscoveryService) RefreshTrending() {
	m.Called()
}

type MockCounterService struct {
	mock.Mock
}

func (m *MockCounterService) Increment(ctx context.Context, entityID string, kind models.CounterKind) (uint64, error) {
	args := m.Called(ctx, entityID, kind)
	return args.Get(0).(uint64), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ResolveLatest(ctx context.Context, name string) (*models.Agent, string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Agent), args.String(1), args.Error(2)
}

func (m *MockCatalogService) Stats(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) Backup() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockBackupService) Restore() error {
	args := m.Called()
	return args.Error(0)
}
