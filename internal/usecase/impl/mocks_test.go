package impl

import (
	"context"
	"time"

	"waymark/internal/domain/entity"
	"waymark/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockRouteRepository struct {
	mock.Mock
}

func (m *mockRouteRepository) CreateRoute(ctx context.Context, route *entity.Route) error {
	args := m.Called(ctx, route)

	return args.Error(0)
}

func (m *mockRouteRepository) FindRouteByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	args := m.Called(ctx, id)
	if route, ok := args.Get(0).(*entity.Route); ok {
		return route, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRouteRepository) FindRoutesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Route, error) {
	args := m.Called(ctx, ownerID)
	if routes, ok := args.Get(0).([]*entity.Route); ok {
		return routes, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRouteRepository) UpdateRoute(ctx context.Context, route *entity.Route) error {
	args := m.Called(ctx, route)

	return args.Error(0)
}

func (m *mockRouteRepository) ApplyDerivedFeatures(ctx context.Context, id uuid.UUID, geometry *entity.RouteGeometry, timing *entity.RouteTiming) error {
	args := m.Called(ctx, id, geometry, timing)

	return args.Error(0)
}

func (m *mockRouteRepository) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockRouteRepository) SearchWithinBounds(ctx context.Context, bounds repository.SearchBounds, offset, limit int) ([]*entity.Route, int64, error) {
	args := m.Called(ctx, bounds, offset, limit)

	var routes []*entity.Route
	if v, ok := args.Get(0).([]*entity.Route); ok {
		routes = v
	}

	return routes, args.Get(1).(int64), args.Error(2)
}

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)

	return args.Error(0)
}

func (m *mockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *mockFileStore) SignedGetURL(ctx context.Context, key string, ttl time.Duration, downloadFilename string) (string, error) {
	args := m.Called(ctx, key, ttl, downloadFilename)

	return args.String(0), args.Error(1)
}
