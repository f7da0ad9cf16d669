// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"waymark/internal/domain/entity"
	"waymark/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for route persistence.
var (
	// ErrRouteNotFound is returned when a route is not found.
	ErrRouteNotFound = errors.New("route not found")
)

// SearchBounds is an axis-aligned rectangle over geographic coordinates,
// used for center-point containment queries.
type SearchBounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// RouteRepository defines the interface for route-related database operations.
type RouteRepository interface {
	// CreateRoute persists a new route row. Derived feature fields on the
	// entity may be nil; they are stored as NULL.
	CreateRoute(ctx context.Context, route *entity.Route) error

	// FindRouteByID retrieves a route by its unique ID.
	// Returns ErrRouteNotFound if no such route exists.
	FindRouteByID(ctx context.Context, id uuid.UUID) (*entity.Route, error)

	// FindRoutesByOwner retrieves all routes for an owner, newest first.
	FindRoutesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Route, error)

	// UpdateRoute updates the descriptive fields of an existing route
	// (name, difficulty, scenery, notes). Derived feature columns are
	// never touched by this call.
	UpdateRoute(ctx context.Context, route *entity.Route) error

	// ApplyDerivedFeatures writes the derived geometry and timing groups
	// onto an existing route row in a single update. timing may be nil
	// when the track carries no timestamps.
	ApplyDerivedFeatures(ctx context.Context, id uuid.UUID, geometry *entity.RouteGeometry, timing *entity.RouteTiming) error

	// DeleteRoute removes a route row by its ID.
	DeleteRoute(ctx context.Context, id uuid.UUID) error

	// SearchWithinBounds returns the routes whose center point lies strictly
	// inside bounds, plus the total matching count. Routes without a derived
	// center are never returned. Results are ordered newest first and
	// windowed by offset/limit.
	SearchWithinBounds(ctx context.Context, bounds SearchBounds, offset, limit int) ([]*entity.Route, int64, error)
}
