package usecase

import (
	"context"
	"time"

	"waymark/internal/domain/entity"

	"github.com/google/uuid"
)

// IngestRouteInput represents the input for ingesting an uploaded track file
type IngestRouteInput struct {
	Name             string            `json:"name"`
	Difficulty       entity.Difficulty `json:"difficulty"`
	Scenery          string            `json:"scenery"`
	Notes            string            `json:"notes"`
	OriginalFilename string            `json:"original_filename"`
	FileData         []byte            `json:"-"`
}

// UpdateRouteInput represents the input for updating descriptive route fields.
// Derived geometry and timing are never updated through this path.
type UpdateRouteInput struct {
	Name       *string            `json:"name,omitempty"`
	Difficulty *entity.Difficulty `json:"difficulty,omitempty"`
	Scenery    *string            `json:"scenery,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
}

// DownloadLink is a time-limited URL for fetching the original track file
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RouteUsecase defines the interface for route management use cases
type RouteUsecase interface {
	// IngestRoute stores the uploaded file, persists the route record and
	// derives geometry and timing features from the track.
	IngestRoute(ctx context.Context, ownerID uuid.UUID, input *IngestRouteInput) (*entity.Route, error)

	GetRoute(ctx context.Context, ownerID, routeID uuid.UUID) (*entity.Route, error)
	ListRoutes(ctx context.Context, ownerID uuid.UUID) ([]*entity.Route, error)
	UpdateRoute(ctx context.Context, ownerID, routeID uuid.UUID, input *UpdateRouteInput) (*entity.Route, error)
	DeleteRoute(ctx context.Context, ownerID, routeID uuid.UUID) error
	GetDownloadLink(ctx context.Context, ownerID, routeID uuid.UUID) (*DownloadLink, error)
}
