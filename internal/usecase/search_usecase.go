package usecase

import (
	"context"

	"waymark/internal/domain/entity"
)

// SearchRoutesInput represents a paginated bounding-box search request
type SearchRoutesInput struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// SearchRoutesOutput represents one page of matching routes
type SearchRoutesOutput struct {
	Routes     []*entity.Route `json:"routes"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalCount int64           `json:"total_count"`
	TotalPages int             `json:"total_pages"`
}

// SearchUsecase defines the interface for spatial route discovery
type SearchUsecase interface {
	// SearchRoutes returns routes whose derived center lies strictly inside
	// the given bounding box, newest first.
	SearchRoutes(ctx context.Context, input *SearchRoutesInput) (*SearchRoutesOutput, error)
}
