package impl

import (
	"context"
	"errors"
	"fmt"

	"waymark/config"
	"waymark/internal/domain/repository"
	"waymark/internal/usecase"
)

var (
	// ErrInvalidBounds is returned when the bounding box is malformed
	ErrInvalidBounds = errors.New("invalid search bounds")
	// ErrInvalidPage is returned when the requested page number is below one
	ErrInvalidPage = errors.New("page number must be at least 1")
)

type searchService struct {
	routeRepo repository.RouteRepository
	config    *config.Config
}

// NewSearchService creates a new search service instance
func NewSearchService(routeRepo repository.RouteRepository, cfg *config.Config) usecase.SearchUsecase {
	// If Search is not configured, provide a default configuration
	if cfg.Search == nil {
		cfg.Search = &config.SearchConfig{
			DefaultLimit: 50,
			MaxLimit:     200,
		}
	}

	return &searchService{
		routeRepo: routeRepo,
		config:    cfg,
	}
}

// SearchRoutes returns one page of routes whose derived center lies strictly
// inside the requested bounding box.
func (s *searchService) SearchRoutes(ctx context.Context, input *usecase.SearchRoutesInput) (*usecase.SearchRoutesOutput, error) {
	if err := validateBounds(input); err != nil {
		return nil, err
	}

	page := input.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.config.Search.DefaultLimit
	}
	if limit > s.config.Search.MaxLimit {
		limit = s.config.Search.MaxLimit
	}

	bounds := repository.SearchBounds{
		MinLat: input.MinLat,
		MaxLat: input.MaxLat,
		MinLng: input.MinLng,
		MaxLng: input.MaxLng,
	}

	offset := (page - 1) * limit

	routes, total, err := s.routeRepo.SearchWithinBounds(ctx, bounds, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search routes within bounds: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &usecase.SearchRoutesOutput{
		Routes:     routes,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func validateBounds(input *usecase.SearchRoutesInput) error {
	if input.MinLat < -90 || input.MaxLat > 90 {
		return ErrInvalidBounds
	}

	if input.MinLng < -180 || input.MaxLng > 180 {
		return ErrInvalidBounds
	}

	if input.MinLat >= input.MaxLat || input.MinLng >= input.MaxLng {
		return ErrInvalidBounds
	}

	return nil
}
