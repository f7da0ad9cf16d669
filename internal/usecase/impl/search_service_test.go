package impl

import (
	"context"
	"errors"
	"testing"

	"waymark/config"
	"waymark/internal/domain/entity"
	"waymark/internal/domain/repository"
	"waymark/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func taipeiBounds() *usecase.SearchRoutesInput {
	return &usecase.SearchRoutesInput{
		MinLat: 24.9,
		MaxLat: 25.2,
		MinLng: 121.4,
		MaxLng: 121.7,
	}
}

func TestSearchService_SearchRoutes_Success(t *testing.T) {
	mockRepo := new(mockRouteRepository)
	service := NewSearchService(mockRepo, &config.Config{})

	ctx := context.Background()
	expected := []*entity.Route{{ID: uuid.New()}, {ID: uuid.New()}}
	mockRepo.On("SearchWithinBounds", ctx, repository.SearchBounds{
		MinLat: 24.9, MaxLat: 25.2, MinLng: 121.4, MaxLng: 121.7,
	}, 0, 50).Return(expected, int64(2), nil)

	input := taipeiBounds()
	output, err := service.SearchRoutes(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, expected, output.Routes)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 50, output.Limit, "zero limit falls back to the default")
	assert.Equal(t, int64(2), output.TotalCount)
	assert.Equal(t, 1, output.TotalPages)
}

func TestSearchService_SearchRoutes_Pagination(t *testing.T) {
	mockRepo := new(mockRouteRepository)
	service := NewSearchService(mockRepo, &config.Config{})

	ctx := context.Background()
	mockRepo.On("SearchWithinBounds", ctx, mock.Anything, 40, 20).
		Return([]*entity.Route{}, int64(101), nil)

	input := taipeiBounds()
	input.Page = 3
	input.Limit = 20

	output, err := service.SearchRoutes(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, 3, output.Page)
	assert.Equal(t, int64(101), output.TotalCount)
	assert.Equal(t, 6, output.TotalPages, "101 results at 20 per page round up to 6 pages")
}

func TestSearchService_SearchRoutes_ClampsLimit(t *testing.T) {
	mockRepo := new(mockRouteRepository)
	service := NewSearchService(mockRepo, &config.Config{})

	ctx := context.Background()
	mockRepo.On("SearchWithinBounds", ctx, mock.Anything, 0, 200).
		Return([]*entity.Route{}, int64(0), nil)

	input := taipeiBounds()
	input.Limit = 5000

	output, err := service.SearchRoutes(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 200, output.Limit)
	assert.Equal(t, 0, output.TotalPages)
}

func TestSearchService_SearchRoutes_RejectsInvalidPage(t *testing.T) {
	mockRepo := new(mockRouteRepository)
	service := NewSearchService(mockRepo, &config.Config{})

	input := taipeiBounds()
	input.Page = -1

	output, err := service.SearchRoutes(context.Background(), input)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInvalidPage)
	mockRepo.AssertNotCalled(t, "SearchWithinBounds", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchService_SearchRoutes_RejectsInvalidBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(input *usecase.SearchRoutesInput)
	}{
		{
			name:   "latitude out of range",
			mutate: func(input *usecase.SearchRoutesInput) { input.MaxLat = 91 },
		},
		{
			name:   "longitude out of range",
			mutate: func(input *usecase.SearchRoutesInput) { input.MinLng = -181 },
		},
		{
			name: "inverted latitude axis",
			mutate: func(input *usecase.SearchRoutesInput) {
				input.MinLat, input.MaxLat = input.MaxLat, input.MinLat
			},
		},
		{
			name: "inverted longitude axis",
			mutate: func(input *usecase.SearchRoutesInput) {
				input.MinLng, input.MaxLng = input.MaxLng, input.MinLng
			},
		},
		{
			name: "degenerate box",
			mutate: func(input *usecase.SearchRoutesInput) {
				input.MinLat = 25.0
				input.MaxLat = 25.0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mockRouteRepository)
			service := NewSearchService(mockRepo, &config.Config{})

			input := taipeiBounds()
			tt.mutate(input)

			output, err := service.SearchRoutes(context.Background(), input)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrInvalidBounds)
		})
	}
}

func TestSearchService_SearchRoutes_RepositoryError(t *testing.T) {
	mockRepo := new(mockRouteRepository)
	service := NewSearchService(mockRepo, &config.Config{})

	ctx := context.Background()
	mockRepo.On("SearchWithinBounds", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, int64(0), errors.New("connection reset"))

	output, err := service.SearchRoutes(ctx, taipeiBounds())
	assert.Nil(t, output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search routes within bounds")
}
