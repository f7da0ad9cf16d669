package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliveryValidator "waymark/internal/delivery/http/validator"
	"waymark/internal/domain/entity"
	"waymark/internal/usecase"
	"waymark/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearchUsecase struct {
	gotInput *usecase.SearchRoutesInput
	output   *usecase.SearchRoutesOutput
	err      error
}

func (s *stubSearchUsecase) SearchRoutes(_ context.Context, input *usecase.SearchRoutesInput) (*usecase.SearchRoutesOutput, error) {
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}

	return s.output, nil
}

func newSearchContext(t *testing.T, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = deliveryValidator.New()
	req := httptest.NewRequest(http.MethodGet, "/routes/search?"+query, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestSearchHandler_SearchRoutes_Success(t *testing.T) {
	stub := &stubSearchUsecase{
		output: &usecase.SearchRoutesOutput{
			Routes:     []*entity.Route{{ID: uuid.New(), Name: "Elephant Mountain Loop"}},
			Page:       2,
			Limit:      10,
			TotalCount: 11,
			TotalPages: 2,
		},
	}
	handler := &SearchHandler{searchUC: stub, logger: slog.Default()}

	c, rec := newSearchContext(t, "min_lat=24.9&max_lat=25.2&min_lng=121.4&max_lng=121.7&page=2&limit=10")

	require.NoError(t, handler.SearchRoutes(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, stub.gotInput)
	assert.Equal(t, 24.9, stub.gotInput.MinLat)
	assert.Equal(t, 121.7, stub.gotInput.MaxLng)
	assert.Equal(t, 2, stub.gotInput.Page)
	assert.Equal(t, 10, stub.gotInput.Limit)

	body := rec.Body.String()
	assert.Contains(t, body, "Elephant Mountain Loop")
	assert.Contains(t, body, `"total_count":11`)
	assert.Contains(t, body, `"total_pages":2`)
}

func TestSearchHandler_SearchRoutes_OutOfRangeCoordinates(t *testing.T) {
	stub := &stubSearchUsecase{}
	handler := &SearchHandler{searchUC: stub, logger: slog.Default()}

	c, rec := newSearchContext(t, "min_lat=24.9&max_lat=95&min_lng=121.4&max_lng=121.7")

	require.NoError(t, handler.SearchRoutes(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Nil(t, stub.gotInput, "use case must not run on invalid input")
}

func TestSearchHandler_SearchRoutes_MissingCoordinatesRejected(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "all omitted", query: ""},
		{name: "min corner omitted", query: "max_lat=25.2&max_lng=121.7"},
		{name: "single coordinate omitted", query: "min_lat=24.9&max_lat=25.2&min_lng=121.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSearchUsecase{}
			handler := &SearchHandler{searchUC: stub, logger: slog.Default()}

			c, rec := newSearchContext(t, tt.query)

			require.NoError(t, handler.SearchRoutes(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
			assert.Nil(t, stub.gotInput, "use case must not run on missing coordinates")
		})
	}
}

func TestSearchHandler_SearchRoutes_ZeroCoordinatesAccepted(t *testing.T) {
	stub := &stubSearchUsecase{output: &usecase.SearchRoutesOutput{Page: 1, Limit: 50}}
	handler := &SearchHandler{searchUC: stub, logger: slog.Default()}

	// The equator and the prime meridian are valid coordinates; an explicit
	// 0 must not be confused with an omitted parameter.
	c, rec := newSearchContext(t, "min_lat=0&max_lat=1&min_lng=0&max_lng=1")

	require.NoError(t, handler.SearchRoutes(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, stub.gotInput)
	assert.Equal(t, 0.0, stub.gotInput.MinLat)
	assert.Equal(t, 0.0, stub.gotInput.MinLng)
	assert.Equal(t, 1.0, stub.gotInput.MaxLat)
}

func TestSearchHandler_SearchRoutes_UsecaseErrorsMapped(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{name: "invalid bounds", err: impl.ErrInvalidBounds, expectedCode: "INVALID_BOUNDS"},
		{name: "invalid page", err: impl.ErrInvalidPage, expectedCode: "INVALID_PAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &SearchHandler{searchUC: &stubSearchUsecase{err: tt.err}, logger: slog.Default()}

			c, rec := newSearchContext(t, "min_lat=25.2&max_lat=24.9&min_lng=121.4&max_lng=121.7")

			require.NoError(t, handler.SearchRoutes(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedCode)
		})
	}
}
