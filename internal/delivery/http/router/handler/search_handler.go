package handler

import (
	"log/slog"
	"net/http"

	"waymark/internal/delivery/http/response"
	domainerrors "waymark/internal/domain/errors"
	"waymark/internal/usecase"
	"waymark/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SearchHandlerParams holds dependencies for SearchHandler, injected by Fx.
type SearchHandlerParams struct {
	fx.In

	SearchUC usecase.SearchUsecase
	Logger   *slog.Logger
}

// SearchHandler holds dependencies for spatial route discovery handlers
type SearchHandler struct {
	searchUC usecase.SearchUsecase
	logger   *slog.Logger
}

// NewSearchHandler is the constructor for SearchHandler
func NewSearchHandler(params SearchHandlerParams) *SearchHandler {
	return &SearchHandler{
		searchUC: params.SearchUC,
		logger:   params.Logger,
	}
}

// SearchRoutesRequest represents the query parameters for a bounding-box search.
// The coordinates bind as pointers so an omitted parameter is rejected instead
// of silently becoming 0.
type SearchRoutesRequest struct {
	MinLat *float64 `query:"min_lat" validate:"required,min=-90,max=90"`
	MaxLat *float64 `query:"max_lat" validate:"required,min=-90,max=90"`
	MinLng *float64 `query:"min_lng" validate:"required,min=-180,max=180"`
	MaxLng *float64 `query:"max_lng" validate:"required,min=-180,max=180"`
	Page   int      `query:"page"`
	Limit  int      `query:"limit"`
}

// SearchRoutes handles paginated bounding-box discovery of routes
func (h *SearchHandler) SearchRoutes(c echo.Context) error {
	var req SearchRoutesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid search parameters")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.searchUC.SearchRoutes(c.Request().Context(), &usecase.SearchRoutesInput{
		MinLat: *req.MinLat,
		MaxLat: *req.MaxLat,
		MinLng: *req.MinLng,
		MaxLng: *req.MaxLng,
		Page:   req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Routes searched successfully")
}

// handleUsecaseError maps use case errors onto HTTP responses
func (h *SearchHandler) handleUsecaseError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, impl.ErrInvalidBounds):
		return response.BadRequest(c, "INVALID_BOUNDS", "Search bounds are malformed")
	case errors.Is(err, impl.ErrInvalidPage):
		return response.BadRequest(c, "INVALID_PAGE", "Page number must be at least 1")
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
