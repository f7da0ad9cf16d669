package handler

import (
	"io"
	"log/slog"
	"net/http"

	"waymark/internal/delivery/http/response"
	"waymark/internal/domain/entity"
	domainerrors "waymark/internal/domain/errors"
	"waymark/internal/usecase"
	"waymark/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RouteHandlerParams holds dependencies for RouteHandler, injected by Fx.
type RouteHandlerParams struct {
	fx.In

	RouteUC usecase.RouteUsecase
	Logger  *slog.Logger
}

// RouteHandler holds dependencies for route-related handlers
type RouteHandler struct {
	routeUC usecase.RouteUsecase
	logger  *slog.Logger
}

// NewRouteHandler is the constructor for RouteHandler
func NewRouteHandler(params RouteHandlerParams) *RouteHandler {
	return &RouteHandler{
		routeUC: params.RouteUC,
		logger:  params.Logger,
	}
}

// UpdateRouteRequest represents the request body for updating route metadata
type UpdateRouteRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Difficulty *string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard expert"`
	Scenery    *string `json:"scenery,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// IngestRoute handles uploading a GPX track and creating a route from it.
// The request is multipart form data with a "file" part plus descriptive fields.
func (h *RouteHandler) IngestRoute(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "MISSING_FILE", "A GPX track file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "INVALID_FILE", "Failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return response.BadRequest(c, "INVALID_FILE", "Failed to read uploaded file")
	}

	input := &usecase.IngestRouteInput{
		Name:             c.FormValue("name"),
		Difficulty:       entity.Difficulty(c.FormValue("difficulty")),
		Scenery:          c.FormValue("scenery"),
		Notes:            c.FormValue("notes"),
		OriginalFilename: fileHeader.Filename,
		FileData:         data,
	}

	route, err := h.routeUC.IngestRoute(c.Request().Context(), userID, input)
	if err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusCreated, route, "Route created successfully")
}

// ListRoutes handles retrieving all routes of the authenticated user
func (h *RouteHandler) ListRoutes(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routes, err := h.routeUC.ListRoutes(c.Request().Context(), userID)
	if err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusOK, routes, "Routes retrieved successfully")
}

// GetRoute handles retrieving a single route
func (h *RouteHandler) GetRoute(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	route, err := h.routeUC.GetRoute(c.Request().Context(), userID, routeID)
	if err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusOK, route, "Route retrieved successfully")
}

// UpdateRoute handles updating the descriptive fields of a route
func (h *RouteHandler) UpdateRoute(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	var req UpdateRouteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid route input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.UpdateRouteInput{
		Name:    req.Name,
		Scenery: req.Scenery,
		Notes:   req.Notes,
	}
	if req.Difficulty != nil {
		difficulty := entity.Difficulty(*req.Difficulty)
		input.Difficulty = &difficulty
	}

	route, err := h.routeUC.UpdateRoute(c.Request().Context(), userID, routeID, input)
	if err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusOK, route, "Route updated successfully")
}

// DeleteRoute handles removing a route and its stored track file
func (h *RouteHandler) DeleteRoute(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	if err := h.routeUC.DeleteRoute(c.Request().Context(), userID, routeID); err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Route deleted successfully"}, "Route deleted successfully")
}

// GetDownloadLink handles issuing a time-limited URL for the original track file
func (h *RouteHandler) GetDownloadLink(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return err
	}

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	link, err := h.routeUC.GetDownloadLink(c.Request().Context(), userID, routeID)
	if err != nil {
		return h.handleUsecaseError(c, err)
	}

	return response.Success(c, http.StatusOK, link, "Download link issued successfully")
}

// getUserID extracts the user ID from the context
func (h *RouteHandler) getUserID(c echo.Context) (uuid.UUID, error) {
	userIDVal := c.Get("userID")
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	return userID, nil
}

// handleUsecaseError maps use case errors onto HTTP responses
func (h *RouteHandler) handleUsecaseError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, impl.ErrRouteNotFound):
		return response.NotFound(c, "ROUTE_NOT_FOUND", "Route not found")
	case errors.Is(err, impl.ErrUnauthorized):
		return response.Forbidden(c, "FORBIDDEN", "You do not own this route")
	case errors.Is(err, impl.ErrNameRequired):
		return response.BadRequest(c, "NAME_REQUIRED", "Route name is required")
	case errors.Is(err, impl.ErrInvalidDifficulty):
		return response.BadRequest(c, "INVALID_DIFFICULTY", "Difficulty must be one of easy, medium, hard, expert")
	case errors.Is(err, impl.ErrEmptyFile):
		return response.BadRequest(c, "EMPTY_FILE", "Uploaded file is empty")
	case errors.Is(err, impl.ErrFileTooLarge):
		return response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit", "")
	case errors.Is(err, impl.ErrInvalidFileType):
		return response.BadRequest(c, "INVALID_FILE_TYPE", "Uploaded file must be a .gpx file")
	case errors.Is(err, impl.ErrInvalidTrackFile):
		return response.BadRequest(c, "INVALID_TRACK_FILE", "Uploaded file is not a valid GPX document")
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
