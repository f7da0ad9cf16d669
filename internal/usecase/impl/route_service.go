package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"waymark/config"
	"waymark/internal/domain/entity"
	"waymark/internal/domain/repository"
	"waymark/internal/domain/service"
	"waymark/internal/geo"
	"waymark/internal/gpx"
	"waymark/internal/usecase"
	"waymark/internal/util"

	"github.com/google/uuid"
)

var (
	// ErrRouteNotFound is returned when a route does not exist
	ErrRouteNotFound = errors.New("route not found")
	// ErrUnauthorized is returned when a user tries to access a route they don't own
	ErrUnauthorized = errors.New("unauthorized to access this route")
	// ErrEmptyFile is returned when the uploaded track file has no content
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrFileTooLarge is returned when the upload exceeds the configured size limit
	ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")
	// ErrInvalidFileType is returned when the upload is not a .gpx file
	ErrInvalidFileType = errors.New("uploaded file must be a .gpx file")
	// ErrInvalidTrackFile is returned when the upload is not well-formed GPX
	ErrInvalidTrackFile = errors.New("uploaded file is not a valid GPX document")
	// ErrNameRequired is returned when the route name is missing
	ErrNameRequired = errors.New("route name is required")
	// ErrInvalidDifficulty is returned when the difficulty value is unknown
	ErrInvalidDifficulty = errors.New("invalid difficulty value")
)

const gpxContentType = "application/gpx+xml"

type routeService struct {
	routeRepo repository.RouteRepository
	fileStore service.FileStore
	config    *config.Config
	logger    *slog.Logger
}

// NewRouteService creates a new route service instance
func NewRouteService(
	routeRepo repository.RouteRepository,
	fileStore service.FileStore,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.RouteUsecase {
	// If Storage is not configured, provide a default configuration
	if cfg.Storage == nil {
		cfg.Storage = &config.StorageConfig{
			PresignTTL:     15 * time.Minute,
			MaxUploadBytes: 10 << 20, // Default to 10 MiB
		}
	}

	return &routeService{
		routeRepo: routeRepo,
		fileStore: fileStore,
		config:    cfg,
		logger:    logger,
	}
}

// IngestRoute stores the uploaded track file, persists the route record and
// derives geometry and timing features from the track points.
func (s *routeService) IngestRoute(ctx context.Context, ownerID uuid.UUID, input *usecase.IngestRouteInput) (*entity.Route, error) {
	if err := s.validateIngestInput(input); err != nil {
		return nil, err
	}

	routeID := uuid.New()
	blobKey := fmt.Sprintf("routes/%s/%s.gpx", ownerID, routeID)

	// Phase one: the raw file goes to blob storage before any row exists,
	// so a visible route row always has a readable artifact behind it.
	if err := s.fileStore.Put(ctx, blobKey, input.FileData, gpxContentType); err != nil {
		return nil, fmt.Errorf("failed to store track file: %w", err)
	}

	now := time.Now()
	route := &entity.Route{
		ID:               routeID,
		OwnerID:          ownerID,
		Name:             input.Name,
		Difficulty:       input.Difficulty,
		Scenery:          input.Scenery,
		Notes:            input.Notes,
		BlobKey:          blobKey,
		OriginalFilename: input.OriginalFilename,
		SizeBytes:        int64(len(input.FileData)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// Phase two: the relational row. A failed insert must not leave an
	// orphaned blob behind, so the stored file is compensated away.
	if err := s.routeRepo.CreateRoute(ctx, route); err != nil {
		if delErr := s.fileStore.Delete(ctx, blobKey); delErr != nil {
			s.logger.Error("Orphaned track file left after failed route insert",
				slog.String("blobKey", blobKey),
				slog.String("error", delErr.Error()),
			)

			return nil, errors.Join(fmt.Errorf("failed to create route: %w", err), delErr)
		}

		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	s.logger.Info("Route ingested",
		slog.String("routeId", routeID.String()),
		slog.String("checksum", util.ChecksumBytes(input.FileData)),
		slog.String("size", util.FormatBytes(route.SizeBytes)),
	)

	s.deriveFeatures(ctx, route, input.FileData)

	return route, nil
}

// GetRoute retrieves a single route owned by the given user
func (s *routeService) GetRoute(ctx context.Context, ownerID, routeID uuid.UUID) (*entity.Route, error) {
	return s.findOwnedRoute(ctx, ownerID, routeID)
}

// ListRoutes retrieves all routes for an owner, newest first
func (s *routeService) ListRoutes(ctx context.Context, ownerID uuid.UUID) ([]*entity.Route, error) {
	routes, err := s.routeRepo.FindRoutesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find routes by owner: %w", err)
	}

	return routes, nil
}

// UpdateRoute updates the descriptive fields of an existing route
func (s *routeService) UpdateRoute(ctx context.Context, ownerID, routeID uuid.UUID, input *usecase.UpdateRouteInput) (*entity.Route, error) {
	route, err := s.findOwnedRoute(ctx, ownerID, routeID)
	if err != nil {
		return nil, err
	}

	if input.Difficulty != nil && !input.Difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}

	s.applyRouteUpdates(route, input)

	if err := s.routeRepo.UpdateRoute(ctx, route); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}

		return nil, fmt.Errorf("failed to update route: %w", err)
	}

	return route, nil
}

// DeleteRoute removes a route row and then its stored track file.
// The row is authoritative, so blob deletion failures are only logged.
func (s *routeService) DeleteRoute(ctx context.Context, ownerID, routeID uuid.UUID) error {
	route, err := s.findOwnedRoute(ctx, ownerID, routeID)
	if err != nil {
		return err
	}

	if err := s.routeRepo.DeleteRoute(ctx, routeID); err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	if err := s.fileStore.Delete(ctx, route.BlobKey); err != nil {
		s.logger.Warn("Failed to delete track file for removed route",
			slog.String("routeId", routeID.String()),
			slog.String("blobKey", route.BlobKey),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// GetDownloadLink returns a time-limited URL for the original track file
func (s *routeService) GetDownloadLink(ctx context.Context, ownerID, routeID uuid.UUID) (*usecase.DownloadLink, error) {
	route, err := s.findOwnedRoute(ctx, ownerID, routeID)
	if err != nil {
		return nil, err
	}

	ttl := s.config.Storage.PresignTTL
	url, err := s.fileStore.SignedGetURL(ctx, route.BlobKey, ttl, route.OriginalFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download url: %w", err)
	}

	return &usecase.DownloadLink{
		URL:       url,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// findOwnedRoute fetches a route and verifies ownership
func (s *routeService) findOwnedRoute(ctx context.Context, ownerID, routeID uuid.UUID) (*entity.Route, error) {
	route, err := s.routeRepo.FindRouteByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}

		return nil, fmt.Errorf("failed to find route by ID: %w", err)
	}

	if route.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}

	return route, nil
}

func (s *routeService) validateIngestInput(input *usecase.IngestRouteInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}

	if input.Difficulty != "" && !input.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}

	if len(input.FileData) == 0 {
		return ErrEmptyFile
	}

	if limit := s.config.Storage.MaxUploadBytes; limit > 0 && int64(len(input.FileData)) > limit {
		return ErrFileTooLarge
	}

	if !strings.EqualFold(filepath.Ext(input.OriginalFilename), ".gpx") {
		return ErrInvalidFileType
	}

	if err := gpx.Validate(input.FileData); err != nil {
		return ErrInvalidTrackFile
	}

	return nil
}

// deriveFeatures parses the track and attaches the derived geometry and
// timing groups. The route row already exists at this point, so every
// failure here degrades to a route without features instead of an error.
func (s *routeService) deriveFeatures(ctx context.Context, route *entity.Route, data []byte) {
	parsed, err := gpx.Parse(data)
	if err != nil {
		s.logger.Warn("Failed to parse track file, route stored without derived features",
			slog.String("routeId", route.ID.String()),
			slog.String("error", err.Error()),
		)

		return
	}

	if parsed.Skipped > 0 {
		s.logger.Warn("Track points skipped during parsing",
			slog.String("routeId", route.ID.String()),
			slog.Int("skipped", parsed.Skipped),
		)
	}

	geometry, err := geo.ComputeGeometry(parsed.Points)
	if err != nil {
		s.logger.Warn("Track has too few valid points for geometry derivation",
			slog.String("routeId", route.ID.String()),
			slog.Int("points", len(parsed.Points)),
		)

		return
	}

	timing := geo.ComputeTiming(parsed.Points, &geometry.LengthKm)

	if err := s.routeRepo.ApplyDerivedFeatures(ctx, route.ID, geometry, timing); err != nil {
		s.logger.Error("Failed to persist derived features",
			slog.String("routeId", route.ID.String()),
			slog.String("error", err.Error()),
		)

		return
	}

	route.Geometry = geometry
	route.Timing = timing
}

func (s *routeService) applyRouteUpdates(route *entity.Route, input *usecase.UpdateRouteInput) {
	if input.Name != nil {
		route.Name = *input.Name
	}

	if input.Difficulty != nil {
		route.Difficulty = *input.Difficulty
	}

	if input.Scenery != nil {
		route.Scenery = *input.Scenery
	}

	if input.Notes != nil {
		route.Notes = *input.Notes
	}

	route.UpdatedAt = time.Now()
}
