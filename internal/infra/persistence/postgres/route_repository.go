// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"waymark/internal/domain/entity"
	domainerrors "waymark/internal/domain/errors"
	"waymark/internal/domain/repository"
	"waymark/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// routeRepository implements the repository.RouteRepository interface.
type routeRepository struct {
	db *gorm.DB
}

// NewRouteRepository is the constructor for routeRepository.
func NewRouteRepository(db *gorm.DB) repository.RouteRepository {
	return &routeRepository{
		db: db,
	}
}

// CreateRoute persists a new route row. Derived feature fields may be nil.
func (repo *routeRepository) CreateRoute(ctx context.Context, route *entity.Route) error {
	routeM, err := fromRouteDomain(route)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(routeM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrRouteCreationFailed.WrapMessage("invalid owner reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrRouteCreationFailed.WrapMessage("missing required route information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create route")
	}

	// Update the entity with generated values
	route.ID = routeM.ID
	route.CreatedAt = routeM.CreatedAt
	route.UpdatedAt = routeM.UpdatedAt

	return nil
}

// FindRouteByID retrieves a route by its unique ID.
func (repo *routeRepository) FindRouteByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	var routeM model.RouteModel

	// This lookup gates mutations, so it must not read a stale replica.
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("id = ?", id).
		First(&routeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRouteNotFound
		}

		return nil, errors.Wrap(err, "failed to find route by ID")
	}

	return toRouteDomain(&routeM)
}

// FindRoutesByOwner retrieves all routes for an owner, newest first.
func (repo *routeRepository) FindRoutesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Route, error) {
	var routeModels []*model.RouteModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&routeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find routes by owner")
	}

	return toRouteDomains(routeModels)
}

// UpdateRoute updates the descriptive fields of an existing route.
// Derived feature columns are deliberately excluded from the update.
func (repo *routeRepository) UpdateRoute(ctx context.Context, route *entity.Route) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RouteModel{}).
		Where("id = ?", route.ID).
		Updates(map[string]any{
			"name":       route.Name,
			"difficulty": route.Difficulty.String(),
			"scenery":    route.Scenery,
			"notes":      route.Notes,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		if isNotNullConstraintViolation(result.Error) {
			return domainerrors.ErrRouteUpdateFailed.WrapMessage("missing required route information")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update route")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRouteNotFound
	}

	return nil
}

// ApplyDerivedFeatures writes the derived geometry and timing groups onto an
// existing route row in a single update.
func (repo *routeRepository) ApplyDerivedFeatures(ctx context.Context, id uuid.UUID, geometry *entity.RouteGeometry, timing *entity.RouteTiming) error {
	if geometry == nil {
		return errors.New("derived geometry must not be nil")
	}

	center, err := model.MarshalGeometry(geometry.Center)
	if err != nil {
		return err
	}
	hull, err := model.MarshalGeometry(orb.Polygon{geometry.ConvexHull})
	if err != nil {
		return err
	}
	path, err := model.MarshalGeometry(geometry.SimplifiedPath)
	if err != nil {
		return err
	}
	box, err := model.MarshalGeometry(orb.Polygon{geometry.BoundingBox})
	if err != nil {
		return err
	}

	columns := map[string]any{
		"center_lng":       geometry.Center[0],
		"center_lat":       geometry.Center[1],
		"center_elevation": geometry.CenterElevation,
		"center":           center,
		"convex_hull":      hull,
		"simplified_path":  path,
		"bounding_box":     box,
		"length_km":        geometry.LengthKm,
		"updated_at":       time.Now(),
	}

	if timing != nil {
		columns["start_time"] = timing.StartTime
		columns["end_time"] = timing.EndTime
		columns["duration_minutes"] = timing.DurationMinutes
		columns["average_speed_kmh"] = timing.AverageSpeedKmh
		columns["elevation_gain_meters"] = timing.ElevationGainMeters
	}

	result := repo.db.WithContext(ctx).
		Model(&model.RouteModel{}).
		Where("id = ?", id).
		Updates(columns)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to apply derived features")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRouteNotFound
	}

	return nil
}

// DeleteRoute removes a route row by its ID.
func (repo *routeRepository) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RouteModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete route")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRouteNotFound
	}

	return nil
}

// SearchWithinBounds returns routes whose center point lies strictly inside
// the given rectangle, plus the total matching count. Routes without a
// derived center never match.
func (repo *routeRepository) SearchWithinBounds(ctx context.Context, bounds repository.SearchBounds, offset, limit int) ([]*entity.Route, int64, error) {
	containment := func(db *gorm.DB) *gorm.DB {
		return db.
			Where("center_lng IS NOT NULL AND center_lat IS NOT NULL").
			Where("center_lng > ? AND center_lng < ?", bounds.MinLng, bounds.MaxLng).
			Where("center_lat > ? AND center_lat < ?", bounds.MinLat, bounds.MaxLat)
	}

	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.RouteModel{}).
		Scopes(containment).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count routes within bounds")
	}

	var routeModels []*model.RouteModel
	if err := repo.db.WithContext(ctx).
		Scopes(containment).
		Order("created_at DESC, id").
		Offset(offset).
		Limit(limit).
		Find(&routeModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to find routes within bounds")
	}

	routes, err := toRouteDomains(routeModels)
	if err != nil {
		return nil, 0, err
	}

	return routes, total, nil
}

// --- Mapper Functions ---

// toRouteDomain converts a GORM RouteModel to a domain Route entity.
func toRouteDomain(data *model.RouteModel) (*entity.Route, error) {
	if data == nil {
		return nil, nil
	}

	route := &entity.Route{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		Name:             data.Name,
		Difficulty:       entity.Difficulty(data.Difficulty),
		Scenery:          data.Scenery,
		Notes:            data.Notes,
		BlobKey:          data.BlobKey,
		OriginalFilename: data.OriginalFilename,
		SizeBytes:        data.SizeBytes,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}

	geometry, err := toRouteGeometry(data)
	if err != nil {
		return nil, err
	}
	route.Geometry = geometry

	if data.StartTime != nil && data.EndTime != nil && data.DurationMinutes != nil {
		timing := &entity.RouteTiming{
			StartTime:       *data.StartTime,
			EndTime:         *data.EndTime,
			DurationMinutes: *data.DurationMinutes,
			AverageSpeedKmh: data.AverageSpeedKmh,
		}
		if data.ElevationGainMeters != nil {
			timing.ElevationGainMeters = *data.ElevationGainMeters
		}
		route.Timing = timing
	}

	return route, nil
}

// toRouteGeometry rebuilds the geometry group from its columns. The group is
// all-or-none: any missing column means the route carries no geometry.
func toRouteGeometry(data *model.RouteModel) (*entity.RouteGeometry, error) {
	if data.Center == nil || data.ConvexHull == nil || data.SimplifiedPath == nil ||
		data.BoundingBox == nil || data.LengthKm == nil {
		return nil, nil
	}

	center, err := model.UnmarshalGeometry(data.Center)
	if err != nil {
		return nil, err
	}
	hull, err := model.UnmarshalGeometry(data.ConvexHull)
	if err != nil {
		return nil, err
	}
	path, err := model.UnmarshalGeometry(data.SimplifiedPath)
	if err != nil {
		return nil, err
	}
	box, err := model.UnmarshalGeometry(data.BoundingBox)
	if err != nil {
		return nil, err
	}

	centerPoint, ok := center.(orb.Point)
	if !ok {
		return nil, errors.New("route center is not a geojson point")
	}
	hullPolygon, ok := hull.(orb.Polygon)
	if !ok || len(hullPolygon) == 0 {
		return nil, errors.New("route convex hull is not a geojson polygon")
	}
	pathLine, ok := path.(orb.LineString)
	if !ok {
		return nil, errors.New("route simplified path is not a geojson linestring")
	}
	boxPolygon, ok := box.(orb.Polygon)
	if !ok || len(boxPolygon) == 0 {
		return nil, errors.New("route bounding box is not a geojson polygon")
	}

	return &entity.RouteGeometry{
		Center:          centerPoint,
		CenterElevation: data.CenterElevation,
		ConvexHull:      hullPolygon[0],
		SimplifiedPath:  pathLine,
		BoundingBox:     boxPolygon[0],
		LengthKm:        *data.LengthKm,
	}, nil
}

func toRouteDomains(routeModels []*model.RouteModel) ([]*entity.Route, error) {
	routes := make([]*entity.Route, 0, len(routeModels))
	for _, routeM := range routeModels {
		route, err := toRouteDomain(routeM)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// fromRouteDomain converts a domain Route entity to a GORM RouteModel.
func fromRouteDomain(data *entity.Route) (*model.RouteModel, error) {
	if data == nil {
		return nil, nil
	}

	routeM := &model.RouteModel{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		Name:             data.Name,
		Difficulty:       data.Difficulty.String(),
		Scenery:          data.Scenery,
		Notes:            data.Notes,
		BlobKey:          data.BlobKey,
		OriginalFilename: data.OriginalFilename,
		SizeBytes:        data.SizeBytes,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}

	if geometry := data.Geometry; geometry != nil {
		center, err := model.MarshalGeometry(geometry.Center)
		if err != nil {
			return nil, err
		}
		hull, err := model.MarshalGeometry(orb.Polygon{geometry.ConvexHull})
		if err != nil {
			return nil, err
		}
		path, err := model.MarshalGeometry(geometry.SimplifiedPath)
		if err != nil {
			return nil, err
		}
		box, err := model.MarshalGeometry(orb.Polygon{geometry.BoundingBox})
		if err != nil {
			return nil, err
		}

		lng, lat := geometry.Center[0], geometry.Center[1]
		length := geometry.LengthKm
		routeM.CenterLng = &lng
		routeM.CenterLat = &lat
		routeM.CenterElevation = geometry.CenterElevation
		routeM.Center = center
		routeM.ConvexHull = hull
		routeM.SimplifiedPath = path
		routeM.BoundingBox = box
		routeM.LengthKm = &length
	}

	if timing := data.Timing; timing != nil {
		start, end := timing.StartTime, timing.EndTime
		duration := timing.DurationMinutes
		gain := timing.ElevationGainMeters
		routeM.StartTime = &start
		routeM.EndTime = &end
		routeM.DurationMinutes = &duration
		routeM.AverageSpeedKmh = timing.AverageSpeedKmh
		routeM.ElevationGainMeters = &gain
	}

	return routeM, nil
}
