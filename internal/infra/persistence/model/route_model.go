package model

import (
	"encoding/json"
	"time"

	"waymark/internal/errors"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteModel is the GORM-specific struct for the 'routes' table.
//
// The derived shapes are stored as GeoJSON in jsonb columns; the center point
// is additionally flattened into plain double columns so the containment
// query stays a pair of range predicates. All derived columns are nullable:
// a route whose feature derivation failed keeps NULLs there.
type RouteModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OwnerID          uuid.UUID `gorm:"not null;index:idx_routes_on_owner"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Difficulty       string    `gorm:"type:varchar(20);not null"`
	Scenery          string    `gorm:"type:text"`
	Notes            string    `gorm:"type:text"`
	BlobKey          string    `gorm:"type:varchar(512);not null"`
	OriginalFilename string    `gorm:"type:varchar(255);not null"`
	SizeBytes        int64     `gorm:"not null"`

	CenterLng       *float64 `gorm:"index:idx_routes_center,composite:center"`
	CenterLat       *float64 `gorm:"index:idx_routes_center,composite:center"`
	CenterElevation *float64
	Center          *string `gorm:"type:jsonb"`
	ConvexHull      *string `gorm:"type:jsonb"`
	SimplifiedPath  *string `gorm:"type:jsonb"`
	BoundingBox     *string `gorm:"type:jsonb"`
	LengthKm        *float64

	StartTime           *time.Time
	EndTime             *time.Time
	DurationMinutes     *int
	AverageSpeedKmh     *float64
	ElevationGainMeters *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RouteModel) TableName() string {
	return "routes"
}

// MarshalGeometry encodes an orb geometry as a GeoJSON jsonb value.
func MarshalGeometry(geometry orb.Geometry) (*string, error) {
	data, err := json.Marshal(geojson.NewGeometry(geometry))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal geometry to geojson")
	}

	encoded := string(data)

	return &encoded, nil
}

// UnmarshalGeometry decodes a GeoJSON jsonb value back into an orb geometry.
func UnmarshalGeometry(encoded *string) (orb.Geometry, error) {
	if encoded == nil {
		return nil, nil
	}

	var geometry geojson.Geometry
	if err := json.Unmarshal([]byte(*encoded), &geometry); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal geojson geometry")
	}

	return geometry.Geometry(), nil
}
