// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Route is the core entity for a persisted GPS track and its metadata.
// Descriptive fields are editable after creation; the derived Geometry and
// Timing groups are written once by ingestion and never recomputed on edit.
type Route struct {
	ID               uuid.UUID      // The unique identifier for the route.
	OwnerID          uuid.UUID      // The ID of the user that uploaded the route.
	Name             string         // A user-chosen display name.
	Difficulty       Difficulty     // Subjective difficulty rating.
	Scenery          string         // Free-form scenery description.
	Notes            string         // Free-form notes.
	BlobKey          string         // Object key of the raw track file in the file store.
	OriginalFilename string         // The filename as uploaded by the user.
	SizeBytes        int64          // Size of the raw track file in bytes.
	Geometry         *RouteGeometry // Derived geometric features; nil when derivation never ran or failed.
	Timing           *RouteTiming   // Derived temporal features; nil when the track carries no timestamps.
	CreatedAt        time.Time      // Timestamp of when this route was created.
	UpdatedAt        time.Time      // Timestamp of the last modification.
}

// RouteGeometry groups the geometric features derived from a track.
// The group is stored and loaded atomically: either every field is
// present or the route carries no geometry at all.
type RouteGeometry struct {
	Center          orb.Point      // Length-weighted line centroid of the track, (lon, lat).
	CenterElevation *float64       // Elevation at the point nearest the centroid, when the track has elevation data.
	ConvexHull      orb.Ring       // Closed convex hull ring over all track points.
	SimplifiedPath  orb.LineString // Douglas-Peucker simplified outline of the track.
	BoundingBox     orb.Ring       // Closed 5-vertex ring of the axis-aligned envelope.
	LengthKm        float64        // Great-circle length of the track in kilometers.
}

// RouteTiming groups the temporal features derived from a track.
// Present only when at least one track point carries a timestamp.
type RouteTiming struct {
	StartTime           time.Time // Earliest timestamp across all points.
	EndTime             time.Time // Latest timestamp across all points.
	DurationMinutes     int       // Rounded duration in minutes, never negative.
	AverageSpeedKmh     *float64  // Set only when DurationMinutes > 0 and a length is available.
	ElevationGainMeters float64   // Sum of positive elevation deltas between consecutive points.
}
