// Package entity contains the core business objects of the project.
package entity

import "time"

// TrackPoint is a single timestamped position extracted from a track file.
// Elevation and Time are pointers so that "no data" stays distinguishable
// from a literal zero value downstream.
type TrackPoint struct {
	Lat       float64    // Latitude in degrees, [-90, 90].
	Lon       float64    // Longitude in degrees, [-180, 180].
	Elevation *float64   // Elevation in meters, nil when the point carries none.
	Time      *time.Time // Recorded timestamp, nil when the point carries none.
}
