package geo

import (
	"math"
	"time"

	"waymark/internal/domain/entity"
)

// ComputeTiming derives the temporal feature group from a point sequence.
// Returns nil when no point carries a timestamp; duration and speed are then
// absent rather than zero. lengthKm may be nil when the route length is
// unavailable, in which case the average speed stays unset.
func ComputeTiming(points []entity.TrackPoint, lengthKm *float64) *entity.RouteTiming {
	var start, end *time.Time
	for i := range points {
		ts := points[i].Time
		if ts == nil {
			continue
		}
		if start == nil || ts.Before(*start) {
			start = ts
		}
		if end == nil || ts.After(*end) {
			end = ts
		}
	}

	if start == nil {
		return nil
	}

	minutes := int(math.Round(end.Sub(*start).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	timing := &entity.RouteTiming{
		StartTime:           *start,
		EndTime:             *end,
		DurationMinutes:     minutes,
		ElevationGainMeters: elevationGain(points),
	}

	// Average speed only when the duration is positive; a zero duration
	// must leave the speed absent, never divide.
	if minutes > 0 && lengthKm != nil {
		speed := *lengthKm / (float64(minutes) / 60)
		timing.AverageSpeedKmh = &speed
	}

	return timing
}

// elevationGain sums the positive elevation deltas between consecutive
// points. Pairs where either side lacks elevation are skipped, so gaps in
// the data never contribute to the sum.
func elevationGain(points []entity.TrackPoint) float64 {
	var gain float64
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1].Elevation, points[i].Elevation
		if prev == nil || curr == nil {
			continue
		}
		if delta := *curr - *prev; delta > 0 {
			gain += delta
		}
	}

	return gain
}
