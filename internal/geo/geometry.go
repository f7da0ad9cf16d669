// Package geo derives geometric and temporal summary features from the
// point sequence of a parsed track. All functions are pure and operate on
// the 2-D (lon, lat) projection; elevation is carried through where noted
// but never drives the planar geometry.
package geo

import (
	"sort"

	"waymark/internal/domain/entity"
	"waymark/internal/errors"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// SimplifyTolerance is the Douglas-Peucker tolerance for the simplified
// outline, in coordinate degrees. Roughly 111 m at the equator, less at
// higher latitudes; fixed rather than adaptive.
const SimplifyTolerance = 0.001

// ErrTooFewPoints is returned when a sequence cannot form a line.
var ErrTooFewPoints = errors.New("point sequence needs at least two points")

// ComputeGeometry derives the full geometry group from a point sequence.
// The five features are always computed together so callers can store the
// group atomically.
func ComputeGeometry(points []entity.TrackPoint) (*entity.RouteGeometry, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, orb.Point{p.Lon, p.Lat})
	}

	center := lineCentroid(line)

	return &entity.RouteGeometry{
		Center:          center,
		CenterElevation: nearestElevation(points, center),
		ConvexHull:      convexHull(line),
		SimplifiedPath:  simplifyPath(line),
		BoundingBox:     line.Bound().ToRing(),
		LengthKm:        lengthKm(line),
	}, nil
}

// lineCentroid is the length-weighted centroid of the line, not the average
// of its vertices. A fully degenerate line (all points identical) falls back
// to the arithmetic mean of the vertices.
func lineCentroid(line orb.LineString) orb.Point {
	if planarLength(line) == 0 {
		return meanPoint(line)
	}

	centroid, _ := planar.CentroidArea(line)

	return centroid
}

func planarLength(line orb.LineString) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += planar.Distance(line[i-1], line[i])
	}

	return total
}

func meanPoint(line orb.LineString) orb.Point {
	var sum orb.Point
	for _, p := range line {
		sum[0] += p[0]
		sum[1] += p[1]
	}

	return orb.Point{sum[0] / float64(len(line)), sum[1] / float64(len(line))}
}

// nearestElevation returns the elevation of the track point planar-closest
// to the centroid, or nil when no point carries elevation.
func nearestElevation(points []entity.TrackPoint, center orb.Point) *float64 {
	var best *float64
	bestDist := 0.0
	for i := range points {
		if points[i].Elevation == nil {
			continue
		}
		dist := planar.Distance(orb.Point{points[i].Lon, points[i].Lat}, center)
		if best == nil || dist < bestDist {
			ele := *points[i].Elevation
			best = &ele
			bestDist = dist
		}
	}

	return best
}

// convexHull computes the planar convex hull over the (lon, lat) projection
// using the monotone chain algorithm. The result is a closed ring; fewer
// than three distinct points yield a degenerate (point or segment) ring.
func convexHull(line orb.LineString) orb.Ring {
	distinct := distinctSorted(line)

	switch len(distinct) {
	case 1:
		return orb.Ring{distinct[0], distinct[0]}
	case 2:
		return orb.Ring{distinct[0], distinct[1], distinct[0]}
	}

	var lower []orb.Point
	for _, p := range distinct {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []orb.Point
	for i := len(distinct) - 1; i >= 0; i-- {
		p := distinct[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := make(orb.Ring, 0, len(lower)+len(upper)-1)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	hull = append(hull, hull[0])

	return hull
}

func distinctSorted(line orb.LineString) []orb.Point {
	sorted := make([]orb.Point, len(line))
	copy(sorted, line)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}

		return sorted[i][1] < sorted[j][1]
	})

	distinct := sorted[:0]
	for i, p := range sorted {
		if i == 0 || !p.Equal(sorted[i-1]) {
			distinct = append(distinct, p)
		}
	}

	return distinct
}

// cross is the z-component of (b-a) x (c-a); positive for a counter-clockwise turn.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// simplifyPath reduces the track outline with Douglas-Peucker at the fixed
// tolerance. First and last points are always retained.
func simplifyPath(line orb.LineString) orb.LineString {
	simplified := simplify.DouglasPeucker(SimplifyTolerance).Simplify(line.Clone())

	return simplified.(orb.LineString)
}

// lengthKm sums the great-circle distance between consecutive points, in
// kilometers. Elevation is excluded; the track is flattened before measuring.
func lengthKm(line orb.LineString) float64 {
	var meters float64
	for i := 1; i < len(line); i++ {
		meters += orbgeo.Distance(line[i-1], line[i])
	}

	return meters / 1000
}
