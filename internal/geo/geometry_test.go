package geo

import (
	"testing"

	"waymark/internal/domain/entity"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackPoints(coords ...[2]float64) []entity.TrackPoint {
	points := make([]entity.TrackPoint, 0, len(coords))
	for _, c := range coords {
		points = append(points, entity.TrackPoint{Lon: c[0], Lat: c[1]})
	}

	return points
}

func TestComputeGeometry_RejectsSinglePoint(t *testing.T) {
	_, err := ComputeGeometry(trackPoints([2]float64{0, 0}))
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = ComputeGeometry(nil)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestComputeGeometry_UnitSquareTrack(t *testing.T) {
	geometry, err := ComputeGeometry(trackPoints(
		[2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 1}, [2]float64{1, 0},
	))
	require.NoError(t, err)

	assert.Positive(t, geometry.LengthKm)

	// Center inside the unit square.
	assert.Greater(t, geometry.Center[0], 0.0)
	assert.Less(t, geometry.Center[0], 1.0)
	assert.Greater(t, geometry.Center[1], 0.0)
	assert.Less(t, geometry.Center[1], 1.0)

	// Hull has 4 distinct corners, closed to 5 vertices.
	require.Len(t, geometry.ConvexHull, 5)
	assert.Equal(t, geometry.ConvexHull[0], geometry.ConvexHull[4])

	// Bounding box is the closed 5-vertex envelope ring.
	require.Len(t, geometry.BoundingBox, 5)
	assert.Equal(t, geometry.BoundingBox[0], geometry.BoundingBox[4])
}

func TestComputeGeometry_BoundContainsEverything(t *testing.T) {
	points := trackPoints(
		[2]float64{121.51, 25.02}, [2]float64{121.56, 25.05},
		[2]float64{121.53, 25.09}, [2]float64{121.49, 25.04},
		[2]float64{121.55, 25.03},
	)
	geometry, err := ComputeGeometry(points)
	require.NoError(t, err)

	bound := orb.Ring(geometry.BoundingBox).Bound()

	for _, p := range points {
		assert.True(t, bound.Contains(orb.Point{p.Lon, p.Lat}))
	}
	assert.True(t, bound.Contains(geometry.Center))
	for _, v := range geometry.ConvexHull {
		assert.True(t, bound.Contains(v))
	}
	for _, v := range geometry.SimplifiedPath {
		assert.True(t, bound.Contains(v))
	}
}

func TestComputeGeometry_HullContainsAllPoints(t *testing.T) {
	points := trackPoints(
		[2]float64{0, 0}, [2]float64{2, 0.1}, [2]float64{4, 0},
		[2]float64{3.5, 2}, [2]float64{2, 4}, [2]float64{0.5, 2.2},
		[2]float64{2, 1}, [2]float64{1.5, 1.5}, // interior points
	)
	geometry, err := ComputeGeometry(points)
	require.NoError(t, err)

	hull := geometry.ConvexHull
	require.GreaterOrEqual(t, len(hull), 4)

	// Every input point lies inside or on the boundary of the hull.
	for _, p := range points {
		assert.True(t, ringContains(hull, orb.Point{p.Lon, p.Lat}), "point %v outside hull", p)
	}
}

// ringContains reports containment inclusive of the boundary.
func ringContains(ring orb.Ring, p orb.Point) bool {
	if planar.RingContains(ring, p) {
		return true
	}
	for i := 1; i < len(ring); i++ {
		if planar.DistanceFromSegment(ring[i-1], ring[i], p) < 1e-12 {
			return true
		}
	}

	return false
}

func TestComputeGeometry_CollinearPointsGiveDegenerateHull(t *testing.T) {
	geometry, err := ComputeGeometry(trackPoints(
		[2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 2}, [2]float64{3, 3},
	))
	require.NoError(t, err)

	// Segment hull: two distinct endpoints, closed.
	require.Len(t, geometry.ConvexHull, 3)
	assert.Equal(t, geometry.ConvexHull[0], geometry.ConvexHull[2])
}

func TestComputeGeometry_IdenticalPointsFallBackToMeanCentroid(t *testing.T) {
	geometry, err := ComputeGeometry(trackPoints(
		[2]float64{5, 5}, [2]float64{5, 5}, [2]float64{5, 5},
	))
	require.NoError(t, err)

	assert.Equal(t, orb.Point{5, 5}, geometry.Center)
	assert.Zero(t, geometry.LengthKm)
}

func TestComputeGeometry_CentroidIsLengthWeighted(t *testing.T) {
	// Three vertices, but nearly all the length sits on the first segment;
	// a vertex-average would pull the centroid toward the short tail.
	geometry, err := ComputeGeometry(trackPoints(
		[2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 0.1},
	))
	require.NoError(t, err)

	// The vertex mean is x ~= 6.67; the line centroid must sit near 5.
	assert.InDelta(t, 5.0, geometry.Center[0], 0.2)
}

func TestComputeGeometry_SimplifyKeepsEndpointsAndShrinks(t *testing.T) {
	// A noisy near-straight line; deviations are far below tolerance.
	coords := make([][2]float64, 0, 50)
	for i := 0; i < 50; i++ {
		jitter := 0.00001 * float64(i%3)
		coords = append(coords, [2]float64{float64(i) * 0.01, jitter})
	}
	points := trackPoints(coords...)

	geometry, err := ComputeGeometry(points)
	require.NoError(t, err)

	simplified := geometry.SimplifiedPath
	assert.LessOrEqual(t, len(simplified), len(points))
	assert.Less(t, len(simplified), len(points))

	assert.Equal(t, orb.Point{points[0].Lon, points[0].Lat}, simplified[0])
	last := points[len(points)-1]
	assert.Equal(t, orb.Point{last.Lon, last.Lat}, simplified[len(simplified)-1])
}

func TestComputeGeometry_LengthExcludesElevation(t *testing.T) {
	climb := 500.0
	flat, err := ComputeGeometry(trackPoints([2]float64{0, 0}, [2]float64{0, 0.01}))
	require.NoError(t, err)

	withEle, err := ComputeGeometry([]entity.TrackPoint{
		{Lon: 0, Lat: 0},
		{Lon: 0, Lat: 0.01, Elevation: &climb},
	})
	require.NoError(t, err)

	assert.Equal(t, flat.LengthKm, withEle.LengthKm)
	// ~1.11 km for 0.01 degrees of latitude.
	assert.InDelta(t, 1.11, flat.LengthKm, 0.02)
}

func TestComputeGeometry_CenterElevationFromNearestPoint(t *testing.T) {
	eleNear := 120.0
	eleFar := 900.0
	geometry, err := ComputeGeometry([]entity.TrackPoint{
		{Lon: 0, Lat: 0, Elevation: &eleFar},
		{Lon: 1, Lat: 0, Elevation: &eleNear},
		{Lon: 2, Lat: 0},
	})
	require.NoError(t, err)

	require.NotNil(t, geometry.CenterElevation)
	assert.Equal(t, eleNear, *geometry.CenterElevation)

	noEle, err := ComputeGeometry(trackPoints([2]float64{0, 0}, [2]float64{1, 0}))
	require.NoError(t, err)
	assert.Nil(t, noEle.CenterElevation)
}
