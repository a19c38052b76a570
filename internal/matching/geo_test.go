package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceLondonParis(t *testing.T) {
	// London to Paris is roughly 344 km.
	d := HaversineDistance(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344.0, d, 10.0)
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	points := [][4]float64{
		{40.7128, -74.0060, 34.0522, -118.2437},
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{0, 0, 0, 180},
	}

	for _, p := range points {
		ab := HaversineDistance(p[0], p[1], p[2], p[3])
		ba := HaversineDistance(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	d := HaversineDistance(40.7128, -74.0060, 40.7128, -74.0060)
	assert.InDelta(t, 0.0, d, 1e-9)
}

func TestBoundingBoxContainsCenter(t *testing.T) {
	box := BoundingBoxFor(40.7128, -74.0060, 10.0)

	assert.True(t, box.Contains(40.7128, -74.0060))
	assert.Less(t, box.MinLat, 40.7128)
	assert.Greater(t, box.MaxLat, 40.7128)
	assert.Less(t, box.MinLon, -74.0060)
	assert.Greater(t, box.MaxLon, -74.0060)
}

func TestBoundingBoxLatitudeSpan(t *testing.T) {
	// Latitude span should be ~2*radius/111 degrees regardless of center.
	box := BoundingBoxFor(40.7128, -74.0060, 10.0)
	span := box.MaxLat - box.MinLat
	assert.InDelta(t, 20.0/111.0, span, 20.0/111.0*0.05)
}

func TestBoundingBoxContainment(t *testing.T) {
	box := BoundingBoxFor(40.7128, -74.0060, 10.0)

	assert.True(t, box.Contains(40.71, -74.0), "nearby point should be inside")
	assert.False(t, box.Contains(50.0, -80.0), "far point should be outside")
}

func TestBoundingBoxEdgesInclusive(t *testing.T) {
	box := BoundingBox{MinLat: 10, MaxLat: 20, MinLon: 30, MaxLon: 40}

	assert.True(t, box.Contains(10, 30))
	assert.True(t, box.Contains(20, 40))
	assert.False(t, box.Contains(9.999, 35))
	assert.False(t, box.Contains(15, 40.001))
}
