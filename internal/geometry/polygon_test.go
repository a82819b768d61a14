package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{0, 0}, Point{3, 4}), 1e-9)
	assert.InDelta(t, 0.0, Distance(Point{1, 1}, Point{1, 1}), 1e-9)
}

func TestProjectToSegment(t *testing.T) {
	a := Point{0, 0}
	b := Point{10, 0}

	// Projection inside the segment.
	p := ProjectToSegment(Point{5, 3}, a, b)
	assert.InDelta(t, 5.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)

	// Projection clamped to the endpoints.
	p = ProjectToSegment(Point{-5, 3}, a, b)
	assert.Equal(t, a, p)
	p = ProjectToSegment(Point{20, -2}, a, b)
	assert.Equal(t, b, p)

	// Degenerate segment collapses to its single point.
	p = ProjectToSegment(Point{3, 3}, a, a)
	assert.Equal(t, a, p)
}

func TestPointToSegmentDistance(t *testing.T) {
	assert.InDelta(t, 3.0, PointToSegmentDistance(Point{5, 3}, Point{0, 0}, Point{10, 0}), 1e-9)
	assert.InDelta(t, 5.0, PointToSegmentDistance(Point{-3, 4}, Point{0, 0}, Point{10, 0}), 1e-9)
}

func TestPolygonArea(t *testing.T) {
	square := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	assert.InDelta(t, 1.0, PolygonArea(square), 1e-9)

	// Winding direction does not affect the unsigned area.
	reversed := []Point{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	assert.InDelta(t, 1.0, PolygonArea(reversed), 1e-9)

	triangle := []Point{{0, 0}, {4, 0}, {0, 3}}
	assert.InDelta(t, 6.0, PolygonArea(triangle), 1e-9)

	assert.InDelta(t, 0.0, PolygonArea([]Point{{0, 0}, {1, 1}}), 1e-9)
}

func TestClampUnit(t *testing.T) {
	assert.Equal(t, Point{0, 1}, ClampUnit(Point{-0.5, 1.5}))
	assert.Equal(t, Point{0.25, 0.75}, ClampUnit(Point{0.25, 0.75}))
}

func TestValidCropQuad(t *testing.T) {
	unit := [4]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	assert.True(t, ValidCropQuad(unit))

	// Self-intersecting ("bowtie") quads are rejected.
	bowtie := [4]Point{{0, 0}, {1, 1}, {1, 0}, {0, 1}}
	assert.False(t, ValidCropQuad(bowtie))

	// A quad below the minimum area is rejected even when convex.
	tiny := [4]Point{{0, 0}, {0.05, 0}, {0.05, 0.05}, {0, 0.05}}
	assert.False(t, ValidCropQuad(tiny))

	// Collinear points are degenerate.
	flat := [4]Point{{0, 0}, {0.5, 0}, {1, 0}, {0.5, 0.5}}
	assert.False(t, ValidCropQuad(flat))
}
