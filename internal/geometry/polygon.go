package geometry

import "math"

// Point is a 2D point, typically in normalized [0,1] coordinates when used
// by the perspective-crop helpers.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ProjectToSegment returns the point on segment ab closest to p.
func ProjectToSegment(p, a, b Point) Point {
	vx, vy := b.X-a.X, b.Y-a.Y
	lenSq := vx*vx + vy*vy
	if lenSq == 0 {
		return a
	}
	t := ((p.X-a.X)*vx + (p.Y-a.Y)*vy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Point{X: a.X + t*vx, Y: a.Y + t*vy}
}

// PointToSegmentDistance returns the distance from p to segment ab.
func PointToSegmentDistance(p, a, b Point) float64 {
	return Distance(p, ProjectToSegment(p, a, b))
}

// PolygonArea computes the unsigned area of a polygon via the shoelace
// formula. Fewer than three vertices yield zero.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// ClampUnit clamps both coordinates of p to [0,1].
func ClampUnit(p Point) Point {
	return Point{
		X: math.Max(0, math.Min(1, p.X)),
		Y: math.Max(0, math.Min(1, p.Y)),
	}
}

// IsConvexQuad reports whether the four points form a convex quadrilateral
// with consistent winding. Crop quads that fail this check cannot be used
// for perspective correction.
func IsConvexQuad(q [4]Point) bool {
	sign := 0
	for i := range 4 {
		a := q[i]
		b := q[(i+1)%4]
		c := q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			return false
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// MinQuadArea is the smallest normalized area a crop quad may have before it
// is rejected as degenerate.
const MinQuadArea = 0.01

// ValidCropQuad reports whether q is usable as a perspective-crop region:
// convex, non-degenerate, and covering at least MinQuadArea of the unit
// square.
func ValidCropQuad(q [4]Point) bool {
	if !IsConvexQuad(q) {
		return false
	}
	return PolygonArea(q[:]) >= MinQuadArea
}
