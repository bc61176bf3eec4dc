package geometry

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

const parallelEps = 1e-12

type Segment struct {
	A, B dynamo.Point
}

func (s Segment) Length() float64 { return s.B.Sub(s.A).Norm() }

// RayCast returns the distance along the ray from origin with the given
// heading to its first intersection with s, or +Inf if the ray misses.
func RayCast(origin dynamo.Point, heading float64, s Segment) float64 {
	sin, cos := math.Sincos(heading)
	dx, dy := cos, sin
	ex, ey := s.B.X-s.A.X, s.B.Y-s.A.Y

	denom := dx*ey - dy*ex
	if math.Abs(denom) < parallelEps {
		return math.Inf(1)
	}

	wx, wy := s.A.X-origin.X, s.A.Y-origin.Y
	t := (wx*ey - wy*ex) / denom
	u := (wx*dy - wy*dx) / denom

	if t < 0 || u < 0 || u > 1 {
		return math.Inf(1)
	}
	return t
}

// RayCastPolygon returns the nearest hit of the ray against any edge of p.
func RayCastPolygon(origin dynamo.Point, heading float64, p Polygon) float64 {
	best := math.Inf(1)
	for _, e := range p.Edges() {
		if d := RayCast(origin, heading, e); d < best {
			best = d
		}
	}
	return best
}
