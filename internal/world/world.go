// Package world provides a static obstacle field that answers the
// proximity queries of robot sensors.
package world

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/geometry"
)

// DefaultRays is the number of rays cast across a sensor cone.
const DefaultRays = 5

type World struct {
	obstacles []geometry.Polygon
	rays      int
}

func New() *World {
	return &World{rays: DefaultRays}
}

// SetRays sets how many rays sample each cone. Values below 3 are raised
// to 3 and even values are rounded up so the cone axis is always sampled.
func (w *World) SetRays(n int) {
	if n < 3 {
		n = 3
	}
	if n%2 == 0 {
		n++
	}
	w.rays = n
}

func (w *World) Rays() int { return w.rays }

func (w *World) AddObstacle(p geometry.Polygon) {
	w.obstacles = append(w.obstacles, p.Clone())
}

func (w *World) AddRectangle(x0, y0, x1, y1 float64) {
	w.obstacles = append(w.obstacles, geometry.Rectangle(x0, y0, x1, y1))
}

// AddArena walls in a square of side size centred on the origin. Walls are
// thickness deep and sit outside the square.
func (w *World) AddArena(size, thickness float64) {
	h := size / 2
	t := thickness
	w.AddRectangle(-h-t, h, h+t, h+t)
	w.AddRectangle(-h-t, -h-t, h+t, -h)
	w.AddRectangle(-h-t, -h, -h, h)
	w.AddRectangle(h, -h, h+t, h)
}

func (w *World) Obstacles() []geometry.Polygon {
	out := make([]geometry.Polygon, len(w.obstacles))
	for i, o := range w.obstacles {
		out[i] = o.Clone()
	}
	return out
}

// QueryNearestObstacle casts a fan of rays across the cone and returns the
// shortest hit no farther than maxRange, or +Inf if nothing is in range.
// minRange is not applied: hits closer than it are returned as measured and
// the caller clips them, as sensors.ProximitySensor.Read does.
func (w *World) QueryNearestObstacle(pose dynamo.Pose, minRange, maxRange, halfAngle float64) float64 {
	origin := pose.Position()
	best := math.Inf(1)

	n := w.rays
	for i := 0; i < n; i++ {
		heading := pose.Theta - halfAngle + 2*halfAngle*float64(i)/float64(n-1)
		for _, o := range w.obstacles {
			if d := geometry.RayCastPolygon(origin, heading, o); d < best {
				best = d
			}
		}
	}

	if best > maxRange {
		return math.Inf(1)
	}
	return best
}

// Collides reports whether any vertex of body lies inside an obstacle. The
// simulator uses it only to flag contacts; there is no collision response.
func (w *World) Collides(body geometry.Polygon) bool {
	for _, o := range w.obstacles {
		for _, v := range body.Vertices {
			if o.Contains(v) {
				return true
			}
		}
	}
	return false
}
