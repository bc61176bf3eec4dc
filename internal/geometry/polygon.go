package geometry

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Polygon is an ordered, implicitly closed vertex loop.
type Polygon struct {
	Vertices []dynamo.Point
}

func NewPolygon(vertices []dynamo.Point) Polygon {
	v := make([]dynamo.Point, len(vertices))
	copy(v, vertices)
	return Polygon{Vertices: v}
}

// Rectangle returns an axis-aligned rectangle with corners (x0, y0), (x1, y1).
func Rectangle(x0, y0, x1, y1 float64) Polygon {
	return Polygon{Vertices: []dynamo.Point{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}
}

func (p Polygon) Len() int { return len(p.Vertices) }

func (p Polygon) Clone() Polygon { return NewPolygon(p.Vertices) }

// TransformToPose maps a polygon defined in a body frame into the frame
// the pose is expressed in.
func (p Polygon) TransformToPose(pose dynamo.Pose) Polygon {
	out := make([]dynamo.Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = pose.Transform(v)
	}
	return Polygon{Vertices: out}
}

// Edges returns the closing loop of segments.
func (p Polygon) Edges() []Segment {
	n := len(p.Vertices)
	if n < 2 {
		return nil
	}
	edges := make([]Segment, n)
	for i := 0; i < n; i++ {
		edges[i] = Segment{A: p.Vertices[i], B: p.Vertices[(i+1)%n]}
	}
	return edges
}

// Contains reports whether pt lies strictly inside the polygon (even-odd rule).
func (p Polygon) Contains(pt dynamo.Point) bool {
	inside := false
	n := len(p.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Vertices[i], p.Vertices[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Bounds returns the min and max corners of the axis-aligned bounding box.
func (p Polygon) Bounds() (dynamo.Point, dynamo.Point) {
	if len(p.Vertices) == 0 {
		return dynamo.Point{}, dynamo.Point{}
	}
	lo := dynamo.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi := dynamo.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range p.Vertices {
		lo.X, lo.Y = math.Min(lo.X, v.X), math.Min(lo.Y, v.Y)
		hi.X, hi.Y = math.Max(hi.X, v.X), math.Max(hi.Y, v.Y)
	}
	return lo, hi
}

// Centroid returns the vertex average.
func (p Polygon) Centroid() dynamo.Point {
	var c dynamo.Point
	if len(p.Vertices) == 0 {
		return c
	}
	for _, v := range p.Vertices {
		c = c.Add(v)
	}
	n := float64(len(p.Vertices))
	return dynamo.Point{X: c.X / n, Y: c.Y / n}
}
