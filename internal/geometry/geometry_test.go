package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/robosim/internal/dynamo"
)

func TestPolygon_TransformToPose(t *testing.T) {
	square := Rectangle(0, 0, 1, 1)

	moved := square.TransformToPose(dynamo.NewPose(2, 3, math.Pi/2))
	require.Equal(t, 4, moved.Len())

	want := []dynamo.Point{{X: 2, Y: 3}, {X: 2, Y: 4}, {X: 1, Y: 4}, {X: 1, Y: 3}}
	for i, v := range moved.Vertices {
		assert.InDelta(t, want[i].X, v.X, 1e-12, "vertex %d x", i)
		assert.InDelta(t, want[i].Y, v.Y, 1e-12, "vertex %d y", i)
	}

	assert.Equal(t, dynamo.Point{X: 1, Y: 1}, square.Vertices[2], "source polygon must not be mutated")
}

func TestPolygon_Contains(t *testing.T) {
	square := Rectangle(-1, -1, 1, 1)

	assert.True(t, square.Contains(dynamo.Point{}))
	assert.True(t, square.Contains(dynamo.Point{X: 0.9, Y: -0.9}))
	assert.False(t, square.Contains(dynamo.Point{X: 1.5, Y: 0}))
}

func TestPolygon_BoundsAndCentroid(t *testing.T) {
	p := NewPolygon([]dynamo.Point{{X: -1, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 2}, {X: -1, Y: 2}})

	lo, hi := p.Bounds()
	assert.Equal(t, dynamo.Point{X: -1, Y: 0}, lo)
	assert.Equal(t, dynamo.Point{X: 3, Y: 2}, hi)
	assert.Equal(t, dynamo.Point{X: 1, Y: 1}, p.Centroid())
}

func TestRayCast(t *testing.T) {
	wall := Segment{A: dynamo.Point{X: 1, Y: -1}, B: dynamo.Point{X: 1, Y: 1}}

	tests := []struct {
		name    string
		heading float64
		want    float64
	}{
		{"head on", 0, 1},
		{"oblique", math.Atan2(0.5, 1), math.Sqrt(1.25)},
		{"away", math.Pi, math.Inf(1)},
		{"parallel", math.Pi / 2, math.Inf(1)},
		{"misses end", math.Atan2(2, 1), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RayCast(dynamo.Point{}, tt.heading, wall)
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(got, 1), "expected miss, got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestRayCastPolygon_NearestEdge(t *testing.T) {
	box := Rectangle(2, -1, 4, 1)
	assert.InDelta(t, 2.0, RayCastPolygon(dynamo.Point{}, 0, box), 1e-12)
}
