package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/geometry"
)

func TestTrajectorySVGEmpty(t *testing.T) {
	assert.Empty(t, TrajectorySVG(Scene{}, 200, 200))
}

func TestTrajectorySVG(t *testing.T) {
	frames := []dynamo.Frame{
		{Pose: dynamo.NewPose(0, 0, 0)},
		{Pose: dynamo.NewPose(0.5, 0, 0)},
		{Pose: dynamo.NewPose(1, 0.5, 0)},
	}
	s := Scene{
		Trajectories: [][]dynamo.Point{FramePoints(frames)},
		Outlines:     []geometry.Polygon{geometry.Rectangle(0.9, 0.4, 1.1, 0.6)},
		Obstacles:    []geometry.Polygon{geometry.Rectangle(-0.2, -0.2, -0.1, 1.2)},
	}

	svg := TrajectorySVG(s, 400, 300)
	require.NotEmpty(t, svg)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 1, strings.Count(svg, "<path"))
	assert.Equal(t, 2, strings.Count(svg, "<polygon"))
	assert.Equal(t, 2, strings.Count(svg, " L"))
}

func TestFramePoints(t *testing.T) {
	frames := []dynamo.Frame{{Pose: dynamo.NewPose(1, 2, 3)}}
	assert.Equal(t, []dynamo.Point{{X: 1, Y: 2}}, FramePoints(frames))
}
