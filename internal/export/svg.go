package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/geometry"
)

// Scene is what TrajectorySVG draws: one trajectory per agent, the final
// body outlines and the static obstacles.
type Scene struct {
	Trajectories [][]dynamo.Point
	Outlines     []geometry.Polygon
	Obstacles    []geometry.Polygon
}

var strokeColors = []string{"#00ff00", "#00bfff", "#ff8c00", "#ff69b4", "#ffff00"}

// FramePoints extracts the positions of one agent's frames.
func FramePoints(frames []dynamo.Frame) []dynamo.Point {
	pts := make([]dynamo.Point, len(frames))
	for i, f := range frames {
		pts[i] = f.Pose.Position()
	}
	return pts
}

type viewport struct {
	minX, minY, rangeX, rangeY float64
	width, height              int
}

func (v viewport) project(p dynamo.Point) (float64, float64) {
	x := (p.X - v.minX) / v.rangeX * float64(v.width)
	y := float64(v.height) - (p.Y-v.minY)/v.rangeY*float64(v.height)
	return x, y
}

func (s Scene) viewport(width, height int) (viewport, bool) {
	var pts []dynamo.Point
	for _, t := range s.Trajectories {
		pts = append(pts, t...)
	}
	for _, o := range s.Outlines {
		pts = append(pts, o.Vertices...)
	}
	for _, o := range s.Obstacles {
		pts = append(pts, o.Vertices...)
	}
	if len(pts) == 0 {
		return viewport{}, false
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// equal scale on both axes so circles stay circles
	r := max(rangeX, rangeY) * 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2

	return viewport{
		minX: cx - r/2, minY: cy - r/2,
		rangeX: r, rangeY: r,
		width: width, height: height,
	}, true
}

// TrajectorySVG renders a scene into a standalone SVG document. It returns an
// empty string when there is nothing to draw.
func TrajectorySVG(s Scene, width, height int) string {
	vp, ok := s.viewport(width, height)
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, o := range s.Obstacles {
		writePolygon(&sb, vp, o, `fill="#444444" stroke="#888888"`)
	}

	for i, t := range s.Trajectories {
		if len(t) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColors[i%len(strokeColors)]))
		for j, p := range t {
			x, y := vp.project(p)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for i, o := range s.Outlines {
		writePolygon(&sb, vp, o, fmt.Sprintf(`fill="none" stroke="%s" stroke-width="2"`, strokeColors[i%len(strokeColors)]))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writePolygon(sb *strings.Builder, vp viewport, p geometry.Polygon, attrs string) {
	if p.Len() < 2 {
		return
	}
	pts := make([]string, p.Len())
	for i, v := range p.Vertices {
		x, y := vp.project(v)
		pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	sb.WriteString(fmt.Sprintf("<polygon %s points=\"%s\"/>\n", attrs, strings.Join(pts, " ")))
}
