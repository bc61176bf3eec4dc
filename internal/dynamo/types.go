package dynamo

import (
	"fmt"
	"math"
)

// Point is a 2D position in meters.
type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) IsValid() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Pose is a position and heading. Theta is kept in (-pi, pi] once the pose
// has been advanced by a dynamics step.
type Pose struct {
	X, Y, Theta float64
}

func NewPose(x, y, theta float64) Pose {
	return Pose{X: x, Y: y, Theta: theta}
}

func (p Pose) Position() Point { return Point{p.X, p.Y} }

// Transform maps a point given in this pose's frame into the parent frame.
func (p Pose) Transform(local Point) Point {
	sin, cos := math.Sincos(p.Theta)
	return Point{
		X: p.X + local.X*cos - local.Y*sin,
		Y: p.Y + local.X*sin + local.Y*cos,
	}
}

// Compose returns local expressed in the parent frame of p.
func (p Pose) Compose(local Pose) Pose {
	pos := p.Transform(local.Position())
	return Pose{X: pos.X, Y: pos.Y, Theta: NormalizeAngle(p.Theta + local.Theta)}
}

func (p Pose) IsValid() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Theta)
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", p.X, p.Y, p.Theta)
}

// NormalizeAngle wraps a in radians into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PoseIntegrator advances a pose under constant unicycle speeds v (m/s)
// and w (rad/s) for dt seconds. Implementations in this module keep no
// state between calls; others may, so each robot should own its own
// integrator rather than share one with robots stepped concurrently.
type PoseIntegrator interface {
	Name() string
	Integrate(p Pose, v, w, dt float64) Pose
}

// Environment answers proximity queries on behalf of sensors. It returns
// the distance to the nearest obstacle inside the cone, or +Inf if none.
type Environment interface {
	QueryNearestObstacle(pose Pose, minRange, maxRange, halfAngle float64) float64
}

// EnvironmentFunc adapts a plain function to Environment.
type EnvironmentFunc func(pose Pose, minRange, maxRange, halfAngle float64) float64

func (f EnvironmentFunc) QueryNearestObstacle(pose Pose, minRange, maxRange, halfAngle float64) float64 {
	return f(pose, minRange, maxRange, halfAngle)
}

// Supervisor drives a robot from its sensor and encoder readings. The
// simulation driver calls it once per tick before the robot steps.
type Supervisor interface {
	Execute(readings []float64, ticks []int, dt float64) (vL, vR float64)
}

// Frame is the observable state of one robot after a tick.
type Frame struct {
	T        float64
	Pose     Pose
	VL, VR   float64
	Ticks    []int
	Readings []float64
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(agent int, f Frame)
}
