package integrators

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// straightEps is the turn rate below which the arc is treated as a line.
const straightEps = 1e-9

// Arc integrates the unicycle model exactly for constant (v, w): the robot
// follows a circle of radius v/w about its instantaneous centre of rotation.
type Arc struct{}

func NewArc() *Arc {
	return &Arc{}
}

func (a *Arc) Name() string { return "arc" }

func (a *Arc) Integrate(p dynamo.Pose, v, w, dt float64) dynamo.Pose {
	theta := p.Theta + w*dt

	if math.Abs(w) < straightEps {
		sin, cos := math.Sincos(p.Theta)
		return dynamo.Pose{
			X:     p.X + v*cos*dt,
			Y:     p.Y + v*sin*dt,
			Theta: dynamo.NormalizeAngle(theta),
		}
	}

	r := v / w
	return dynamo.Pose{
		X:     p.X + r*(math.Sin(theta)-math.Sin(p.Theta)),
		Y:     p.Y - r*(math.Cos(theta)-math.Cos(p.Theta)),
		Theta: dynamo.NormalizeAngle(theta),
	}
}
