package integrators

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Euler moves along the pre-step heading for the whole interval, then turns.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Integrate(p dynamo.Pose, v, w, dt float64) dynamo.Pose {
	sin, cos := math.Sincos(p.Theta)
	return dynamo.Pose{
		X:     p.X + v*cos*dt,
		Y:     p.Y + v*sin*dt,
		Theta: dynamo.NormalizeAngle(p.Theta + w*dt),
	}
}
