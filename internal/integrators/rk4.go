package integrators

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// RK4 applies classical Runge-Kutta to the unicycle ODE
// (x', y', theta') = (v cos theta, v sin theta, w).
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func derive(theta, v, w float64) [3]float64 {
	sin, cos := math.Sincos(theta)
	return [3]float64{v * cos, v * sin, w}
}

func (r *RK4) Integrate(p dynamo.Pose, v, w, dt float64) dynamo.Pose {
	k1 := derive(p.Theta, v, w)
	k2 := derive(p.Theta+dt*0.5*k1[2], v, w)
	k3 := derive(p.Theta+dt*0.5*k2[2], v, w)
	k4 := derive(p.Theta+dt*k3[2], v, w)

	dt6 := dt / 6.0
	var d [3]float64
	for i := 0; i < 3; i++ {
		d[i] = dt6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}

	return dynamo.Pose{
		X:     p.X + d[0],
		Y:     p.Y + d[1],
		Theta: dynamo.NormalizeAngle(p.Theta + d[2]),
	}
}
