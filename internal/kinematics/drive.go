// Package kinematics converts between differential-drive wheel rates and
// unicycle speeds and advances a pose under them.
package kinematics

import (
	"fmt"
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/integrators"
)

// DifferentialDrive holds the wheel geometry of a two-wheeled robot. It keeps
// no per-tick state.
type DifferentialDrive struct {
	WheelRadius     float64
	WheelBaseLength float64
	integrator      dynamo.PoseIntegrator
}

// New returns a drive that integrates with integ, or the default arc rule
// when integ is nil.
func New(wheelRadius, wheelBaseLength float64, integ dynamo.PoseIntegrator) *DifferentialDrive {
	if integ == nil {
		integ = integrators.NewArc()
	}
	return &DifferentialDrive{
		WheelRadius:     wheelRadius,
		WheelBaseLength: wheelBaseLength,
		integrator:      integ,
	}
}

func (d *DifferentialDrive) Integrator() dynamo.PoseIntegrator { return d.integrator }

// DiffToUni maps wheel angular velocities (rad/s) to forward speed v (m/s)
// and turn rate w (rad/s).
func (d *DifferentialDrive) DiffToUni(vL, vR float64) (v, w float64) {
	v = d.WheelRadius * (vR + vL) / 2
	w = d.WheelRadius * (vR - vL) / d.WheelBaseLength
	return v, w
}

// UniToDiff is the exact inverse of DiffToUni.
func (d *DifferentialDrive) UniToDiff(v, w float64) (vL, vR float64) {
	wl := w * d.WheelBaseLength
	vL = (2*v - wl) / (2 * d.WheelRadius)
	vR = (2*v + wl) / (2 * d.WheelRadius)
	return vL, vR
}

// ApplyDynamics advances pose in place by dt seconds under the given wheel
// rates. pose is left untouched when dt is not a positive finite number.
func (d *DifferentialDrive) ApplyDynamics(pose *dynamo.Pose, vL, vR, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: dt must be positive, got %v", dynamo.ErrInvalidArgument, dt)
	}
	v, w := d.DiffToUni(vL, vR)
	next := d.integrator.Integrate(*pose, v, w, dt)
	if !next.IsValid() {
		return fmt.Errorf("%w: pose %v after rates (%v, %v)", dynamo.ErrInvalidState, next, vL, vR)
	}
	*pose = next
	return nil
}

// Clamp limits v to [-vmax, vmax] and w to [-wmax, wmax] independently.
func Clamp(v, w, vmax, wmax float64) (float64, float64) {
	v = math.Max(math.Min(v, vmax), -vmax)
	w = math.Max(math.Min(w, wmax), -wmax)
	return v, w
}
