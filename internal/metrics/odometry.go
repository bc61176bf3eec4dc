package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/sensors"
)

// OdometryDrift dead-reckons a pose from the wheel encoder ticks and reports
// the largest distance between that estimate and the true pose.
type OdometryDrift struct {
	name            string
	encoder         *sensors.WheelEncoder
	wheelBaseLength float64

	estimate  dynamo.Pose
	lastTicks [2]int
	maxDrift  float64
	samples   int
}

func NewOdometryDrift(wheelRadius, wheelBaseLength float64, ticksPerRev int) *OdometryDrift {
	return &OdometryDrift{
		name:            "odometry_drift",
		encoder:         sensors.NewWheelEncoder(wheelRadius, ticksPerRev),
		wheelBaseLength: wheelBaseLength,
	}
}

func (o *OdometryDrift) Name() string { return o.name }

func (o *OdometryDrift) Observe(f dynamo.Frame) {
	if len(f.Ticks) < 2 {
		return
	}
	ticks := [2]int{f.Ticks[0], f.Ticks[1]}

	if o.samples == 0 {
		o.estimate = f.Pose
		o.lastTicks = ticks
		o.samples++
		return
	}

	dL := o.encoder.Distance(ticks[0] - o.lastTicks[0])
	dR := o.encoder.Distance(ticks[1] - o.lastTicks[1])
	o.lastTicks = ticks

	dc := (dL + dR) / 2
	dTheta := (dR - dL) / o.wheelBaseLength
	mid := o.estimate.Theta + dTheta/2
	o.estimate = dynamo.Pose{
		X:     o.estimate.X + dc*math.Cos(mid),
		Y:     o.estimate.Y + dc*math.Sin(mid),
		Theta: dynamo.NormalizeAngle(o.estimate.Theta + dTheta),
	}
	o.samples++

	drift := f.Pose.Position().Sub(o.estimate.Position()).Norm()
	o.maxDrift = math.Max(o.maxDrift, drift)
}

// Estimate returns the current dead-reckoned pose.
func (o *OdometryDrift) Estimate() dynamo.Pose { return o.estimate }

func (o *OdometryDrift) Value() float64 { return o.maxDrift }

func (o *OdometryDrift) Reset() {
	o.estimate = dynamo.Pose{}
	o.lastTicks = [2]int{}
	o.maxDrift = 0
	o.samples = 0
}
