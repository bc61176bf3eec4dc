// Package robot models a two-wheeled differential-drive robot: its pose,
// wheel encoders, proximity sensors and world-frame body outline.
//
// A Robot is not safe for concurrent use. Step and SetWheelDriveRates must
// not run at the same time on the same Robot; distinct robots share nothing.
package robot

import (
	"fmt"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/geometry"
	"github.com/san-kum/robosim/internal/kinematics"
	"github.com/san-kum/robosim/internal/sensors"
)

const (
	Left = iota
	Right
)

type Robot struct {
	spec     PhysicalSpec
	pose     dynamo.Pose
	dynamics *kinematics.DifferentialDrive

	geometry       geometry.Polygon
	globalGeometry geometry.Polygon

	encoders []*sensors.WheelEncoder
	sensors  []*sensors.ProximitySensor

	leftRate, rightRate float64
}

type Option func(*options)

type options struct {
	pose       dynamo.Pose
	integrator dynamo.PoseIntegrator
}

// WithPose sets the starting pose. The default is the origin facing +x.
func WithPose(p dynamo.Pose) Option {
	return func(o *options) { o.pose = p }
}

// WithIntegrator selects the pose integration rule.
func WithIntegrator(integ dynamo.PoseIntegrator) Option {
	return func(o *options) { o.integrator = integ }
}

// New builds a robot from spec. env answers the proximity sensors and may
// be nil, in which case every sensor reads its max range.
func New(spec PhysicalSpec, env dynamo.Environment, opts ...Option) (*Robot, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.pose.IsValid() {
		return nil, fmt.Errorf("%w: initial pose %v", dynamo.ErrInvalidArgument, o.pose)
	}

	spec = spec.Clone()
	r := &Robot{
		spec:     spec,
		pose:     o.pose,
		dynamics: kinematics.New(spec.WheelRadius, spec.WheelBaseLength, o.integrator),
		geometry: geometry.NewPolygon(spec.BodyOutline),
		encoders: []*sensors.WheelEncoder{
			sensors.NewWheelEncoder(spec.WheelRadius, spec.TicksPerRev),
			sensors.NewWheelEncoder(spec.WheelRadius, spec.TicksPerRev),
		},
		sensors: make([]*sensors.ProximitySensor, len(spec.SensorMounts)),
	}
	for i, m := range spec.SensorMounts {
		r.sensors[i] = sensors.NewProximitySensor(m.Pose(), spec.SensorMinRange, spec.SensorMaxRange, spec.SensorHalfAngle, env)
	}
	r.refreshGeometry()

	return r, nil
}

// Step advances the robot by dt seconds at the current drive rates. The
// encoders see the rates the wheels held during the interval; the outline
// and sensors are placed at the new pose. A dt that is not positive is
// rejected and leaves the robot unchanged.
func (r *Robot) Step(dt float64) error {
	vL, vR := r.leftRate, r.rightRate

	if err := r.dynamics.ApplyDynamics(&r.pose, vL, vR, dt); err != nil {
		return fmt.Errorf("robot step: %w", err)
	}

	r.encoders[Left].StepTicks(vL, dt)
	r.encoders[Right].StepTicks(vR, dt)

	r.refreshGeometry()
	return nil
}

func (r *Robot) refreshGeometry() {
	r.globalGeometry = r.geometry.TransformToPose(r.pose)
	for _, s := range r.sensors {
		s.UpdatePosition(r.pose)
	}
}

// ReadProximitySensors returns one distance per sensor in mount order.
func (r *Robot) ReadProximitySensors() []float64 {
	readings := make([]float64, len(r.sensors))
	for i, s := range r.sensors {
		readings[i] = s.Read()
	}
	return readings
}

// ReadWheelEncoders returns [left, right] tick counts.
func (r *Robot) ReadWheelEncoders() []int {
	ticks := make([]int, len(r.encoders))
	for i, e := range r.encoders {
		ticks[i] = e.Read()
	}
	return ticks
}

// SetWheelDriveRates commands wheel angular velocities in rad/s. The command
// is limited in the unicycle frame: forward speed and turn rate are clamped
// to the spec limits independently and converted back to wheel rates, so
// the ratio between the wheels may change.
func (r *Robot) SetWheelDriveRates(vL, vR float64) {
	v, w := r.dynamics.DiffToUni(vL, vR)
	v, w = kinematics.Clamp(v, w, r.spec.MaxTransVel, r.spec.MaxAngVel)
	r.leftRate, r.rightRate = r.dynamics.UniToDiff(v, w)
}

func (r *Robot) WheelDriveRates() (vL, vR float64) {
	return r.leftRate, r.rightRate
}

// Velocity returns the commanded unicycle speeds.
func (r *Robot) Velocity() (v, w float64) {
	return r.dynamics.DiffToUni(r.leftRate, r.rightRate)
}

func (r *Robot) Pose() dynamo.Pose { return r.pose }

func (r *Robot) Spec() PhysicalSpec { return r.spec.Clone() }

func (r *Robot) Integrator() string { return r.dynamics.Integrator().Name() }

// GlobalGeometry returns the body outline in world coordinates.
func (r *Robot) GlobalGeometry() geometry.Polygon { return r.globalGeometry.Clone() }

// SensorPoses returns the world pose of each sensor in mount order.
func (r *Robot) SensorPoses() []dynamo.Pose {
	poses := make([]dynamo.Pose, len(r.sensors))
	for i, s := range r.sensors {
		poses[i] = s.WorldPose()
	}
	return poses
}

// Encoder exposes one wheel's encoder for odometry helpers.
func (r *Robot) Encoder(wheel int) *sensors.WheelEncoder { return r.encoders[wheel] }

// Frame snapshots the observable state at time t.
func (r *Robot) Frame(t float64) dynamo.Frame {
	return dynamo.Frame{
		T:        t,
		Pose:     r.pose,
		VL:       r.leftRate,
		VR:       r.rightRate,
		Ticks:    r.ReadWheelEncoders(),
		Readings: r.ReadProximitySensors(),
	}
}
