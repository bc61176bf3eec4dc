package robot

import (
	"fmt"
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// SensorMount places a proximity sensor in the robot frame. Heading is in
// radians.
type SensorMount struct {
	X, Y, Heading float64
}

func (m SensorMount) Pose() dynamo.Pose {
	return dynamo.NewPose(m.X, m.Y, m.Heading)
}

// PhysicalSpec describes one kind of robot. It is built once and shared by
// every robot of that kind; nothing in the simulator mutates it.
type PhysicalSpec struct {
	Name            string
	WheelRadius     float64 // m
	WheelBaseLength float64 // m
	TicksPerRev     int
	SpeedFactor     float64
	MaxTransVel     float64 // m/s
	MaxAngVel       float64 // rad/s
	SensorMinRange  float64 // m
	SensorMaxRange  float64 // m
	SensorHalfAngle float64 // rad
	SensorMounts    []SensorMount
	BodyOutline     []dynamo.Point
}

// TicksPerRadian is the quantization factor applied to wheel rotation.
func (s PhysicalSpec) TicksPerRadian() float64 {
	return float64(s.TicksPerRev) / (2 * math.Pi)
}

func (s PhysicalSpec) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"wheel_radius", s.WheelRadius},
		{"wheel_base_length", s.WheelBaseLength},
		{"ticks_per_rev", float64(s.TicksPerRev)},
		{"max_trans_vel", s.MaxTransVel},
		{"max_ang_vel", s.MaxAngVel},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrInvalidSpec, p.name, p.value)
		}
	}

	if s.SensorMinRange < 0 {
		return fmt.Errorf("%w: sensor_min_range must not be negative, got %v", dynamo.ErrInvalidSpec, s.SensorMinRange)
	}
	if !(s.SensorMinRange < s.SensorMaxRange) {
		return fmt.Errorf("%w: sensor range [%v, %v] is empty", dynamo.ErrInvalidSpec, s.SensorMinRange, s.SensorMaxRange)
	}
	if !(s.SensorHalfAngle > 0 && s.SensorHalfAngle < math.Pi) {
		return fmt.Errorf("%w: sensor_half_angle must be in (0, pi), got %v", dynamo.ErrInvalidSpec, s.SensorHalfAngle)
	}
	if len(s.BodyOutline) < 3 {
		return fmt.Errorf("%w: body outline needs at least 3 vertices, got %d", dynamo.ErrInvalidSpec, len(s.BodyOutline))
	}
	return nil
}

// Clone returns a deep copy, so a spec owned by a robot cannot be changed
// through the caller's slices.
func (s PhysicalSpec) Clone() PhysicalSpec {
	c := s
	c.SensorMounts = append([]SensorMount(nil), s.SensorMounts...)
	c.BodyOutline = append([]dynamo.Point(nil), s.BodyOutline...)
	return c
}
