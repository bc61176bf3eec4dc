package config

import (
	"sort"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/robot"
)

// ProfileConfig is the YAML form of a robot's physical spec. Angles are in
// degrees.
type ProfileConfig struct {
	Name            string       `yaml:"name"`
	WheelRadius     float64      `yaml:"wheel_radius"`
	WheelBaseLength float64      `yaml:"wheel_base_length"`
	TicksPerRev     int          `yaml:"ticks_per_rev"`
	SpeedFactor     float64      `yaml:"speed_factor"`
	MaxTransVel     float64      `yaml:"max_trans_vel"`
	MaxAngVel       float64      `yaml:"max_ang_vel"`
	SensorMinRange  float64      `yaml:"sensor_min_range"`
	SensorMaxRange  float64      `yaml:"sensor_max_range"`
	SensorHalfAngle float64      `yaml:"sensor_half_angle"`
	SensorMounts    [][3]float64 `yaml:"sensor_mounts"`
	BodyOutline     [][2]float64 `yaml:"body_outline"`
}

func (p ProfileConfig) Spec() robot.PhysicalSpec {
	mounts := make([]robot.SensorMount, len(p.SensorMounts))
	for i, m := range p.SensorMounts {
		mounts[i] = robot.SensorMount{X: m[0], Y: m[1], Heading: dynamo.Radians(m[2])}
	}
	outline := make([]dynamo.Point, len(p.BodyOutline))
	for i, v := range p.BodyOutline {
		outline[i] = dynamo.Point{X: v[0], Y: v[1]}
	}
	return robot.PhysicalSpec{
		Name:            p.Name,
		WheelRadius:     p.WheelRadius,
		WheelBaseLength: p.WheelBaseLength,
		TicksPerRev:     p.TicksPerRev,
		SpeedFactor:     p.SpeedFactor,
		MaxTransVel:     p.MaxTransVel,
		MaxAngVel:       p.MaxAngVel,
		SensorMinRange:  p.SensorMinRange,
		SensorMaxRange:  p.SensorMaxRange,
		SensorHalfAngle: dynamo.Radians(p.SensorHalfAngle),
		SensorMounts:    mounts,
		BodyOutline:     outline,
	}
}

var Profiles = map[string]ProfileConfig{
	"khepera3": {
		Name:            "khepera3",
		WheelRadius:     robot.K3WheelRadius,
		WheelBaseLength: robot.K3WheelBaseLength,
		TicksPerRev:     robot.K3TicksPerRev,
		SpeedFactor:     robot.K3SpeedFactor,
		MaxTransVel:     robot.K3MaxTransVel,
		MaxAngVel:       robot.K3MaxAngVel,
		SensorMinRange:  robot.K3SensorMinRange,
		SensorMaxRange:  robot.K3SensorMaxRange,
		SensorHalfAngle: robot.K3SensorHalfAngle,
		SensorMounts:    robot.K3SensorMounts,
		BodyOutline:     robot.K3BottomPlate,
	},
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
