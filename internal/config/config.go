package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/supervisor"
	"github.com/san-kum/robosim/internal/world"
)

const (
	DefaultProfile       = "khepera3"
	DefaultSupervisor    = "constant"
	DefaultDt            = 0.05
	DefaultDuration      = 10.0
	DefaultWallThickness = 0.01
	DefaultLogLevel      = "info"
)

type Config struct {
	Profile    string         `yaml:"profile"`
	Robot      *ProfileConfig `yaml:"robot,omitempty"`
	Integrator string         `yaml:"integrator"`
	Supervisor string         `yaml:"supervisor"`
	Dt         float64        `yaml:"dt"`
	Duration   float64        `yaml:"duration"`
	InitPose   PoseConfig     `yaml:"init_pose"`
	Command    CommandConfig  `yaml:"command"`
	World      WorldConfig    `yaml:"world"`
	LogLevel   string         `yaml:"log_level"`
}

// PoseConfig is a pose with the heading in degrees.
type PoseConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
}

func (p PoseConfig) Pose() dynamo.Pose {
	return dynamo.NewPose(p.X, p.Y, dynamo.Radians(p.Theta))
}

// CommandConfig holds the wheel rates (rad/s) fed to the constant supervisor.
type CommandConfig struct {
	VL float64 `yaml:"v_l"`
	VR float64 `yaml:"v_r"`
}

type RectConfig struct {
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
}

type WorldConfig struct {
	// Arena is the side of a walled square around the origin; 0 means
	// no walls.
	Arena         float64      `yaml:"arena"`
	WallThickness float64      `yaml:"wall_thickness"`
	Rays          int          `yaml:"rays"`
	Obstacles     []RectConfig `yaml:"obstacles,omitempty"`
}

// Build returns the obstacle field described by w.
func (w WorldConfig) Build() *world.World {
	wld := world.New()
	if w.Rays > 0 {
		wld.SetRays(w.Rays)
	}
	if w.Arena > 0 {
		t := w.WallThickness
		if t <= 0 {
			t = DefaultWallThickness
		}
		wld.AddArena(w.Arena, t)
	}
	for _, o := range w.Obstacles {
		wld.AddRectangle(o.X0, o.Y0, o.X1, o.Y1)
	}
	return wld
}

func DefaultConfig() *Config {
	return &Config{
		Profile:    DefaultProfile,
		Integrator: integrators.Default,
		Supervisor: DefaultSupervisor,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		LogLevel:   DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters and that the profile resolves.
func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 1) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", dynamo.ErrInvalidArgument, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 1) {
		return fmt.Errorf("%w: duration must be positive and finite, got %v", dynamo.ErrInvalidArgument, c.Duration)
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if _, err := supervisor.ByName(c.Supervisor, c.Command.VL, c.Command.VR); err != nil {
		return err
	}
	_, err := c.ResolveProfile()
	return err
}

// ResolveProfile returns the robot spec for this run. An inline robot
// definition takes precedence over the named profile.
func (c *Config) ResolveProfile() (robot.PhysicalSpec, error) {
	var p ProfileConfig
	if c.Robot != nil {
		p = *c.Robot
	} else {
		var ok bool
		p, ok = Profiles[c.Profile]
		if !ok {
			return robot.PhysicalSpec{}, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownProfile, c.Profile, ListProfiles())
		}
	}
	spec := p.Spec()
	if err := spec.Validate(); err != nil {
		return robot.PhysicalSpec{}, err
	}
	return spec, nil
}

// ProfileName names the robot kind this run uses.
func (c *Config) ProfileName() string {
	if c.Robot != nil && c.Robot.Name != "" {
		return c.Robot.Name
	}
	if c.Robot != nil {
		return "custom"
	}
	return c.Profile
}
