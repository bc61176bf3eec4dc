package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/geometry"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/supervisor"
	"github.com/san-kum/robosim/internal/world"
)

// agentSpacing separates fleet members along y at start.
const agentSpacing = 0.2

// scenario is everything a command needs to run one configuration.
type scenario struct {
	cfg      *config.Config
	spec     robot.PhysicalSpec
	world    *world.World
	sim      *sim.Simulator
	contacts *contactWatch
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, args[0], config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("vl") {
		cfg.Command.VL = vL
	}
	if flags.Changed("vr") {
		cfg.Command.VR = vR
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("profile") {
		cfg.Profile = profile
		cfg.Robot = nil
	}
	if flags.Changed("supervisor") {
		cfg.Supervisor = supervisorName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildScenario places agents robots in the configured world, the first at
// the configured pose and the rest stacked above it.
func buildScenario(cfg *config.Config, agents int) (*scenario, error) {
	if agents < 1 {
		return nil, fmt.Errorf("%w: agents must be at least 1, got %d", dynamo.ErrInvalidArgument, agents)
	}

	spec, err := cfg.ResolveProfile()
	if err != nil {
		return nil, err
	}
	wld := cfg.World.Build()
	s := sim.New()
	start := cfg.InitPose.Pose()

	for i := 0; i < agents; i++ {
		pose := dynamo.NewPose(start.X, start.Y+float64(i)*agentSpacing, start.Theta)
		// one integrator per robot; robots step concurrently
		integ, err := integrators.ByName(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		bot, err := robot.New(spec, wld, robot.WithPose(pose), robot.WithIntegrator(integ))
		if err != nil {
			return nil, err
		}
		sup, err := supervisor.ByName(cfg.Supervisor, cfg.Command.VL, cfg.Command.VR)
		if err != nil {
			return nil, err
		}
		s.AddAgent(sim.Agent{Robot: bot, Supervisor: sup}, metrics.Defaults(spec)...)
	}

	contacts := newContactWatch(wld, s.Agents())
	s.AddObserver(contacts)

	return &scenario{cfg: cfg, spec: spec, world: wld, sim: s, contacts: contacts}, nil
}

// integrator names the rule the robots were built with.
func (sc *scenario) integrator() string {
	return sc.sim.Agents()[0].Robot.Integrator()
}

// contactWatch records, per agent, the first time its body overlapped an
// obstacle. Observers run on the driver goroutine, so no locking is needed.
type contactWatch struct {
	world  *world.World
	robots []*robot.Robot
	first  map[int]float64
}

func newContactWatch(w *world.World, agents []sim.Agent) *contactWatch {
	robots := make([]*robot.Robot, len(agents))
	for i, a := range agents {
		robots[i] = a.Robot
	}
	return &contactWatch{world: w, robots: robots, first: map[int]float64{}}
}

func (c *contactWatch) OnStep(agent int, f dynamo.Frame) {
	if _, seen := c.first[agent]; seen || agent >= len(c.robots) {
		return
	}
	if c.world.Collides(c.robots[agent].GlobalGeometry()) {
		c.first[agent] = f.T
	}
}

// First returns when agent first touched an obstacle.
func (c *contactWatch) First(agent int) (float64, bool) {
	t, ok := c.first[agent]
	return t, ok
}

func (sc *scenario) simConfig(workers int) sim.Config {
	return sim.Config{Dt: sc.cfg.Dt, Duration: sc.cfg.Duration, Workers: workers}
}

// outlineAt places a robot-frame outline at pose.
func outlineAt(outline []dynamo.Point, pose dynamo.Pose) geometry.Polygon {
	return geometry.NewPolygon(outline).TransformToPose(pose)
}
