package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// maxSteps bounds a single run so Duration/Dt always fits an int.
const maxSteps = 1 << 30

// Simulator advances a fleet of independent robots in lock step. Each tick
// has three phases: supervisors read and command, every robot steps, then
// observers and metrics see the post-step frames. No robot's step for tick
// N overlaps another phase of tick N.
type Simulator struct {
	agents    []Agent
	metrics   [][]dynamo.Metric
	observers []dynamo.Observer
}

func New(agents ...Agent) *Simulator {
	s := &Simulator{
		agents:    make([]Agent, 0, len(agents)),
		metrics:   make([][]dynamo.Metric, 0, len(agents)),
		observers: make([]dynamo.Observer, 0),
	}
	for _, a := range agents {
		s.AddAgent(a)
	}
	return s
}

// AddAgent registers a robot and the metrics recorded for it. It returns
// the agent's index.
func (s *Simulator) AddAgent(a Agent, metrics ...dynamo.Metric) int {
	s.agents = append(s.agents, a)
	s.metrics = append(s.metrics, metrics)
	return len(s.agents) - 1
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Agents() []Agent { return s.agents }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	n := len(s.agents)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Frames:  make([][]dynamo.Frame, n),
		Metrics: make([]map[string]float64, n),
	}
	for i := range result.Frames {
		result.Frames[i] = make([]dynamo.Frame, 0, steps+1)
	}

	for _, ms := range s.metrics {
		for _, m := range ms {
			m.Reset()
		}
	}

	record := func(t float64) {
		result.Times = append(result.Times, t)
		for i, a := range s.agents {
			f := a.Robot.Frame(t)
			result.Frames[i] = append(result.Frames[i], f)
			s.observe(i, f)
		}
	}

	record(0)

	var runErr error
	t := 0.0
	for i := 0; i < steps; i++ {
		if err := s.tick(ctx, i, t, cfg); err != nil {
			runErr = err
			break
		}
		t += cfg.Dt
		result.StepsTaken++
		record(t)
	}

	for i, ms := range s.metrics {
		result.Metrics[i] = make(map[string]float64, len(ms))
		for _, m := range ms {
			result.Metrics[i][m.Name()] = m.Value()
		}
	}

	return result, runErr
}

// RunWithCallback runs without recording. callback sees every agent's
// frame after each tick and stops the run by returning false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(t float64, frames []dynamo.Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	frames := make([]dynamo.Frame, len(s.agents))
	t := 0.0
	for i := 0; i < cfg.Steps(); i++ {
		if err := s.tick(ctx, i, t, cfg); err != nil {
			return err
		}
		t += cfg.Dt

		for j, a := range s.agents {
			frames[j] = a.Robot.Frame(t)
			s.observe(j, frames[j])
		}
		if !callback(t, frames) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) tick(ctx context.Context, step int, t float64, cfg Config) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for _, a := range s.agents {
		if a.Supervisor == nil {
			continue
		}
		vL, vR := a.Supervisor.Execute(a.Robot.ReadProximitySensors(), a.Robot.ReadWheelEncoders(), cfg.Dt)
		a.Robot.SetWheelDriveRates(vL, vR)
	}

	return stepFleet(ctx, s.agents, step, t, cfg)
}

func (s *Simulator) observe(agent int, f dynamo.Frame) {
	for _, m := range s.metrics[agent] {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(agent, f)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 1) {
		return fmt.Errorf("%w: dt must be positive and finite, got %f", dynamo.ErrInvalidArgument, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 1) {
		return fmt.Errorf("%w: duration must be positive and finite, got %f", dynamo.ErrInvalidArgument, cfg.Duration)
	}
	if cfg.Duration/cfg.Dt > maxSteps {
		return fmt.Errorf("%w: %g s at dt %g exceeds %d steps", dynamo.ErrInvalidArgument, cfg.Duration, cfg.Dt, maxSteps)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", dynamo.ErrInvalidArgument, cfg.Workers)
	}
	if len(s.agents) == 0 {
		return fmt.Errorf("%w: no robots to simulate", dynamo.ErrInvalidArgument)
	}
	return nil
}
