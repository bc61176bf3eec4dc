package sim

import (
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/robot"
)

// Agent pairs a robot with the supervisor that drives it. A nil Supervisor
// leaves the robot's commanded rates alone.
type Agent struct {
	Robot      *robot.Robot
	Supervisor dynamo.Supervisor
}

type Config struct {
	Dt       float64
	Duration float64
	// Workers bounds how many robots step concurrently; 0 means one
	// goroutine per robot.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.05,
		Duration: 10.0,
	}
}

// Steps is the number of ticks a run of cfg takes.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}

type Result struct {
	Times      []float64
	Frames     [][]dynamo.Frame // indexed by agent, then tick
	Metrics    []map[string]float64
	StepsTaken int
}

// Trajectory returns the frames recorded for one agent.
func (r *Result) Trajectory(agent int) []dynamo.Frame {
	if agent < 0 || agent >= len(r.Frames) {
		return nil
	}
	return r.Frames[agent]
}
