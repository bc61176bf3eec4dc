package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/robosim/internal/dynamo"
)

// stepFleet steps every robot once and returns when all have finished, so
// the caller sees one consistent tick. Robots share nothing, which makes
// stepping them concurrently safe.
func stepFleet(ctx context.Context, agents []Agent, step int, t float64, cfg Config) error {
	if len(agents) == 1 {
		return stepAgent(agents[0], 0, step, t, cfg.Dt)
	}

	g, _ := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, a := range agents {
		g.Go(func() error {
			return stepAgent(a, i, step, t, cfg.Dt)
		})
	}
	return g.Wait()
}

func stepAgent(a Agent, idx, step int, t, dt float64) error {
	if err := a.Robot.Step(dt); err != nil {
		return &dynamo.StepError{Step: step, Time: t, Agent: idx, Wrapped: err}
	}
	return nil
}
