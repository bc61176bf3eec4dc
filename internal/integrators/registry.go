package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Default is the rule used when none is configured.
const Default = "arc"

var registry = map[string]func() dynamo.PoseIntegrator{
	"arc":   func() dynamo.PoseIntegrator { return NewArc() },
	"euler": func() dynamo.PoseIntegrator { return NewEuler() },
	"rk4":   func() dynamo.PoseIntegrator { return NewRK4() },
}

// ByName returns a fresh integrator. An empty name selects Default.
func ByName(name string) (dynamo.PoseIntegrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownIntegrator, name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
