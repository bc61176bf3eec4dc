// Package supervisor holds open-loop drivers that satisfy
// [dynamo.Supervisor]. They issue fixed wheel rates and carry no control
// policy; closed-loop supervisors live outside this module.
package supervisor

import (
	"fmt"

	"github.com/san-kum/robosim/internal/dynamo"
)

// None holds the robot still.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Execute(readings []float64, ticks []int, dt float64) (float64, float64) {
	return 0, 0
}

// Constant commands the same wheel rates every tick.
type Constant struct {
	VL, VR float64
}

func NewConstant(vL, vR float64) *Constant {
	return &Constant{VL: vL, VR: vR}
}

// Set replaces the commanded rates.
func (c *Constant) Set(vL, vR float64) {
	c.VL, c.VR = vL, vR
}

func (c *Constant) Execute(readings []float64, ticks []int, dt float64) (float64, float64) {
	return c.VL, c.VR
}

// ByName builds a supervisor from its config name.
func ByName(name string, vL, vR float64) (dynamo.Supervisor, error) {
	switch name {
	case "", "constant":
		return NewConstant(vL, vR), nil
	case "none":
		return NewNone(), nil
	default:
		return nil, fmt.Errorf("%w: %s (available: constant, none)", dynamo.ErrUnknownSupervisor, name)
	}
}
