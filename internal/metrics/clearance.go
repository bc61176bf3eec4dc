package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// MinClearance tracks the smallest proximity reading seen. With no
// readings it reports +Inf.
type MinClearance struct {
	name string
	min  float64
}

func NewMinClearance() *MinClearance {
	return &MinClearance{name: "min_clearance", min: math.Inf(1)}
}

func (m *MinClearance) Name() string { return m.name }

func (m *MinClearance) Observe(f dynamo.Frame) {
	for _, d := range f.Readings {
		m.min = math.Min(m.min, d)
	}
}

func (m *MinClearance) Value() float64 { return m.min }

func (m *MinClearance) Reset() { m.min = math.Inf(1) }
