// Package metrics provides per-run [dynamo.Metric] implementations.
package metrics

import (
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/robot"
)

// Defaults returns the metrics recorded for every run of a robot kind.
func Defaults(spec robot.PhysicalSpec) []dynamo.Metric {
	return []dynamo.Metric{
		NewDistance(),
		NewOdometryDrift(spec.WheelRadius, spec.WheelBaseLength, spec.TicksPerRev),
		NewMinClearance(),
	}
}
