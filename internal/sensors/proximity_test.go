package sensors

import (
	"math"
	"testing"

	"github.com/san-kum/robosim/internal/dynamo"
)

func constEnv(d float64) dynamo.Environment {
	return dynamo.EnvironmentFunc(func(dynamo.Pose, float64, float64, float64) float64 { return d })
}

func TestProximitySensor_UpdatePosition(t *testing.T) {
	mount := dynamo.NewPose(0.05, 0.05, dynamo.Radians(42))
	s := NewProximitySensor(mount, 0.02, 0.2, dynamo.Radians(20), nil)

	robot := dynamo.NewPose(1, 1, math.Pi/2)
	s.UpdatePosition(robot)
	first := s.WorldPose()
	s.UpdatePosition(robot)

	if s.WorldPose() != first {
		t.Errorf("update should be idempotent: %v then %v", first, s.WorldPose())
	}
	if math.Abs(first.X-0.95) > 1e-12 || math.Abs(first.Y-1.05) > 1e-12 {
		t.Errorf("world position = (%v, %v), want (0.95, 1.05)", first.X, first.Y)
	}
	if want := math.Pi/2 + dynamo.Radians(42); math.Abs(first.Theta-want) > 1e-12 {
		t.Errorf("world heading = %v, want %v", first.Theta, want)
	}
	if s.Mount() != mount {
		t.Error("mount pose must not change")
	}
}

func TestProximitySensor_ReadBounds(t *testing.T) {
	tests := []struct {
		name string
		env  dynamo.Environment
		want float64
	}{
		{"no environment", nil, 0.2},
		{"nothing detected", constEnv(math.Inf(1)), 0.2},
		{"NaN", constEnv(math.NaN()), 0.2},
		{"beyond range", constEnv(3), 0.2},
		{"inside range", constEnv(0.1), 0.1},
		{"too close", constEnv(0.001), 0.02},
		{"negative", constEnv(-1), 0.02},
		{"at min", constEnv(0.02), 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProximitySensor(dynamo.Pose{}, 0.02, 0.2, dynamo.Radians(20), tt.env)
			got := s.Read()
			if got != tt.want {
				t.Errorf("Read() = %v, want %v", got, tt.want)
			}
			if got < s.MinRange() || got > s.MaxRange() {
				t.Errorf("Read() = %v outside [%v, %v]", got, s.MinRange(), s.MaxRange())
			}
		})
	}
}

func TestProximitySensor_QueriesWorldPose(t *testing.T) {
	var seen dynamo.Pose
	var seenHalf float64
	env := dynamo.EnvironmentFunc(func(p dynamo.Pose, _, _, half float64) float64 {
		seen, seenHalf = p, half
		return 0.1
	})

	s := NewProximitySensor(dynamo.NewPose(0.07, 0, 0), 0.02, 0.2, 0.35, env)
	s.UpdatePosition(dynamo.NewPose(2, 0, 0))
	s.Read()

	if math.Abs(seen.X-2.07) > 1e-12 || seenHalf != 0.35 {
		t.Errorf("environment saw pose %v half-angle %v", seen, seenHalf)
	}
}
