package sensors

import (
	"math"

	"github.com/san-kum/robosim/internal/dynamo"
)

// ProximitySensor is an infrared range sensor fixed to a robot body. It
// learns where it is from the pose handed to UpdatePosition and asks the
// environment for the distance it would measure there.
type ProximitySensor struct {
	mount     dynamo.Pose
	world     dynamo.Pose
	minRange  float64
	maxRange  float64
	halfAngle float64
	env       dynamo.Environment
}

func NewProximitySensor(mount dynamo.Pose, minRange, maxRange, halfAngle float64, env dynamo.Environment) *ProximitySensor {
	return &ProximitySensor{
		mount:     mount,
		world:     mount,
		minRange:  minRange,
		maxRange:  maxRange,
		halfAngle: halfAngle,
		env:       env,
	}
}

// UpdatePosition recomputes the world pose from the robot's pose.
func (s *ProximitySensor) UpdatePosition(robotPose dynamo.Pose) {
	s.world = robotPose.Compose(s.mount)
}

// Read returns the measured distance, always within [min range, max range].
// Nothing detected reads as max range.
func (s *ProximitySensor) Read() float64 {
	if s.env == nil {
		return s.maxRange
	}
	d := s.env.QueryNearestObstacle(s.world, s.minRange, s.maxRange, s.halfAngle)
	if math.IsNaN(d) || d >= s.maxRange {
		return s.maxRange
	}
	if d < s.minRange {
		return s.minRange
	}
	return d
}

func (s *ProximitySensor) Mount() dynamo.Pose     { return s.mount }
func (s *ProximitySensor) WorldPose() dynamo.Pose { return s.world }
func (s *ProximitySensor) MinRange() float64      { return s.minRange }
func (s *ProximitySensor) MaxRange() float64      { return s.maxRange }
func (s *ProximitySensor) HalfAngle() float64     { return s.halfAngle }
