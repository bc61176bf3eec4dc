package robot

import "github.com/san-kum/robosim/internal/dynamo"

// Khepera3 constants, after Sim.I.Am by J.P. de la Croix.
const (
	K3WheelRadius     = 0.021  // m
	K3WheelBaseLength = 0.0885 // m
	K3TicksPerRev     = 2765
	K3SpeedFactor     = 6.2953e-6
	K3MaxTransVel     = 0.3148 // m/s
	K3MaxAngVel       = 2.2763 // rad/s
	K3SensorMinRange  = 0.02   // m
	K3SensorMaxRange  = 0.2    // m
	K3SensorHalfAngle = 20.0   // degrees
)

// K3SensorMounts lists x, y (m) and heading (degrees) for the nine IR sensors.
var K3SensorMounts = [][3]float64{
	{-0.038, 0.048, 128},
	{0.019, 0.064, 75},
	{0.050, 0.050, 42},
	{0.070, 0.017, 13},
	{0.070, -0.017, -13},
	{0.050, -0.050, -42},
	{0.019, -0.064, -75},
	{-0.038, -0.048, -128},
	{-0.048, 0.00, 180},
}

// K3BottomPlate is the body outline in the robot frame.
var K3BottomPlate = [][2]float64{
	{-0.024, 0.064},
	{0.033, 0.064},
	{0.057, 0.043},
	{0.074, 0.010},
	{0.074, -0.010},
	{0.057, -0.043},
	{0.033, -0.064},
	{-0.025, -0.064},
	{-0.042, -0.043},
	{-0.048, -0.010},
	{-0.048, 0.010},
	{-0.042, 0.043},
}

// Khepera3 returns the physical spec of a K-Team Khepera III.
func Khepera3() PhysicalSpec {
	mounts := make([]SensorMount, len(K3SensorMounts))
	for i, m := range K3SensorMounts {
		mounts[i] = SensorMount{X: m[0], Y: m[1], Heading: dynamo.Radians(m[2])}
	}
	outline := make([]dynamo.Point, len(K3BottomPlate))
	for i, v := range K3BottomPlate {
		outline[i] = dynamo.Point{X: v[0], Y: v[1]}
	}

	return PhysicalSpec{
		Name:            "khepera3",
		WheelRadius:     K3WheelRadius,
		WheelBaseLength: K3WheelBaseLength,
		TicksPerRev:     K3TicksPerRev,
		SpeedFactor:     K3SpeedFactor,
		MaxTransVel:     K3MaxTransVel,
		MaxAngVel:       K3MaxAngVel,
		SensorMinRange:  K3SensorMinRange,
		SensorMaxRange:  K3SensorMaxRange,
		SensorHalfAngle: dynamo.Radians(K3SensorHalfAngle),
		SensorMounts:    mounts,
		BodyOutline:     outline,
	}
}
