// Package dynamo provides the core value types shared by the robot simulator.
//
//   - [Pose]: world-frame position and heading of a body
//   - [Point]: 2D position, used for body outlines and obstacles
//   - [PoseIntegrator]: numerical rule that advances a pose under (v, w)
//   - [Environment]: obstacle queries answered on behalf of proximity sensors
//   - [Supervisor]: external controller stepped by the simulation driver
//   - [Metric], [Observer]: per-tick consumers of robot [Frame] values
//
// # Thread Safety
//
// None of these types synchronize internally. A robot and everything it owns
// must be driven from one goroutine at a time; separate robots share nothing
// and may be stepped in parallel.
package dynamo
