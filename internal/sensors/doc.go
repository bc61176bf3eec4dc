// Package sensors models the robot's wheel encoders and infrared proximity
// sensors. Neither holds a reference to the robot: encoders are fed wheel
// rates and sensors are fed the robot pose each tick.
package sensors
