package sensors

import "math"

// tickEps absorbs floating-point error when the accumulator sits on a tick
// boundary, so a sequence of steps that sums to n ticks reports n.
const tickEps = 1e-9

// WheelEncoder counts quantized wheel rotation. The count is signed: it
// falls when the wheel turns backwards.
type WheelEncoder struct {
	wheelRadius float64
	ticksPerRev int
	ticksPerRad float64
	whole       int64
	remainder   float64
}

func NewWheelEncoder(wheelRadius float64, ticksPerRev int) *WheelEncoder {
	return &WheelEncoder{
		wheelRadius: wheelRadius,
		ticksPerRev: ticksPerRev,
		ticksPerRad: float64(ticksPerRev) / (2 * math.Pi),
	}
}

// StepTicks accumulates the rotation of a wheel turning at rate (rad/s) for
// dt seconds. Whole ticks move into the integer count; the fractional part
// is carried into the next call.
func (e *WheelEncoder) StepTicks(rate, dt float64) {
	total := e.remainder + e.ticksPerRad*rate*dt
	whole := math.Floor(total)
	if total-whole > 1-tickEps {
		whole++
	}
	e.whole += int64(whole)
	e.remainder = total - whole
}

// Read returns the accumulated tick count.
func (e *WheelEncoder) Read() int {
	return int(e.whole)
}

// Revolutions returns the continuous rotation measured so far.
func (e *WheelEncoder) Revolutions() float64 {
	return (float64(e.whole) + e.remainder) / float64(e.ticksPerRev)
}

// Distance converts a tick delta into wheel travel in meters.
func (e *WheelEncoder) Distance(ticks int) float64 {
	return 2 * math.Pi * e.wheelRadius * float64(ticks) / float64(e.ticksPerRev)
}

func (e *WheelEncoder) TicksPerRev() int { return e.ticksPerRev }

func (e *WheelEncoder) Reset() {
	e.whole = 0
	e.remainder = 0
}
