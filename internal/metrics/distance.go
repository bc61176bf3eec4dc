package metrics

import "github.com/san-kum/robosim/internal/dynamo"

// Distance accumulates the path length of the true trajectory.
type Distance struct {
	name    string
	last    dynamo.Point
	total   float64
	samples int
}

func NewDistance() *Distance {
	return &Distance{name: "distance"}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(f dynamo.Frame) {
	pos := f.Pose.Position()
	if d.samples > 0 {
		d.total += pos.Sub(d.last).Norm()
	}
	d.last = pos
	d.samples++
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.last = dynamo.Point{}
	d.total = 0
	d.samples = 0
}
