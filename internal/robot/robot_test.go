package robot_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/robot"
)

var _ = Describe("Robot", func() {
	var (
		spec robot.PhysicalSpec
		bot  *robot.Robot
	)

	BeforeEach(func() {
		spec = robot.Khepera3()
		var err error
		bot, err = robot.New(spec, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("owns two encoders and one sensor per mount", func() {
			Expect(bot.ReadWheelEncoders()).To(Equal([]int{0, 0}))
			Expect(bot.ReadProximitySensors()).To(HaveLen(9))
			Expect(bot.SensorPoses()).To(HaveLen(9))
		})

		It("places the outline and sensors at the starting pose", func() {
			start := dynamo.NewPose(1, 2, math.Pi/2)
			b, err := robot.New(spec, nil, robot.WithPose(start))
			Expect(err).NotTo(HaveOccurred())

			first := b.GlobalGeometry().Vertices[0]
			want := start.Transform(spec.BodyOutline[0])
			Expect(first.X).To(BeNumerically("~", want.X, 1e-12))
			Expect(first.Y).To(BeNumerically("~", want.Y, 1e-12))

			last := b.SensorPoses()[8]
			Expect(last.X).To(BeNumerically("~", 1, 1e-12))
			Expect(last.Y).To(BeNumerically("~", 2-0.048, 1e-12))
		})

		It("rejects an invalid spec", func() {
			spec.WheelRadius = 0
			_, err := robot.New(spec, nil)
			Expect(err).To(MatchError(dynamo.ErrInvalidSpec))
		})

		It("does not share the caller's outline slice", func() {
			spec.BodyOutline[0] = dynamo.Point{X: 99, Y: 99}
			Expect(bot.Spec().BodyOutline[0]).NotTo(Equal(dynamo.Point{X: 99, Y: 99}))
		})
	})

	Describe("SetWheelDriveRates", func() {
		It("keeps commands inside the limits unchanged", func() {
			bot.SetWheelDriveRates(0.1, 0.1)
			vL, vR := bot.WheelDriveRates()
			Expect(vL).To(BeNumerically("~", 0.1, 1e-12))
			Expect(vR).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("clamps a far-too-fast straight command to the translational limit", func() {
			bot.SetWheelDriveRates(1000, 1000)
			vL, vR := bot.WheelDriveRates()
			Expect(vL).To(Equal(vR))
			Expect(vL).To(BeNumerically("~", spec.MaxTransVel/spec.WheelRadius, 1e-9))

			v, w := bot.Velocity()
			Expect(v).To(BeNumerically("~", spec.MaxTransVel, 1e-12))
			Expect(w).To(BeZero())
		})

		It("saturates both limits jointly", func() {
			for _, cmd := range [][2]float64{{-1e4, 1e4}, {1e4, -3e3}, {-800, -2000}, {5e5, 1e5}} {
				bot.SetWheelDriveRates(cmd[0], cmd[1])
				v, w := bot.Velocity()
				Expect(math.Abs(v)).To(BeNumerically("<=", spec.MaxTransVel+1e-12))
				Expect(math.Abs(w)).To(BeNumerically("<=", spec.MaxAngVel+1e-12))
			}

			bot.SetWheelDriveRates(1e5, 2e5)
			v, w := bot.Velocity()
			Expect(v).To(BeNumerically("~", spec.MaxTransVel, 1e-12))
			Expect(w).To(BeNumerically("~", spec.MaxAngVel, 1e-12))
		})

		It("can reduce a command that is fine for one wheel alone", func() {
			// v is within limits but w is not, so both wheels change.
			bot.SetWheelDriveRates(-20, 20)
			vL, vR := bot.WheelDriveRates()
			Expect(vR).To(BeNumerically("<", 20))
			Expect(vL).To(BeNumerically("~", -vR, 1e-12))
		})
	})

	Describe("Step", func() {
		It("matches the khepera3 straight-line scenario", func() {
			bot.SetWheelDriveRates(0.1, 0.1)
			Expect(bot.Step(1.0)).To(Succeed())

			p := bot.Pose()
			Expect(p.X).To(BeNumerically("~", 0.0021, 1e-12))
			Expect(p.Y).To(BeZero())
			Expect(p.Theta).To(BeZero())

			want := float64(spec.TicksPerRev) / (2 * math.Pi) * 0.1
			for _, ticks := range bot.ReadWheelEncoders() {
				Expect(float64(ticks)).To(BeNumerically("~", want, 1))
			}
		})

		It("keeps heading when both wheels match", func() {
			for _, integ := range []dynamo.PoseIntegrator{integrators.NewArc(), integrators.NewEuler(), integrators.NewRK4()} {
				start := dynamo.NewPose(0.3, -0.2, 1.1)
				b, err := robot.New(spec, nil, robot.WithPose(start), robot.WithIntegrator(integ))
				Expect(err).NotTo(HaveOccurred())

				b.SetWheelDriveRates(7.5, 7.5)
				for _, dt := range []float64{0.001, 0.5, 3} {
					Expect(b.Step(dt)).To(Succeed())
					Expect(b.Pose().Theta).To(BeNumerically("~", start.Theta, 1e-12))
				}
			}
		})

		It("keeps position when the wheels are opposed", func() {
			start := dynamo.NewPose(0.3, -0.2, 1.1)
			b, err := robot.New(spec, nil, robot.WithPose(start))
			Expect(err).NotTo(HaveOccurred())

			b.SetWheelDriveRates(-4, 4)
			for _, dt := range []float64{0.001, 0.5, 3} {
				Expect(b.Step(dt)).To(Succeed())
				Expect(b.Pose().X).To(BeNumerically("~", start.X, 1e-12))
				Expect(b.Pose().Y).To(BeNumerically("~", start.Y, 1e-12))
			}
			Expect(b.Pose().Theta).NotTo(BeNumerically("~", start.Theta, 1e-3))
		})

		It("counts ticks from the rate held during the interval", func() {
			bot.SetWheelDriveRates(2, 2)
			Expect(bot.Step(1)).To(Succeed())
			bot.SetWheelDriveRates(0, 0)

			perRad := spec.TicksPerRadian()
			ticks := bot.ReadWheelEncoders()
			Expect(float64(ticks[robot.Left])).To(BeNumerically("~", 2*perRad, 1))
			Expect(float64(ticks[robot.Right])).To(BeNumerically("~", 2*perRad, 1))
		})

		It("moves encoders backwards when reversing", func() {
			bot.SetWheelDriveRates(-3, -3)
			Expect(bot.Step(1)).To(Succeed())
			for _, ticks := range bot.ReadWheelEncoders() {
				Expect(ticks).To(BeNumerically("<", 0))
			}
			Expect(bot.Pose().X).To(BeNumerically("<", 0))
		})

		It("moves the outline and sensors with the new pose", func() {
			bot.SetWheelDriveRates(10, 10)
			Expect(bot.Step(2)).To(Succeed())

			p := bot.Pose()
			outline := bot.GlobalGeometry()
			for i, v := range spec.BodyOutline {
				want := p.Transform(v)
				Expect(outline.Vertices[i].X).To(BeNumerically("~", want.X, 1e-12))
				Expect(outline.Vertices[i].Y).To(BeNumerically("~", want.Y, 1e-12))
			}
			for i, sp := range bot.SensorPoses() {
				want := p.Compose(spec.SensorMounts[i].Pose())
				Expect(sp.X).To(BeNumerically("~", want.X, 1e-12))
				Expect(sp.Y).To(BeNumerically("~", want.Y, 1e-12))
			}
		})

		DescribeTable("rejects non-positive dt without mutating state",
			func(dt float64) {
				bot.SetWheelDriveRates(5, 6)
				before := bot.Frame(0)

				err := bot.Step(dt)
				Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
				Expect(bot.Frame(0)).To(Equal(before))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.01),
			Entry("NaN", math.NaN()),
		)
	})

	Describe("ReadProximitySensors", func() {
		It("queries the environment at each sensor's post-step pose", func() {
			var queried []dynamo.Pose
			env := dynamo.EnvironmentFunc(func(p dynamo.Pose, minR, maxR, half float64) float64 {
				queried = append(queried, p)
				return 0.05
			})
			b, err := robot.New(spec, env)
			Expect(err).NotTo(HaveOccurred())

			b.SetWheelDriveRates(10, 10)
			Expect(b.Step(1)).To(Succeed())

			readings := b.ReadProximitySensors()
			Expect(readings).To(HaveLen(9))
			for _, d := range readings {
				Expect(d).To(Equal(0.05))
			}
			Expect(queried).To(Equal(b.SensorPoses()))
		})

		It("clips every reading into range", func() {
			b, err := robot.New(spec, dynamo.EnvironmentFunc(func(p dynamo.Pose, _, _, _ float64) float64 {
				return p.X * 100
			}), robot.WithPose(dynamo.NewPose(-0.01, 0, 0)))
			Expect(err).NotTo(HaveOccurred())

			for _, d := range b.ReadProximitySensors() {
				Expect(d).To(BeNumerically(">=", spec.SensorMinRange))
				Expect(d).To(BeNumerically("<=", spec.SensorMaxRange))
			}
		})
	})
})
