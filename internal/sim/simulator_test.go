package sim_test

import (
	"context"
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/supervisor"
)

type countingObserver struct {
	mu    sync.Mutex
	calls map[int]int
}

func (c *countingObserver) OnStep(agent int, f dynamo.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[agent]++
}

type recordingSupervisor struct {
	ticks [][]int
}

func (r *recordingSupervisor) Execute(readings []float64, ticks []int, dt float64) (float64, float64) {
	r.ticks = append(r.ticks, ticks)
	return 4, 4
}

func newRobot(pose dynamo.Pose) *robot.Robot {
	bot, err := robot.New(robot.Khepera3(), nil, robot.WithPose(pose))
	Expect(err).NotTo(HaveOccurred())
	return bot
}

var _ = Describe("Simulator", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.Config{Dt: 0.1, Duration: 1.0}
	})

	It("records the initial frame and one frame per step", func() {
		s := sim.New(sim.Agent{Robot: newRobot(dynamo.Pose{}), Supervisor: supervisor.NewConstant(1, 1)})

		result, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Times).To(HaveLen(11))
		Expect(result.Trajectory(0)).To(HaveLen(11))
		Expect(result.Trajectory(1)).To(BeNil())

		last := result.Trajectory(0)[10]
		Expect(last.T).To(BeNumerically("~", 1.0, 1e-12))
		Expect(last.Pose.X).To(BeNumerically("~", 0.021, 1e-9))
	})

	It("lets supervisors see the encoders before each step", func() {
		sup := &recordingSupervisor{}
		s := sim.New(sim.Agent{Robot: newRobot(dynamo.Pose{}), Supervisor: sup})

		_, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(sup.ticks).To(HaveLen(10))
		Expect(sup.ticks[0]).To(Equal([]int{0, 0}))
		Expect(sup.ticks[9][0]).To(BeNumerically(">", 0))
	})

	It("steps a fleet of independent robots", func() {
		s := sim.New()
		obs := &countingObserver{calls: map[int]int{}}
		s.AddObserver(obs)

		for i := 0; i < 8; i++ {
			rate := float64(i)
			s.AddAgent(sim.Agent{
				Robot:      newRobot(dynamo.NewPose(float64(i), 0, 0)),
				Supervisor: supervisor.NewConstant(rate, rate),
			}, metrics.NewDistance())
		}

		cfg.Workers = 3
		result, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Frames).To(HaveLen(8))

		for i := 0; i < 8; i++ {
			final := result.Trajectory(i)[10].Pose
			Expect(final.X).To(BeNumerically("~", float64(i)+float64(i)*0.021, 1e-9))
			Expect(result.Metrics[i]["distance"]).To(BeNumerically("~", float64(i)*0.021, 1e-9))
			Expect(obs.calls[i]).To(Equal(11))
		}
	})

	It("gives robots with identical commands identical rk4 trajectories", func() {
		s := sim.New()
		for i := 0; i < 12; i++ {
			bot, err := robot.New(robot.Khepera3(), nil,
				robot.WithPose(dynamo.NewPose(0, float64(i), 0)),
				robot.WithIntegrator(integrators.NewRK4()))
			Expect(err).NotTo(HaveOccurred())
			s.AddAgent(sim.Agent{Robot: bot, Supervisor: supervisor.NewConstant(3, 5)})
		}

		result, err := s.Run(context.Background(), sim.Config{Dt: 0.05, Duration: 2.0})
		Expect(err).NotTo(HaveOccurred())

		ref := result.Trajectory(0)
		for i := 1; i < 12; i++ {
			traj := result.Trajectory(i)
			Expect(traj).To(HaveLen(len(ref)))
			for k := range ref {
				Expect(traj[k].Pose.X).To(Equal(ref[k].Pose.X))
				Expect(traj[k].Pose.Theta).To(Equal(ref[k].Pose.Theta))
				Expect(traj[k].Pose.Y - float64(i)).To(BeNumerically("~", ref[k].Pose.Y, 1e-9))
			}
		}
	})

	It("leaves rates alone for agents without a supervisor", func() {
		bot := newRobot(dynamo.Pose{})
		bot.SetWheelDriveRates(-2, 2)
		s := sim.New(sim.Agent{Robot: bot})

		result, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		final := result.Trajectory(0)[10].Pose
		Expect(final.X).To(BeNumerically("~", 0, 1e-12))
		Expect(final.Theta).NotTo(BeZero())
	})

	It("reports the failing tick and agent", func() {
		s := sim.New(
			sim.Agent{Robot: newRobot(dynamo.Pose{}), Supervisor: supervisor.NewConstant(1, 1)},
			sim.Agent{Robot: newRobot(dynamo.Pose{}), Supervisor: supervisor.NewConstant(math.NaN(), 1)},
		)

		result, err := s.Run(context.Background(), cfg)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))

		var stepErr *dynamo.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Agent).To(Equal(1))
		Expect(stepErr.Step).To(Equal(0))
		Expect(result.StepsTaken).To(Equal(0))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := sim.New(sim.Agent{Robot: newRobot(dynamo.Pose{})})
		_, err := s.Run(ctx, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})

	DescribeTable("rejects invalid configs",
		func(c sim.Config) {
			s := sim.New(sim.Agent{Robot: newRobot(dynamo.Pose{})})
			_, err := s.Run(context.Background(), c)
			Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
		},
		Entry("zero dt", sim.Config{Dt: 0, Duration: 1.0}),
		Entry("negative dt", sim.Config{Dt: -0.1, Duration: 1.0}),
		Entry("zero duration", sim.Config{Dt: 0.1, Duration: 0}),
		Entry("negative workers", sim.Config{Dt: 0.1, Duration: 1.0, Workers: -1}),
		Entry("infinite duration", sim.Config{Dt: 0.1, Duration: math.Inf(1)}),
		Entry("infinite dt", sim.Config{Dt: math.Inf(1), Duration: 1.0}),
		Entry("NaN duration", sim.Config{Dt: 0.1, Duration: math.NaN()}),
		Entry("too many steps", sim.Config{Dt: 1e-12, Duration: 1e6}),
	)

	It("rejects a run with no robots", func() {
		_, err := sim.New().Run(context.Background(), cfg)
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})

	Describe("RunWithCallback", func() {
		It("stops when the callback returns false", func() {
			s := sim.New(sim.Agent{Robot: newRobot(dynamo.Pose{}), Supervisor: supervisor.NewConstant(1, 1)})

			calls := 0
			err := s.RunWithCallback(context.Background(), cfg, func(t float64, frames []dynamo.Frame) bool {
				calls++
				Expect(frames).To(HaveLen(1))
				return calls < 3
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(3))
		})
	})

	It("uses the default config", func() {
		d := sim.DefaultConfig()
		Expect(d.Dt).To(BeNumerically(">", 0))
		Expect(d.Steps()).To(Equal(200))
	})
})
