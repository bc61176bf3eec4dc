// Package tui renders a robot run live in the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/supervisor"
	"github.com/san-kum/robosim/internal/world"
)

const (
	width       = 70
	height      = 24
	trailLength = 200
	rateStep    = 0.5 // rad/s per key press
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(36)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps one robot per frame and draws it with its world.
type Model struct {
	name     string
	bot      *robot.Robot
	driver   dynamo.Supervisor
	world    *world.World
	dt       float64
	duration float64
	t        float64
	fps      int
	running  bool
	canvas   *Canvas
	trail    []dynamo.Point
	odometry *metrics.OdometryDrift
	err      error
}

func NewModel(name string, bot *robot.Robot, driver dynamo.Supervisor, w *world.World, dt, duration float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	spec := bot.Spec()
	odometry := metrics.NewOdometryDrift(spec.WheelRadius, spec.WheelBaseLength, spec.TicksPerRev)
	odometry.Observe(bot.Frame(0))

	return Model{
		name:     name,
		bot:      bot,
		driver:   driver,
		world:    w,
		dt:       dt,
		duration: duration,
		fps:      fps,
		running:  true,
		canvas:   NewCanvas(width, height, 60),
		trail:    make([]dynamo.Point, 0, trailLength),
		odometry: odometry,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "up":
			m.nudge(rateStep, rateStep)
		case "down":
			m.nudge(-rateStep, -rateStep)
		case "left":
			m.nudge(-rateStep, rateStep)
		case "right":
			m.nudge(rateStep, -rateStep)
		case "+", "=":
			m.canvas.SetScale(m.canvas.Scale() * 1.25)
		case "-":
			m.canvas.SetScale(m.canvas.Scale() / 1.25)
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// nudge adjusts the command of a constant driver. Other drivers ignore keys.
func (m *Model) nudge(dl, dr float64) {
	c, ok := m.driver.(*supervisor.Constant)
	if !ok {
		return
	}
	c.Set(c.VL+dl, c.VR+dr)
}

func (m *Model) step() {
	if m.duration > 0 && m.t >= m.duration-1e-9 {
		m.running = false
		return
	}
	if m.driver != nil {
		vL, vR := m.driver.Execute(m.bot.ReadProximitySensors(), m.bot.ReadWheelEncoders(), m.dt)
		m.bot.SetWheelDriveRates(vL, vR)
	}
	if err := m.bot.Step(m.dt); err != nil {
		m.err = err
		return
	}
	m.t += m.dt
	m.odometry.Observe(m.bot.Frame(m.t))

	m.trail = append(m.trail, m.bot.Pose().Position())
	if len(m.trail) > trailLength {
		m.trail = m.trail[1:]
	}
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()

	if m.world != nil {
		for _, o := range m.world.Obstacles() {
			c.Polygon(o, '#')
		}
	}
	for _, p := range m.trail {
		c.Plot(p, '.')
	}

	readings := m.bot.ReadProximitySensors()
	for i, sp := range m.bot.SensorPoses() {
		sin, cos := math.Sincos(sp.Theta)
		end := dynamo.Point{X: sp.X + readings[i]*cos, Y: sp.Y + readings[i]*sin}
		c.Segment(sp.Position(), end, '\'')
	}

	c.Polygon(m.bot.GlobalGeometry(), 'o')
	c.Plot(m.bot.Pose().Position(), '@')
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	p := m.bot.Pose()
	vL, vR := m.bot.WheelDriveRates()
	v, w := m.bot.Velocity()
	ticks := m.bot.ReadWheelEncoders()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Pose", fmt.Sprintf("%.3f, %.3f", p.X, p.Y))
	row("Heading", fmt.Sprintf("%.1f°", dynamo.Degrees(p.Theta)))
	row("Wheels", fmt.Sprintf("%.2f / %.2f", vL, vR))
	row("v, w", fmt.Sprintf("%.4f / %.3f", v, w))
	row("Ticks", fmt.Sprintf("%d / %d", ticks[robot.Left], ticks[robot.Right]))
	row("Revs", fmt.Sprintf("%.2f / %.2f", m.bot.Encoder(robot.Left).Revolutions(), m.bot.Encoder(robot.Right).Revolutions()))
	est := m.odometry.Estimate()
	row("Odometry", fmt.Sprintf("%.3f, %.3f", est.X, est.Y))
	row("Drift", fmt.Sprintf("%.4f m", m.odometry.Value()))
	row("Integ", m.bot.Integrator())
	row("Scale", fmt.Sprintf("%.0f cells/m", m.canvas.Scale()))
	if !m.running {
		row("State", "paused")
	}
	if m.inContact() {
		s.WriteString(errorStyle.Render("CONTACT") + "\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause Q:Quit\n↑↓←→:Drive +/-:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func (m Model) inContact() bool {
	return m.world != nil && m.world.Collides(m.bot.GlobalGeometry())
}

// Run starts the live view and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
