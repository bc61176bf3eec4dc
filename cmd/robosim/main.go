package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/export"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/logging"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/tui"
)

var (
	dataDir        string
	configFile     string
	dt             float64
	duration       float64
	vL             float64
	vR             float64
	integrator     string
	profile        string
	supervisorName string
	logLevel       string
	logJSON        bool
	agents         int
	workers        int
	frameRate      int
	outFile        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "robosim",
		Short:        "differential drive robot simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".robosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&agents, "agents", 1, "number of robots")
	runCmd.Flags().IntVar(&workers, "workers", 0, "robots stepped concurrently (0 = all)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark fleet stepping",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchFleet,
	}
	addScenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&agents, "agents", 16, "number of robots")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "robots stepped concurrently (0 = all)")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot pose against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "plot the x-y path of every robot",
		Args:  cobra.ExactArgs(1),
		RunE:  pathPlot,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.json)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&configFile, "config", "", "config the run was made with, for its obstacles")

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list robot profiles",
		RunE:  listProfiles,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPROFILE\tINTEG\tDT\tDURATION\tV_L\tV_R\tARENA")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%.3fs\t%.1fs\t%.2f\t%.2f\t%.2f\n",
					name, p.Profile, p.Integrator, p.Dt, p.Duration, p.Command.VL, p.Command.VR, p.World.Arena)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, compareCmd, listCmd, plotCmd, pathCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, profilesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&vL, "vl", 0, "left wheel rate (rad/s)")
	cmd.Flags().Float64Var(&vR, "vr", 0, "right wheel rate (rad/s)")
	cmd.Flags().StringVar(&integrator, "integrator", integrators.Default, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().StringVar(&profile, "profile", config.DefaultProfile, "robot profile")
	cmd.Flags().StringVar(&supervisorName, "supervisor", config.DefaultSupervisor, "supervisor (constant, none)")
}

// newLogger honors an explicit --log-level over the config's level.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	return logging.New(level, logJSON)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := buildScenario(cfg, agents)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := cfg.InitPose.Pose()
	log.Info("run started", append([]zap.Field{
		zap.String("profile", cfg.ProfileName()),
		zap.String("integrator", sc.integrator()),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
		zap.Int("agents", agents),
	}, logging.Pose("start", start.X, start.Y, start.Theta)...)...)

	began := time.Now()
	result, err := sc.sim.Run(context.Background(), sc.simConfig(workers))
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if result != nil {
			fields = append(fields, zap.Int("steps", result.StepsTaken))
		}
		log.Error("run aborted", fields...)
		return err
	}
	elapsed := time.Since(began)

	hash, err := storage.Fingerprint(sc.spec)
	if err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Profile:     cfg.ProfileName(),
		ProfileHash: hash,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Integrator:  sc.integrator(),
		Supervisor:  cfg.Supervisor,
	}, result)
	if err != nil {
		return err
	}

	for i, a := range sc.sim.Agents() {
		p := a.Robot.Pose()
		log.Debug("agent finished", append([]zap.Field{zap.Int("agent", i)},
			logging.Pose("final", p.X, p.Y, p.Theta)...)...)
		if t, ok := sc.contacts.First(i); ok {
			log.Warn("agent touched an obstacle", zap.Int("agent", i), zap.Float64("t", t))
		}
	}
	log.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", elapsed),
	)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for i, m := range result.Metrics {
		p := result.Frames[i][len(result.Frames[i])-1].Pose
		fmt.Printf("\nagent %d: %s\n", i, p)
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.6f\n", name, m[name])
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := buildScenario(cfg, 1)
	if err != nil {
		return err
	}
	a := sc.sim.Agents()[0]
	m := tui.NewModel(cfg.ProfileName(), a.Robot, a.Supervisor, sc.world, cfg.Dt, cfg.Duration, frameRate)
	return tui.Run(m)
}

func benchFleet(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := buildScenario(cfg, agents)
	if err != nil {
		return err
	}

	steps := 0
	began := time.Now()
	err = sc.sim.RunWithCallback(context.Background(), sc.simConfig(workers), func(float64, []dynamo.Frame) bool {
		steps++
		return true
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(began)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENTS\tWORKERS\tSTEPS\tTIME\tROBOT-STEPS/S")
	rate := float64(steps*agents) / elapsed.Seconds()
	fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", agents, workers, steps, elapsed.Round(time.Microsecond), rate)
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args[1:]
	if len(names) == 0 {
		names = integrators.Names()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tX\tY\tTHETA\tDIST\tTIME")

	for _, name := range names {
		cfg, err := resolveConfig(cmd, args[:1])
		if err != nil {
			return err
		}
		cfg.Integrator = name
		sc, err := buildScenario(cfg, 1)
		if err != nil {
			return err
		}

		began := time.Now()
		result, err := sc.sim.Run(context.Background(), sc.simConfig(1))
		if err != nil {
			return err
		}
		elapsed := time.Since(began)

		traj := result.Trajectory(0)
		p := traj[len(traj)-1].Pose
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\t%v\n",
			name, p.X, p.Y, p.Theta, result.Metrics[0]["distance"], elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tTIME\tDURATION\tDT\tAGENTS\tINTEG\tSUPERVISOR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%s\n",
			run.ID,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Agents,
			run.Integrator,
			run.Supervisor,
		)
	}

	return w.Flush()
}

func listProfiles(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRADIUS\tBASE\tTICKS/REV\tV_MAX\tW_MAX\tSENSORS")
	for _, name := range config.ListProfiles() {
		spec := config.Profiles[name].Spec()
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%d\t%.4f\t%.4f\t%d\n",
			name, spec.WheelRadius, spec.WheelBaseLength, spec.TicksPerRev,
			spec.MaxTransVel, spec.MaxAngVel, len(spec.SensorMounts))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 || len(frames[0]) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s\n", meta.Profile)
	fmt.Printf("samples: %d\n\n", len(frames[0]))

	traj := frames[0]
	series := []struct {
		caption string
		value   func(dynamo.Frame) float64
	}{
		{"x (m)", func(f dynamo.Frame) float64 { return f.Pose.X }},
		{"y (m)", func(f dynamo.Frame) float64 { return f.Pose.Y }},
		{"heading (deg)", func(f dynamo.Frame) float64 { return dynamo.Degrees(f.Pose.Theta) }},
	}

	for _, s := range series {
		data := make([]float64, len(traj))
		for i, f := range traj {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func pathPlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, traj := range frames {
		for _, f := range traj {
			xMin, xMax = math.Min(xMin, f.Pose.X), math.Max(xMax, f.Pose.X)
			yMin, yMax = math.Min(yMin, f.Pose.Y), math.Max(yMax, f.Pose.Y)
		}
	}
	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for agent, traj := range frames {
		mark := rune('0' + agent%10)
		for _, f := range traj {
			px := int(float64(width-1) * (f.Pose.X - xMin) / xRange)
			py := height - 1 - int(float64(height-1)*(f.Pose.Y-yMin)/yRange)
			if px >= 0 && px < width && py >= 0 && py < height {
				canvas[py][px] = mark
			}
		}
	}

	fmt.Printf("  %7.3f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for _, row := range canvas {
		fmt.Printf("          │%s│\n", string(row))
	}
	fmt.Printf("  %7.3f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("          %-*.3f%.3f\n", width-5, xMin, xMax)
	fmt.Printf("\nLegend: digit = agent index\n")
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "agent", "x", "y", "theta_deg", "v_l", "v_r", "ticks_l", "ticks_r"}
	for i := 0; i < meta.Sensors; i++ {
		header = append(header, fmt.Sprintf("ir%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for agent, traj := range frames {
		for _, f := range traj {
			row := []string{
				fmt.Sprintf("%.6f", f.T),
				fmt.Sprint(agent),
				fmt.Sprintf("%.6f", f.Pose.X),
				fmt.Sprintf("%.6f", f.Pose.Y),
				fmt.Sprintf("%.4f", dynamo.Degrees(f.Pose.Theta)),
				fmt.Sprintf("%.6f", f.VL),
				fmt.Sprintf("%.6f", f.VR),
				fmt.Sprint(f.Ticks[robot.Left]),
				fmt.Sprint(f.Ticks[robot.Right]),
			}
			for _, r := range f.Readings {
				row = append(row, fmt.Sprintf("%.6f", r))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := outFile
	if path == "" {
		path = runID + ".json"
	}
	if err := storage.New(dataDir).ExportJSON(runID, path); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	var scene export.Scene
	if spec, ok := config.Profiles[meta.Profile]; ok {
		outline := spec.Spec().BodyOutline
		for _, traj := range frames {
			if len(traj) == 0 {
				continue
			}
			scene.Outlines = append(scene.Outlines, outlineAt(outline, traj[len(traj)-1].Pose))
		}
	}
	for _, traj := range frames {
		scene.Trajectories = append(scene.Trajectories, export.FramePoints(traj))
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		scene.Obstacles = cfg.World.Build().Obstacles()
	}

	svg := export.TrajectorySVG(scene, 800, 800)
	if svg == "" {
		return fmt.Errorf("no data to export")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}
