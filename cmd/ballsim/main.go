package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/gui"
	"github.com/san-kum/ballsim/internal/record"
	"github.com/san-kum/ballsim/internal/server"
	"github.com/san-kum/ballsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	gravity    float64
	damping    float64
	fps        int
	// headless runs
	dt           float64
	duration     float64
	scenarioFile string
	numRuns      int
	noSave       bool
	live         bool
	liveFPS      int
	// sweeps
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// output
	outPath string
	fromX   float64
	fromY   float64
	toX     float64
	toY     float64
	// frontends
	addr          string
	recordPattern string
)

// main registers the ballsim commands and opens the window when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ballsim",
		Short: "bouncing balls in a circle",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "demo", "preset scene")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.PersistentFlags().Float64Var(&gravity, "gravity", 0, "downward acceleration")
	rootCmd.PersistentFlags().Float64Var(&damping, "damping", config.DefaultDamping, "velocity damping")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	rootCmd.PersistentFlags().StringVar(&recordPattern, "record", "", "GIF path pattern, {dt} is replaced by the time")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation over HTTP and websocket",
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "fixed timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs with consecutive seeds")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&live, "live", false, "print an ASCII view while running")
	runCmd.Flags().IntVar(&liveFPS, "live-fps", 30, "frames per simulated second for --live")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a preset across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", "parameter to sweep (gravity, damping, correction)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "fixed timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and momentum of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print run samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a full run as one json document",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "draw the trajectory preview of a drag as svg",
		Args:  cobra.NoArgs,
		RunE:  previewSVG,
	}
	previewCmd.Flags().Float64Var(&fromX, "from-x", 0, "drag start x, relative to the centre")
	previewCmd.Flags().Float64Var(&fromY, "from-y", 0, "drag start y, relative to the centre")
	previewCmd.Flags().Float64Var(&toX, "to-x", -10, "drag end x, relative to the centre")
	previewCmd.Flags().Float64Var(&toY, "to-y", 10, "drag end y, relative to the centre")
	previewCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "draw the final scene of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotSVG,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, serveCmd, runCmd, sweepCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, previewCmd, snapshotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the scene configuration: config file or preset, then
// BALLSIM_* environment overrides, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name = preset
		err  error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name = "custom"
	} else {
		cfg, err = config.GetPreset(preset)
		if err != nil {
			return nil, "", fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}

	applyOverrides(cmd, cfg)
	return cfg, name, cfg.Validate()
}

// applyOverrides layers BALLSIM_* environment values and then explicitly
// set flags over cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	config.LoadEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("record") {
		cfg.Recorder.Pattern = recordPattern
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
}

// frontend builds the experiment and GIF recorder shared by the
// interactive commands.
func frontend(cmd *cobra.Command) (*experiment.Experiment, *record.Recorder, error) {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	e, err := experiment.New(name, cfg)
	if err != nil {
		return nil, nil, err
	}
	rec := record.New(cfg.Recorder.Pattern, cfg.FPS, cfg.Recorder.Every)
	rec.OnSaved(func(path string, err error) {
		if err == nil {
			fmt.Printf("saved recording to %s\n", path)
		}
	})
	return e, rec, nil
}

// flush waits for recordings still being encoded.
func flush(rec *record.Recorder) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return rec.Close(ctx)
}

func runGUI(cmd *cobra.Command, args []string) error {
	e, rec, err := frontend(cmd)
	if err != nil {
		return err
	}
	gui.Run(e, rec)
	return flush(rec)
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, rec, err := frontend(cmd)
	if err != nil {
		return err
	}
	if err := viz.Run(e, rec); err != nil {
		return err
	}
	return flush(rec)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	e, err := experiment.New(name, cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return server.New(e, cfg.Server).ListenAndServe(ctx, cfg.Server.Addr)
}
