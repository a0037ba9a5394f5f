package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballsim/internal/automation"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/tui"
	"github.com/spf13/cobra"
)

// scenarioBuilder builds s per seed with environment and flag overrides on
// top of the scenario's config. Explicit --gravity and --damping also win
// over the scenario's params.
func scenarioBuilder(cmd *cobra.Command, s *automation.Scenario) func(int64) (*experiment.Experiment, sim.Script, error) {
	overrides := map[string]float64{}
	if cmd.Flags().Changed("gravity") {
		overrides["gravity"] = gravity
	}
	if cmd.Flags().Changed("damping") {
		overrides["damping"] = damping
	}
	return s.Builder(func(cfg *config.Config) { applyOverrides(cmd, cfg) }, overrides)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var build func(seed int64) (*experiment.Experiment, sim.Script, error)

	if scenarioFile != "" {
		s, err := automation.LoadScenario(scenarioFile)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		build = scenarioBuilder(cmd, s)
	} else {
		cfg, name, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		build = func(seed int64) (*experiment.Experiment, sim.Script, error) {
			c := cfg.Clone()
			if seed != 0 {
				c.Seed = seed
			}
			e, err := experiment.New(name, c)
			return e, nil, err
		}
	}

	if numRuns > 1 {
		return runEnsemble(ctx, build)
	}

	e, script, err := build(0)
	if err != nil {
		return err
	}

	if live {
		r := tui.NewLiveRenderer(e.Name(), e.Simulator().Boundary(), liveFPS)
		r.Start()
		defer r.Stop()
		e.Simulator().AddObserver(r)
	}

	fmt.Printf("running %s (%d balls, %d launches)...\n", e.Name(), e.Simulator().Len(), len(script))
	start := time.Now()

	result, err := e.Run(ctx, script)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		if err := saveRun(e, result); err != nil {
			return err
		}
	}
	printResult(result)
	return nil
}

func saveRun(e *experiment.Experiment, result *dynamo.Result) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(e.Info(), result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printResult(result *dynamo.Result) {
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Printf("balls: %d\n", len(result.Final))
	if len(result.Errors) > 0 {
		fmt.Printf("errors: %d (first: %v)\n", len(result.Errors), result.Errors[0])
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runEnsemble runs numRuns copies with consecutive seeds and prints the
// mean of every metric.
func runEnsemble(ctx context.Context, build func(int64) (*experiment.Experiment, sim.Script, error)) error {
	first, _, err := build(0)
	if err != nil {
		return err
	}
	base := first.Config().Seed

	experiments := make([]*experiment.Experiment, numRuns)
	factory := func(s int64) (*sim.Simulator, sim.Script, error) {
		e, script, err := build(s)
		if err != nil {
			return nil, nil, err
		}
		experiments[int(s-base)] = e
		return e.Simulator(), script, nil
	}

	cfg := first.Config().Run
	fmt.Printf("running %d x %s...\n", numRuns, first.Name())
	start := time.Now()
	results, err := sim.NewEnsemble(factory, numRuns, base).Run(ctx, sim.RunConfig{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	mean := make(map[string]float64)
	for i, res := range results {
		for k, v := range res.Metrics {
			mean[k] += v / float64(len(results))
		}
		if !noSave {
			if err := saveRun(experiments[i], res); err != nil {
				return err
			}
		}
	}
	fmt.Println("\nmean metrics:")
	for _, name := range sortedKeys(mean) {
		fmt.Printf("  %s: %.6f\n", name, mean[name])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Preset:    preset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Duration:  duration,
		Dt:        dt,
		Seed:      seed,
	}
	results, err := automation.RunSweep(context.Background(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\tENERGY DRIFT\tMEAN SPEED\tCONTAINMENT\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%.6f\t%.2f\t%.3f\n", r.ParamValue, r.Collisions, r.EnergyDrift, r.MeanSpeed, r.Containment)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tBALLS\tCOLLISIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Balls,
			run.Collisions,
		)
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

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(dynamo.Sample) float64
	}{
		{"kinetic energy", func(s dynamo.Sample) float64 { return s.Kinetic }},
		{"momentum |p|", func(s dynamo.Sample) float64 { return s.Momentum.Norm() }},
		{"collisions", func(s dynamo.Sample) float64 { return float64(s.Collisions) }},
	}
	for _, s := range series {
		data := make([]float64, len(samples))
		for i, smp := range samples {
			data[i] = s.value(smp)
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

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(args[0], outPath)
}

// writeOut writes s to outPath, or stdout when no path was given.
func writeOut(s string) error {
	var w io.Writer = os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := io.WriteString(w, s)
	return err
}

func previewSVG(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	e, err := experiment.New(preset, cfg)
	if err != nil {
		return err
	}
	bound := e.Simulator().Boundary()
	from := bound.Center.Add(r2.Point{X: fromX, Y: fromY})
	to := bound.Center.Add(r2.Point{X: toX, Y: toY})

	points := e.Predictor().Preview(from, to)
	svg := export.TrajectoryToSVG(points, bound, cfg.Width, cfg.Height, "#ffffff")
	if svg == "" {
		return fmt.Errorf("drag starts outside the boundary")
	}
	return writeOut(svg)
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	balls, err := st.LoadBalls(runID)
	if err != nil {
		return err
	}

	bound := meta.Boundary
	scene := control.Scene{Boundary: bound, Balls: balls, Time: meta.Duration, Collisions: meta.Collisions}
	return writeOut(export.SceneToSVG(scene, 2*bound.Center.X, 2*bound.Center.Y))
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRAVITY\tDAMPING\tBALLS\tDURATION")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		balls := len(cfg.Balls) + cfg.Crowd
		fmt.Fprintf(w, "%s\t%.0f\t%.2f\t%d\t%.0fs\n", name, cfg.Gravity, cfg.Damping, balls, cfg.Run.Duration)
	}
	return w.Flush()
}
