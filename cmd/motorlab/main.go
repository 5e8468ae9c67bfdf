package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/motorlab/motorlab/internal/analysis"
	"github.com/motorlab/motorlab/internal/config"
	"github.com/motorlab/motorlab/internal/lab"
	"github.com/motorlab/motorlab/internal/loop"
	"github.com/motorlab/motorlab/internal/metrics"
	"github.com/motorlab/motorlab/internal/report"
	"github.com/motorlab/motorlab/internal/store"
	"github.com/motorlab/motorlab/internal/tui"
	"github.com/motorlab/motorlab/internal/tune"
)

var (
	dataDir  string
	dt       float64
	duration float64
	kp       float64
	ki       float64
	kd       float64
	setpoint float64
	outMin   float64
	outMax   float64
	integMin float64
	integMax float64
	filter   float64
	noise    float64
	seed     int64
	// Config file
	configFile string
	// Preset name
	preset string
	// Tune sweep
	kpRange    []float64
	kiRange    []float64
	kdRange    []float64
	tuneSteps  int
	tuneMetric string
	// PNG output directory
	outDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motorlab",
		Short: "motor speed control simulation and tuning lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motorlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoop,
	}
	addLoopFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
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

	pngCmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "render a stored run to PNG images",
		Args:  cobra.ExactArgs(1),
		RunE:  renderPNG,
	}
	pngCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the tracking error",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [plant]",
		Short: "grid search for gains",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneGains,
	}
	addLoopFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpRange, "kp-range", []float64{0.005, 0.1}, "kp sweep bounds")
	tuneCmd.Flags().Float64SliceVar(&kiRange, "ki-range", []float64{0.1, 1.5}, "ki sweep bounds")
	tuneCmd.Flags().Float64SliceVar(&kdRange, "kd-range", []float64{0, 0.01}, "kd sweep bounds")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 5, "grid points per gain")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settling_time", "metric to minimize")

	benchCmd := &cobra.Command{
		Use:   "bench [plant]",
		Short: "benchmark loop throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchPlant,
	}

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "interactive live view with on-the-fly gain tuning",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list available presets for a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for plant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		pngCmd, analyzeCmd, tuneCmd, benchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sample interval")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative gain")
	cmd.Flags().Float64Var(&setpoint, "setpoint", config.DefaultSetpoint, "target value")
	cmd.Flags().Float64Var(&outMin, "out-min", -1.0, "output lower bound")
	cmd.Flags().Float64Var(&outMax, "out-max", 1.0, "output upper bound")
	cmd.Flags().Float64Var(&integMin, "integ-min", 0, "integrator lower bound (with --integ-max)")
	cmd.Flags().Float64Var(&integMax, "integ-max", 0, "integrator upper bound (with --integ-min)")
	cmd.Flags().Float64Var(&filter, "filter", 0, "derivative smoothing coefficient")
	cmd.Flags().Float64Var(&noise, "noise", 0, "measurement noise stddev")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file, and CLI flags for plant, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command, plant string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Plant = plant

	if preset != "" {
		p := config.GetPreset(plant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(plant))
		}
		*cfg = *p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *fileCfg
		cfg.Plant = plant
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("kp") {
		cfg.Gains.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.Gains.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.Gains.Kd = kd
	}
	if cmd.Flags().Changed("setpoint") {
		cfg.Setpoint.Value = setpoint
	}
	if cmd.Flags().Changed("out-min") {
		cfg.Output.Min = outMin
	}
	if cmd.Flags().Changed("out-max") {
		cfg.Output.Max = outMax
	}
	if cmd.Flags().Changed("integ-min") || cmd.Flags().Changed("integ-max") {
		cfg.Integrator = &config.RangeConfig{Min: integMin, Max: integMax}
	}
	if cmd.Flags().Changed("filter") {
		cfg.Filter = filter
	}
	if cmd.Flags().Changed("noise") {
		cfg.Noise = noise
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func runLoop(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, err := lab.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s loop...\n", cfg.Plant)
	start := time.Now()

	result, err := runner.Run(context.Background(), lab.LoopConfig(cfg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(store.RunMetadata{
		Plant:    cfg.Plant,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Kp:       cfg.Gains.Kp,
		Ki:       cfg.Gains.Ki,
		Kd:       cfg.Gains.Kd,
		Filter:   cfg.Filter,
		Seed:     cfg.Seed,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.Times))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	for name, val := range metrics.Summarize(result) {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLANT\tTIME\tDURATION\tDT\tKP\tKI\tKD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.4f\t%.4f\t%.4f\n",
			run.ID,
			run.Plant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Kp,
			run.Ki,
			run.Kd,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Measurements) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s\n", meta.Plant)
	fmt.Printf("samples: %d\n\n", len(series.Measurements))

	graph := asciigraph.Plot(series.Measurements,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("measurement"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(series.Outputs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("control output"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Println("metrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	for name, val := range metrics.Summarize(seriesToResult(meta, series)) {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return store.ExportCSV(os.Stdout, meta, series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, series)
}

func renderPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	result := seriesToResult(meta, series)
	title := fmt.Sprintf("%s (kp=%.4f ki=%.4f kd=%.4f)", meta.Plant, meta.Kp, meta.Ki, meta.Kd)

	annotations := make(map[string]float64)
	for name, val := range meta.Metrics {
		annotations[name] = val
	}
	for name, val := range metrics.Summarize(result) {
		annotations[name] = val
	}

	stepPath := filepath.Join(outDir, runID+"_step.png")
	if err := report.SaveStepResponse(stepPath, title, result, annotations); err != nil {
		return err
	}
	effortPath := filepath.Join(outDir, runID+"_effort.png")
	if err := report.SaveControlEffort(effortPath, title, result, annotations); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", stepPath)
	fmt.Printf("wrote %s\n", effortPath)
	return nil
}

func seriesToResult(meta *store.RunMetadata, series *store.Series) *loop.Result {
	result := &loop.Result{
		Times:        make([]float64, len(series.Measurements)),
		Setpoints:    series.Setpoints,
		Measurements: series.Measurements,
		Outputs:      series.Outputs,
	}
	for i := range result.Times {
		result.Times[i] = float64(i) * meta.Dt
	}
	return result
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Measurements) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("plant: %s\n\n", meta.Plant)

	errSeries := make([]float64, len(series.Measurements))
	for i := range errSeries {
		errSeries[i] = series.Setpoints[i] - series.Measurements[i]
	}

	_, power := analysis.Spectrum(errSeries, meta.Dt)
	if len(power) < 2 {
		return fmt.Errorf("run too short for analysis")
	}

	plotData := power[:len(power)/4+1]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("tracking error power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(errSeries, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	for _, r := range [][]float64{kpRange, kiRange, kdRange} {
		if len(r) != 2 {
			return fmt.Errorf("gain ranges need exactly two values, got %v", r)
		}
	}

	gs := tune.NewGridSearch(
		[]string{"kp", "ki", "kd"},
		[][]float64{
			tune.Span(kpRange[0], kpRange[1], tuneSteps),
			tune.Span(kiRange[0], kiRange[1], tuneSteps),
			tune.Span(kdRange[0], kdRange[1], tuneSteps),
		},
	)

	registry := lab.NewRegistry()
	build := func(params map[string]float64) (*loop.Runner, loop.Config, error) {
		trial := *cfg
		trial.Gains = config.GainsConfig{Kp: params["kp"], Ki: params["ki"], Kd: params["kd"]}
		runner, err := registry.Build(&trial)
		if err != nil {
			return nil, loop.Config{}, err
		}
		return runner, lab.LoopConfig(&trial), nil
	}

	total := tuneSteps * tuneSteps * tuneSteps
	fmt.Printf("sweeping %d gain combinations on %s, minimizing %s...\n", total, cfg.Plant, tuneMetric)
	start := time.Now()

	best, score, err := gs.Search(context.Background(), build, tuneMetric)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no combination produced metric %q", tuneMetric)
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Printf("best gains: kp=%.5f ki=%.5f kd=%.5f\n", best["kp"], best["ki"], best["kd"])
	fmt.Printf("%s: %.6f\n", tuneMetric, score)
	return nil
}

func benchPlant(cmd *cobra.Command, args []string) error {
	plantName := args[0]
	registry := lab.NewRegistry()

	durations := []float64{1.0, 10.0, 60.0}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Printf("benchmarking %s\n\n", plantName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := config.DefaultConfig()
			cfg.Plant = plantName
			cfg.Dt = step
			cfg.Duration = dur

			runner, err := registry.Build(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := runner.Run(context.Background(), lab.LoopConfig(cfg))
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := len(result.Times)
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	return tui.Run(cfg)
}
