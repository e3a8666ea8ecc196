package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/plague/internal/config"
	"github.com/san-kum/plague/internal/control"
	"github.com/san-kum/plague/internal/metrics"
	"github.com/san-kum/plague/internal/plague"
	"github.com/san-kum/plague/internal/report"
	"github.com/san-kum/plague/internal/sim"
	"github.com/san-kum/plague/internal/storage"
	"github.com/san-kum/plague/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	controller string
	steps      int
	kp         float64
	ki         float64
	kd         float64
	target     float64
	pushStep   float64
	deadband   float64
	k0         float64
	k1         float64
	deltas     string
	tolerance  float64
	window     int
	svgDir     string
	promFile   string
	noSave     bool
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plague",
		Short: "controlled infection spread simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			log.SetOutput(os.Stderr)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".plague", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and report it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&svgDir, "svg", "", "directory to save the svg chart in (default: the run directory)")
	runCmd.Flags().StringVar(&promFile, "prom", "", "write a prometheus text-format snapshot to this file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also save an svg chart in this directory")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics [run_id]",
		Short: "print a prometheus text-format snapshot of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  printMetrics,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCONTROLLER\tSTEPS\tTARGET")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", name, p.Controller, p.Steps, p.ControllerParams.Target)
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [controller] [controller] ...",
		Short: "compare controllers on the same run length",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareControllers,
	}
	addRunFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, metricsCmd, presetsCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&controller, "controller", d.Controller, "controller (none, pid, lqr, bangbang, schedule, manual)")
	cmd.Flags().IntVar(&steps, "steps", d.Steps, "number of 0.1 day steps")
	cmd.Flags().Float64Var(&kp, "kp", d.ControllerParams.Kp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", d.ControllerParams.Ki, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", d.ControllerParams.Kd, "pid kd")
	cmd.Flags().Float64Var(&target, "target", d.ControllerParams.Target, "target infected percentage")
	cmd.Flags().Float64Var(&pushStep, "step", d.ControllerParams.Step, "bangbang increment")
	cmd.Flags().Float64Var(&deadband, "deadband", d.ControllerParams.Deadband, "bangbang deadband")
	cmd.Flags().Float64Var(&k0, "k0", d.ControllerParams.K0, "lqr gain on percentage error")
	cmd.Flags().Float64Var(&k1, "k1", d.ControllerParams.K1, "lqr gain on effective rate")
	cmd.Flags().StringVar(&deltas, "deltas", "", "comma separated control increments (schedule)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", d.Tolerance, "steady-state tolerance")
	cmd.Flags().IntVar(&window, "window", d.Window, "minimum steady-state length in steps")
}

// loadConfig resolves preset, then config file, then flags; each layer
// only overrides what the previous one set when a flag was not given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if flags.Changed("step") {
		cfg.ControllerParams.Step = pushStep
	}
	if flags.Changed("deadband") {
		cfg.ControllerParams.Deadband = deadband
	}
	if flags.Changed("k0") {
		cfg.ControllerParams.K0 = k0
	}
	if flags.Changed("k1") {
		cfg.ControllerParams.K1 = k1
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("window") {
		cfg.Window = window
	}
	if flags.Changed("deltas") {
		parsed, err := parseDeltas(deltas)
		if err != nil {
			return nil, err
		}
		cfg.ControllerParams.Deltas = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDeltas(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid delta %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func newRunner(cfg *config.Config) (*sim.Runner, error) {
	ctrl, err := control.NewRegistry().Get(cfg.Controller, cfg.GetControllerParams())
	if err != nil {
		return nil, err
	}
	r := sim.New(ctrl, cfg.SimConfig())
	for _, m := range metrics.Defaults() {
		r.AddMetric(m)
	}
	return r, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(log.Fields{
		"controller": cfg.Controller,
		"steps":      cfg.Steps,
	}).Info("running simulation")
	start := time.Now()

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	reporters := []sim.Reporter{report.NewTerminal(os.Stdout)}

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(cfg.Controller, cfg.ParamMap(), cfg.SimConfig(), result)
		if err != nil {
			return fmt.Errorf("save %s run: %w", cfg.Controller, err)
		}
	}
	if dir := chartDir(svgDir, cfg.Output.SVGDir, runID); dir != "" {
		svgDir = dir
		reporters = append(reporters, report.NewSVG(dir, "plague"))
	}

	if promFile == "" {
		promFile = cfg.Output.Prometheus
	}

	if err := sim.Report(result, reporters...); err != nil {
		return err
	}
	if promFile != "" {
		prom := report.NewPrometheus(nil, map[string]string{"controller": cfg.Controller, "run": runID})
		if err := prom.WriteFile(promFile, result.History, result.SteadyState, result.Cost); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"run":     runID,
		"elapsed": elapsed,
		"svg":     svgDir,
	}).Info("simulation complete")

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.History.Len()-1)
	fmt.Printf("steady state: day %.1f\n", result.SteadyStateDay())
	fmt.Printf("cost: %.4f\n", result.Cost)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

// chartDir picks where the svg chart goes: the flag, then the config file,
// then the run directory of a saved run.
func chartDir(flagDir, configDir, runID string) string {
	switch {
	case flagDir != "":
		return flagDir
	case configDir != "":
		return configDir
	case runID != "":
		return filepath.Join(dataDir, runID)
	}
	return ""
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
	fmt.Fprintln(w, "ID\tCONTROLLER\tTIME\tSTEPS\tSTEADY\tCOST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fd\t%.4f\n",
			run.ID,
			run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			plague.Day(run.SteadyState),
			run.Cost,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		return nil, nil, err
	}

	return meta, &sim.Result{
		History:     h,
		SteadyState: meta.SteadyState,
		Cost:        meta.Cost,
		Metrics:     meta.Metrics,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("controller: %s\n\n", meta.Controller)

	reporters := []sim.Reporter{report.NewTerminal(os.Stdout)}
	if svgDir != "" {
		reporters = append(reporters, report.NewSVG(svgDir, meta.ID))
	}
	return sim.Report(result, reporters...)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result.History)
}

func printMetrics(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	prom := report.NewPrometheus(os.Stdout, map[string]string{"controller": meta.Controller, "run": meta.ID})
	return sim.Report(result, prom)
}

func compareControllers(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing controllers (steps=%d, target=%.2f)\n\n", base.Steps, base.ControllerParams.Target)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTROLLER\tFINAL\tPEAK\tSTEADY\tCOST\tEFFORT")

	for _, name := range args {
		cfg := *base
		cfg.Controller = name

		runner, err := newRunner(&cfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		result, err := runner.Run(cmd.Context())
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		h := result.History
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.1fd\t%.4f\t%.4f\n",
			name,
			h.Percentages[h.Len()-1],
			result.Metrics["peak_percentage"],
			result.SteadyStateDay(),
			result.Cost,
			result.Metrics["control_effort"],
		)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := control.NewRegistry()
	if _, err := registry.Get(cfg.Controller, cfg.GetControllerParams()); err != nil {
		return err
	}
	factory := func() control.Controller {
		ctrl, _ := registry.Get(cfg.Controller, cfg.GetControllerParams())
		return ctrl
	}

	m := viz.NewModel(factory, cfg.SimConfig(), cfg.Controller, frameRate)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
