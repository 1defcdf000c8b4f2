package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/numlab/internal/analysis"
	"github.com/san-kum/numlab/internal/config"
	"github.com/san-kum/numlab/internal/experiment"
	"github.com/san-kum/numlab/internal/lab"
	"github.com/san-kum/numlab/internal/storage"
	"github.com/san-kum/numlab/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	figuresDir string
	format     string
	logLevel   string
	save       bool
	preview    bool
	noPlots    bool

	// ode and circuit flags
	step    float64
	stop    float64
	v0      float64
	period  float64
	method  string
	periods []float64

	// convolution flags
	exponent int
	backend  string

	// interpolation flags
	samples int

	cfg    *config.Config
	logger *logrus.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "numlab",
		Short:         "numerical methods lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for saved runs")
	pf.StringVar(&figuresDir, "figures", config.DefaultFigures, "directory for plot files")
	pf.StringVar(&format, "format", config.DefaultFormat, "plot file format ("+strings.Join(viz.Formats, ", ")+")")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&save, "save", false, "record the run under --data")
	pf.BoolVar(&preview, "preview", false, "draw terminal previews of every figure")
	pf.BoolVar(&noPlots, "no-plots", false, "skip writing plot files")

	floatCmd := &cobra.Command{
		Use:   "float [x] [probe...]",
		Short: "nearest representable neighbours of a float64",
		RunE:  runFloat,
	}

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "LU decomposition, solve and inverse",
		Args:  cobra.NoArgs,
		RunE:  studyRunner("matrix"),
	}

	interpCmd := &cobra.Command{
		Use:   "interp",
		Short: "Lagrange and cubic spline interpolation",
		Args:  cobra.NoArgs,
		RunE:  studyRunner("interp"),
	}
	interpCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "evaluation points")

	convolveCmd := &cobra.Command{
		Use:   "convolve",
		Short: "FFT convolution of a pulse with a Gaussian",
		Args:  cobra.NoArgs,
		RunE:  studyRunner("convolve"),
	}
	convolveCmd.Flags().IntVar(&exponent, "exponent", config.DefaultExponent, "use 2^exponent samples")
	convolveCmd.Flags().StringVar(&backend, "backend", string(analysis.BackendDSP), "fft backend (dsp, radix2)")

	odeCmd := &cobra.Command{
		Use:   "ode",
		Short: "RK4 and AB4 on an RC circuit",
		Args:  cobra.NoArgs,
		RunE:  studyRunner("ode"),
	}
	addGridFlags(odeCmd)
	odeCmd.Flags().Float64SliceVar(&periods, "periods", nil, "square-wave periods in units of RC")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "run every study",
		Args:  cobra.NoArgs,
		RunE:  runAll,
	}

	solveCmd := &cobra.Command{
		Use:   "solve [circuit]",
		Short: "integrate one circuit with one method",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	addGridFlags(solveCmd)
	addCircuitFlags(solveCmd)
	solveCmd.Flags().StringVar(&method, "method", "rk4", "integration method")

	compareCmd := &cobra.Command{
		Use:   "compare [circuit] [method1] [method2] ...",
		Short: "compare methods on the same circuit",
		Long:  "Compare integration methods on one circuit. Without method names the\nconfigured ode.methods are used. See 'numlab methods' for the choices.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompare,
	}
	addGridFlags(compareCmd)
	addCircuitFlags(compareCmd)

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list integration methods and circuits",
		Args:  cobra.NoArgs,
		RunE:  listMethods,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a saved run with previews of its figures",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [figure]",
		Short: "export one figure of a saved run as CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(floatCmd, matrixCmd, interpCmd, convolveCmd, odeCmd, allCmd,
		solveCmd, compareCmd, methodsCmd, presetsCmd, listCmd, showCmd, exportCmd, exportCSVCmd)

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.WithError(err).Error("command failed")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stopSignals()
		os.Exit(1)
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "time step in units of RC")
	cmd.Flags().Float64Var(&stop, "stop", config.DefaultStop, "end time in units of RC")
}

func addCircuitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&v0, "v0", 1, "input amplitude")
	cmd.Flags().Float64Var(&period, "period", 1, "square-wave period in units of RC")
}

func setupLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// setup builds the config from defaults, preset, config file and flags, in
// that order of precedence, and the logger from the result.
func setup(cmd *cobra.Command) error {
	cfg = config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := cfg.Overlay(configFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.Output.DataDir == "" {
		cfg.Output.DataDir = dataDir
	}
	if flags.Changed("figures") || cfg.Output.Figures == "" {
		cfg.Output.Figures = figuresDir
	}
	if flags.Changed("format") || cfg.Output.Format == "" {
		cfg.Output.Format = format
	}
	if flags.Changed("log-level") || cfg.Output.LogLevel == "" {
		cfg.Output.LogLevel = logLevel
	}
	if flags.Changed("save") {
		cfg.Output.Save = save
	}
	if flags.Changed("preview") {
		cfg.Output.Preview = preview
	}
	if flags.Changed("no-plots") {
		cfg.Output.Plots = !noPlots
	}

	if flags.Changed("samples") {
		cfg.Interp.Samples = samples
	}
	if flags.Changed("exponent") {
		cfg.Convolution.Exponent = exponent
	}
	if flags.Changed("backend") {
		cfg.Convolution.Backend = backend
	}
	if flags.Changed("step") {
		cfg.ODE.Step = step
	}
	if flags.Changed("stop") {
		cfg.ODE.Stop = stop
	}
	if flags.Changed("periods") {
		cfg.ODE.Periods = periods
	}
	if flags.Changed("v0") {
		cfg.ODE.V0 = v0
	}

	logger = setupLogger(cfg.Output.LogLevel)
	return cfg.Validate()
}

func studyRunner(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		l := lab.New(cfg, logger)
		report, err := l.Run(cmd.Context(), name)
		if err != nil {
			return err
		}
		return finish(l, report)
	}
}

func runFloat(cmd *cobra.Command, args []string) error {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", a, err)
		}
		values[i] = v
	}
	if len(values) > 0 {
		cfg.Float.Value = values[0]
		if len(values) > 1 {
			cfg.Float.Probes = values[1:]
		}
	}
	return studyRunner("float")(cmd, args)
}

func runAll(cmd *cobra.Command, args []string) error {
	l := lab.New(cfg, logger)
	reports, err := l.RunAll(cmd.Context())
	for _, r := range reports {
		if ferr := finish(l, r); ferr != nil {
			return ferr
		}
	}
	return err
}

func runSolve(cmd *cobra.Command, args []string) error {
	l := lab.New(cfg, logger)
	report, err := l.Solve(cmd.Context(), args[0], circuitParams(), method)
	if err != nil {
		return err
	}
	return finish(l, report)
}

func runCompare(cmd *cobra.Command, args []string) error {
	l := lab.New(cfg, logger)
	report, err := l.Compare(cmd.Context(), args[0], circuitParams(), args[1:])
	if err != nil {
		return err
	}
	return finish(l, report)
}

func circuitParams() experiment.Params {
	return experiment.Params{"v0": cfg.ODE.V0, "period": period}
}

// finish prints the report, then writes plots and the run record as
// configured.
func finish(l *lab.Lab, report *lab.Report) error {
	out := cfg.Output
	opts := lab.RenderOptions{Preview: out.Preview, Width: out.PreviewWidth, Height: out.PreviewHeight}
	if err := lab.Render(os.Stdout, report, opts); err != nil {
		return err
	}

	if out.Plots && len(report.Figures) > 0 {
		paths, err := l.Publish(report)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(viz.Subtle.Render("wrote " + p))
		}
	}

	if out.Save {
		st := storage.New(out.DataDir).WithLogger(logger)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(report.Study, preset, report.Summary, report.Figures)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func listMethods(cmd *cobra.Command, args []string) error {
	reg := lab.New(cfg, logger).Registry()

	fmt.Println(viz.HeaderStyle.Render("Methods"))
	for _, m := range reg.ListMethods() {
		marker := " "
		if slices.Contains(cfg.ODE.Methods, m) {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, m)
	}
	fmt.Println(viz.Subtle.Render("  * compared by default"))
	fmt.Println()

	fmt.Println(viz.HeaderStyle.Render("Circuits"))
	for _, c := range reg.ListCircuits() {
		fmt.Printf("    %s\n", c)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Output.DataDir).WithLogger(logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTUDY\tPRESET\tTIME\tFIGURES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Study,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Figures),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.Output.DataDir).WithLogger(logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.TitleStyle.Render(meta.ID))
	fmt.Println(viz.Metric("study", meta.Study))
	fmt.Println(viz.Metric("time", meta.Timestamp.Format("2006-01-02 15:04:05")))
	if meta.Preset != "" {
		fmt.Println(viz.Metric("preset", meta.Preset))
	}
	fmt.Println()

	report := lab.Report{Summary: meta.Summary}
	for _, k := range report.SummaryKeys() {
		fmt.Println(viz.Metric(k, fmt.Sprintf("%.10g", meta.Summary[k])))
	}
	fmt.Println()

	for _, fm := range meta.Figures {
		fig, err := st.LoadFigure(runID, fm.Name)
		if err != nil {
			return err
		}
		chart := viz.Preview(fig, cfg.Output.PreviewWidth, cfg.Output.PreviewHeight)
		if chart == "" {
			continue
		}
		fmt.Println(viz.HeaderStyle.Render(fm.Title))
		fmt.Println(chart)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Output.DataDir).WithLogger(logger)
	return st.ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID, name := args[0], args[1]

	st := storage.New(cfg.Output.DataDir).WithLogger(logger)
	fig, err := st.LoadFigure(runID, name)
	if err != nil {
		return err
	}

	// Wide layout: one x column per series, since series grids differ.
	w := csv.NewWriter(os.Stdout)

	header := make([]string, 0, 2*len(fig.Series))
	rows := 0
	for _, s := range fig.Series {
		header = append(header, s.Name+"_x", s.Name+"_y")
		rows = max(rows, len(s.X))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		row := make([]string, 0, len(header))
		for _, s := range fig.Series {
			if i < len(s.X) {
				row = append(row, strconv.FormatFloat(s.X[i], 'g', -1, 64), strconv.FormatFloat(s.Y[i], 'g', -1, 64))
			} else {
				row = append(row, "", "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
