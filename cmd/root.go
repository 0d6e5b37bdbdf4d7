package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/genetic-quantum/genetic-quantum/internal/idgen"
	"github.com/genetic-quantum/genetic-quantum/nsga2"
	"github.com/genetic-quantum/genetic-quantum/sim"
	"github.com/genetic-quantum/genetic-quantum/sim/evalcache"
	"github.com/genetic-quantum/genetic-quantum/sim/scenario"
	"github.com/genetic-quantum/genetic-quantum/sim/trace"
	"github.com/genetic-quantum/genetic-quantum/tracing"
)

const (
	serviceName    = "genetic-quantum"
	serviceVersion = "0.1.0"
)

var (
	configPath string    // YAML config file
	logLevel   string    // Log verbosity level
	flagValues RunConfig // values of explicitly set flags

	// simulate-only flags
	quantum    float64
	traceLevel string
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "genetic-quantum",
	Short: "NSGA-II search for a round-robin quantum over a discrete-event CPU scheduling simulator",
}

// resolveConfig layers file, environment and explicit flags, then validates.
func resolveConfig(cmd *cobra.Command) RunConfig {
	cfg, err := loadRunConfig(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlagOverrides(cmd, &flagValues, &cfg)
	if cmd.Flags().Changed("log") || cfg.Log == "" {
		cfg.Log = logLevel
	}
	level, err := logrus.ParseLevel(cfg.Log)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", cfg.Log)
	}
	logrus.SetLevel(level)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// newEvaluator loads the scenario and builds the fitness function with the
// configured cache. The returned closer releases the cache connection.
func newEvaluator(ctx context.Context, cfg RunConfig) (*sim.Evaluator, *scenario.Scenario, func(), error) {
	sc, err := scenario.Load(ctx, cfg.ScenarioPath)
	if err != nil {
		return nil, nil, nil, err
	}
	closer := func() {}
	var opts []sim.EvaluatorOption
	switch cfg.Cache {
	case "memory":
		opts = append(opts, sim.WithCache(evalcache.NewMemory()))
	case "redis":
		rc, err := evalcache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		closer = func() {
			if err := rc.Close(); err != nil {
				logrus.Warnf("closing redis cache: %v", err)
			}
		}
		opts = append(opts, sim.WithCache(rc))
	}
	ev, err := sim.NewEvaluator(sc, cfg.Policy, sim.NewSimulationKey(cfg.Seed), opts...)
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	return ev, sc, closer, nil
}

// runOptimize executes one NSGA-II search and returns its result document.
func runOptimize(ctx context.Context, cfg RunConfig) (*ResultDocument, error) {
	runID := idgen.New()
	ev, sc, closeCache, err := newEvaluator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	logrus.Infof("Run %s: scenario %q (%s, %d CPUs, %d devices), policy %s, seed %d",
		runID, sc.Name, sc.Model, sc.NumCPUs, sc.NumDevices, ev.Policy(), cfg.Seed)

	var opts []nsga2.Option
	if ref, ok := sc.WorstMetrics(); ok {
		opts = append(opts, nsga2.WithReferencePoint(ref))
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)).ForSubsystem(sim.SubsystemGenetic)
	engine, err := nsga2.NewEngine(cfg.Optimizer(), ev, rng, opts...)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "optimize")
	span.SetString("run_id", runID).SetString("scenario", sc.Name)
	res, err := engine.Run(ctx)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return newResultDocument(runID, sc.Name, cfg, res), nil
}

// printFront writes the Pareto front as a table.
func printFront(w io.Writer, doc *ResultDocument) {
	fmt.Fprintf(w, "=== Pareto Front (run %s, %d evaluations) ===\n", doc.RunID, doc.Evaluations)
	fmt.Fprintf(w, "%10s  %14s  %14s  %16s\n", "quantum", "avg_turnaround", "avg_waiting", "context_switches")
	for _, e := range doc.Front {
		fmt.Fprintf(w, "%10.4f  %14.4f  %14.4f  %16d\n",
			e.Quantum, e.Objectives.Turnaround, e.Objectives.Waiting, e.Objectives.ContextSwitches)
	}
}

// optimizeCmd searches for Pareto-optimal quanta
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for Pareto-optimal round-robin quanta with NSGA-II",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig(cmd)
		ctx := context.Background()

		if cfg.TraceOut != "" {
			if err := tracing.Init(serviceName, serviceVersion, cfg.TraceOut); err != nil {
				logrus.Fatalf("Failed to initialise tracing: %v", err)
			}
			defer func() {
				if err := tracing.Shutdown(ctx); err != nil {
					logrus.Warnf("tracing shutdown: %v", err)
				}
			}()
		}

		doc, err := runOptimize(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Optimization failed: %v", err)
		}
		printFront(os.Stdout, doc)
		if cfg.Output != "" {
			if err := writeResult(ctx, afs.New(), cfg.Output, doc); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Result written to %s", cfg.Output)
		}
		logrus.Info("Optimization complete.")
	},
}

// runSimulate evaluates a single quantum and reports its metrics.
func runSimulate(ctx context.Context, cfg RunConfig, q float64, level trace.TraceLevel, w io.Writer) (*sim.RunResult, error) {
	cfg.Cache = "none"
	ev, sc, closeCache, err := newEvaluator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	res, err := ev.Run(ctx, q, level)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Scenario %q, policy %s, quantum %.4f\n", sc.Name, ev.Policy(), q)
	if res.Trace != nil {
		s := trace.Summarize(res.Trace)
		fmt.Fprintf(w, "Dispatch order       : %s\n", formatOrder(res.Trace.DispatchOrder()))
		fmt.Fprintf(w, "Final slices         : %d of %d\n", s.FinalSlices, s.TotalDispatches)
		fmt.Fprintf(w, "Mean slice           : %.3f (max %.3f)\n", s.MeanSlice, s.MaxSlice)
	}
	return res, nil
}

func formatOrder(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = fmt.Sprintf("P%d", pid)
	}
	return strings.Join(parts, " ")
}

// simulateCmd runs one simulation for a fixed quantum
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Evaluate one quantum and print the simulation metrics",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig(cmd)
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q", traceLevel)
		}
		res, err := runSimulate(context.Background(), cfg, quantum, trace.TraceLevel(traceLevel), os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		res.Metrics.Print()
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	bindRunFlags(optimizeCmd, &flagValues)

	simulateCmd.Flags().StringVar(&flagValues.ScenarioPath, "scenario", "", "Scenario file path or URL")
	simulateCmd.Flags().StringVar(&flagValues.Policy, "policy", "rr", "Dispatch policy (rr, fcfs, priority, sjf, srt)")
	simulateCmd.Flags().Int64Var(&flagValues.Seed, "seed", 42, "Seed for workload generation")
	simulateCmd.Flags().Float64Var(&quantum, "quantum", 4, "Round-robin quantum")
	simulateCmd.Flags().StringVar(&traceLevel, "trace-level", "dispatch", "Decision trace verbosity (none, dispatch)")

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(simulateCmd)
}
