package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/markphelps/optional"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rrsim/sim/report"
	"github.com/inference-sim/rrsim/sim/trace"
	"github.com/inference-sim/rrsim/sim/workload"
)

var (
	// CLI flags shared by all subcommands
	logLevel          string  // Log verbosity level
	defaultsFilePath  string  // Path to defaults YAML (empty = built-in defaults)
	contextSwitchCost float64 // Overhead charged per context switch, in ticks

	// CLI flags for run and sweep
	outputFormat string  // "table" or "json"
	traceEnabled bool    // Print the dispatch timeline
	remoteURL    string  // Base URL of a running `rrsim serve`
	sweepQuanta  []int64 // Quanta simulated by sweep

	// CLI flags for serve
	servePort int
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rrsim",
	Short: "Discrete-event simulator for Round Robin CPU scheduling",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run <process_file> <time_quantum>",
	Short: "Run the Round Robin simulation for one time quantum",
	Args:  validateRunArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig(cmd)
		quantum, _ := parseQuantum(args[1])

		records, err := workload.LoadProcessesCSV(args[0])
		if err != nil {
			logrus.Fatalf("Failed to load processes: %v", err)
		}
		withTrace := traceEnabled || cfg.TraceLevel == string(trace.TraceLevelDispatches)

		logrus.Infof("Starting simulation of %d processes, quantum=%d, context switch time=%v",
			len(records), quantum, cfg.ContextSwitchTime)
		startTime := time.Now()

		var (
			summary *report.Summary
			st      *trace.SimulationTrace
		)
		if remoteURL != "" {
			req := &SimulationRequest{
				Quantum:           quantum,
				ContextSwitchTime: optional.NewFloat64(cfg.ContextSwitchTime),
				Trace:             withTrace,
				Processes:         records,
			}
			summary, err = NewRemoteClient(remoteURL).Simulate(context.Background(), req)
			if err == nil && withTrace {
				st = &trace.SimulationTrace{Dispatches: summary.Dispatches}
			}
		} else {
			summary, st, err = Simulate(records, quantum, cfg.ContextSwitchTime, withTrace)
		}
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		if err := writeResults(cmd.OutOrStdout(), outputFormat, summary, st); err != nil {
			logrus.Fatalf("Failed to write results: %v", err)
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// sweepCmd runs the same workload once per quantum and compares the results
var sweepCmd = &cobra.Command{
	Use:   "sweep <process_file>",
	Short: "Simulate a workload over several time quanta",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig(cmd)
		quanta := cfg.Quanta
		if cmd.Flags().Changed("quanta") {
			quanta = sweepQuanta
		}

		records, err := workload.LoadProcessesCSV(args[0])
		if err != nil {
			logrus.Fatalf("Failed to load processes: %v", err)
		}
		var summaries []*report.Summary
		if remoteURL != "" {
			req := &SweepRequest{
				Quanta:            quanta,
				ContextSwitchTime: optional.NewFloat64(cfg.ContextSwitchTime),
				Processes:         records,
			}
			summaries, err = NewRemoteClient(remoteURL).Sweep(context.Background(), req)
		} else {
			summaries, err = SweepQuanta(records, quanta, cfg.ContextSwitchTime)
		}
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		out := cmd.OutOrStdout()
		if outputFormat == "json" {
			if err := report.WriteJSON(out, summaries); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
			return
		}
		for _, s := range summaries {
			report.PrintSummary(out, s)
		}
		report.PrintSweep(out, summaries)
	},
}

// validateRunArgs requires a process file and a positive integer quantum.
func validateRunArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return err
	}
	if _, err := parseQuantum(args[1]); err != nil {
		return err
	}
	return nil
}

// parseQuantum parses a positive integer time quantum.
func parseQuantum(s string) (int64, error) {
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("time quantum %q is not an integer", s)
	}
	if q <= 0 {
		return 0, fmt.Errorf("time quantum must be positive, got %d", q)
	}
	return q, nil
}

// resolveConfig loads the defaults file and applies explicitly set flags on top.
func resolveConfig(cmd *cobra.Command) Config {
	cfg, err := LoadConfig(defaultsFilePath)
	if err != nil {
		logrus.Fatalf("Failed to load defaults: %v", err)
	}
	if cmd.Flags().Changed("context-switch-time") {
		if err := validateContextSwitchTime(contextSwitchCost); err != nil {
			logrus.Fatalf("%v", err)
		}
		cfg.ContextSwitchTime = contextSwitchCost
	}
	if !cmd.Flags().Changed("log") && defaultsFilePath != "" {
		// the defaults file only decides the level when --log is not given
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level in defaults file: %s", cfg.LogLevel)
		}
		logrus.SetLevel(level)
	}
	return cfg
}

// writeResults prints a summary as tables (plus the timeline when st is set) or JSON.
func writeResults(w io.Writer, format string, summary *report.Summary, st *trace.SimulationTrace) error {
	switch format {
	case "json":
		return report.WriteJSON(w, summary)
	case "table", "":
		report.PrintSummary(w, summary)
		if st != nil {
			report.PrintTimeline(w, st)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q; valid: table, json", format)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults-config", "", "Path to defaults YAML (built-in defaults when empty)")
	rootCmd.PersistentFlags().Float64Var(&contextSwitchCost, "context-switch-time", 0.1, "Overhead charged per context switch, in ticks")

	runCmd.Flags().StringVar(&outputFormat, "output", "table", "Output format (table, json)")
	runCmd.Flags().BoolVar(&traceEnabled, "trace", false, "Print the dispatch timeline")
	runCmd.Flags().StringVar(&remoteURL, "remote", "", "Base URL of an rrsim server to simulate on (e.g. http://localhost:9095)")

	sweepCmd.Flags().Int64SliceVar(&sweepQuanta, "quanta", []int64{1, 2, 3, 4, 5}, "Comma-separated list of time quanta")
	sweepCmd.Flags().StringVar(&outputFormat, "output", "table", "Output format (table, json)")
	sweepCmd.Flags().StringVar(&remoteURL, "remote", "", "Base URL of an rrsim server to sweep on (e.g. http://localhost:9095)")

	serveCmd.Flags().IntVar(&servePort, "port", 9095, "Port to listen on")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(serveCmd)
}
