package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alloc-bench/alloc-bench/sim/experiment"
	"github.com/alloc-bench/alloc-bench/sim/report"
	"github.com/alloc-bench/alloc-bench/sim/strategy"
	"github.com/alloc-bench/alloc-bench/sim/topology"
)

// defaultRuns is the batch size when none is given.
const defaultRuns = 100

var (
	// CLI flags for the experiment batch
	configPath           string // Strategy configuration file; embedded default when empty
	shapeName            string // Topology shape (uniform, mixed)
	placementCode        string // Placement policy mnemonic
	hostSchedulerCode    string // Host scheduler mnemonic
	vmSchedulerCode      string // VM scheduler mnemonic
	runs                 int    // Number of runs in the batch
	showOversubscription bool   // Print the oversubscription table after each run
	outDir               string // Directory for report files
	seed                 int64  // Base seed; run N uses seed+N
	logLevel             string // Log verbosity level
	interactive          bool   // Ask for settings on stdin
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "alloc-bench",
	Short: "Compare VM placement and scheduling strategies by repeated simulation",
}

// runConfig is everything one batch needs.
type runConfig struct {
	ConfigPath           string
	Shape                topology.Shape
	Placement            string
	HostScheduler        string
	VMScheduler          string
	Runs                 int
	ShowOversubscription bool
	OutDir               string
	Seed                 int64
}

// runCmd executes a batch of runs using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch of experiments and append results to CSV reports",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := configFromFlags()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if interactive {
			cfg, level, err = promptConfig(os.Stdin, cmd.OutOrStdout(), cfg, level)
			if err != nil {
				logrus.Fatalf("reading answers: %v", err)
			}
			logrus.SetLevel(level)
		}

		logrus.Infof("Starting %d runs of the %s shape", cfg.Runs, cfg.Shape.Name)
		if _, err := runExperiments(cfg, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Experiments complete.")
	},
}

// configFromFlags validates the flag values.
func configFromFlags() (runConfig, error) {
	shape, err := topology.ParseShape(shapeName)
	if err != nil {
		return runConfig{}, err
	}
	if runs <= 0 {
		return runConfig{}, fmt.Errorf("--runs must be positive, got %d", runs)
	}
	return runConfig{
		ConfigPath:           configPath,
		Shape:                shape,
		Placement:            placementCode,
		HostScheduler:        hostSchedulerCode,
		VMScheduler:          vmSchedulerCode,
		Runs:                 runs,
		ShowOversubscription: showOversubscription,
		OutDir:               outDir,
		Seed:                 seed,
	}, nil
}

// loadStore reads the strategy configuration, falling back to the embedded default.
func loadStore(path string) (*strategy.Store, error) {
	if path == "" {
		return strategy.Parse(strategy.DefaultConfig)
	}
	store, err := strategy.Load(path)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded strategy configuration from %s", path)
	return store, nil
}

// overrides maps the given mnemonics to config entries. Empty codes keep the
// configured identifier.
func (c runConfig) overrides() (map[string]string, error) {
	out := map[string]string{}
	codes := map[strategy.Family]string{
		strategy.FamilyPlacement:     c.Placement,
		strategy.FamilyHostScheduler: c.HostScheduler,
		strategy.FamilyVMScheduler:   c.VMScheduler,
	}
	for _, f := range strategy.Families {
		if codes[f] == "" {
			continue
		}
		id, err := strategy.ResolveMnemonic(f, codes[f])
		if err != nil {
			return nil, err
		}
		out[f.ConfigKey()] = id
	}
	return out, nil
}

// runExperiments applies cfg to the strategy configuration and executes the
// batch. It returns the number of completed runs.
func runExperiments(cfg runConfig, display io.Writer) (int, error) {
	if cfg.Runs <= 0 {
		return 0, fmt.Errorf("run count must be positive, got %d", cfg.Runs)
	}
	overrides, err := cfg.overrides()
	if err != nil {
		return 0, err
	}
	store, err := loadStore(cfg.ConfigPath)
	if err != nil {
		return 0, err
	}
	section := cfg.Shape.Section
	store.UpdateShape(section, overrides)
	if err := store.Validate(section); err != nil {
		return 0, err
	}

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return 0, &report.WriteError{Path: cfg.OutDir, Err: err}
		}
	}
	runner := experiment.NewRunner(store, cfg.Shape, report.NewWriter(), experiment.Options{
		Seed:                 cfg.Seed,
		ShowOversubscription: cfg.ShowOversubscription,
		Display:              display,
		DetailPath:           filepath.Join(cfg.OutDir, cfg.Shape.DetailReport()),
		SummaryPath:          filepath.Join(cfg.OutDir, cfg.Shape.SummaryReport()),
	})
	return runner.RunBatch(cfg.Runs)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Strategy configuration file (YAML or JSON); built-in default when empty")
	runCmd.Flags().StringVar(&shapeName, "shape", "uniform", "Topology shape (uniform, mixed)")
	runCmd.Flags().StringVar(&placementCode, "policy", "", "VM placement policy mnemonic (S, FF, BF); configured value when empty")
	runCmd.Flags().StringVar(&hostSchedulerCode, "host-scheduler", "", "Host scheduler mnemonic (TS, SS); configured value when empty")
	runCmd.Flags().StringVar(&vmSchedulerCode, "vm-scheduler", "", "VM scheduler mnemonic (TS, SS); configured value when empty")
	runCmd.Flags().IntVar(&runs, "runs", defaultRuns, "Number of simulation runs")
	runCmd.Flags().BoolVar(&showOversubscription, "show-oversubscription", false, "Print oversubscribed workloads after each run")
	runCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for report files (current directory when empty)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Base seed for stochastic utilization")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for settings on stdin")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(strategiesCmd)
}
