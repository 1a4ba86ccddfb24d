package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/queuecost/staffsim/metrics"
	"github.com/queuecost/staffsim/sim/capacity"
	"github.com/queuecost/staffsim/sim/report"
)

var (
	// CLI flags for the sweep
	minServers  int           // Smallest staffing level in the sweep
	maxServers  int           // Largest staffing level in the sweep
	arrivalRate float64       // λ, customers per time unit
	serviceRate float64       // μ, customers per time unit per server
	costServer  float64       // Operating cost per server per time unit
	costWait    float64       // Waiting cost per customer per time unit in system
	costSLA     float64       // Penalty per percentage point below the SLA target
	slaTarget   float64       // Percentage of customers that must meet slaTime
	slaTime     float64       // Sojourn time threshold for the SLA
	replicas    int           // Replicas per staffing level
	horizon     float64       // Length of one simulated day
	seed        int64         // Master seed; wall clock when unset
	crn         bool          // Share random streams across staffing levels
	workers     int           // Concurrent replicas (0 = GOMAXPROCS)
	timeout     time.Duration // Abort the sweep after this long (0 = no limit)

	// CLI flags for I/O
	scenarioPath string // YAML scenario file
	outputFormat string // text, json or csv
	showDetails  bool   // Include per-replica rows
	logLevel     string // Log verbosity level
	metricsAddr  string // Address to expose Prometheus metrics
	waitAfterRun bool   // Keep serving metrics after the sweep
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "staffsim",
	Short: "Monte Carlo staffing optimizer for multi-server queues",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd sweeps the staffing range using parameters from flags and the scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate every staffing level in the range and pick the cheapest",
	Run: func(cmd *cobra.Command, args []string) {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		if metricsAddr != "" {
			go serveMetrics(metricsAddr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		res, err := capacity.Optimize(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		if err := report.Write(os.Stdout, format, res, report.Options{Details: showDetails}); err != nil {
			logrus.Fatalf("Writing results: %v", err)
		}

		if waitAfterRun && metricsAddr != "" {
			logrus.Infof("Sweep done; serving metrics on %s until interrupted", metricsAddr)
			waitCtx, waitStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer waitStop()
			<-waitCtx.Done()
		}
	},
}

// resolveConfig builds the sweep configuration. Precedence, lowest first:
// built-in defaults, the scenario file, flags set on the command line.
// The staffing range is clamped the way the web form did it.
func resolveConfig(flags *pflag.FlagSet) (capacity.Config, error) {
	cfg := capacity.DefaultConfig()
	cfg.MinServers, cfg.MaxServers = minServers, maxServers

	seedSet := false
	if scenarioPath != "" {
		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			return cfg, err
		}
		sc.ApplyTo(&cfg)
		seedSet = sc.Seed != nil
		logrus.Infof("Loaded scenario %s", scenarioPath)
	}

	applyChangedFlags(flags, &cfg)
	if flags.Changed("seed") {
		seedSet = true
	}
	if !seedSet {
		cfg.Seed = time.Now().UnixNano()
		logrus.Infof("No seed given; using %d", cfg.Seed)
	}

	before := cfg
	cfg.ClampRange()
	if before.MinServers != cfg.MinServers || before.MaxServers != cfg.MaxServers {
		logrus.Warnf("Staffing range [%d,%d] clamped to [%d,%d]",
			before.MinServers, before.MaxServers, cfg.MinServers, cfg.MaxServers)
	}
	return cfg, nil
}

// applyChangedFlags copies explicitly set flags onto cfg so they win over
// the scenario file.
func applyChangedFlags(flags *pflag.FlagSet, cfg *capacity.Config) {
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("min-servers", func() { cfg.MinServers = minServers })
	set("max-servers", func() { cfg.MaxServers = maxServers })
	set("lambda", func() { cfg.ArrivalRate = arrivalRate })
	set("mu", func() { cfg.ServiceRate = serviceRate })
	set("c-server", func() { cfg.Costs.OperatingCostPerServer = costServer })
	set("c-wait", func() { cfg.Costs.WaitingCostPerCustomer = costWait })
	set("c-sla", func() { cfg.Costs.SLAPenaltyCoefficient = costSLA })
	set("sla-target", func() { cfg.Costs.SLATargetPct = slaTarget })
	set("sla-time", func() { cfg.Costs.SLATimeThreshold = slaTime })
	set("replicas", func() { cfg.Replicas = replicas })
	set("horizon", func() { cfg.Horizon = horizon })
	set("seed", func() { cfg.Seed = seed })
	set("crn", func() { cfg.CommonRandomNumbers = crn })
	set("workers", func() { cfg.Workers = workers })
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	logrus.Infof("Metrics server listening on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Errorf("Metrics server error: %v", err)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerSweepFlags binds the model and cost flags shared by run and theory.
func registerSweepFlags(fs *pflag.FlagSet) {
	defaults := capacity.DefaultConfig()

	fs.IntVar(&minServers, "min-servers", 1, "Smallest staffing level to evaluate")
	fs.IntVar(&maxServers, "max-servers", 5, "Largest staffing level to evaluate")
	fs.Float64Var(&arrivalRate, "lambda", defaults.ArrivalRate, "Arrival rate λ (customers per time unit)")
	fs.Float64Var(&serviceRate, "mu", defaults.ServiceRate, "Service rate μ per server (customers per time unit)")
}

// registerRunFlags binds every flag of the run command.
func registerRunFlags(fs *pflag.FlagSet) {
	defaults := capacity.DefaultConfig()
	registerSweepFlags(fs)

	// Costs and SLA
	fs.Float64Var(&costServer, "c-server", defaults.Costs.OperatingCostPerServer, "Operating cost per server per time unit")
	fs.Float64Var(&costWait, "c-wait", defaults.Costs.WaitingCostPerCustomer, "Waiting cost per customer per time unit in system")
	fs.Float64Var(&costSLA, "c-sla", defaults.Costs.SLAPenaltyCoefficient, "Penalty per percentage point below the SLA target")
	fs.Float64Var(&slaTarget, "sla-target", defaults.Costs.SLATargetPct, "Percentage of customers that must meet --sla-time")
	fs.Float64Var(&slaTime, "sla-time", defaults.Costs.SLATimeThreshold, "Sojourn time threshold for the SLA")

	// Replication
	fs.IntVar(&replicas, "replicas", defaults.Replicas, "Replicas per staffing level")
	fs.Float64Var(&horizon, "horizon", defaults.Horizon, "Length of one simulated day (time units)")
	fs.Int64Var(&seed, "seed", 0, "Master seed (defaults to the wall clock)")
	fs.BoolVar(&crn, "crn", false, "Use common random numbers across staffing levels")
	fs.IntVar(&workers, "workers", 0, "Concurrent replicas (0 = GOMAXPROCS)")
	fs.DurationVar(&timeout, "timeout", 0, "Abort the sweep after this long (0 = no limit)")

	// I/O
	fs.StringVar(&scenarioPath, "config", "", "YAML scenario file")
	fs.StringVar(&outputFormat, "format", string(report.FormatText), "Output format: text|json|csv")
	fs.BoolVar(&showDetails, "details", false, "Include per-replica results")
	fs.StringVar(&metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	fs.BoolVar(&waitAfterRun, "wait", false, "Keep serving metrics after the sweep until interrupted")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerRunFlags(runCmd.Flags())
	registerSweepFlags(theoryCmd.Flags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(theoryCmd)
}
