package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/incsim/config"
	"github.com/sarchlab/incsim/datarecording"
	"github.com/sarchlab/incsim/firmware"
	"github.com/sarchlab/incsim/logging"
	"github.com/sarchlab/incsim/monitoring"
	"github.com/sarchlab/incsim/sim"
	"github.com/sarchlab/incsim/tracing"
)

// ErrTraceExists is returned when the trace database is already on disk.
var ErrTraceExists = errors.New("trace database already exists")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the firmware loop.",
		Long: `Run the firmware loop until the iteration budget is used up or ` +
			`the process receives SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}

			err = logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON)
			if err != nil {
				return err
			}

			if cfg.Monitor.Enabled {
				sim.UseParallelIDGenerator()
			}

			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = runSimulation(ctx, cfg, logging.Logger("cli"))

			return err
		},
	}

	f := cmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.StringSlice("env-file", []string{".env"}, "dotenv files to load")
	f.Float64("freq", 0, "core frequency in Hz")
	f.Uint64("iterations", 0, "number of iterations, 0 runs until interrupted")
	f.String("trace-db", "", "record the registers into <trace-db>.sqlite3")
	f.Uint64("trace-sample", 0, "record every Nth iteration")
	f.Bool("monitor", false, "serve the monitoring API")
	f.Int("monitor-port", 0, "port of the monitoring API, 0 picks one")
	f.Bool("open-browser", false, "open the monitoring API in a browser")
	f.String("log-level", "", "log level (trace, debug, info, warn, error)")
	f.Bool("log-json", false, "log in JSON")

	return cmd
}

// loadRunConfig layers the defaults, the config file, the environment and
// the flags, in that order.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()
	cfg := config.Default()

	path, _ := f.GetString("config")
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	envFiles, _ := f.GetStringSlice("env-file")
	if err := cfg.LoadEnv(envFiles...); err != nil {
		return cfg, err
	}

	if f.Changed("freq") {
		cfg.FreqHz, _ = f.GetFloat64("freq")
	}

	if f.Changed("iterations") {
		cfg.Iterations, _ = f.GetUint64("iterations")
	}

	if f.Changed("trace-db") {
		cfg.Trace.DB, _ = f.GetString("trace-db")
	}

	if f.Changed("trace-sample") {
		cfg.Trace.SampleInterval, _ = f.GetUint64("trace-sample")
	}

	if f.Changed("monitor") {
		cfg.Monitor.Enabled, _ = f.GetBool("monitor")
	}

	if f.Changed("monitor-port") {
		cfg.Monitor.Enabled = true
		cfg.Monitor.Port, _ = f.GetInt("monitor-port")
	}

	if f.Changed("open-browser") {
		cfg.Monitor.OpenBrowser, _ = f.GetBool("open-browser")
	}

	if f.Changed("log-level") {
		cfg.Log.Level, _ = f.GetString("log-level")
	}

	if f.Changed("log-json") {
		cfg.Log.JSON, _ = f.GetBool("log-json")
	}

	return cfg, cfg.Validate()
}

// runResult summarises a finished run.
type runResult struct {
	Registers        firmware.Registers
	Retired          uint64
	Time             sim.VTimeInSec
	TraceFile        string
	Samples          uint64
	CounterWraps     uint64
	ByteCounterWraps uint64
}

func runSimulation(
	ctx context.Context,
	cfg config.Config,
	logger *logrus.Entry,
) (runResult, error) {
	result := runResult{}

	engine := sim.NewSerialEngine()
	simulation := sim.NewSimulation()
	simulation.RegisterEngine(engine)

	if logger.Logger.IsLevelEnabled(logrus.TraceLevel) {
		engine.AcceptHook(sim.NewEventLogger(logging.Logger("engine")))
	}

	core := firmware.MakeBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(cfg.FreqHz)).
		WithIterationBudget(cfg.Iterations).
		Build("Core")
	simulation.RegisterComponent(core)

	wraps := tracing.NewWrapCountTracer()
	core.AcceptHook(wraps)

	var tracer *tracing.RegisterTracer

	if cfg.Trace.DB != "" {
		var (
			recorder datarecording.DataRecorder
			err      error
		)

		tracer, recorder, result.TraceFile, err = attachTracer(
			core, engine, cfg.Trace)
		if err != nil {
			return result, err
		}
		defer recorder.Close()
	}

	if cfg.Monitor.Enabled {
		stopMonitor, err := attachMonitor(simulation, core, cfg)
		if err != nil {
			return result, err
		}
		defer stopMonitor()
	}

	logger.WithFields(logrus.Fields{
		"freq_hz":    cfg.FreqHz,
		"iterations": cfg.Iterations,
		"step":       core.Step(),
	}).Info("simulation started")

	err := runEngine(ctx, engine, core)
	if err != nil {
		return result, err
	}

	if ctx.Err() != nil {
		logger.Info("interrupted, core halted")
	}

	engine.Finished()

	result.Registers = core.Registers()
	result.Retired = core.Retired()
	result.Time = engine.CurrentTime()
	result.CounterWraps = wraps.CounterWraps()
	result.ByteCounterWraps = wraps.ByteCounterWraps()

	if tracer != nil {
		result.Samples = tracer.Samples()
	}

	logger.WithFields(logrus.Fields{
		"retired":            result.Retired,
		"time":               float64(result.Time),
		"accumulator":        result.Registers.Accumulator,
		"counter":            result.Registers.Counter,
		"byte_counter":       result.Registers.ByteCounter,
		"counter_wraps":      result.CounterWraps,
		"byte_counter_wraps": result.ByteCounterWraps,
	}).Info("simulation finished")

	return result, nil
}

const releaseInterval = 10 * time.Millisecond

// runEngine runs the engine until the core stops. Cancelling ctx halts the
// core and releases a paused engine so that Run can return.
func runEngine(
	ctx context.Context,
	engine *sim.SerialEngine,
	core *firmware.Core,
) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)

		core.Start()

		return engine.Run()
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-done:
			return nil
		}

		core.Halt()

		// The monitor may pause the engine after the halt. Release it until
		// Run returns.
		ticker := time.NewTicker(releaseInterval)
		defer ticker.Stop()

		for {
			engine.Continue()

			select {
			case <-done:
				return nil
			case <-ticker.C:
			}
		}
	})

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	return nil
}

func attachTracer(
	core *firmware.Core,
	engine sim.Engine,
	cfg config.TraceConfig,
) (
	*tracing.RegisterTracer,
	datarecording.DataRecorder,
	string,
	error,
) {
	fileName := datarecording.NewSQLiteWriter(cfg.DB).FileName()
	if _, err := os.Stat(fileName); err == nil {
		return nil, nil, "", fmt.Errorf("%w: %s", ErrTraceExists, fileName)
	}

	recorder := datarecording.New(cfg.DB)
	tracer := tracing.NewRegisterTracer(
		recorder, cfg.SampleInterval, logging.Logger("tracing"))

	core.AcceptHook(tracer)
	engine.RegisterSimulationEndHandler(tracer)

	return tracer, recorder, fileName, nil
}

func attachMonitor(
	simulation *sim.Simulation,
	core *firmware.Core,
	cfg config.Config,
) (func(), error) {
	logger := logging.Logger("monitor")

	monitor := monitoring.NewMonitor().
		WithLogger(logger).
		WithPortNumber(cfg.Monitor.Port)
	monitor.RegisterEngine(simulation.GetEngine())

	for _, c := range simulation.Components() {
		monitor.RegisterComponent(c)
	}

	bar := monitor.CreateProgressBar(core.Name(), cfg.Iterations)
	core.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		if ctx.Pos == firmware.HookPosIteration {
			bar.IncrementFinished(1)
		}
	}))

	port, err := monitor.StartServer()
	if err != nil {
		return nil, err
	}

	if cfg.Monitor.OpenBrowser {
		if err := monitoring.OpenInBrowser(port); err != nil {
			logger.WithError(err).Warn("cannot open browser")
		}
	}

	return func() {
		monitor.CompleteProgressBar(bar)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := monitor.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("monitor shutdown failed")
		}
	}, nil
}
