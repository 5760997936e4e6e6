// Package config holds the run configuration of incsim.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var (
	// ErrInvalidFrequency is returned when the clock frequency is not a
	// positive, finite number.
	ErrInvalidFrequency = errors.New(
		"config: frequency must be positive and finite")

	// ErrInvalidPort is returned for monitor ports that are neither 0 nor
	// above 1000.
	ErrInvalidPort = errors.New("config: monitor port must be 0 or above 1000")
)

// TraceConfig controls register tracing.
type TraceConfig struct {
	// DB is the path, without the .sqlite3 suffix, of the trace database.
	// Tracing is off when it is empty.
	DB string `yaml:"db"`

	// SampleInterval records every Nth iteration.
	SampleInterval uint64 `yaml:"sample-interval"`
}

// MonitorConfig controls the HTTP monitor.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open-browser"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Config defines all the options of a simulation run.
type Config struct {
	// FreqHz is the clock of the core. One loop iteration takes one cycle.
	FreqHz float64 `yaml:"freq-hz"`

	// Iterations bounds the run. Zero runs until the process is interrupted.
	Iterations uint64 `yaml:"iterations"`

	Trace   TraceConfig   `yaml:"trace"`
	Monitor MonitorConfig `yaml:"monitor"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		FreqHz: 1e9,
		Trace: TraceConfig{
			SampleInterval: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return c, nil
}

// LoadEnv loads the given dotenv files into the process environment and then
// applies the INCSIM_* variables to c. Missing files are skipped.
func (c *Config) LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	return c.applyEnv()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("INCSIM_FREQ_HZ"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: INCSIM_FREQ_HZ: %w", err)
		}
		c.FreqHz = f
	}

	if v, ok := os.LookupEnv("INCSIM_ITERATIONS"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: INCSIM_ITERATIONS: %w", err)
		}
		c.Iterations = n
	}

	if v, ok := os.LookupEnv("INCSIM_TRACE_DB"); ok {
		c.Trace.DB = v
	}

	if v, ok := os.LookupEnv("INCSIM_TRACE_SAMPLE"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: INCSIM_TRACE_SAMPLE: %w", err)
		}
		c.Trace.SampleInterval = n
	}

	if v, ok := os.LookupEnv("INCSIM_MONITOR_PORT"); ok {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: INCSIM_MONITOR_PORT: %w", err)
		}
		c.Monitor.Enabled = true
		c.Monitor.Port = p
	}

	if v, ok := os.LookupEnv("INCSIM_LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	return nil
}

// Validate checks the configuration and fills in normalised values.
func (c *Config) Validate() error {
	if c.FreqHz <= 0 || math.IsNaN(c.FreqHz) || math.IsInf(c.FreqHz, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidFrequency, c.FreqHz)
	}

	if c.Monitor.Port != 0 && c.Monitor.Port <= 1000 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Monitor.Port)
	}

	if c.Trace.SampleInterval == 0 {
		c.Trace.SampleInterval = 1
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	return nil
}
