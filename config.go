package agedpool

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of an options file. Durations are strings
// in time.ParseDuration form ("2s", "500ms").
type fileConfig struct {
	Workers        int    `yaml:"workers"`
	AgingInterval  string `yaml:"aging_interval"`
	AgingIncrement int    `yaml:"aging_increment"`
	TickInterval   string `yaml:"tick_interval"`
	MaxPriority    int    `yaml:"max_priority"`
	Retry          struct {
		Attempts int    `yaml:"attempts"`
		Initial  string `yaml:"initial"`
		Max      string `yaml:"max"`
	} `yaml:"retry"`
}

// LoadOptions reads a YAML options file at path and overlays it on top of
// the package defaults. If the file does not exist the default options are
// returned without error, making it easy to run with no config file at all.
//
// After loading the file, environment variables are applied as overrides:
//
//	AGEDPOOL_WORKERS          — sets workers
//	AGEDPOOL_AGING_INTERVAL   — sets aging_interval (duration string)
//	AGEDPOOL_AGING_INCREMENT  — sets aging_increment
func LoadOptions(path string) (Options, error) {
	var opts Options

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := applyEnv(&opts); err != nil {
				return Options{}, err
			}
			opts.FillDefaults()
			return opts, nil
		}
		return Options{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Options{}, fmt.Errorf("agedpool: parse %s: %w", path, err)
	}

	opts.Workers = fc.Workers
	opts.AgingIncrement = fc.AgingIncrement
	opts.MaxPriority = fc.MaxPriority
	opts.Retry.Attempts = fc.Retry.Attempts

	if opts.AgingInterval, err = parseDuration(fc.AgingInterval, "aging_interval"); err != nil {
		return Options{}, err
	}
	if opts.TickInterval, err = parseDuration(fc.TickInterval, "tick_interval"); err != nil {
		return Options{}, err
	}
	if opts.Retry.Initial, err = parseDuration(fc.Retry.Initial, "retry.initial"); err != nil {
		return Options{}, err
	}
	if opts.Retry.Max, err = parseDuration(fc.Retry.Max, "retry.max"); err != nil {
		return Options{}, err
	}

	if err := applyEnv(&opts); err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	opts.FillDefaults()
	return opts, nil
}

// applyEnv overlays environment variable overrides onto opts.
func applyEnv(opts *Options) error {
	if v := os.Getenv("AGEDPOOL_WORKERS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			opts.Workers = n
		}
	}
	if v := os.Getenv("AGEDPOOL_AGING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("agedpool: AGEDPOOL_AGING_INTERVAL: %w", err)
		}
		opts.AgingInterval = d
	}
	if v := os.Getenv("AGEDPOOL_AGING_INCREMENT"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			opts.AgingIncrement = n
		}
	}
	return nil
}

func parseDuration(s, field string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("agedpool: %s: %w", field, err)
	}
	return d, nil
}
