package agedpool

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOptionsMissingFile(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got error: %v", err)
	}
	if opts.AgingInterval != DefaultAgingInterval {
		t.Fatalf("aging interval = %v; want default %v", opts.AgingInterval, DefaultAgingInterval)
	}
	if opts.AgingIncrement != DefaultAgingIncrement {
		t.Fatalf("aging increment = %d; want default %d", opts.AgingIncrement, DefaultAgingIncrement)
	}
	if opts.Workers < 1 {
		t.Fatalf("workers = %d; want >= 1", opts.Workers)
	}
	if opts.Metrics == nil {
		t.Fatal("metrics not defaulted")
	}
}

func TestLoadOptionsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	data := []byte(`
workers: 3
aging_interval: 500ms
aging_increment: 7
tick_interval: 50ms
max_priority: 80
retry:
  attempts: 4
  initial: 10ms
  max: 1s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Workers != 3 {
		t.Fatalf("workers = %d; want 3", opts.Workers)
	}
	if opts.AgingInterval != 500*time.Millisecond {
		t.Fatalf("aging_interval = %v; want 500ms", opts.AgingInterval)
	}
	if opts.AgingIncrement != 7 {
		t.Fatalf("aging_increment = %d; want 7", opts.AgingIncrement)
	}
	if opts.TickInterval != 50*time.Millisecond {
		t.Fatalf("tick_interval = %v; want 50ms", opts.TickInterval)
	}
	if opts.MaxPriority != 80 {
		t.Fatalf("max_priority = %d; want 80", opts.MaxPriority)
	}
	if opts.Retry.Attempts != 4 || opts.Retry.Initial != 10*time.Millisecond || opts.Retry.Max != time.Second {
		t.Fatalf("retry = %+v; want {4 10ms 1s}", opts.Retry)
	}
}

func TestLoadOptionsEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\naging_increment: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AGEDPOOL_WORKERS", "8")
	t.Setenv("AGEDPOOL_AGING_INTERVAL", "250ms")
	t.Setenv("AGEDPOOL_AGING_INCREMENT", "9")

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Workers != 8 {
		t.Fatalf("workers = %d; want env override 8", opts.Workers)
	}
	if opts.AgingInterval != 250*time.Millisecond {
		t.Fatalf("aging_interval = %v; want env override 250ms", opts.AgingInterval)
	}
	if opts.AgingIncrement != 9 {
		t.Fatalf("aging_increment = %d; want env override 9", opts.AgingIncrement)
	}
}

func TestLoadOptionsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	if err := os.WriteFile(path, []byte("aging_interval: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Fatal("want error for unparseable duration")
	}
}

func TestOptionsValidate(t *testing.T) {
	bad := []Options{
		{Workers: -1},
		{AgingIncrement: -5},
		{MaxPriority: -1},
		{Retry: RetryPolicy{Attempts: -2}},
	}
	for i, o := range bad {
		if err := o.Validate(); err == nil {
			t.Fatalf("case %d: Validate accepted invalid options %+v", i, o)
		}
	}

	good := Options{Workers: 4, AgingInterval: time.Second, AgingIncrement: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate rejected valid options: %v", err)
	}
}

func TestFillDefaultsTickInterval(t *testing.T) {
	o := Options{AgingInterval: time.Second}
	o.FillDefaults()
	if o.TickInterval != 500*time.Millisecond {
		t.Fatalf("tick interval = %v; want half the aging interval", o.TickInterval)
	}

	o = Options{AgingInterval: 10 * time.Millisecond}
	o.FillDefaults()
	if o.TickInterval != minTickInterval {
		t.Fatalf("tick interval = %v; want floor %v", o.TickInterval, minTickInterval)
	}
}
