// Package engineconfig loads and validates the engine's JSON config file
// (adapted from the teacher's internal/config + pkg/schema pair) plus
// .env-style overrides for values an operator would rather not commit to
// the config file (NATS credentials, snapshot DB path in a container).
package engineconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/scriptrt/ccjs/pkg/rtlog"
)

type GCMode string

const (
	GCModeStopTheWorld GCMode = "stop-the-world"
	GCModeIncremental  GCMode = "incremental"
)

type HeapConfig struct {
	YoungCapacityBytes    int    `json:"young_capacity_bytes"`
	MaxHeapBytes          int    `json:"max_heap_bytes"`
	PromotionThreshold    int    `json:"promotion_threshold"`
	GCMode                GCMode `json:"gc_mode"`
	IncrementalStepBudget int    `json:"incremental_step_budget"`
}

type DebugServerConfig struct {
	Enabled  bool   `json:"enabled"`
	BindAddr string `json:"bind_addr"`
}

type SnapshotConfig struct {
	Enabled         bool   `json:"enabled"`
	DatabasePath    string `json:"database_path"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type EventsConfig struct {
	NATSURL string `json:"nats_url"`
}

// Config is the engine's full ambient configuration (spec.md §6's
// runtime tuning knobs plus the ambient/domain stack's own settings).
type Config struct {
	LogLevel     string            `json:"log_level"`
	Heap         HeapConfig        `json:"heap"`
	DebugServer  DebugServerConfig `json:"debug_server"`
	Snapshot     SnapshotConfig    `json:"snapshot"`
	Events       EventsConfig      `json:"events"`
}

// Default mirrors the teacher's package-level Keys default, with values
// matching spec.md §4.1's own defaults (young_capacity, promotion
// threshold 2) where the spec states one.
var Default = Config{
	LogLevel: "info",
	Heap: HeapConfig{
		YoungCapacityBytes:    1 << 20, // 1 MiB
		MaxHeapBytes:          0,       // 0 == unbounded
		PromotionThreshold:    2,
		GCMode:                GCModeStopTheWorld,
		IncrementalStepBudget: 256,
	},
	DebugServer: DebugServerConfig{
		Enabled:  false,
		BindAddr: "127.0.0.1:6062",
	},
	Snapshot: SnapshotConfig{
		Enabled:         false,
		DatabasePath:    "./var/ccjs-snapshot.db",
		IntervalSeconds: 60,
	},
}

// Load reads path, schema-validates it, decodes it over a copy of
// Default (so a config file only needs to mention the fields it
// overrides), and applies .env overrides found alongside it. A missing
// file is not an error — Default is returned as-is, matching the
// teacher's "config file is optional" behavior in internal/config.Init.
func Load(path string, envPath string) (Config, error) {
	cfg := Default

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			rtlog.Default.Warnf("engineconfig: .env load: %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("engineconfig: read %s: %w", path, err)
	}

	if err := ValidateConfig(raw); err != nil {
		return cfg, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("engineconfig: decode %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets a small set of operationally-sensitive fields be
// set from the process environment (populated by godotenv.Load above or
// by the host process directly) without editing the config file.
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("CCJS_NATS_URL"); ok {
		cfg.Events.NATSURL = v
	}
	if v, ok := os.LookupEnv("CCJS_SNAPSHOT_DB"); ok {
		cfg.Snapshot.DatabasePath = v
	}
	if v, ok := os.LookupEnv("CCJS_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}
