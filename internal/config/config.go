// Package config provides configuration types and helpers for drift.
package config

import (
	"fmt"
)

// Config holds the application-wide configuration.
type Config struct {
	Format   string         `mapstructure:"format"`
	Verbose  bool           `mapstructure:"verbose"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Masking  MaskingConfig  `mapstructure:"masking"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// EngineConfig holds the template-mining engine parameters.
type EngineConfig struct {
	// MaxDepth bounds the parse tree depth. Must be >= 2: one level for
	// the token count, at least one for token matching.
	MaxDepth int `mapstructure:"max_depth"`

	// SimThreshold is the minimum similarity for a line to merge into an
	// existing cluster. Must be in (0, 1). The boundary is inclusive: a
	// candidate scoring exactly the threshold matches.
	SimThreshold float64 `mapstructure:"sim_threshold"`

	// MaxDifferingParams caps how many literal template positions a
	// single merge may turn into wildcards.
	MaxDifferingParams int `mapstructure:"max_differing_params"`

	// MaxChildren caps children per tree node; overflow tokens route
	// through the wildcard branch instead of creating new children.
	MaxChildren int `mapstructure:"max_children"`

	// MaxClustersPerLeaf, when > 0, evicts the least-recently-matched
	// cluster from a full leaf. 0 means unbounded.
	MaxClustersPerLeaf int `mapstructure:"max_clusters_per_leaf"`

	// Delimiters are the characters lines are tokenized on.
	Delimiters string `mapstructure:"delimiters"`
}

// MaskingConfig selects which masking rules run before tokenization.
type MaskingConfig struct {
	// Patterns names built-in rules to enable, applied in the order
	// given. Available: number, hex, ipv4, uuid, email, mac_address.
	Patterns []string `mapstructure:"patterns"`

	// Custom rules run after the built-ins, in declared order.
	Custom []MaskingRule `mapstructure:"custom"`
}

// MaskingRule is one ordered pattern/replacement pair.
type MaskingRule struct {
	Pattern string `mapstructure:"pattern"`
	Name    string `mapstructure:"name"`
}

// SnapshotConfig controls snapshot persistence.
type SnapshotConfig struct {
	// Path is the snapshot location: a plain file, or a bolt database
	// when Backend is "bolt".
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"`

	// IntervalSeconds is how often the serve loop flushes a snapshot.
	// 0 disables the timer (shutdown still flushes).
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// NATSConfig holds the messaging endpoints for the serve loop.
type NATSConfig struct {
	URL            string `mapstructure:"url"`
	SubjectIn      string `mapstructure:"subject_in"`
	SubjectOut     string `mapstructure:"subject_out"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MetricsConfig controls the prometheus endpoint of the serve loop.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Format: "text",
		Engine: EngineConfig{
			MaxDepth:           4,
			SimThreshold:       0.4,
			MaxDifferingParams: 4,
			MaxChildren:        100,
			MaxClustersPerLeaf: 0,
			Delimiters:         " \t",
		},
		Masking: MaskingConfig{
			Patterns: []string{"ipv4", "uuid", "hex", "number"},
		},
		Snapshot: SnapshotConfig{
			Path:            "drift_state.json",
			Backend:         "file",
			IntervalSeconds: 60,
		},
		NATS: NATSConfig{
			URL:            "nats://127.0.0.1:4222",
			SubjectIn:      "raw_logs",
			SubjectOut:     "log_templates",
			TimeoutSeconds: 5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// Validate checks the engine parameters. Masking patterns are validated
// separately when the rule table is compiled.
func (c EngineConfig) Validate() error {
	if c.MaxDepth < 2 {
		return fmt.Errorf("max_depth must be >= 2, got %d", c.MaxDepth)
	}
	if c.SimThreshold <= 0 || c.SimThreshold >= 1 {
		return fmt.Errorf("sim_threshold must be in (0, 1), got %g", c.SimThreshold)
	}
	if c.MaxDifferingParams < 0 {
		return fmt.Errorf("max_differing_params must be >= 0, got %d", c.MaxDifferingParams)
	}
	if c.MaxChildren < 1 {
		return fmt.Errorf("max_children must be >= 1, got %d", c.MaxChildren)
	}
	if c.MaxClustersPerLeaf < 0 {
		return fmt.Errorf("max_clusters_per_leaf must be >= 0, got %d", c.MaxClustersPerLeaf)
	}
	if c.Delimiters == "" {
		return fmt.Errorf("delimiters must not be empty")
	}
	return nil
}
