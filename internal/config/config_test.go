package config

import (
	"testing"
)

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EngineConfig)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *EngineConfig) {},
			wantErr: false,
		},
		{
			name:    "depth below minimum",
			mutate:  func(c *EngineConfig) { c.MaxDepth = 1 },
			wantErr: true,
		},
		{
			name:    "threshold at zero",
			mutate:  func(c *EngineConfig) { c.SimThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "threshold at one",
			mutate:  func(c *EngineConfig) { c.SimThreshold = 1 },
			wantErr: true,
		},
		{
			name:    "negative differing params",
			mutate:  func(c *EngineConfig) { c.MaxDifferingParams = -1 },
			wantErr: true,
		},
		{
			name:    "zero max children",
			mutate:  func(c *EngineConfig) { c.MaxChildren = 0 },
			wantErr: true,
		},
		{
			name:    "empty delimiters",
			mutate:  func(c *EngineConfig) { c.Delimiters = "" },
			wantErr: true,
		},
		{
			name:    "unbounded leaf is allowed",
			mutate:  func(c *EngineConfig) { c.MaxClustersPerLeaf = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults().Engine
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Engine.Validate(); err != nil {
		t.Fatalf("Defaults().Engine failed validation: %v", err)
	}
}
