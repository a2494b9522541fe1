package cmd

import (
	"errors"
	"fmt"

	"github.com/bimmerbailey/drift/internal/config"
	"github.com/bimmerbailey/drift/internal/drain"
	"github.com/bimmerbailey/drift/internal/mask"
	"github.com/bimmerbailey/drift/internal/snapshot"
)

// engineConfig maps application configuration onto engine parameters,
// resolving built-in masking rule names.
func engineConfig(cfg config.Config) (drain.Config, error) {
	custom := make([]mask.Rule, 0, len(cfg.Masking.Custom))
	for _, r := range cfg.Masking.Custom {
		custom = append(custom, mask.Rule{Pattern: r.Pattern, Name: r.Name})
	}
	rules, err := mask.ResolveNames(cfg.Masking.Patterns, custom)
	if err != nil {
		return drain.Config{}, err
	}

	return drain.Config{
		MaxDepth:           cfg.Engine.MaxDepth,
		SimThreshold:       cfg.Engine.SimThreshold,
		MaxDifferingParams: cfg.Engine.MaxDifferingParams,
		MaxChildren:        cfg.Engine.MaxChildren,
		MaxClustersPerLeaf: cfg.Engine.MaxClustersPerLeaf,
		Delimiters:         cfg.Engine.Delimiters,
		MaskRules:          rules,
	}, nil
}

// openStore builds the configured snapshot store.
func openStore(cfg config.SnapshotConfig) (snapshot.Store, error) {
	switch cfg.Backend {
	case "", "file":
		return snapshot.NewFileStore(cfg.Path), nil
	case "bolt":
		return snapshot.NewBoltStore(cfg.Path, "engine")
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}

// loadSnapshotInto restores engine state from the store. A missing
// snapshot means starting empty; anything else is surfaced.
func loadSnapshotInto(engine *drain.Engine, store snapshot.Store) error {
	data, err := store.Load()
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return engine.LoadSnapshot(data)
}

// saveSnapshot serializes the engine into the store.
func saveSnapshot(engine *drain.Engine, store snapshot.Store) error {
	data, err := engine.Serialize()
	if err != nil {
		return err
	}
	return store.Save(data)
}
