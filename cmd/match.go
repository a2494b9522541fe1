package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bimmerbailey/drift/internal/drain"
)

var matchCmd = &cobra.Command{
	Use:   "match [flags] <line>",
	Short: "Match a line against mined templates",
	Long: `Run pure inference: mask and tokenize the given line, route it through
the parse tree, and report which cluster it belongs to. Never creates
or modifies state.

Exits with status 1 when no template matches.

Examples:
  drift match --snapshot state.json "User 42 login from 10.0.0.1"`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("snapshot", "", "snapshot file holding the trained state")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	line := args[0]

	engine, err := engineFromSnapshotFlag(cmd)
	if err != nil {
		return err
	}

	id, ok := engine.Match(line)
	if !ok {
		fmt.Println("no match")
		os.Exit(1)
	}

	c, _ := engine.Cluster(id)
	fmt.Printf("[%d] %s\n", id, c.TemplateString())
	return nil
}

// engineFromSnapshotFlag builds an engine and restores it from the
// --snapshot flag (or the configured snapshot when the flag is unset).
func engineFromSnapshotFlag(cmd *cobra.Command) (*drain.Engine, error) {
	snapshotPath, _ := cmd.Flags().GetString("snapshot")

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	engineCfg, err := engineConfig(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := drain.New(engineCfg)
	if err != nil {
		return nil, err
	}

	if snapshotPath != "" {
		cfg.Snapshot.Path = snapshotPath
		cfg.Snapshot.Backend = "file"
	}
	store, err := openStore(cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := loadSnapshotInto(engine, store); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return engine, nil
}
