package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/drift/internal/drain"
	"github.com/bimmerbailey/drift/internal/output"
)

var mineCmd = &cobra.Command{
	Use:   "mine [flags] <file>",
	Short: "Mine templates from a log file",
	Long: `Read a log file line by line, cluster structurally identical lines,
and print the discovered templates with their match counts.

With --snapshot, existing state is loaded first and the updated state
is written back afterwards, so repeated runs keep refining the same
cluster set.

Examples:
  drift mine /var/log/app.log
  drift mine --format table /var/log/app.log
  drift mine --snapshot state.json /var/log/app.log`,
	Args: cobra.ExactArgs(1),
	RunE: runMine,
}

func init() {
	mineCmd.Flags().String("snapshot", "", "snapshot file to load from and save to")

	rootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	snapshotPath, _ := cmd.Flags().GetString("snapshot")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engineCfg, err := engineConfig(cfg)
	if err != nil {
		return err
	}
	engine, err := drain.New(engineCfg)
	if err != nil {
		return err
	}

	if snapshotPath != "" {
		cfg.Snapshot.Path = snapshotPath
		cfg.Snapshot.Backend = "file"
	}
	store, err := openStore(cfg.Snapshot)
	if err != nil {
		return err
	}
	defer store.Close()

	if snapshotPath != "" {
		if err := loadSnapshotInto(engine, store); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	lines := 0
	for scanner.Scan() {
		engine.AddLogMessage(scanner.Text())
		lines++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	if snapshotPath != "" {
		if err := saveSnapshot(engine, store); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	writer := output.New(os.Stdout, output.ParseFormat(viper.GetString("format")))
	if err := writer.WriteClusters(engine.Clusters()); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Mined %d lines into %d templates\n", lines, engine.ClusterCount())
	}
	return nil
}
