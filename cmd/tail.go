package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bimmerbailey/drift/internal/drain"
	"github.com/bimmerbailey/drift/internal/tail"
)

var tailCmd = &cobra.Command{
	Use:   "tail [flags] <file>",
	Short: "Live-mine a log file",
	Long: `Follow a log file in real time and mine templates from each new line.
Newly discovered templates and template changes are printed as they
happen; the final cluster state is written to the snapshot on exit.

Examples:
  drift tail /var/log/app.log
  drift tail --from-start /var/log/app.log
  drift tail --follow-rotate --snapshot state.json /var/log/app.log`,
	Args: cobra.ExactArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().Bool("from-start", false, "mine the existing file content before following")
	tailCmd.Flags().Bool("follow-rotate", false, "follow through log rotations")
	tailCmd.Flags().String("snapshot", "", "snapshot file to load from and save to on exit")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	fromStart, _ := cmd.Flags().GetBool("from-start")
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	snapshotPath, _ := cmd.Flags().GetString("snapshot")

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

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

	tailer := tail.New(tail.Options{
		FilePath:     filePath,
		FromStart:    fromStart,
		Follow:       true,
		FollowRotate: followRotate,
		LineFunc: func(line string) error {
			res := engine.AddLogMessage(line)
			switch res.ChangeType {
			case drain.ChangeClusterCreated:
				fmt.Printf("new      [%d] %s\n", res.ClusterID, res.Template)
			case drain.ChangeTemplateChanged:
				fmt.Printf("changed  [%d] %s\n", res.ClusterID, res.Template)
			}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- tailer.Run(ctx)
	}()

	select {
	case <-sigChan:
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil && err.Error() != "file rotated" {
			return err
		}
	}

	if snapshotPath != "" {
		if err := saveSnapshot(engine, store); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}
