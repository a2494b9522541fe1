package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/drift/internal/drain"
	"github.com/bimmerbailey/drift/internal/ingest"
	"github.com/bimmerbailey/drift/internal/logging"
	"github.com/bimmerbailey/drift/internal/metrics"
	"github.com/bimmerbailey/drift/internal/snapshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mining service",
	Long: `Consume raw log lines from the message bus, mine templates online,
and publish each line's cluster assignment.

State is restored from the configured snapshot at startup, flushed on a
timer while running, and flushed again at shutdown. A prometheus
endpoint exposes mining activity.

Examples:
  drift serve
  drift serve --nats-url nats://broker:4222 --snapshot-interval 30
  DRIFT_NATS_URL=nats://broker:4222 drift serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("nats-url", "", "NATS server URL")
	serveCmd.Flags().Int("snapshot-interval", 0, "seconds between snapshot flushes (0 uses config)")
	serveCmd.Flags().Bool("json-logs", false, "emit JSON logs instead of console output")

	_ = viper.BindPFlag("nats.url", serveCmd.Flags().Lookup("nats-url"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	interval, _ := cmd.Flags().GetInt("snapshot-interval")

	level := "info"
	if viper.GetBool("verbose") {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, JSONOutput: jsonLogs})
	log := logging.WithComponent("serve")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Snapshot.IntervalSeconds = interval
	}

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		return err
	}
	engine, err := drain.New(engineCfg, drain.WithLogger(logging.WithComponent("engine")))
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Snapshot)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := loadSnapshotInto(engine, store); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	log.Info().Int("clusters", engine.ClusterCount()).Msg("engine ready")

	metrics.Register()
	metrics.ClustersTotal.Set(float64(engine.ClusterCount()))
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint up")
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	bridge := ingest.New(ingest.Options{
		URL:        cfg.NATS.URL,
		SubjectIn:  cfg.NATS.SubjectIn,
		SubjectOut: cfg.NATS.SubjectOut,
		Timeout:    time.Duration(cfg.NATS.TimeoutSeconds) * time.Second,
	}, engine, logging.WithComponent("ingest"))

	if err := bridge.Connect(); err != nil {
		return err
	}
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if cfg.Snapshot.IntervalSeconds > 0 {
		go snapshotLoop(ctx, engine, store, time.Duration(cfg.Snapshot.IntervalSeconds)*time.Second, log)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- bridge.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	if err := saveSnapshot(engine, store); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("final snapshot flush: %w", err)
	}
	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	log.Info().Int("clusters", engine.ClusterCount()).Msg("state flushed")
	return nil
}

// snapshotLoop flushes engine state to the store on a fixed interval
// until the context is cancelled. A failed flush is logged and retried
// on the next tick; the engine keeps training either way.
func snapshotLoop(ctx context.Context, engine *drain.Engine, store snapshot.Store, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := saveSnapshot(engine, store); err != nil {
				metrics.SnapshotSaves.WithLabelValues("error").Inc()
				log.Error().Err(err).Msg("snapshot flush failed")
				continue
			}
			metrics.SnapshotSaves.WithLabelValues("ok").Inc()
			log.Debug().Int("clusters", engine.ClusterCount()).Msg("snapshot flushed")
		}
	}
}
