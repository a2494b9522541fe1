// Package ingest bridges the message bus to the mining engine.
//
// It consumes one raw log line per message on the input subject, feeds
// it to the engine's training path, and publishes the resulting cluster
// assignment on the output subject. The engine itself stays
// messaging-agnostic; this package owns the wire contract.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/bimmerbailey/drift/internal/drain"
	"github.com/bimmerbailey/drift/internal/metrics"
)

// Assignment is the published result for one ingested line.
type Assignment struct {
	ClusterID  int64  `json:"cluster_id"`
	Template   string `json:"template"`
	IsNew      bool   `json:"is_new"`
	ChangeType string `json:"change_type"`
	MatchCount int64  `json:"match_count"`
}

// Options configures the bridge endpoints.
type Options struct {
	URL        string
	SubjectIn  string
	SubjectOut string
	Timeout    time.Duration
}

// Bridge connects the engine to NATS.
type Bridge struct {
	opts   Options
	engine *drain.Engine
	conn   *nats.Conn
	log    zerolog.Logger
}

// New creates a bridge; Connect establishes the connection.
func New(opts Options, engine *drain.Engine, logger zerolog.Logger) *Bridge {
	return &Bridge{opts: opts, engine: engine, log: logger}
}

// Connect dials the NATS server with reconnect enabled.
func (b *Bridge) Connect() error {
	conn, err := nats.Connect(b.opts.URL,
		nats.Timeout(b.opts.Timeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			b.log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			b.log.Info().Str("url", conn.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connect to nats at %s: %w", b.opts.URL, err)
	}
	b.conn = conn
	return nil
}

// Run subscribes to the input subject and blocks until the context is
// cancelled. Each message is one raw log line.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.conn.Subscribe(b.opts.SubjectIn, func(msg *nats.Msg) {
		if err := b.handleLine(string(msg.Data)); err != nil {
			b.log.Error().Err(err).Msg("failed to publish assignment")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.opts.SubjectIn, err)
	}
	b.log.Info().Str("subject", b.opts.SubjectIn).Msg("consuming raw log lines")

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("drain subscription: %w", err)
	}
	return nil
}

// handleLine trains on one line and publishes its assignment. Skipped
// (blank) lines produce no output message.
func (b *Bridge) handleLine(line string) error {
	res := b.engine.AddLogMessage(line)
	record(res)
	metrics.ClustersTotal.Set(float64(b.engine.ClusterCount()))

	if res.Skipped {
		return nil
	}

	payload, err := json.Marshal(assignmentFromResult(res))
	if err != nil {
		return fmt.Errorf("marshal assignment: %w", err)
	}
	return b.conn.Publish(b.opts.SubjectOut, payload)
}

// Close flushes and closes the connection.
func (b *Bridge) Close() {
	if b.conn != nil {
		b.conn.Drain()
		b.conn.Close()
	}
}

func assignmentFromResult(res drain.Result) Assignment {
	return Assignment{
		ClusterID:  res.ClusterID,
		Template:   res.Template,
		IsNew:      res.IsNew,
		ChangeType: string(res.ChangeType),
		MatchCount: res.MatchCount,
	}
}

func record(res drain.Result) {
	metrics.LinesProcessed.Inc()
	switch {
	case res.Skipped:
		metrics.LinesSkipped.Inc()
	case res.ChangeType == drain.ChangeClusterCreated:
		metrics.ClustersCreated.Inc()
	case res.ChangeType == drain.ChangeTemplateChanged:
		metrics.TemplatesChanged.Inc()
	}
}
