// Package metrics exposes prometheus collectors for mining activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LinesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drift_lines_processed_total",
			Help: "Total log lines fed to the engine, including skipped blanks",
		},
	)

	LinesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drift_lines_skipped_total",
			Help: "Lines that tokenized to nothing and were ignored",
		},
	)

	ClustersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drift_clusters_created_total",
			Help: "New clusters founded because no existing template matched",
		},
	)

	TemplatesChanged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drift_templates_changed_total",
			Help: "Merges that generalized an existing template",
		},
	)

	ClustersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drift_clusters_total",
			Help: "Live clusters in the engine",
		},
	)

	SnapshotSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drift_snapshot_saves_total",
			Help: "Snapshot flushes by outcome",
		},
		[]string{"outcome"},
	)
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(
		LinesProcessed,
		LinesSkipped,
		ClustersCreated,
		TemplatesChanged,
		ClustersTotal,
		SnapshotSaves,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
