// Package metrics defines all custom Prometheus metrics for the sales
// insights API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "retail"

// ── Ingestion metrics ─────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts.
// Label:
//   - result: "accepted" or "rejected"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of CSV upload attempts, by result.",
	},
	[]string{"result"},
)

// UploadRowsTotal counts rows appended to the sales store.
var UploadRowsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_rows_total",
		Help:      "Total number of sales rows successfully ingested.",
	},
)

// UploadErrorsTotal counts rejected uploads.
// Label:
//   - reason: "missing_column", "bad_date", "empty", "decode", "store"
var UploadErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_errors_total",
		Help:      "Total number of rejected CSV uploads, by reason.",
	},
	[]string{"reason"},
)

// ── Reporting metrics ─────────────────────────────────────────────────────────

// ReportsComputedTotal counts report requests that completed.
// Label:
//   - kind: "summary", "timeseries", "top_products", "matrix", "monthly", "correlation"
var ReportsComputedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_computed_total",
		Help:      "Total number of reports served, by kind.",
	},
	[]string{"kind"},
)

// ReportCacheTotal counts report cache lookups.
// Label:
//   - result: "hit" or "miss"
var ReportCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_total",
		Help:      "Total number of report cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ReportDuration measures how long serving one report takes end-to-end.
// Label:
//   - kind: report kind as above
var ReportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of report requests from load to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Collaborator metrics ──────────────────────────────────────────────────────

// CollaboratorRequestsTotal counts calls to the external services.
// Labels:
//   - service: "forecast" or "chat"
//   - outcome: "ok" or "error"
var CollaboratorRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collaborator_requests_total",
		Help:      "Total number of forecasting/chat collaborator calls, by outcome.",
	},
	[]string{"service", "outcome"},
)
