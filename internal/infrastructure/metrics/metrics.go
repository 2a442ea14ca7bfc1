package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindersync_store_writes_total",
		Help: "Local record store writes, by storage key.",
	}, []string{"key"})

	StoreWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindersync_store_write_failures_total",
		Help: "Local record store writes that failed to persist.",
	}, []string{"key"})

	QuarantinedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindersync_store_quarantined_records_total",
		Help: "Records dropped on read for missing or non-string ids.",
	}, []string{"key"})

	LedgerAppends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindersync_ledger_appends_total",
		Help: "Operation log entries appended.",
	})

	MirrorUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindersync_mirror_uploads_total",
		Help: "Cloud mirror upload attempts, by storage key and outcome.",
	}, []string{"key", "outcome"})

	MirrorDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindersync_mirror_downloads_total",
		Help: "Cloud mirror download attempts, by storage key and outcome.",
	}, []string{"key", "outcome"})

	MirrorLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kindersync_mirror_request_seconds",
		Help:    "Cloud mirror request round-trip latency.",
		Buckets: prometheus.DefBuckets,
	})

	DebounceCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindersync_sync_debounce_coalesced_total",
		Help: "Scheduled uploads superseded by a later write before firing.",
	})

	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindersync_sync_reconcile_total",
		Help: "Per-key reconciliation outcomes.",
	}, []string{"outcome"})
)
