// Package observability holds the Prometheus metrics for LifeLab.
// Registered via promauto and exposed on /metrics when enabled in config.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Store Metrics ──────────────────────────────────────────────────────────

// StoreSaves counts collection saves by provider.
var StoreSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "store",
	Name:      "saves_total",
	Help:      "Total collection saves by provider.",
}, []string{"provider"})

// StoreFetchFailures counts reads that degraded to an empty default.
var StoreFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "store",
	Name:      "fetch_failures_total",
	Help:      "Total fetches that fell back to an empty default.",
}, []string{"provider"})

// ProviderState reports the active provider (0=unresolved, 1=local, 2=remote).
var ProviderState = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "lifelab",
	Subsystem: "store",
	Name:      "provider_state",
	Help:      "Active persistence provider (0=unresolved, 1=local, 2=remote).",
})

// Migrations counts local-to-remote collection migrations on sign-in.
var Migrations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "store",
	Name:      "migrations_total",
	Help:      "Total local-to-remote migrations performed on sign-in.",
})

// ─── Sync Metrics ───────────────────────────────────────────────────────────

// SyncRuns counts notebook sync passes.
var SyncRuns = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "sync",
	Name:      "runs_total",
	Help:      "Total notebook sync passes.",
})

// SyncSkippedEntries counts entries skipped because their timestamp could
// not be mapped into the target month's day range.
var SyncSkippedEntries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "sync",
	Name:      "skipped_entries_total",
	Help:      "Total entries skipped during sync for falling outside the month.",
})

// ─── Feature Metrics ────────────────────────────────────────────────────────

// WinRejections counts duplicate-date win saves (silent no-ops by design).
var WinRejections = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "wins",
	Name:      "rejections_total",
	Help:      "Total win saves rejected because the date already has a win.",
})

// BackupExports counts full-state exports.
var BackupExports = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "backup",
	Name:      "exports_total",
	Help:      "Total full-state exports.",
})

// BackupImports counts imports by mode.
var BackupImports = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifelab",
	Subsystem: "backup",
	Name:      "imports_total",
	Help:      "Total imports by mode.",
}, []string{"mode"})
