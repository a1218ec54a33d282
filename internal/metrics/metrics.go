// Package metrics holds the Prometheus collectors shared by the analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FormsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchforecast_forms_total",
		Help: "Team forms resolved, by source (OBSERVED or SYNTHESIZED)",
	}, []string{"source"})

	ForecastFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchforecast_forecast_fallbacks_total",
		Help: "Forecasts replaced by a random estimate because the model fit failed",
	})

	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchforecast_predictions_total",
		Help: "Predictions produced, by label and confidence",
	}, []string{"label", "confidence"})

	LedgerWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchforecast_ledger_write_failures_total",
		Help: "Ledger inserts that failed",
	})

	SyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchforecast_sync_failures_total",
		Help: "Best-effort sync deliveries that failed, by sink",
	}, []string{"sink"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchforecast_run_duration_seconds",
		Help:    "Duration of a daily analysis run",
		Buckets: prometheus.DefBuckets,
	})
)
