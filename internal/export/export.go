// Package export forwards ledger entries to external stores. Delivery is
// best-effort: failures are reported and counted but never escalated.
package export

import (
	"context"
	"time"

	"github.com/Alias1177/matchforecast/internal/metrics"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/rs/zerolog"
)

// DefaultSendTimeout bounds a single sink delivery
const DefaultSendTimeout = 10 * time.Second

// Sink is an external destination for ledger rows
type Sink interface {
	Name() string
	Send(ctx context.Context, entry model.LogEntry) error
}

// Outcome is the delivery result for one sink
type Outcome struct {
	Sink string
	Err  error
}

// OK reports whether the delivery succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Forward sends entry to every sink and returns one outcome per sink, in order.
// A failing sink does not stop the others.
func Forward(ctx context.Context, logger zerolog.Logger, sinks []Sink, entry model.LogEntry) []Outcome {
	outcomes := make([]Outcome, 0, len(sinks))
	for _, sink := range sinks {
		sendCtx, cancel := context.WithTimeout(ctx, DefaultSendTimeout)
		err := sink.Send(sendCtx, entry)
		cancel()

		if err != nil {
			metrics.SyncFailures.WithLabelValues(sink.Name()).Inc()
			logger.Warn().Err(err).Str("sink", sink.Name()).Str("match", entry.Match).Msg("Sync failed, ledger entry kept")
		}
		outcomes = append(outcomes, Outcome{Sink: sink.Name(), Err: err})
	}
	return outcomes
}
