// Package pipeline drives the busy-poll ingestion loop: one
// Orchestrator binds an *ingest.Ingestor to a *ring.Writer and repeatedly
// calls PollCycle.
//
// Grounded on shijim_core's start_ingestion, which ran
// poll_cycle in a fixed 100-iteration loop with a 10ms sleep between
// cycles because it had no cancellation signal available from its
// caller. Run replaces that with an unbounded, context.Context-
// cancellable loop (the production shape); RunN keeps the bounded
// variant for deterministic tests.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fluxquant/mdcore/ingest"
	"github.com/fluxquant/mdcore/metrics"
	"github.com/fluxquant/mdcore/ring"
)

// idleBackoff is slept after an idle poll cycle to avoid spinning the
// CPU at 100% while no datagrams are arriving.
const idleBackoff = 10 * time.Millisecond

// Orchestrator binds one ingestor to one ring writer.
type Orchestrator struct {
	Ingestor *ingest.Ingestor
	Writer   *ring.Writer
	Logger   *zap.Logger
	Metrics  *metrics.IngestMetrics
}

// New constructs an Orchestrator. logger and ingestMetrics may be nil,
// in which case logging and metrics observation are skipped.
func New(ingestor *ingest.Ingestor, writer *ring.Writer, logger *zap.Logger, ingestMetrics *metrics.IngestMetrics) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{Ingestor: ingestor, Writer: writer, Logger: logger, Metrics: ingestMetrics}
}

// Run polls until ctx is canceled. It never returns on its own in
// production use; errors from individual poll cycles are logged and
// the loop continues, since a single malformed or oversize packet
// must not take down the ingestion path.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		o.cycle()
	}
}

// RunN runs exactly n poll cycles, sleeping idleBackoff between idle
// cycles, mirroring the bounded loop the original ingestion harness
// used before it had a cancellation signal. Intended for tests.
func (o *Orchestrator) RunN(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		o.cycle()
	}
	return nil
}

func (o *Orchestrator) cycle() {
	outcome, err := o.Ingestor.PollCycle(o.Writer)
	if err != nil {
		o.Logger.Warn("poll cycle error", zap.Error(err), zap.Int("outcome", int(outcome)))
	}
	if o.Metrics != nil {
		switch outcome {
		case ingest.OutcomeForwarded:
			o.Metrics.Observe(metrics.IngestOutcomeForwarded)
		case ingest.OutcomeHeartbeat:
			o.Metrics.Observe(metrics.IngestOutcomeHeartbeat)
		case ingest.OutcomeTruncated:
			o.Metrics.Observe(metrics.IngestOutcomeTruncated)
		case ingest.OutcomeMalformed:
			o.Metrics.Observe(metrics.IngestOutcomeMalformed)
		}
	}
	if outcome == ingest.OutcomeIdle {
		time.Sleep(idleBackoff)
	}
}
