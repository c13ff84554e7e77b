// Package mutation executes a write against the data service while keeping
// the cache consistent: cancel in-flight reads, snapshot, apply the
// optimistic patch, call the service, then reconcile or roll back. The view
// layer never observes an optimistic value the orchestrator no longer
// believes matches the server.
package mutation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"merchops/internal/cache"
	"merchops/internal/domain"
	"merchops/internal/observability"
	"merchops/internal/remote"
)

type Store interface {
	Patch(sig cache.Signature, fn cache.PatchFunc) cache.Snapshot
	Restore(sig cache.Signature, snap cache.Snapshot)
	Invalidate(sig cache.Signature)
}

// ReadCanceller stops an in-flight fetch for a signature so a stale read
// cannot overwrite the optimistic state about to be applied.
type ReadCanceller interface {
	CancelInFlight(sig cache.Signature)
}

// JournalEntry is the audit record of one settled mutation.
type JournalEntry struct {
	Resource   string
	Op         string
	IDs        []string
	Outcome    string
	RolledBack bool
	DurMs      float64
}

type Journal interface {
	Append(ctx context.Context, e JournalEntry) error
}

// RemoteCall performs the actual write. The orchestrator owns everything
// around it but treats the call itself as opaque.
type RemoteCall func(ctx context.Context) (remote.MutationResult, error)

type Request struct {
	Signature cache.Signature
	Patch     cache.PatchFunc
	Call      RemoteCall

	// Op and IDs describe the mutation for the journal and logs.
	Op  string
	IDs []string

	// ProvisionalID ties an optimistic create to the confirmed record the
	// server sends back; the provisional entry is replaced, never merged.
	ProvisionalID string
}

type Result struct {
	// Confirmed is set when the response carried authoritative data.
	Confirmed *domain.Record
	// Count is the number of records the server reports as written.
	Count int
	// RolledBack reports that the optimistic patch was undone.
	RolledBack bool
}

type Orchestrator struct {
	store   Store
	reads   ReadCanceller
	journal Journal
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(store Store, reads ReadCanceller, journal Journal, logger *zap.Logger, metrics observability.Metrics) *Orchestrator {
	return &Orchestrator{
		store:   store,
		reads:   reads,
		journal: journal,
		logger:  logger,
		metrics: metrics,
	}
}

// Execute runs the mutation protocol for one signature. On failure the
// snapshot is written back verbatim and the typed error reports which
// failure channel fired.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (Result, error) {
	if req.Patch == nil || req.Call == nil {
		return Result{}, Validation(errors.New("mutation request missing patch or call"))
	}

	start := time.Now()
	if o.reads != nil {
		o.reads.CancelInFlight(req.Signature)
	}
	snap := o.store.Patch(req.Signature, req.Patch)

	res, err := req.Call(ctx)

	var result Result
	var merr *Error
	switch {
	case err != nil:
		o.store.Restore(req.Signature, snap)
		merr = Classify(err)
		result.RolledBack = true
		o.logger.Warn("mutation rolled back",
			zap.String("resource", req.Signature.Resource),
			zap.String("op", req.Op),
			zap.String("kind", merr.Kind.String()),
			zap.Error(err),
		)
	case res.Record != nil:
		o.store.Patch(req.Signature, confirmPatch(req.ProvisionalID, *res.Record))
		result.Confirmed = res.Record
		result.Count = res.Count
		o.logger.Info("mutation confirmed",
			zap.String("resource", req.Signature.Resource),
			zap.String("op", req.Op),
			zap.String("id", res.Record.ID),
		)
	default:
		// Batch responses carry only a count; the optimistic value stays on
		// screen and the entry is refetched in the background.
		o.store.Invalidate(req.Signature)
		result.Count = res.Count
		o.logger.Info("mutation settled, entry invalidated",
			zap.String("resource", req.Signature.Resource),
			zap.String("op", req.Op),
			zap.Int("count", res.Count),
		)
	}

	o.settle(ctx, req, result, merr, time.Since(start))

	if merr != nil {
		return result, merr
	}
	return result, nil
}

// settle runs in both outcomes: metrics, then the audit journal. Journal
// trouble is logged and swallowed, it must never fail the mutation.
func (o *Orchestrator) settle(ctx context.Context, req Request, result Result, merr *Error, dur time.Duration) {
	durMs := float64(dur.Microseconds()) / 1000.0
	o.metrics.ObserveMutation(req.Signature.Resource, req.Op, result.RolledBack, durMs)

	if o.journal == nil {
		return
	}
	outcome := "ok"
	if merr != nil {
		outcome = merr.Kind.String()
	}
	entry := JournalEntry{
		Resource:   req.Signature.Resource,
		Op:         req.Op,
		IDs:        req.IDs,
		Outcome:    outcome,
		RolledBack: result.RolledBack,
		DurMs:      durMs,
	}
	if err := o.journal.Append(ctx, entry); err != nil {
		o.logger.Warn("journal append failed", zap.Error(err))
	}
}

// confirmPatch swaps the provisional (or previously optimistic) record for
// its server-confirmed counterpart, keeping its position in the sequence.
func confirmPatch(provisionalID string, confirmed domain.Record) cache.PatchFunc {
	return func(data []domain.Record) []domain.Record {
		for i := range data {
			if (provisionalID != "" && data[i].ID == provisionalID) || data[i].ID == confirmed.ID {
				data[i] = confirmed
				return data
			}
		}
		return data
	}
}
