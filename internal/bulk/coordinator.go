// Package bulk fans one user action out over a selection: a guard pass
// partitions the selection into eligible and rejected, then a single
// orchestrated mutation covers the whole eligible batch, so rollback is
// all-or-nothing rather than per record.
package bulk

import (
	"context"

	"go.uber.org/zap"

	"merchops/internal/cache"
	"merchops/internal/domain"
	"merchops/internal/mutation"
	"merchops/internal/observability"
	"merchops/internal/remote"
	"merchops/internal/selection"
)

//go:generate mockgen -source internal/bulk/coordinator.go -destination=internal/bulk/coordinator_mock_test.go -package=bulk

type Action string

const (
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status_change"
	ActionExport       Action = "export"
)

type Guard interface {
	Allowed(from, to domain.Status, directCompletion bool) bool
}

type Executor interface {
	Execute(ctx context.Context, req mutation.Request) (mutation.Result, error)
}

type Remote interface {
	Mutate(ctx context.Context, resource string, op remote.Op, payload any) (remote.MutationResult, error)
	Export(ctx context.Context, resource string, ids []string) (int, error)
}

type Reader interface {
	Read(sig cache.Signature) (cache.Entry, bool)
}

type Request struct {
	Action           Action
	Signature        cache.Signature
	TargetStatus     domain.Status
	DirectCompletion bool
}

// Result reports both failure channels separately: RejectedIDs is the
// client-side guard verdict and stands even when the remote call for the
// eligible subset succeeded.
type Result struct {
	Succeeded   int      `json:"succeeded"`
	RejectedIDs []string `json:"rejected_ids,omitempty"`
}

type Coordinator struct {
	guard   Guard
	exec    Executor
	remote  Remote
	store   Reader
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(guard Guard, exec Executor, rem Remote, store Reader, logger *zap.Logger, metrics observability.Metrics) *Coordinator {
	return &Coordinator{
		guard:   guard,
		exec:    exec,
		remote:  rem,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes one bulk action against the selection. On remote failure
// the orchestrator rolls the entire batch back and the selection is left
// intact for a retry; on success the consumed ids leave the selection.
func (c *Coordinator) Run(ctx context.Context, req Request, sel *selection.Set) (Result, error) {
	ids := sel.IDs()
	if len(ids) == 0 {
		return Result{}, nil
	}

	eligible, rejected := c.partition(req, ids)
	c.metrics.ObserveBulk(string(req.Action), len(eligible), len(rejected))
	if len(rejected) > 0 {
		c.logger.Info("bulk action partially rejected by guard",
			zap.String("action", string(req.Action)),
			zap.Int("eligible", len(eligible)),
			zap.Strings("rejected", rejected),
		)
	}
	if len(eligible) == 0 {
		return Result{RejectedIDs: rejected}, nil
	}

	if req.Action == ActionExport {
		// Exports mutate nothing; no optimistic patch, no rollback, and
		// the selection is not consumed.
		count, err := c.remote.Export(ctx, req.Signature.Resource, eligible)
		if err != nil {
			return Result{RejectedIDs: rejected}, mutation.Classify(err)
		}
		return Result{Succeeded: count, RejectedIDs: rejected}, nil
	}

	res, err := c.exec.Execute(ctx, mutation.Request{
		Signature: req.Signature,
		Patch:     c.patch(req, eligible),
		Call:      c.call(req, eligible),
		Op:        string(c.op(req.Action)),
		IDs:       eligible,
	})
	if err != nil {
		return Result{RejectedIDs: rejected}, err
	}

	sel.Remove(eligible...)

	succeeded := res.Count
	if succeeded == 0 {
		succeeded = len(eligible)
	}
	return Result{Succeeded: succeeded, RejectedIDs: rejected}, nil
}

// partition filters the selection through the status guard (status change)
// or an existence check against the displayed collection (delete, export).
func (c *Coordinator) partition(req Request, ids []string) (eligible, rejected []string) {
	byID := make(map[string]domain.Record)
	if entry, ok := c.store.Read(req.Signature); ok {
		for _, r := range entry.Data {
			byID[r.ID] = r
		}
	}

	for _, id := range ids {
		rec, found := byID[id]
		switch {
		case !found:
			rejected = append(rejected, id)
		case req.Action == ActionStatusChange && !c.guard.Allowed(rec.Status, req.TargetStatus, req.DirectCompletion):
			rejected = append(rejected, id)
		default:
			eligible = append(eligible, id)
		}
	}
	return eligible, rejected
}

func (c *Coordinator) op(a Action) remote.Op {
	if a == ActionStatusChange {
		return remote.OpBatchStatus
	}
	return remote.OpBatchDelete
}

func (c *Coordinator) patch(req Request, eligible []string) cache.PatchFunc {
	targets := make(map[string]struct{}, len(eligible))
	for _, id := range eligible {
		targets[id] = struct{}{}
	}

	if req.Action == ActionDelete {
		return func(data []domain.Record) []domain.Record {
			out := data[:0]
			for _, r := range data {
				if _, hit := targets[r.ID]; !hit {
					out = append(out, r)
				}
			}
			return out
		}
	}
	return func(data []domain.Record) []domain.Record {
		for i := range data {
			if _, hit := targets[data[i].ID]; hit {
				data[i].Status = req.TargetStatus
			}
		}
		return data
	}
}

func (c *Coordinator) call(req Request, eligible []string) mutation.RemoteCall {
	resource := req.Signature.Resource
	if req.Action == ActionStatusChange {
		payload := remote.BatchStatusPayload{IDs: eligible, NewStatus: req.TargetStatus}
		return func(ctx context.Context) (remote.MutationResult, error) {
			return c.remote.Mutate(ctx, resource, remote.OpBatchStatus, payload)
		}
	}
	payload := remote.IDsPayload{IDs: eligible}
	return func(ctx context.Context) (remote.MutationResult, error) {
		return c.remote.Mutate(ctx, resource, remote.OpBatchDelete, payload)
	}
}
