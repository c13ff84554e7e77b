// Package handler turns change-feed messages into cache invalidations.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"merchops/internal/config"
	"merchops/internal/observability"
	"merchops/internal/pkg/retry"
)

//go:generate mockgen -source=handler.go -destination=handler_mock_test.go -package=handler

var (
	ErrBadEvent    = errors.New("bad change event")
	ErrApply       = errors.New("apply failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// Service applies one change event: every cached view of the resource
// goes stale and the event is journaled.
type Service interface {
	ApplyChange(ctx context.Context, resource, id string) error
}

type brk interface {
	Allow() error
	Success()
	Failure()
}

// changeEvent is what the data service publishes when another actor
// changes a record.
type changeEvent struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

type Handler struct {
	service     Service
	breaker     brk
	logger      *zap.Logger
	metrics     observability.Metrics
	retryPolicy config.Retry
}

func NewHandler(service Service, b brk, retryPolicy config.Retry, metrics observability.Metrics, logger *zap.Logger) *Handler {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Handler{
		service:     service,
		breaker:     b,
		logger:      logger,
		metrics:     metrics,
		retryPolicy: retryPolicy,
	}
}

// Handle — called by the consumer to process a single message.
// The consumer commits the offset itself after successfully returning nil.
// Malformed events fail without retry; the producer will not fix them.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) error {
	start := time.Now()

	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	var ev changeEvent
	if err := json.Unmarshal(message.Value, &ev); err != nil {
		h.logger.Error("bad json format",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.metrics.ObserveChangeEvent(elapsedMs(start), false)
		return ErrBadEvent
	}
	if ev.Resource == "" || ev.ID == "" {
		h.logger.Error("change event missing resource or id",
			zap.String("resource", ev.Resource),
			zap.String("id", ev.ID),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.metrics.ObserveChangeEvent(elapsedMs(start), false)
		return ErrBadEvent
	}

	if err := retry.Do(ctx, h.retryPolicy, nil, func() error {
		return h.service.ApplyChange(ctx, ev.Resource, ev.ID)
	}); err != nil {
		h.logger.Error("apply failed after retries",
			zap.String("resource", ev.Resource),
			zap.String("id", ev.ID),
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.metrics.ObserveChangeEvent(elapsedMs(start), false)
		return ErrApply
	}

	h.breaker.Success()
	h.metrics.ObserveChangeEvent(elapsedMs(start), true)
	h.logger.Info("change event processed",
		zap.String("resource", ev.Resource),
		zap.String("id", ev.ID),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	)
	return nil
}

func elapsedMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
