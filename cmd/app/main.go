package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"merchops/internal/application/handler"
	"merchops/internal/application/service"
	"merchops/internal/bulk"
	"merchops/internal/cache"
	"merchops/internal/config"
	"merchops/internal/guard"
	"merchops/internal/httpapi"
	"merchops/internal/journal"
	"merchops/internal/kafka"
	"merchops/internal/mutation"
	"merchops/internal/observability"
	"merchops/internal/pkg/breaker"
	"merchops/internal/remote"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewProm(prometheus.DefaultRegisterer)

	store, err := cache.New(cfg.CacheCap)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}

	client := remote.New(cfg.Remote, breaker.New(cfg.Breaker), cfg.Retry, logger)

	// The journal is optional; every consumer takes it through its own
	// interface, so absence stays a plain nil.
	var jstore *journal.Store
	if cfg.Pg.Enabled() {
		pool, err := journal.Connect(ctx, cfg.DSN())
		if err != nil {
			logger.Fatal("journal connect failed", zap.Error(err))
		}
		defer pool.Close()
		jstore = journal.New(pool)
		if err := jstore.EnsureSchema(ctx); err != nil {
			logger.Fatal("journal schema failed", zap.Error(err))
		}
	}
	var svcJournal service.Journal
	var mutJournal mutation.Journal
	var journalReader httpapi.JournalReader
	if jstore != nil {
		svcJournal, mutJournal, journalReader = jstore, jstore, jstore
	}

	svc := service.NewService(store, client, svcJournal, logger, metrics)
	orch := mutation.New(store, svc, mutJournal, logger, metrics)
	g := guard.Guard{CancelAfterDispatch: cfg.Guard.CancelAfterDispatch}
	coordinator := bulk.New(g, orch, client, store, logger, metrics)

	server := httpapi.New(svc, orch, coordinator, g, client, journalReader, logger, metrics)

	if len(cfg.Kafka.Brokers) > 0 {
		reader := kafka.NewReader(cfg.Kafka)
		defer func() { _ = reader.Close() }()

		feedHandler := handler.NewHandler(svc, breaker.New(cfg.Breaker), cfg.Retry, metrics, logger)
		consumer := kafka.NewConsumer(feedHandler, reader, cfg.Kafka, logger)
		go consumer.Start(ctx)
	} else {
		logger.Info("change-feed consumer disabled, no KAFKA_BROKERS configured")
	}

	logger.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
