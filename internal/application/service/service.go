package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"merchops/internal/cache"
	"merchops/internal/domain"
	"merchops/internal/observability"
	"merchops/internal/remote"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

// Query describes one collection view; its signature addresses the cache.
type Query struct {
	Resource string
	Filter   map[string]string
	Page     int
}

func (q Query) Signature() cache.Signature {
	return cache.NewSignature(q.Resource, q.Filter, q.Page)
}

type Lister interface {
	List(ctx context.Context, resource string, filter map[string]string, page int) (remote.ListResult, error)
}

type Store interface {
	Read(sig cache.Signature) (cache.Entry, bool)
	Version(sig cache.Signature) uint64
	WriteIfVersion(sig cache.Signature, version uint64, data []domain.Record, pi domain.PageInfo) bool
	InvalidateResource(resource string) int
}

type Journal interface {
	RecordChange(ctx context.Context, resource, id string) error
}

// Service is the read path: cache-first collection lookups with
// write-through on miss, plus the in-flight fetch registry the mutation
// orchestrator cancels before it patches.
type Service struct {
	store   Store
	remote  Lister
	journal Journal
	logger  *zap.Logger
	metrics observability.Metrics

	mu       sync.Mutex
	inflight map[cache.Signature]*fetchToken
}

type fetchToken struct {
	cancel context.CancelFunc
}

func NewService(store Store, rem Lister, journal Journal, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		store:    store,
		remote:   rem,
		journal:  journal,
		logger:   logger,
		metrics:  metrics,
		inflight: make(map[cache.Signature]*fetchToken),
	}
}

func (s *Service) List(ctx context.Context, q Query) (cache.Entry, error) {
	e, _, err := s.ListWithStats(ctx, q)
	return e, err
}

func (s *Service) ListWithStats(ctx context.Context, q Query) (cache.Entry, LookupStats, error) {
	var st LookupStats
	sig := q.Signature()

	// Try cache
	tCacheStart := time.Now()
	if e, ok := s.store.Read(sig); ok && !e.Stale {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCacheStart)
		s.metrics.IncCacheHit()
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)

		s.logger.Debug("collection served from cache",
			zap.String("resource", q.Resource),
			zap.Int("page", q.Page),
			zap.Float64("cache_ms", st.CacheMs),
		)

		return e, st, nil
	}

	// Miss or stale entry: fetch from the data service
	s.metrics.IncCacheMiss()
	st.CacheMs = convertToMs(tCacheStart)

	tRemoteStart := time.Now()
	version := s.store.Version(sig)
	fctx, tok := s.track(ctx, sig)
	defer s.untrack(sig, tok)

	res, err := s.remote.List(fctx, q.Resource, q.Filter, q.Page)
	st.RemoteMs = convertToMs(tRemoteStart)
	if err != nil {
		// A cancelled or failed fetch still serves whatever the cache
		// holds; a stale view beats an empty one.
		if e, ok := s.store.Read(sig); ok {
			st.Source = SourceCache
			s.logger.Warn("fetch failed, serving cached entry",
				zap.String("resource", q.Resource),
				zap.Int("page", q.Page),
				zap.Error(err),
			)
			return e, st, nil
		}
		s.logger.Error("collection fetch failed",
			zap.String("resource", q.Resource),
			zap.Int("page", q.Page),
			zap.Error(err),
		)
		return cache.Entry{}, st, err
	}

	st.Source = SourceRemote
	if !s.store.WriteIfVersion(sig, version, res.Items, res.PageInfo) {
		// A patch landed while this fetch was in flight; the optimistic
		// state is newer than the response, discard the fetch.
		s.logger.Debug("discarding fetch after version skew",
			zap.String("resource", q.Resource),
			zap.Int("page", q.Page),
		)
	}

	e, _ := s.store.Read(sig)
	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.RemoteMs)
	s.logger.Info("collection fetched",
		zap.String("resource", q.Resource),
		zap.Int("page", q.Page),
		zap.Float64("remote_ms", st.RemoteMs),
	)

	return e, st, nil
}

// CancelInFlight aborts any fetch running for the signature. Cancellation
// is cooperative: the fetch may still complete, but the version check in
// ListWithStats keeps its result from clobbering newer state.
func (s *Service) CancelInFlight(sig cache.Signature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok, ok := s.inflight[sig]; ok {
		tok.cancel()
		delete(s.inflight, sig)
	}
}

// ApplyChange handles one change-feed event: another actor touched the
// resource, so every cached view of it goes stale.
func (s *Service) ApplyChange(ctx context.Context, resource, id string) error {
	n := s.store.InvalidateResource(resource)
	s.logger.Info("change event applied",
		zap.String("resource", resource),
		zap.String("id", id),
		zap.Int("entries_invalidated", n),
	)
	if s.journal == nil {
		return nil
	}
	return s.journal.RecordChange(ctx, resource, id)
}

func (s *Service) track(ctx context.Context, sig cache.Signature) (context.Context, *fetchToken) {
	fctx, cancel := context.WithCancel(ctx)
	tok := &fetchToken{cancel: cancel}
	s.mu.Lock()
	if prev, ok := s.inflight[sig]; ok {
		// The newest read wins; the older fetch is obsolete either way.
		prev.cancel()
	}
	s.inflight[sig] = tok
	s.mu.Unlock()
	return fctx, tok
}

func (s *Service) untrack(sig cache.Signature, tok *fetchToken) {
	tok.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sig] == tok {
		delete(s.inflight, sig)
	}
}
