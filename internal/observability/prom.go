package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Prom exports the Metrics interface as Prometheus collectors.
type Prom struct {
	lookups      *prometheus.HistogramVec
	mutations    *prometheus.HistogramVec
	rollbacks    *prometheus.CounterVec
	bulkEligible *prometheus.CounterVec
	bulkRejected *prometheus.CounterVec
	httpReqs     *prometheus.HistogramVec
	changeEvents *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		lookups: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "merchops_lookup_duration_ms",
			Help:    "Collection lookup latency by source.",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}, []string{"source"}),
		mutations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "merchops_mutation_duration_ms",
			Help:    "Mutation round trip latency.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"resource", "op"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merchops_mutation_rollbacks_total",
			Help: "Mutations that were rolled back.",
		}, []string{"resource", "op"}),
		bulkEligible: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merchops_bulk_eligible_total",
			Help: "Records accepted into bulk batches.",
		}, []string{"action"}),
		bulkRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merchops_bulk_rejected_total",
			Help: "Records rejected by the client-side guard.",
		}, []string{"action"}),
		httpReqs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "merchops_http_duration_ms",
			Help:    "Dashboard API request latency.",
			Buckets: prometheus.ExponentialBuckets(0.5, 4, 8),
		}, []string{"method", "route", "status"}),
		changeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merchops_change_events_total",
			Help: "Change-feed events processed.",
		}, []string{"ok"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merchops_cache_hits_total",
			Help: "Cache entry hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merchops_cache_misses_total",
			Help: "Cache entry misses.",
		}),
	}
	reg.MustRegister(
		p.lookups, p.mutations, p.rollbacks,
		p.bulkEligible, p.bulkRejected,
		p.httpReqs, p.changeEvents,
		p.cacheHits, p.cacheMisses,
	)
	return p
}

func (p *Prom) ObserveLookup(source string, cacheMs, remoteMs float64) {
	p.lookups.WithLabelValues(source).Observe(cacheMs + remoteMs)
}

func (p *Prom) ObserveMutation(resource, op string, rolledBack bool, durMs float64) {
	p.mutations.WithLabelValues(resource, op).Observe(durMs)
	if rolledBack {
		p.rollbacks.WithLabelValues(resource, op).Inc()
	}
}

func (p *Prom) ObserveBulk(action string, eligible, rejected int) {
	p.bulkEligible.WithLabelValues(action).Add(float64(eligible))
	p.bulkRejected.WithLabelValues(action).Add(float64(rejected))
}

func (p *Prom) ObserveHTTP(method, route string, status int, durMs float64) {
	p.httpReqs.WithLabelValues(method, route, strconv.Itoa(status)).Observe(durMs)
}

func (p *Prom) ObserveChangeEvent(processMs float64, ok bool) {
	p.changeEvents.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (p *Prom) IncCacheHit()  { p.cacheHits.Inc() }
func (p *Prom) IncCacheMiss() { p.cacheMisses.Inc() }
