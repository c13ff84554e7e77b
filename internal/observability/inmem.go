package observability

import "sync"

// Inmem keeps the last max observations in memory. Handy in tests and for
// the debug endpoint; production wiring uses Prom.
type Inmem struct {
	mu     sync.Mutex
	last   []any
	max    int
	totals struct {
		cacheHits, cacheMiss int
		rollbacks            int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{max: max}
}

func (m *Inmem) push(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveLookup(source string, cacheMs, remoteMs float64) {
	m.push(struct {
		Kind              string
		Source            string
		CacheMs, RemoteMs float64
	}{"lookup", source, cacheMs, remoteMs})
}

func (m *Inmem) ObserveMutation(resource, op string, rolledBack bool, durMs float64) {
	if rolledBack {
		m.mu.Lock()
		m.totals.rollbacks++
		m.mu.Unlock()
	}
	m.push(struct {
		Kind         string
		Resource, Op string
		RolledBack   bool
		Dur          float64
	}{"mutation", resource, op, rolledBack, durMs})
}

func (m *Inmem) ObserveBulk(action string, eligible, rejected int) {
	m.push(struct {
		Kind               string
		Action             string
		Eligible, Rejected int
	}{"bulk", action, eligible, rejected})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(struct {
		Kind          string
		Method, Route string
		Status        int
		Dur           float64
	}{"http", method, route, status, durMs})
}

func (m *Inmem) ObserveChangeEvent(processMs float64, ok bool) {
	m.push(struct {
		Kind string
		Dur  float64
		OK   bool
	}{"change_event", processMs, ok})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

// Totals returns cache hit/miss and rollback counters.
func (m *Inmem) Totals() (hits, misses, rollbacks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.cacheHits, m.totals.cacheMiss, m.totals.rollbacks
}

// Last returns a copy of the retained observations.
func (m *Inmem) Last() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.last))
	copy(out, m.last)
	return out
}
