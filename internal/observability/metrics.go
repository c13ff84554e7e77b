package observability

type Metrics interface {
	ObserveLookup(source string, cacheMs, remoteMs float64)
	ObserveMutation(resource, op string, rolledBack bool, durMs float64)
	ObserveBulk(action string, eligible, rejected int)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveChangeEvent(processMs float64, ok bool)
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(string, float64, float64)         {}
func (Noop) ObserveMutation(string, string, bool, float64)  {}
func (Noop) ObserveBulk(string, int, int)                   {}
func (Noop) ObserveHTTP(string, string, int, float64)       {}
func (Noop) ObserveChangeEvent(float64, bool)               {}
func (Noop) IncCacheHit()                                   {}
func (Noop) IncCacheMiss()                                  {}
