package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Signature is the canonical key of one cached collection view. Two
// signatures address the same entry iff resource, filter and page all match
// by value; the filter is flattened into a sorted, escaped k=v list so that
// map iteration order never produces distinct keys for equal queries and
// structurally different filters never collide.
type Signature struct {
	Resource string
	Filter   string
	Page     int
}

func NewSignature(resource string, filter map[string]string, page int) Signature {
	return Signature{
		Resource: resource,
		Filter:   canonicalFilter(filter),
		Page:     page,
	}
}

func canonicalFilter(filter map[string]string) string {
	if len(filter) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(filter[k]))
	}
	return b.String()
}

// FilterMap reconstructs the filter parameters encoded in the signature.
func (s Signature) FilterMap() map[string]string {
	if s.Filter == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(s.Filter, "&") {
		k, v, _ := strings.Cut(pair, "=")
		uk, err := url.QueryUnescape(k)
		if err != nil {
			uk = k
		}
		uv, err := url.QueryUnescape(v)
		if err != nil {
			uv = v
		}
		out[uk] = uv
	}
	return out
}
