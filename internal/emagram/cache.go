package emagram

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/observability"
)

// CachedCurves wraps a CurveSource with an in-memory LRU cache keyed by
// family and parameter. Only successful computations are cached.
type CachedCurves struct {
	inner   CurveSource
	metrics *observability.Metrics

	mu      sync.Mutex
	max     int
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

type cacheEntry struct {
	key   string
	curve domain.Curve
}

// NewCachedCurves creates a cache decorator holding at most maxEntries curves.
// metrics may be nil.
func NewCachedCurves(inner CurveSource, maxEntries int, metrics *observability.Metrics) *CachedCurves {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CachedCurves{
		inner:   inner,
		metrics: metrics,
		max:     maxEntries,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Curve implements CurveSource. The returned curve is a deep copy the caller
// may modify, temperatures included.
func (c *CachedCurves) Curve(family domain.Family, param float64) (domain.Curve, error) {
	key := fmt.Sprintf("%s|%g", family, param)
	if curve, ok := c.get(key); ok {
		c.observe(family, "hit")
		return curve, nil
	}
	c.observe(family, "miss")

	curve, err := c.inner.Curve(family, param)
	if err != nil {
		return nil, err
	}
	c.put(key, curve.Clone())
	return curve, nil
}

// Len returns the number of cached curves.
func (c *CachedCurves) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *CachedCurves) get(key string) (domain.Curve, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).curve.Clone(), true
}

func (c *CachedCurves) put(key string, curve domain.Curve) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).curve = curve
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, curve: curve})

	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *CachedCurves) observe(family domain.Family, result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CurveCache.WithLabelValues(string(family), result).Inc()
}
