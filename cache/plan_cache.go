package cache

import (
	"sync"

	"github.com/Konsultn-Engineering/sqlstmt/binder"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultPlanCacheSize = 256

// PlanCache keeps bind plans of compiled statements, keyed by Fingerprint.
type PlanCache struct {
	cache *lru.Cache[uint64, *binder.Plan]
	mu    sync.Mutex
}

func NewPlanCache(size int) *PlanCache {
	if size <= 0 {
		size = DefaultPlanCacheSize
	}
	cache, _ := lru.New[uint64, *binder.Plan](size)
	return &PlanCache{cache: cache}
}

func (c *PlanCache) Get(key uint64) (*binder.Plan, bool) {
	return c.cache.Get(key)
}

// GetOrBuild returns the cached plan for key, building and storing it on a miss.
func (c *PlanCache) GetOrBuild(key uint64, build func() *binder.Plan) *binder.Plan {
	if p, ok := c.cache.Get(key); ok {
		return p
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.cache.Get(key); ok {
		return p
	}
	p := build()
	c.cache.Add(key, p)
	return p
}

func (c *PlanCache) Len() int {
	return c.cache.Len()
}

func (c *PlanCache) Purge() {
	c.cache.Purge()
}
