package common

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"aviablog/internal/metrics"
)

// CacheService is the in-memory cache implementation, suitable for a
// single-instance deployment.
type CacheService struct {
	cache   *cache.Cache
	metrics *metrics.MetricsRegistry
	group   singleflight.Group
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

// NewCacheService creates the in-memory cache. metricsReg may be nil.
func NewCacheService(defaultExpirationSeconds, cleanUpIntervalSeconds int, metricsReg *metrics.MetricsRegistry) *CacheService {
	defaultExpiration := time.Duration(defaultExpirationSeconds) * time.Second
	cleanUpInterval := time.Duration(cleanUpIntervalSeconds) * time.Second
	c := cache.New(defaultExpiration, cleanUpInterval)
	return &CacheService{cache: c, metrics: metricsReg}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := cs.Get(key); found {
		if cs.metrics != nil {
			cs.metrics.CacheHitsTotal.WithLabelValues(cacheKeyPattern(key)).Inc()
		}
		return val, nil
	}
	if cs.metrics != nil {
		cs.metrics.CacheMissesTotal.WithLabelValues(cacheKeyPattern(key)).Inc()
	}

	val, err, _ := cs.group.Do(key, func() (interface{}, error) {
		if val, found := cs.Get(key); found {
			return val, nil
		}
		val, err := loader()
		if err != nil {
			return nil, err
		}
		cs.Set(key, val, duration)
		return val, nil
	})
	return val, err
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
