package registry

import (
	"context"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// CachedClient decorates a registry client with a Redis-backed reply cache.
// Only positive results are cached: a not-found reply may be a transient
// registry outage and must stay retryable.
type CachedClient struct {
	inner  Client
	cache  *redis.Cache
	keys   *redis.Client
	logger logging.Logger
}

// NewCachedClient wraps inner with the shared cache.
func NewCachedClient(inner Client, cache *redis.Cache, keys *redis.Client, logger logging.Logger) *CachedClient {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedClient{inner: inner, cache: cache, keys: keys, logger: logger}
}

func (c *CachedClient) Source() chem.Source {
	return c.inner.Source()
}

func (c *CachedClient) Lookup(ctx context.Context, cas chem.CASNumber) Result {
	cas = cas.Normalize()
	key := c.keys.Key("registry", string(c.inner.Source()), string(cas))

	var cached Result
	if c.cache.GetJSON(ctx, key, &cached) {
		return cached
	}

	result := c.inner.Lookup(ctx, cas)
	if result.Found {
		if err := c.cache.SetJSON(ctx, key, result); err != nil {
			c.logger.Warn("registry cache write failed",
				logging.String("cas", string(cas)),
				logging.Err(err))
		}
	}
	return result
}
