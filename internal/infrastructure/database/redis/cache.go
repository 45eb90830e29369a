package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

var ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "cache serialization failed")

// Cache is a JSON value cache over the shared client. Lookups degrade
// gracefully: a Redis failure reads as a miss so callers fall through to the
// upstream source.
type Cache struct {
	client     *Client
	logger     logging.Logger
	defaultTTL time.Duration
}

// NewCache builds a cache with a default entry TTL.
func NewCache(client *Client, defaultTTL time.Duration, log logging.Logger) *Cache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Cache{client: client, logger: log, defaultTTL: defaultTTL}
}

// GetJSON loads key into dest. The boolean reports a hit; infrastructure
// errors are logged and reported as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("cache read failed", logging.String("key", key), logging.Err(err))
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		// A corrupt entry is dropped so it cannot poison later reads.
		c.logger.Warn("cache entry corrupt, evicting", logging.String("key", key), logging.Err(err))
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value under key with the default TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	return c.SetJSONWithTTL(ctx, key, value, c.defaultTTL)
}

// SetJSONWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetJSONWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache write failed")
	}
	return nil
}

// Delete removes keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}
