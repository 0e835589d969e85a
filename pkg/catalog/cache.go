package catalog

import (
	"context"
	"time"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "catalog:product:"

// CachedProductSource keeps product payloads in redis. Cache failures are
// logged and the wrapped source is used instead.
type CachedProductSource struct {
	Next   ProductSource
	TTL    time.Duration
	client *redis.Client
}

func NewCachedProductSource(next ProductSource, addr, password string, db int, ttl time.Duration) *CachedProductSource {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &CachedProductSource{Next: next, TTL: ttl, client: rdb}
}

func (c *CachedProductSource) FetchProduct(ctx context.Context, id string) (*ProductPayload, error) {
	key := productKeyPrefix + id
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		payload := &ProductPayload{}
		if err = jsoncompat.Unmarshal(data, payload); err == nil {
			return payload, nil
		}
		logging.Log.Warnf("dropping malformed cache entry %s: %v", key, err)
	} else if err != redis.Nil {
		logging.Log.Warnf("product cache read failed for %s: %v", id, err)
	}

	payload, err := c.Next.FetchProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := jsoncompat.Marshal(payload); err == nil {
		if err := c.client.Set(ctx, key, data, c.TTL).Err(); err != nil {
			logging.Log.Warnf("product cache write failed for %s: %v", id, err)
		}
	}
	return payload, nil
}

func (c *CachedProductSource) Close() error {
	return c.client.Close()
}
