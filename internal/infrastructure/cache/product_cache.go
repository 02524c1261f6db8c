package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
)

const productKeyPrefix = "pos:product:"

// ProductCache is a read-through cache for product lookups on the sale
// screen. Misses and Redis failures both fall through to the database; a
// broken cache never breaks a sale.
type ProductCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductCache creates a product cache with the given entry TTL
func NewProductCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl, logger: logger}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("%s%s", productKeyPrefix, id)
}

// Get returns the cached product, or nil on a miss
func (c *ProductCache) Get(ctx context.Context, id uuid.UUID) *entity.Product {
	if c == nil || c.rdb == nil {
		return nil
	}

	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
		}
		return nil
	}

	var product entity.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("product cache entry corrupt", zap.String("product_id", id.String()), zap.Error(err))
		return nil
	}
	return &product
}

// Set stores the product; failures are logged and swallowed
func (c *ProductCache) Set(ctx context.Context, product *entity.Product) {
	if c == nil || c.rdb == nil || product == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

// Invalidate drops the cached entries for the given products. Called after
// any mutation that changes price or stock.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}
