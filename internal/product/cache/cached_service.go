package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agroflowhq/agroflow/internal/product/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const productTTL = time.Minute

// CachedService caches product reads in redis. Writes invalidate, everything
// else is best-effort: a cache failure falls through to the database. Stock
// decrements from sale posting are covered by the short TTL rather than
// per-sale invalidation.
type CachedService struct {
	next domain.Service
	rdb  *redis.Client
	log  *zap.Logger
}

// Wrap decorates the product service with a redis cache when redis is
// configured, otherwise returns the service unchanged.
func Wrap(next domain.Service, rdb *redis.Client, log *zap.Logger) domain.Service {
	if rdb == nil {
		return next
	}
	return &CachedService{
		next: next,
		rdb:  rdb,
		log:  log.Named("product.cache"),
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *CachedService) GetByID(ctx context.Context, id string) (domain.Product, error) {
	key := productKey(id)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var product domain.Product
		if unmarshalErr := json.Unmarshal(data, &product); unmarshalErr == nil {
			return product, nil
		}
		c.log.Warn("unreadable cached product, falling back to db", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("redis read failed, falling back to db", zap.Error(err))
	}

	product, err := c.next.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if payload, marshalErr := json.Marshal(product); marshalErr == nil {
		if setErr := c.rdb.Set(ctx, key, payload, productTTL).Err(); setErr != nil {
			c.log.Warn("failed to cache product", zap.Error(setErr))
		}
	}

	return product, nil
}

func (c *CachedService) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	return c.next.Create(ctx, req)
}

func (c *CachedService) Update(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	product, err := c.next.Update(ctx, req)
	if err != nil {
		return domain.Product{}, err
	}
	if delErr := c.rdb.Del(ctx, productKey(product.ID.String())).Err(); delErr != nil {
		c.log.Warn("failed to invalidate product cache", zap.Error(delErr))
	}
	return product, nil
}

func (c *CachedService) List(ctx context.Context, req domain.ListProductRequest) (domain.ListProductResponse, error) {
	return c.next.List(ctx, req)
}

func (c *CachedService) LowStock(ctx context.Context) ([]domain.Product, error) {
	return c.next.LowStock(ctx)
}
