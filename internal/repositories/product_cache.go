package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmstore/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const productListCacheKey = "products:all"

// CachedProductRepository puts a redis read-through cache in front of another
// ProductRepository. Redis failures are logged and the inner repository is used.
type CachedProductRepository struct {
	ProductRepository
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

var _ ProductRepository = (*CachedProductRepository)(nil)

func NewCachedProductRepository(inner ProductRepository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		ProductRepository: inner,
		rdb:               rdb,
		ttl:               ttl,
		log:               log,
	}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if r.load(ctx, productListCacheKey, &cached) {
		return cached, nil
	}

	products, err := r.ProductRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, productListCacheKey, products)
	return products, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var cached models.Product
	if r.load(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, productCacheKey(id), product)
	return product, nil
}

func (r *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

func (r *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Update(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id uint) error {
	if err := r.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProductRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		r.log.Warn("product cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *CachedProductRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.log.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedProductRepository) invalidate(ctx context.Context, id uint) {
	if err := r.rdb.Del(ctx, productCacheKey(id), productListCacheKey).Err(); err != nil {
		r.log.Warn("product cache invalidation failed", zap.Uint("product_id", id), zap.Error(err))
	}
}
