package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/cfg"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/redis/converter"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/clients"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// productsKey — ключ, под которым кэшируется весь список товаров.
const productsKey = "products:all"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductInfoConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает закэшированный список товаров.
// Промах кэша возвращается как (nil, nil).
func (c *CacheRepo) GetProducts(ctx context.Context) ([]usecase.ProductInfo, error) {
	data, err := c.client.Client.Get(ctx, productsKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductInfoRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed, dropping key: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(context.Background(), productsKey).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // cache miss
	}

	return c.conv.ToArrUseCase(models), nil
}

// SetProducts кэширует список товаров с заданным TTL.
// Ошибки сериализации/записи логируются и не считаются фатальными.
func (c *CacheRepo) SetProducts(ctx context.Context, products []usecase.ProductInfo) error {
	models := c.conv.ToArrRedisModel(products)

	data, err := json.Marshal(models)
	if err != nil {
		c.logger.Warnf("Failed to marshal products for caching: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	if err := c.client.Client.Set(ctx, productsKey, data, c.cfg.ProductsTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteProducts сбрасывает закэшированный список товаров.
func (c *CacheRepo) DeleteProducts(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, productsKey).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}
