package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lokon/config"
)

// AvailabilityCache кеширует рассчитанное расписание мастеров в Redis.
// Кеш опционален: при пустом REDIS_ADDR сервисы работают напрямую с базой.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(ctx context.Context, cfg config.RedisConfig) (*AvailabilityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	return &AvailabilityCache{
		client: client,
		ttl:    cfg.CacheTTL,
	}, nil
}

func masterKey(masterID int64, suffix string) string {
	return fmt.Sprintf("availability:%d:%s", masterID, suffix)
}

// Get десериализует закешированное значение в dest. Возвращает false,
// если ключа нет или значение не читается.
func (c *AvailabilityCache) Get(ctx context.Context, masterID int64, suffix string, dest interface{}) bool {
	data, err := c.client.Get(ctx, masterKey(masterID, suffix)).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false
	}

	return true
}

func (c *AvailabilityCache) Set(ctx context.Context, masterID int64, suffix string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации значения кеша: %w", err)
	}

	if err := c.client.Set(ctx, masterKey(masterID, suffix), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи в кеш: %w", err)
	}

	return nil
}

// InvalidateMaster удаляет все закешированные интервалы мастера.
// Вызывается после создания или отмены записи и после правок расписания.
func (c *AvailabilityCache) InvalidateMaster(ctx context.Context, masterID int64) error {
	pattern := fmt.Sprintf("availability:%d:*", masterID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("ошибка удаления ключа кеша: %w", err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("ошибка обхода ключей кеша: %w", err)
	}

	return nil
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}
