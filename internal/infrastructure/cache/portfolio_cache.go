// Package cache кэш портфолио в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
)

// PortfolioCache хранит JSON списков портфолио по ключу фильтра.
type PortfolioCache struct {
	client *redis.Client
}

// NewPortfolioCache подключается по REDIS_URL и проверяет соединение.
func NewPortfolioCache(redisURL string) (*PortfolioCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &PortfolioCache{client: client}, nil
}

func NewPortfolioCacheWithClient(client *redis.Client) *PortfolioCache {
	return &PortfolioCache{client: client}
}

// GetList возвращает (nil, false, nil) при промахе.
func (c *PortfolioCache) GetList(ctx context.Context, key string) ([]*entity.PortfolioItem, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var items []*entity.PortfolioItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// битая запись: считаем промахом и удаляем
		_ = c.client.Del(ctx, key).Err()
		return nil, false, nil
	}
	return items, true, nil
}

func (c *PortfolioCache) SetList(ctx context.Context, key string, items []*entity.PortfolioItem, ttl time.Duration) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *PortfolioCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *PortfolioCache) Close() error {
	return c.client.Close()
}
