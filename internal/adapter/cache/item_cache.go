package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

const itemsKey = "rental:items"

// ItemCache holds the item list for display-name lookups only.
type ItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewItemCache(client *redis.Client, ttl time.Duration) *ItemCache {
	return &ItemCache{client: client, ttl: ttl}
}

func (c *ItemCache) GetItems(ctx context.Context) ([]domain.Item, bool, error) {
	data, err := c.client.Get(ctx, itemsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}

	return items, true, nil
}

func (c *ItemCache) SetItems(ctx context.Context, items []domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, itemsKey, data, c.ttl).Err()
}

func (c *ItemCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, itemsKey).Err()
}

type NoopItemCache struct{}

func (NoopItemCache) GetItems(context.Context) ([]domain.Item, bool, error) { return nil, false, nil }
func (NoopItemCache) SetItems(context.Context, []domain.Item) error         { return nil }
func (NoopItemCache) Invalidate(context.Context) error                      { return nil }
