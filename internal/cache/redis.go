package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dynamisinc/cobra-poc-sub007/config"
	"github.com/dynamisinc/cobra-poc-sub007/internal/checklist"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// CacheClient defines the interface for cache operations
type CacheClient interface {
	// Grouped section caching per event
	GetEventSections(ctx context.Context, eventID string) ([]checklist.Section, error)
	SetEventSections(ctx context.Context, eventID string, sections []checklist.Section) error
	InvalidateEventSections(ctx context.Context, eventID string) error

	// Current operational period caching per event
	GetCurrentPeriod(ctx context.Context, eventID string) (*model.OperationalPeriod, error)
	SetCurrentPeriod(ctx context.Context, eventID string, period *model.OperationalPeriod) error
	InvalidateCurrentPeriod(ctx context.Context, eventID string) error

	// Clear all cache
	FlushAll(ctx context.Context) error
	Close() error
}

// RedisClient implements CacheClient using Redis
type RedisClient struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig) (CacheClient, error) {
	if !cfg.Enabled {
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = time.Minute
	}

	return &RedisClient{
		client:  client,
		enabled: true,
		ttl:     ttl,
	}, nil
}

// Prefix keys to avoid collisions
func eventSectionsKey(eventID string) string {
	return fmt.Sprintf("event_sections:%s", eventID)
}

func currentPeriodKey(eventID string) string {
	return fmt.Sprintf("current_period:%s", eventID)
}

// GetEventSections retrieves an event's grouped sections from cache
func (c *RedisClient) GetEventSections(ctx context.Context, eventID string) ([]checklist.Section, error) {
	if !c.enabled {
		return nil, redis.Nil
	}

	data, err := c.client.Get(ctx, eventSectionsKey(eventID)).Bytes()
	if err != nil {
		return nil, err
	}

	var sections []checklist.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, err
	}

	return sections, nil
}

// SetEventSections caches an event's grouped sections
func (c *RedisClient) SetEventSections(ctx context.Context, eventID string, sections []checklist.Section) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(sections)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, eventSectionsKey(eventID), data, c.ttl).Err()
}

// InvalidateEventSections removes an event's cached sections
func (c *RedisClient) InvalidateEventSections(ctx context.Context, eventID string) error {
	if !c.enabled {
		return nil
	}
	return c.client.Del(ctx, eventSectionsKey(eventID)).Err()
}

// GetCurrentPeriod retrieves an event's current period from cache
func (c *RedisClient) GetCurrentPeriod(ctx context.Context, eventID string) (*model.OperationalPeriod, error) {
	if !c.enabled {
		return nil, redis.Nil
	}

	data, err := c.client.Get(ctx, currentPeriodKey(eventID)).Bytes()
	if err != nil {
		return nil, err
	}

	var period model.OperationalPeriod
	if err := json.Unmarshal(data, &period); err != nil {
		return nil, err
	}

	return &period, nil
}

// SetCurrentPeriod caches an event's current period
func (c *RedisClient) SetCurrentPeriod(ctx context.Context, eventID string, period *model.OperationalPeriod) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(period)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, currentPeriodKey(eventID), data, c.ttl).Err()
}

// InvalidateCurrentPeriod removes an event's cached current period
func (c *RedisClient) InvalidateCurrentPeriod(ctx context.Context, eventID string) error {
	if !c.enabled {
		return nil
	}
	return c.client.Del(ctx, currentPeriodKey(eventID)).Err()
}

// FlushAll clears the entire cache
func (c *RedisClient) FlushAll(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.client.FlushAll(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}
