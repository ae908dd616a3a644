package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const fixKeyPrefix = "archetype:fix:"

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed override repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

func fixKey(tier Tier, slug string) string {
	return fmt.Sprintf("%s%s:%s", fixKeyPrefix, tier, slug)
}

// Get retrieves the override record for an archetype slug in one tier.
// A missing or corrupt record yields (nil, nil).
func (r *redisRepository) Get(ctx context.Context, tier Tier, slug string) (*Record, error) {
	data, err := r.client.Get(ctx, fixKey(tier, slug)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get override record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		// Corrupt records are treated as tier-absent.
		log.Printf("discarding corrupt override record %s/%s: %v", tier, slug, err)
		return nil, nil
	}

	return &record, nil
}

// Set stores the override record for an archetype slug in one tier.
func (r *redisRepository) Set(ctx context.Context, tier Tier, slug string, record *Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal override record: %w", err)
	}

	if err := r.client.Set(ctx, fixKey(tier, slug), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set override record: %w", err)
	}

	return nil
}

// Delete removes the override record for an archetype slug in one tier.
func (r *redisRepository) Delete(ctx context.Context, tier Tier, slug string) error {
	if err := r.client.Del(ctx, fixKey(tier, slug)).Err(); err != nil {
		return fmt.Errorf("failed to delete override record: %w", err)
	}
	return nil
}
