package characters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pathbinder/archetype-bot/internal/domain/character"
	"github.com/pathbinder/archetype-bot/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	characterKeyPrefix = "character:"
	ownerCharactersKey = "owner:%s:characters"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

// Create stores a new character
func (r *redisRepository) Create(ctx context.Context, char *character.Character) error {
	if char == nil {
		return fmt.Errorf("character cannot be nil")
	}
	if char.ID == "" {
		return fmt.Errorf("character ID cannot be empty")
	}

	data, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	key := characterKeyPrefix + char.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return errors.AlreadyExistsf("character %s already exists", char.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(ownerCharactersKey, char.OwnerID), char.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	data, err := r.client.Get(ctx, characterKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character %s not found", id)
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var char character.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}

	return &char, nil
}

// Update overwrites an existing character, including its full feature
// progressions, in a single write.
func (r *redisRepository) Update(ctx context.Context, char *character.Character) error {
	if char == nil {
		return fmt.Errorf("character cannot be nil")
	}
	if char.ID == "" {
		return fmt.Errorf("character ID cannot be empty")
	}

	key := characterKeyPrefix + char.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists == 0 {
		return errors.NotFoundf("character %s not found", char.ID)
	}

	data, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	return nil
}

// Delete removes a character and its owner index entry
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+id)
	pipe.SRem(ctx, fmt.Sprintf(ownerCharactersKey, char.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}

// ListByOwner retrieves all characters belonging to an owner
func (r *redisRepository) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	ids, err := r.client.SMembers(ctx, fmt.Sprintf(ownerCharactersKey, ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get owner characters: %w", err)
	}

	chars := make([]*character.Character, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			char, err := r.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			chars[i] = char
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return chars, nil
}
