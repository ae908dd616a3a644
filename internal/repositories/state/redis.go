package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	classStateKey   = "archetype:state:%s:%s" // actor, class tag
	actorClassesKey = "archetype:classes:%s"  // actor -> set of class tags with state
	actorIndexKey   = "archetype:index:%s"    // actor
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed state repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

func (r *redisRepository) GetClassState(ctx context.Context, actorID, classTag string) (*archetype.ClassArchetypeState, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(classStateKey, actorID, classTag)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get class archetype state: %w", err)
	}

	var st archetype.ClassArchetypeState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal class archetype state: %w", err)
	}
	return &st, nil
}

func (r *redisRepository) SetClassState(ctx context.Context, actorID, classTag string, st *archetype.ClassArchetypeState) error {
	if st == nil {
		return fmt.Errorf("state cannot be nil")
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal class archetype state: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(classStateKey, actorID, classTag), data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(actorClassesKey, actorID), classTag)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set class archetype state: %w", err)
	}
	return nil
}

func (r *redisRepository) UnsetClassState(ctx context.Context, actorID, classTag string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(classStateKey, actorID, classTag))
	pipe.SRem(ctx, fmt.Sprintf(actorClassesKey, actorID), classTag)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to unset class archetype state: %w", err)
	}
	return nil
}

// ListClassStates fans out over the actor's class tags. Tags whose state
// key has meanwhile disappeared are skipped.
func (r *redisRepository) ListClassStates(ctx context.Context, actorID string) (map[string]*archetype.ClassArchetypeState, error) {
	tags, err := r.client.SMembers(ctx, fmt.Sprintf(actorClassesKey, actorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor class tags: %w", err)
	}

	var mu sync.Mutex
	states := make(map[string]*archetype.ClassArchetypeState, len(tags))

	g, ctx := errgroup.WithContext(ctx)
	for _, tag := range tags {
		g.Go(func() error {
			st, err := r.GetClassState(ctx, actorID, tag)
			if err != nil {
				return err
			}
			if st == nil {
				return nil
			}
			mu.Lock()
			states[tag] = st
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return states, nil
}

func (r *redisRepository) GetActorIndex(ctx context.Context, actorID string) (archetype.ActorArchetypeIndex, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(actorIndexKey, actorID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get actor archetype index: %w", err)
	}

	var index archetype.ActorArchetypeIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actor archetype index: %w", err)
	}
	return index, nil
}

func (r *redisRepository) SetActorIndex(ctx context.Context, actorID string, index archetype.ActorArchetypeIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal actor archetype index: %w", err)
	}

	if err := r.client.Set(ctx, fmt.Sprintf(actorIndexKey, actorID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set actor archetype index: %w", err)
	}
	return nil
}

func (r *redisRepository) UnsetActorIndex(ctx context.Context, actorID string) error {
	if err := r.client.Del(ctx, fmt.Sprintf(actorIndexKey, actorID)).Err(); err != nil {
		return fmt.Errorf("failed to unset actor archetype index: %w", err)
	}
	return nil
}
