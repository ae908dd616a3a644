package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
)

// inMemoryRepository stores serialized state per key, giving callers
// copies just like the Redis implementation.
type inMemoryRepository struct {
	mu      sync.RWMutex
	states  map[string][]byte // actorID:classTag -> state JSON
	indexes map[string][]byte // actorID -> index JSON
}

// NewInMemoryRepository creates an in-memory state repository for tests
// and local development.
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		states:  make(map[string][]byte),
		indexes: make(map[string][]byte),
	}
}

func stateKey(actorID, classTag string) string {
	return actorID + ":" + classTag
}

func (r *inMemoryRepository) GetClassState(_ context.Context, actorID, classTag string) (*archetype.ClassArchetypeState, error) {
	r.mu.RLock()
	data, ok := r.states[stateKey(actorID, classTag)]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	var st archetype.ClassArchetypeState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal class archetype state: %w", err)
	}
	return &st, nil
}

func (r *inMemoryRepository) SetClassState(_ context.Context, actorID, classTag string, st *archetype.ClassArchetypeState) error {
	if st == nil {
		return fmt.Errorf("state cannot be nil")
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal class archetype state: %w", err)
	}

	r.mu.Lock()
	r.states[stateKey(actorID, classTag)] = data
	r.mu.Unlock()
	return nil
}

func (r *inMemoryRepository) UnsetClassState(_ context.Context, actorID, classTag string) error {
	r.mu.Lock()
	delete(r.states, stateKey(actorID, classTag))
	r.mu.Unlock()
	return nil
}

func (r *inMemoryRepository) ListClassStates(ctx context.Context, actorID string) (map[string]*archetype.ClassArchetypeState, error) {
	r.mu.RLock()
	var tags []string
	prefix := actorID + ":"
	for key := range r.states {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			tags = append(tags, key[len(prefix):])
		}
	}
	r.mu.RUnlock()

	states := make(map[string]*archetype.ClassArchetypeState, len(tags))
	for _, tag := range tags {
		st, err := r.GetClassState(ctx, actorID, tag)
		if err != nil {
			return nil, err
		}
		if st != nil {
			states[tag] = st
		}
	}
	return states, nil
}

func (r *inMemoryRepository) GetActorIndex(_ context.Context, actorID string) (archetype.ActorArchetypeIndex, error) {
	r.mu.RLock()
	data, ok := r.indexes[actorID]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	var index archetype.ActorArchetypeIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actor archetype index: %w", err)
	}
	return index, nil
}

func (r *inMemoryRepository) SetActorIndex(_ context.Context, actorID string, index archetype.ActorArchetypeIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal actor archetype index: %w", err)
	}

	r.mu.Lock()
	r.indexes[actorID] = data
	r.mu.Unlock()
	return nil
}

func (r *inMemoryRepository) UnsetActorIndex(_ context.Context, actorID string) error {
	r.mu.Lock()
	delete(r.indexes, actorID)
	r.mu.Unlock()
	return nil
}
