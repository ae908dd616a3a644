package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pathbinder/archetype-bot/internal/domain/character"
	"github.com/pathbinder/archetype-bot/internal/errors"
)

// inMemoryRepository stores characters as JSON blobs so callers get
// copies, matching the Redis implementation's semantics.
type inMemoryRepository struct {
	mu    sync.RWMutex
	chars map[string][]byte
}

// NewInMemoryRepository creates an in-memory character repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		chars: make(map[string][]byte),
	}
}

func (r *inMemoryRepository) Create(_ context.Context, char *character.Character) error {
	if char == nil {
		return fmt.Errorf("character cannot be nil")
	}
	if char.ID == "" {
		return fmt.Errorf("character ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chars[char.ID]; exists {
		return errors.AlreadyExistsf("character %s already exists", char.ID)
	}

	data, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}
	r.chars[char.ID] = data
	return nil
}

func (r *inMemoryRepository) Get(_ context.Context, id string) (*character.Character, error) {
	r.mu.RLock()
	data, exists := r.chars[id]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NotFoundf("character %s not found", id)
	}

	var char character.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	return &char, nil
}

func (r *inMemoryRepository) Update(_ context.Context, char *character.Character) error {
	if char == nil {
		return fmt.Errorf("character cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chars[char.ID]; !exists {
		return errors.NotFoundf("character %s not found", char.ID)
	}

	data, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}
	r.chars[char.ID] = data
	return nil
}

func (r *inMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chars[id]; !exists {
		return errors.NotFoundf("character %s not found", id)
	}
	delete(r.chars, id)
	return nil
}

func (r *inMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.chars))
	for id := range r.chars {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	var result []*character.Character
	for _, id := range ids {
		char, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		if char.OwnerID == ownerID {
			result = append(result, char)
		}
	}
	return result, nil
}
