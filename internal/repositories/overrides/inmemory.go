package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// inMemoryRepository stores serialized records per tier, mirroring the
// Redis implementation's corrupt-record behavior.
type inMemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewInMemoryRepository creates an in-memory override repository for tests
// and local development.
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		records: make(map[string][]byte),
	}
}

func (r *inMemoryRepository) Get(_ context.Context, tier Tier, slug string) (*Record, error) {
	r.mu.RLock()
	data, ok := r.records[fixKey(tier, slug)]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, nil
	}
	return &record, nil
}

func (r *inMemoryRepository) Set(_ context.Context, tier Tier, slug string, record *Record) error {
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

	r.mu.Lock()
	r.records[fixKey(tier, slug)] = data
	r.mu.Unlock()
	return nil
}

func (r *inMemoryRepository) Delete(_ context.Context, tier Tier, slug string) error {
	r.mu.Lock()
	delete(r.records, fixKey(tier, slug))
	r.mu.Unlock()
	return nil
}
