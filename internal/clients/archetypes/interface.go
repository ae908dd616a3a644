package archetypes

//go:generate mockgen -destination=mock/mock_client.go -package=mockarchetypes -source=interface.go

import (
	"context"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
)

// Client is the archetype content source. Implementations may fail for
// availability reasons; callers are expected to tolerate empty results
// and keep running in override-only mode.
type Client interface {
	// ListArchetypes returns the raw archetype records for a class.
	ListArchetypes(ctx context.Context, class string) ([]*archetype.RawArchetype, error)

	// GetArchetype returns one raw archetype record by slug.
	GetArchetype(ctx context.Context, slug string) (*archetype.RawArchetype, error)

	// ListFeatures returns the raw feature records scoped to an archetype.
	ListFeatures(ctx context.Context, slug string) ([]*archetype.RawFeature, error)
}
