package characters

import (
	"context"

	"github.com/pathbinder/archetype-bot/internal/domain/character"
)

// Repository is the progression source: it supplies a character's class
// feature progressions and persists full replacement lists.
type Repository interface {
	Create(ctx context.Context, char *character.Character) error
	Get(ctx context.Context, id string) (*character.Character, error)
	Update(ctx context.Context, char *character.Character) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)
}
