package state

import (
	"context"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
)

// Repository persists per-class archetype tracking state and the
// denormalized per-actor index. It is the typed face of the host's
// key-value tag storage: absent keys read as nil, unset removes the key
// entirely.
type Repository interface {
	// GetClassState returns the tracking state for one class on one
	// actor, or (nil, nil) when none is stored.
	GetClassState(ctx context.Context, actorID, classTag string) (*archetype.ClassArchetypeState, error)
	SetClassState(ctx context.Context, actorID, classTag string, st *archetype.ClassArchetypeState) error
	UnsetClassState(ctx context.Context, actorID, classTag string) error

	// ListClassStates returns every stored class state for an actor,
	// keyed by class tag.
	ListClassStates(ctx context.Context, actorID string) (map[string]*archetype.ClassArchetypeState, error)

	// GetActorIndex returns the actor's class-to-slugs summary, or
	// (nil, nil) when none is stored.
	GetActorIndex(ctx context.Context, actorID string) (archetype.ActorArchetypeIndex, error)
	SetActorIndex(ctx context.Context, actorID string, index archetype.ActorArchetypeIndex) error
	UnsetActorIndex(ctx context.Context, actorID string) error
}
