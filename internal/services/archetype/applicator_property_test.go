package archetype_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pathbinder/archetype-bot/internal/clients/archetypes"
	arch "github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/domain/character"
	"github.com/pathbinder/archetype-bot/internal/repositories/characters"
	"github.com/pathbinder/archetype-bot/internal/repositories/overrides"
	"github.com/pathbinder/archetype-bot/internal/repositories/state"
	archetypesvc "github.com/pathbinder/archetype-bot/internal/services/archetype"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// stubClient serves one fixed archetype, enough for property runs that
// do not exercise the content transport.
type stubClient struct {
	archetype *arch.RawArchetype
	features  []*arch.RawFeature
}

func (c *stubClient) ListArchetypes(_ context.Context, _ string) ([]*arch.RawArchetype, error) {
	return []*arch.RawArchetype{c.archetype}, nil
}

func (c *stubClient) GetArchetype(_ context.Context, _ string) (*arch.RawArchetype, error) {
	return c.archetype, nil
}

func (c *stubClient) ListFeatures(_ context.Context, _ string) ([]*arch.RawFeature, error) {
	return c.features, nil
}

var _ archetypes.Client = (*stubClient)(nil)

var baseFeatureNames = []string{
	"Bravery", "Armor Training", "Weapon Training", "Bonus Feat",
	"Weapon Mastery", "Tower Defense",
}

var archetypeFeatureNames = []string{
	"Shattering Strike", "Overhand Chop", "Steel Headbutt",
	"Burst Barrier", "Close Control",
}

// Applying an archetype and then removing it restores the progression
// exactly, whatever mix of replacements and additions it carried.
func TestApplyRemove_Inversion(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		progressionSize := rapid.IntRange(1, len(baseFeatureNames)).Draw(rt, "progressionSize")
		progression := make([]arch.FeatureAssociation, progressionSize)
		for i := range progression {
			progression[i] = arch.FeatureAssociation{
				ID:    fmt.Sprintf("assoc-%d", i+1),
				Level: rapid.IntRange(1, 12).Draw(rt, fmt.Sprintf("level-%d", i)),
				Name:  baseFeatureNames[i],
			}
		}

		featureCount := rapid.IntRange(1, len(archetypeFeatureNames)).Draw(rt, "featureCount")
		rawFeatures := make([]*arch.RawFeature, featureCount)
		for i := range rawFeatures {
			name := archetypeFeatureNames[i]
			level := rapid.IntRange(1, 12).Draw(rt, fmt.Sprintf("featLevel-%d", i))
			if rapid.Bool().Draw(rt, fmt.Sprintf("replaces-%d", i)) {
				target := rapid.SampledFrom(progression).Draw(rt, fmt.Sprintf("target-%d", i))
				rawFeatures[i] = &arch.RawFeature{
					Name:        name,
					Description: fmt.Sprintf("Level: %d. Replaces %s.", level, target.Name),
				}
			} else {
				rawFeatures[i] = &arch.RawFeature{
					Name:        name,
					Description: fmt.Sprintf("Level: %d. A new trick.", level),
				}
			}
		}

		characterRepo := characters.NewInMemoryRepository()
		require.NoError(rt, characterRepo.Create(context.Background(), &character.Character{
			ID:      "char-prop",
			OwnerID: "owner-prop",
			Name:    "Seelah",
			Classes: []*character.Class{{Tag: "fighter", Name: "Fighter", Level: 12, Features: progression}},
		}))
		stateRepo := state.NewInMemoryRepository()

		svc := archetypesvc.NewService(&archetypesvc.ServiceConfig{
			CharacterRepository: characterRepo,
			StateRepository:     stateRepo,
			OverrideRepository:  overrides.NewInMemoryRepository(),
			ContentClient: &stubClient{
				archetype: &arch.RawArchetype{Slug: "probe", Name: "Probe", Class: "fighter"},
				features:  rawFeatures,
			},
		})

		_, err := svc.ApplyArchetype(context.Background(), &archetypesvc.ApplyInput{
			CharacterID: "char-prop", UserID: "owner-prop", ClassTag: "fighter", Slug: "probe",
		})
		require.NoError(rt, err)

		require.NoError(rt, svc.RemoveArchetype(context.Background(), &archetypesvc.RemoveInput{
			CharacterID: "char-prop", UserID: "owner-prop", ClassTag: "fighter", Slug: "probe",
		}))

		char, err := characterRepo.Get(context.Background(), "char-prop")
		require.NoError(rt, err)
		require.Equal(rt, progression, char.Class("fighter").Features)

		st, err := stateRepo.GetClassState(context.Background(), "char-prop", "fighter")
		require.NoError(rt, err)
		require.Nil(rt, st)
	})
}
