package archetype_test

import (
	"context"
	"testing"

	mockarchetypes "github.com/pathbinder/archetype-bot/internal/clients/archetypes/mock"
	"github.com/pathbinder/archetype-bot/internal/errors"
	"github.com/pathbinder/archetype-bot/internal/repositories/characters"
	"github.com/pathbinder/archetype-bot/internal/repositories/overrides"
	"github.com/pathbinder/archetype-bot/internal/repositories/state"
	archetypesvc "github.com/pathbinder/archetype-bot/internal/services/archetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewService_PanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() {
		archetypesvc.NewService(&archetypesvc.ServiceConfig{})
	})
	assert.Panics(t, func() {
		archetypesvc.NewService(&archetypesvc.ServiceConfig{
			CharacterRepository: characters.NewInMemoryRepository(),
			StateRepository:     state.NewInMemoryRepository(),
			OverrideRepository:  overrides.NewInMemoryRepository(),
		})
	})
}

func newCuratedEnv(t *testing.T, curators []string) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &testEnv{
		characterRepo: characters.NewInMemoryRepository(),
		stateRepo:     state.NewInMemoryRepository(),
		overrideRepo:  overrides.NewInMemoryRepository(),
		client:        mockarchetypes.NewMockClient(ctrl),
		clock:         newFixedClock(),
	}
	env.svc = archetypesvc.NewService(&archetypesvc.ServiceConfig{
		CharacterRepository: env.characterRepo,
		StateRepository:     env.stateRepo,
		OverrideRepository:  env.overrideRepo,
		ContentClient:       env.client,
		Permissions:         archetypesvc.NewOwnerPermissionChecker(curators),
		UUIDGenerator:       &seqGenerator{},
		TimeProvider:        env.clock,
	})
	return env
}

func TestSubmitOverride_UserTierOpenToAll(t *testing.T) {
	env := newCuratedEnv(t, nil)

	err := env.svc.SubmitOverride(context.Background(), &archetypesvc.SubmitOverrideInput{
		UserID: "anyone",
		Tier:   overrides.TierUser,
		Slug:   "two-handed-fighter",
		Record: &overrides.Record{
			Class:    "fighter",
			Features: map[string]*overrides.FeatureFix{"shattering-strike": {Level: 2, Replaces: "Bravery"}},
		},
	})
	require.NoError(t, err)

	stored, err := env.overrideRepo.Get(context.Background(), overrides.TierUser, "two-handed-fighter")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Bravery", stored.Features["shattering-strike"].Replaces)
}

func TestSubmitOverride_CuratedTierGated(t *testing.T) {
	env := newCuratedEnv(t, []string{"curator-1"})
	record := &overrides.Record{
		Class:    "fighter",
		Features: map[string]*overrides.FeatureFix{"shattering-strike": {Level: 2, Replaces: "Bravery"}},
	}

	err := env.svc.SubmitOverride(context.Background(), &archetypesvc.SubmitOverrideInput{
		UserID: "anyone", Tier: overrides.TierCurated, Slug: "two-handed-fighter", Record: record,
	})
	assert.True(t, errors.IsPermissionDenied(err))

	stored, err := env.overrideRepo.Get(context.Background(), overrides.TierCurated, "two-handed-fighter")
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = env.svc.SubmitOverride(context.Background(), &archetypesvc.SubmitOverrideInput{
		UserID: "curator-1", Tier: overrides.TierCurated, Slug: "two-handed-fighter", Record: record,
	})
	require.NoError(t, err)

	stored, err = env.overrideRepo.Get(context.Background(), overrides.TierCurated, "two-handed-fighter")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestSubmitOverride_ValidatesInput(t *testing.T) {
	env := newCuratedEnv(t, nil)

	err := env.svc.SubmitOverride(context.Background(), &archetypesvc.SubmitOverrideInput{
		UserID: "anyone", Tier: overrides.TierUser, Slug: "two-handed-fighter",
	})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestReportMissing_CreatesStub(t *testing.T) {
	env := newCuratedEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.svc.ReportMissing(ctx, &archetypesvc.ReportMissingInput{
		UserID: "anyone", Slug: "two-handed-fighter", Class: "fighter", FeatureName: "Shattering Strike",
	}))

	stored, err := env.overrideRepo.Get(ctx, overrides.TierReported, "two-handed-fighter")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "fighter", stored.Class)
	assert.Contains(t, stored.Features, "shattering-strike")
}

func TestReportMissing_KeepsExistingStub(t *testing.T) {
	env := newCuratedEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.overrideRepo.Set(ctx, overrides.TierReported, "two-handed-fighter", &overrides.Record{
		Class: "fighter",
		Features: map[string]*overrides.FeatureFix{
			"shattering-strike": {Level: 2, Replaces: "Bravery"},
		},
	}))

	require.NoError(t, env.svc.ReportMissing(ctx, &archetypesvc.ReportMissingInput{
		UserID: "anyone", Slug: "two-handed-fighter", Class: "fighter", FeatureName: "Shattering Strike",
	}))

	stored, err := env.overrideRepo.Get(ctx, overrides.TierReported, "two-handed-fighter")
	require.NoError(t, err)
	require.NotNil(t, stored)
	// A second report never clobbers a fix already drafted on the tier.
	assert.Equal(t, "Bravery", stored.Features["shattering-strike"].Replaces)
}
