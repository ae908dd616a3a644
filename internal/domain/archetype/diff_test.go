package archetype_test

import (
	"testing"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDiff_Replacement(t *testing.T) {
	progression := []archetype.FeatureAssociation{
		{ID: "1", Level: 2, Name: "Bravery"},
	}
	parsed := &archetype.ParsedArchetype{
		Slug:  "two-handed-fighter",
		Name:  "Two-Handed Fighter",
		Class: "fighter",
		Features: []archetype.ParsedFeature{
			{
				Name:    "Shattering Strike",
				Level:   2,
				Type:    archetype.ChangeReplacement,
				Target:  "Bravery",
				Matched: &progression[0],
				Source:  archetype.SourceAutoParse,
			},
		},
	}

	diff := archetype.BuildDiff(progression, parsed)

	require.Len(t, diff, 2)
	assert.Equal(t, archetype.DiffRemoved, diff[0].Status)
	require.NotNil(t, diff[0].Original)
	assert.Equal(t, "1", diff[0].Original.ID)
	assert.Equal(t, archetype.DiffAdded, diff[1].Status)
	require.NotNil(t, diff[1].ArchetypeFeature)
	assert.Equal(t, "Shattering Strike", diff[1].ArchetypeFeature.Name)
	assert.Equal(t, 2, diff[1].Level)
}

func TestBuildDiff_ModificationKeepsSlot(t *testing.T) {
	progression := fighterProgression()
	parsed := &archetype.ParsedArchetype{
		Slug:  "weapon-master",
		Class: "fighter",
		Features: []archetype.ParsedFeature{
			{
				Name:    "Focused Training",
				Level:   5,
				Type:    archetype.ChangeModification,
				Target:  "Weapon Training",
				Matched: &progression[4],
				Source:  archetype.SourceAutoParse,
			},
		},
	}

	diff := archetype.BuildDiff(progression, parsed)

	require.Len(t, diff, 5)
	for i := 0; i < 4; i++ {
		assert.Equal(t, archetype.DiffUnchanged, diff[i].Status)
	}
	entry := diff[4]
	assert.Equal(t, archetype.DiffModified, entry.Status)
	require.NotNil(t, entry.Original)
	assert.Equal(t, "assoc-5", entry.Original.ID)
	require.NotNil(t, entry.ArchetypeFeature)
	assert.Equal(t, "Focused Training", entry.ArchetypeFeature.Name)
}

func TestBuildDiff_AdditiveAppended(t *testing.T) {
	progression := fighterProgression()
	parsed := &archetype.ParsedArchetype{
		Slug:  "tactician",
		Class: "fighter",
		Features: []archetype.ParsedFeature{
			{Name: "Tactical Awareness", Level: 1, Type: archetype.ChangeAdditive, Source: archetype.SourceAutoParse},
			{Name: "Battle Insight", Level: 9, Type: archetype.ChangeAdditive, Source: archetype.SourceAutoParse},
		},
	}

	diff := archetype.BuildDiff(progression, parsed)

	require.Len(t, diff, 7)
	assert.Equal(t, archetype.DiffAdded, diff[5].Status)
	assert.Equal(t, "Tactical Awareness", diff[5].Name)
	assert.Equal(t, archetype.DiffAdded, diff[6].Status)
	assert.Equal(t, "Battle Insight", diff[6].Name)
	assert.Nil(t, diff[5].Original)
}

func TestBuildDiff_ContestedSlotLoserStillAppears(t *testing.T) {
	progression := fighterProgression()
	parsed := &archetype.ParsedArchetype{
		Slug:  "bold-defender",
		Class: "fighter",
		Features: []archetype.ParsedFeature{
			{Name: "Stubborn Resolve", Level: 2, Type: archetype.ChangeReplacement, Target: "Bravery", Matched: &progression[0]},
			{Name: "Grim Resolve", Level: 2, Type: archetype.ChangeReplacement, Target: "Bravery", Matched: &progression[0]},
		},
	}

	diff := archetype.BuildDiff(progression, parsed)

	// The first feature takes the slot; the second is appended rather
	// than dropped from the change set.
	require.Len(t, diff, 7)
	assert.Equal(t, archetype.DiffRemoved, diff[0].Status)
	assert.Equal(t, "Bravery", diff[0].Name)
	assert.Equal(t, archetype.DiffAdded, diff[1].Status)
	assert.Equal(t, "Stubborn Resolve", diff[1].Name)
	assert.Equal(t, archetype.DiffAdded, diff[6].Status)
	assert.Equal(t, "Grim Resolve", diff[6].Name)
	assert.Nil(t, diff[6].Original)
}

func TestBuildDiff_Deterministic(t *testing.T) {
	progression := fighterProgression()
	parsed := &archetype.ParsedArchetype{
		Slug:  "two-handed-fighter",
		Class: "fighter",
		Features: []archetype.ParsedFeature{
			{Name: "Shattering Strike", Level: 2, Type: archetype.ChangeReplacement, Target: "Bravery", Matched: &progression[0]},
			{Name: "Overhand Chop", Level: 3, Type: archetype.ChangeAdditive},
		},
	}

	first := archetype.BuildDiff(progression, parsed)
	second := archetype.BuildDiff(progression, parsed)

	assert.Equal(t, first, second)
}

func TestBuildDiff_EmptyArchetypeLeavesEverythingUnchanged(t *testing.T) {
	progression := fighterProgression()

	diff := archetype.BuildDiff(progression, &archetype.ParsedArchetype{Slug: "empty"})

	require.Len(t, diff, len(progression))
	for i, entry := range diff {
		assert.Equal(t, archetype.DiffUnchanged, entry.Status)
		require.NotNil(t, entry.Original)
		assert.Equal(t, progression[i].ID, entry.Original.ID)
	}
}
