package archetype_test

import (
	"testing"
	"time"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func removedRecord(slug string, assoc archetype.FeatureAssociation) *archetype.AppliedArchetypeRecord {
	return &archetype.AppliedArchetypeRecord{
		Slug:      slug,
		AppliedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RemovedOriginals: []archetype.RemovedOriginal{
			{Association: assoc, Index: 0},
		},
	}
}

func TestCheckConflicts_SharedTarget(t *testing.T) {
	bravery := archetype.FeatureAssociation{ID: "1", Level: 2, Name: "Bravery"}
	diff := []archetype.DiffEntry{
		{Status: archetype.DiffRemoved, Level: 2, Name: "Bravery", Original: &bravery},
	}
	applied := map[string]*archetype.AppliedArchetypeRecord{
		"unbreakable": removedRecord("unbreakable", bravery),
	}

	conflicts := archetype.CheckConflicts(diff, applied)

	require.Len(t, conflicts, 1)
	assert.Equal(t, "Bravery", conflicts[0].TargetName)
	assert.Equal(t, []string{"unbreakable"}, conflicts[0].ConflictingSlugs)
}

func TestCheckConflicts_NoOverlap(t *testing.T) {
	bravery := archetype.FeatureAssociation{ID: "1", Level: 2, Name: "Bravery"}
	weaponTraining := archetype.FeatureAssociation{ID: "5", Level: 5, Name: "Weapon Training"}
	diff := []archetype.DiffEntry{
		{Status: archetype.DiffRemoved, Level: 2, Name: "Bravery", Original: &bravery},
	}
	applied := map[string]*archetype.AppliedArchetypeRecord{
		"weapon-master": removedRecord("weapon-master", weaponTraining),
	}

	assert.Empty(t, archetype.CheckConflicts(diff, applied))
}

func TestCheckConflicts_UnchangedAndAddedEntriesIgnored(t *testing.T) {
	bravery := archetype.FeatureAssociation{ID: "1", Level: 2, Name: "Bravery"}
	diff := []archetype.DiffEntry{
		{Status: archetype.DiffUnchanged, Level: 2, Name: "Bravery", Original: &bravery},
		{Status: archetype.DiffAdded, Level: 3, Name: "Overhand Chop"},
	}
	applied := map[string]*archetype.AppliedArchetypeRecord{
		"unbreakable": removedRecord("unbreakable", bravery),
	}

	assert.Empty(t, archetype.CheckConflicts(diff, applied))
}

func TestCheckConflicts_Symmetric(t *testing.T) {
	bravery := archetype.FeatureAssociation{ID: "1", Level: 2, Name: "Bravery"}

	diffA := []archetype.DiffEntry{
		{Status: archetype.DiffRemoved, Level: 2, Name: "Bravery", Original: &bravery},
	}
	diffB := []archetype.DiffEntry{
		{Status: archetype.DiffModified, Level: 2, Name: "Steadfast", Original: &bravery},
	}

	aAfterB := archetype.CheckConflicts(diffA, map[string]*archetype.AppliedArchetypeRecord{
		"b": removedRecord("b", bravery),
	})
	bAfterA := archetype.CheckConflicts(diffB, map[string]*archetype.AppliedArchetypeRecord{
		"a": removedRecord("a", bravery),
	})

	assert.Equal(t, len(aAfterB) > 0, len(bAfterA) > 0)
	require.NotEmpty(t, aAfterB)
	assert.Equal(t, "Bravery", aAfterB[0].TargetName)
}

func TestCheckConflicts_MultipleConflictingArchetypes(t *testing.T) {
	bravery := archetype.FeatureAssociation{ID: "1", Level: 2, Name: "Bravery"}
	diff := []archetype.DiffEntry{
		{Status: archetype.DiffRemoved, Level: 2, Name: "Bravery", Original: &bravery},
	}
	applied := map[string]*archetype.AppliedArchetypeRecord{
		"unbreakable": removedRecord("unbreakable", bravery),
		"cad":         removedRecord("cad", bravery),
	}

	conflicts := archetype.CheckConflicts(diff, applied)

	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"cad", "unbreakable"}, conflicts[0].ConflictingSlugs)
}
