package archetype

import (
	"testing"

	arch "github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/errors"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPreviewEmbed_RendersDiff(t *testing.T) {
	bravery := arch.FeatureAssociation{ID: "assoc-1", Level: 2, Name: "Bravery"}
	preview := &archetypeService.Preview{
		Archetype: &arch.ParsedArchetype{Slug: "two-handed-fighter", Name: "Two-Handed Fighter", Class: "fighter"},
		Diff: []arch.DiffEntry{
			{Status: arch.DiffRemoved, Level: 2, Name: "Bravery", Original: &bravery},
			{Status: arch.DiffAdded, Level: 2, Name: "Shattering Strike"},
			{Status: arch.DiffUnchanged, Level: 3, Name: "Armor Training"},
		},
	}

	embed := BuildPreviewEmbed(preview)

	assert.Contains(t, embed.Title, "Two-Handed Fighter")
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Value, "~~Bravery~~")
	assert.Contains(t, embed.Fields[0].Value, "**Shattering Strike**")
	assert.NotContains(t, embed.Fields[0].Value, "Armor Training")
}

func TestBuildPreviewEmbed_ShowsConflictsAndUnresolved(t *testing.T) {
	preview := &archetypeService.Preview{
		Archetype: &arch.ParsedArchetype{Slug: "tower-shield-specialist", Name: "Tower Shield Specialist"},
		Conflicts: []arch.Conflict{
			{TargetName: "Armor Training", ConflictingSlugs: []string{"armored-defender"}},
		},
		Unresolved: []string{"Burst Barrier"},
	}

	embed := BuildPreviewEmbed(preview)

	require.Len(t, embed.Fields, 3)
	assert.Contains(t, embed.Fields[1].Value, "Armor Training")
	assert.Contains(t, embed.Fields[1].Value, "armored-defender")
	assert.Contains(t, embed.Fields[2].Value, "Burst Barrier")
	require.NotNil(t, embed.Footer)
}

func TestApplyErrorMessage(t *testing.T) {
	conflictErr := errors.Conflictf("contended")
	assert.Contains(t, applyErrorMessage(conflictErr, "brawler"), "force")

	needsInput := errors.InvalidArgumentf("needs input").
		WithMeta("features", []string{"Burst Barrier"})
	assert.Contains(t, applyErrorMessage(needsInput, "brawler"), "Burst Barrier")

	assert.Contains(t, applyErrorMessage(errors.AlreadyExistsf("dup"), "brawler"), "already applied")
	assert.Contains(t, applyErrorMessage(errors.PermissionDenied("no"), "brawler"), "permission")
	assert.Contains(t, applyErrorMessage(errors.Unavailable("busy"), "brawler"), "in progress")
}

func TestRemoveErrorMessage(t *testing.T) {
	assert.Contains(t, removeErrorMessage(errors.NotFoundf("missing"), "brawler"), "not applied")
	assert.Contains(t, removeErrorMessage(errors.Unavailable("busy"), "brawler"), "in progress")
}
