package testutils

import (
	"fmt"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/domain/character"
)

// CreateTestFighterClass creates a fighter with the standard progression
// used across the repository tests.
func CreateTestFighterClass(level int) *character.Class {
	return &character.Class{
		Tag:   "fighter",
		Name:  "Fighter",
		Level: level,
		Features: []archetype.FeatureAssociation{
			{ID: "assoc-1", Level: 2, Name: "Bravery"},
			{ID: "assoc-2", Level: 3, Name: "Armor Training"},
			{ID: "assoc-3", Level: 7, Name: "Armor Training"},
			{ID: "assoc-4", Level: 5, Name: "Weapon Training"},
		},
	}
}

// CreateTestCharacter creates a single-class fighter character
func CreateTestCharacter(id, ownerID, realmID, name string) *character.Character {
	return &character.Character{
		ID:      id,
		OwnerID: ownerID,
		RealmID: realmID,
		Name:    name,
		Classes: []*character.Class{CreateTestFighterClass(7)},
	}
}

// CreateTestProgression builds n sequential features named by prefix
func CreateTestProgression(prefix string, n int) []archetype.FeatureAssociation {
	features := make([]archetype.FeatureAssociation, n)
	for i := range features {
		features[i] = archetype.FeatureAssociation{
			ID:    fmt.Sprintf("%s-%d", prefix, i+1),
			Level: i + 1,
			Name:  fmt.Sprintf("%s Feature %d", prefix, i+1),
		}
	}
	return features
}

// CreateTestRawArchetype creates a raw archetype record for one class
func CreateTestRawArchetype(slug, name, class string) *archetype.RawArchetype {
	return &archetype.RawArchetype{
		Slug:  slug,
		Name:  name,
		Class: class,
	}
}

// CreateTestReplacementFeature creates a raw feature whose description
// classifies as a replacement of target at level
func CreateTestReplacementFeature(name, target string, level int) *archetype.RawFeature {
	return &archetype.RawFeature{
		Name:        name,
		Description: fmt.Sprintf("Level: %d. Replaces %s.", level, target),
	}
}

// CreateTestAdditiveFeature creates a raw feature whose description
// classifies as additive at level
func CreateTestAdditiveFeature(name string, level int) *archetype.RawFeature {
	return &archetype.RawFeature{
		Name:        name,
		Description: fmt.Sprintf("Level: %d. %s grants a new option.", level, name),
	}
}
