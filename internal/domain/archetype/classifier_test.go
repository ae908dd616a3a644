package archetype_test

import (
	"testing"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Replacement(t *testing.T) {
	c := archetype.Classify("Level: 2. Replaces Bravery.")

	assert.Equal(t, archetype.ChangeReplacement, c.Type)
	assert.Equal(t, "Bravery", c.Target)
	assert.Equal(t, 2, c.Level)
}

func TestClassify_ReplacementCaseInsensitiveAndTrimmed(t *testing.T) {
	c := archetype.Classify("level: 7. REPLACES   armor training  .")

	assert.Equal(t, archetype.ChangeReplacement, c.Type)
	assert.Equal(t, "armor training", c.Target)
	assert.Equal(t, 7, c.Level)
}

func TestClassify_ReplacementRequiresTrailingPeriod(t *testing.T) {
	c := archetype.Classify("Level: 2. Replaces Bravery")

	// Without the period the replacement pattern does not fire; the level
	// marker still makes it additive.
	assert.Equal(t, archetype.ChangeAdditive, c.Type)
	assert.Empty(t, c.Target)
}

func TestClassify_ModificationVariants(t *testing.T) {
	for _, desc := range []string{
		"Level: 5. Modifies Weapon Training.",
		"Level: 5. Modify Weapon Training.",
		"Level: 5. Modifying Weapon Training.",
		"Level: 5. Modifies Weapon Training the class feature.",
		"Level: 5. Modifies Weapon Training the class ability.",
		"Level: 5. Modifies Weapon Training class feature.",
		"Level: 5. Modifies Weapon Training class ability.",
	} {
		c := archetype.Classify(desc)
		assert.Equal(t, archetype.ChangeModification, c.Type, desc)
		assert.Equal(t, "Weapon Training", c.Target, desc)
		assert.Equal(t, 5, c.Level, desc)
	}
}

func TestClassify_ReplacementWinsOverModification(t *testing.T) {
	c := archetype.Classify("Replaces Bravery. Modifies Weapon Training.")

	assert.Equal(t, archetype.ChangeReplacement, c.Type)
	assert.Equal(t, "Bravery", c.Target)
}

func TestClassify_AdditiveWhenOnlyLevelFound(t *testing.T) {
	c := archetype.Classify("Level: 4. You gain a climb speed of 20 feet.")

	assert.Equal(t, archetype.ChangeAdditive, c.Type)
	assert.Empty(t, c.Target)
	assert.Equal(t, 4, c.Level)
}

func TestClassify_UnknownWhenNoPatternMatches(t *testing.T) {
	c := archetype.Classify("You gain a climb speed of 20 feet.")

	assert.Equal(t, archetype.ChangeUnknown, c.Type)
	assert.Empty(t, c.Target)
	assert.Zero(t, c.Level)
}

func TestClassify_EmptyInput(t *testing.T) {
	for _, desc := range []string{"", "   ", "\n\t"} {
		c := archetype.Classify(desc)
		assert.Equal(t, archetype.ChangeUnknown, c.Type)
		assert.Empty(t, c.Target)
	}
}

func TestClassify_StripsHTML(t *testing.T) {
	c := archetype.Classify("<p><strong>Level:</strong> 3. Replaces <em>Armor Training 1</em>.</p>")

	assert.Equal(t, archetype.ChangeReplacement, c.Type)
	assert.Equal(t, "Armor Training 1", c.Target)
	assert.Equal(t, 3, c.Level)
}
