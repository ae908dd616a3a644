package character

import (
	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
)

// Class is one class a character has levels in, carrying the feature
// progression archetypes operate on.
type Class struct {
	// Tag is the stable class identifier ("fighter", "rogue").
	Tag   string `json:"tag"`
	Name  string `json:"name"`
	Level int    `json:"level"`

	// Features is the class's feature progression in insertion order.
	Features []archetype.FeatureAssociation `json:"features"`
}

// Character is an actor owning one or more classes. A multiclass
// character's classes carry independent archetype state.
type Character struct {
	ID      string   `json:"id"`
	OwnerID string   `json:"owner_id"`
	RealmID string   `json:"realm_id"`
	Name    string   `json:"name"`
	Classes []*Class `json:"classes"`
}

// Class returns the class with the given tag, or nil.
func (c *Character) Class(tag string) *Class {
	if c == nil {
		return nil
	}
	for _, class := range c.Classes {
		if class.Tag == tag {
			return class
		}
	}
	return nil
}
