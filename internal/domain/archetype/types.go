package archetype

import "time"

// ChangeType describes what an archetype feature does to the base class.
type ChangeType string

const (
	// ChangeReplacement removes a base feature and introduces a different one
	ChangeReplacement ChangeType = "replacement"

	// ChangeModification keeps a base feature's slot but overrides its behavior
	ChangeModification ChangeType = "modification"

	// ChangeAdditive introduces a purely new feature
	ChangeAdditive ChangeType = "additive"

	// ChangeUnknown means classification failed and user input is needed
	ChangeUnknown ChangeType = "unknown"
)

// FeatureSource records where a parsed feature's interpretation came from.
type FeatureSource string

const (
	// SourceAutoParse means the interpretation came from text classification
	SourceAutoParse FeatureSource = "auto-parse"

	// SourceOverride means a curated or reported fix record supplied it
	SourceOverride FeatureSource = "override"

	// SourceUserFix means a user-submitted fix record supplied it
	SourceUserFix FeatureSource = "user-fix"
)

// FeatureAssociation is one entry of a class's feature progression.
// Ordering is insertion order, not necessarily level order. ID is unique
// within a progression; names may repeat at different levels.
type FeatureAssociation struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Name  string `json:"name"`
}

// ParsedFeature is one archetype feature after classification and
// target matching.
type ParsedFeature struct {
	Name        string              `json:"name"`
	Level       int                 `json:"level"`
	Type        ChangeType          `json:"type"`
	Target      string              `json:"target,omitempty"`
	Matched     *FeatureAssociation `json:"matched,omitempty"`
	Description string              `json:"description,omitempty"`
	Source      FeatureSource       `json:"source"`

	// NeedsUserInput is true iff Type is unknown, or Type is
	// replacement/modification and no association matched the target.
	NeedsUserInput bool `json:"needs_user_input"`
}

// ParsedArchetype is a fully resolved archetype ready for diffing.
type ParsedArchetype struct {
	Slug     string          `json:"slug"`
	Name     string          `json:"name"`
	Class    string          `json:"class"`
	Features []ParsedFeature `json:"features"`
}

// DiffStatus classifies one entry of a progression diff.
type DiffStatus string

const (
	DiffUnchanged DiffStatus = "unchanged"
	DiffRemoved   DiffStatus = "removed"
	DiffAdded     DiffStatus = "added"
	DiffModified  DiffStatus = "modified"
)

// DiffEntry is one line of the computed change set. Removed and modified
// entries carry Original; added and modified entries carry ArchetypeFeature.
type DiffEntry struct {
	Status           DiffStatus          `json:"status"`
	Level            int                 `json:"level"`
	Name             string              `json:"name"`
	Original         *FeatureAssociation `json:"original,omitempty"`
	ArchetypeFeature *ParsedFeature      `json:"archetype_feature,omitempty"`
}

// RemovedOriginal captures a removed association together with its position
// in the progression at removal time, so removal can be inverted in place.
type RemovedOriginal struct {
	Association FeatureAssociation `json:"association"`
	Index       int                `json:"index"`
}

// AppliedArchetypeRecord is the exact structural delta one archetype
// introduced, sufficient to invert it without touching other archetypes.
type AppliedArchetypeRecord struct {
	Slug                string            `json:"slug"`
	AppliedAt           time.Time         `json:"applied_at"`
	AddedAssociationIDs []string          `json:"added_association_ids"`
	RemovedOriginals    []RemovedOriginal `json:"removed_originals"`
}

// ClassArchetypeState is the per-class-holder tracking state.
// OriginalAssociations is the progression exactly as it was before the
// first archetype was applied; it exists iff Archetypes is non-empty.
type ClassArchetypeState struct {
	Archetypes           []string                           `json:"archetypes"`
	OriginalAssociations []FeatureAssociation               `json:"original_associations,omitempty"`
	AppliedAt            *time.Time                         `json:"applied_at,omitempty"`
	Records              map[string]*AppliedArchetypeRecord `json:"records,omitempty"`
}

// HasArchetype reports whether slug is currently applied.
func (s *ClassArchetypeState) HasArchetype(slug string) bool {
	if s == nil {
		return false
	}
	for _, applied := range s.Archetypes {
		if applied == slug {
			return true
		}
	}
	return false
}

// Empty reports whether the state carries no applied archetypes.
func (s *ClassArchetypeState) Empty() bool {
	return s == nil || len(s.Archetypes) == 0
}

// ActorArchetypeIndex is a denormalized actor-level summary mapping a
// class tag to the slugs applied on that class. Every slug here must also
// appear in the corresponding class's ClassArchetypeState.
type ActorArchetypeIndex map[string][]string

// Conflict reports a base feature fought over by more than one archetype.
type Conflict struct {
	TargetName       string   `json:"target_name"`
	ConflictingSlugs []string `json:"conflicting_slugs"`
}

// RawArchetype is an unresolved archetype record from the content source.
type RawArchetype struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// RawFeature is an unresolved feature record from the content source.
type RawFeature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
