package overrides

import (
	"context"
	"encoding/json"
)

// Tier identifies one layer of the override store. Tiers are consulted in
// descending priority order; the first layer with a record wins.
type Tier string

const (
	// TierCurated holds maintainer-reviewed fix records
	TierCurated Tier = "curated"

	// TierReported holds reported-missing stubs awaiting curation
	TierReported Tier = "reported"

	// TierUser holds user-submitted custom fix records
	TierUser Tier = "user"
)

// TierOrder is the fixed descending priority chain consulted on lookup.
var TierOrder = []Tier{TierCurated, TierReported, TierUser}

// FeatureFix is one feature's override entry. Fields this system does not
// understand are carried in Extra and written back untouched.
type FeatureFix struct {
	Level       int    `json:"level,omitempty"`
	Replaces    string `json:"replaces,omitempty"`
	IsAdditive  bool   `json:"is_additive,omitempty"`
	Description string `json:"description,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Record is a per-archetype override: the class it belongs to and a fix
// per feature slug.
type Record struct {
	Class    string                 `json:"class"`
	Features map[string]*FeatureFix `json:"features"`
}

// Fix returns the fix for a feature slug, or nil.
func (r *Record) Fix(featureSlug string) *FeatureFix {
	if r == nil {
		return nil
	}
	return r.Features[featureSlug]
}

// IsStub reports whether the fix carries no directive of its own. A
// missing-feature report writes one of these as a placeholder while it
// waits for curation.
func (f *FeatureFix) IsStub() bool {
	return f != nil && f.Level == 0 && f.Replaces == "" && !f.IsAdditive && f.Description == ""
}

// Repository is the tiered key-value store for override records.
// Get returns (nil, nil) when the tier has no record for the slug;
// corrupt stored records are treated the same way, never as errors.
type Repository interface {
	Get(ctx context.Context, tier Tier, slug string) (*Record, error)
	Set(ctx context.Context, tier Tier, slug string, record *Record) error
	Delete(ctx context.Context, tier Tier, slug string) error
}

// fixKnownFields mirrors FeatureFix's known JSON surface for the custom
// codec below.
type fixKnownFields struct {
	Level       int    `json:"level,omitempty"`
	Replaces    string `json:"replaces,omitempty"`
	IsAdditive  bool   `json:"is_additive,omitempty"`
	Description string `json:"description,omitempty"`
}

var knownFixKeys = map[string]bool{
	"level":       true,
	"replaces":    true,
	"is_additive": true,
	"description": true,
}

// UnmarshalJSON keeps unknown keys so third-party tooling's extra fields
// survive a read-modify-write cycle.
func (f *FeatureFix) UnmarshalJSON(data []byte) error {
	var known fixKnownFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Level = known.Level
	f.Replaces = known.Replaces
	f.IsAdditive = known.IsAdditive
	f.Description = known.Description
	f.Extra = nil

	for key, value := range raw {
		if knownFixKeys[key] {
			continue
		}
		if f.Extra == nil {
			f.Extra = make(map[string]json.RawMessage)
		}
		f.Extra[key] = value
	}

	return nil
}

// MarshalJSON writes known fields plus any passed-through extras.
func (f *FeatureFix) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(fixKnownFields{
		Level:       f.Level,
		Replaces:    f.Replaces,
		IsAdditive:  f.IsAdditive,
		Description: f.Description,
	})
	if err != nil {
		return nil, err
	}
	if len(f.Extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range f.Extra {
		merged[key] = value
	}
	return json.Marshal(merged)
}
