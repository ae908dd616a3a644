package archetype

import (
	"context"
	"log"
	"sort"
	"strings"

	arch "github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/errors"
	"github.com/pathbinder/archetype-bot/internal/repositories/overrides"
)

// overrideChain holds one archetype's records across all fix tiers, in
// descending priority order. Fixes resolve per feature slug, so a
// reported-missing stub for one feature never shadows a real fix for
// another feature in a lower tier.
type overrideChain struct {
	records []tierRecord
}

type tierRecord struct {
	tier   overrides.Tier
	record *overrides.Record
}

// loadOverrides reads every tier's record for a slug. Lookup failures
// demote the tier to absent so a flaky store never blocks resolution.
func (s *service) loadOverrides(ctx context.Context, slug string) *overrideChain {
	chain := &overrideChain{}
	for _, tier := range overrides.TierOrder {
		record, err := s.overrideRepo.Get(ctx, tier, slug)
		if err != nil {
			log.Printf("override lookup failed for %s/%s, treating tier as absent: %v", tier, slug, err)
			continue
		}
		if record != nil {
			chain.records = append(chain.records, tierRecord{tier: tier, record: record})
		}
	}
	return chain
}

func (c *overrideChain) empty() bool {
	return len(c.records) == 0
}

// class returns the highest-priority record's class tag, for synthesizing
// an archetype header when the content source is down.
func (c *overrideChain) class() string {
	for _, tr := range c.records {
		if tr.record.Class != "" {
			return tr.record.Class
		}
	}
	return ""
}

// fix returns the first substantive fix for a feature slug, walking the
// tiers in priority order. Stub entries are skipped.
func (c *overrideChain) fix(featureSlug string) (*overrides.FeatureFix, overrides.Tier) {
	for _, tr := range c.records {
		f := tr.record.Fix(featureSlug)
		if f == nil || f.IsStub() {
			continue
		}
		return f, tr.tier
	}
	return nil, ""
}

// fixSlugs returns the sorted union of substantive fix slugs across tiers.
func (c *overrideChain) fixSlugs() []string {
	seen := make(map[string]bool)
	for _, tr := range c.records {
		for featureSlug, f := range tr.record.Features {
			if f == nil || f.IsStub() {
				continue
			}
			seen[featureSlug] = true
		}
	}
	slugs := make([]string, 0, len(seen))
	for featureSlug := range seen {
		slugs = append(slugs, featureSlug)
	}
	sort.Strings(slugs)
	return slugs
}

func (s *service) ResolveArchetype(ctx context.Context, input *ResolveInput) (*arch.ParsedArchetype, error) {
	if input == nil || input.CharacterID == "" || input.ClassTag == "" || input.Slug == "" {
		return nil, errors.InvalidArgument("resolve requires a character, class tag, and archetype slug")
	}

	char, err := s.characterRepo.Get(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	class := char.Class(input.ClassTag)
	if class == nil {
		return nil, errors.NotFoundf("character %s has no %s class", char.Name, input.ClassTag)
	}

	return s.resolveAgainst(ctx, input.Slug, class.Features)
}

// resolveAgainst resolves an archetype against an explicit progression.
// The apply path reuses it for conflict checks against the pristine
// pre-archetype progression.
func (s *service) resolveAgainst(ctx context.Context, slug string, progression []arch.FeatureAssociation) (*arch.ParsedArchetype, error) {
	chain := s.loadOverrides(ctx, slug)

	raw, err := s.contentClient.GetArchetype(ctx, slug)
	if err != nil {
		if chain.empty() {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "archetype "+slug+" is not in the content source and has no override")
		}
		// Override-only mode.
		log.Printf("content source unavailable for %s, resolving from override record: %v", slug, err)
		raw = &arch.RawArchetype{Slug: slug, Name: deslug(slug), Class: chain.class()}
	}

	rawFeatures, err := s.contentClient.ListFeatures(ctx, slug)
	if err != nil {
		log.Printf("feature listing unavailable for %s, continuing in override-only mode: %v", slug, err)
		rawFeatures = nil
	}

	parsed := &arch.ParsedArchetype{
		Slug:  raw.Slug,
		Name:  raw.Name,
		Class: raw.Class,
	}

	seen := make(map[string]bool, len(rawFeatures))
	for _, rawFeature := range rawFeatures {
		featureSlug := arch.Slugify(rawFeature.Name)
		seen[featureSlug] = true
		fix, tier := chain.fix(featureSlug)
		parsed.Features = append(parsed.Features, buildFeature(rawFeature, fix, tier, progression))
	}

	// Override entries with no raw counterpart still become features, so
	// a fully curated archetype works with the content source down.
	for _, featureSlug := range chain.fixSlugs() {
		if seen[featureSlug] {
			continue
		}
		fix, tier := chain.fix(featureSlug)
		rawFeature := &arch.RawFeature{Name: deslug(featureSlug)}
		parsed.Features = append(parsed.Features, buildFeature(rawFeature, fix, tier, progression))
	}

	s.resolveUserInput(ctx, parsed, progression)

	return parsed, nil
}

// buildFeature classifies one raw feature, letting an override record's
// fix win over the auto-parse wherever it has a value.
func buildFeature(raw *arch.RawFeature, fix *overrides.FeatureFix, tier overrides.Tier, progression []arch.FeatureAssociation) arch.ParsedFeature {
	classification := arch.Classify(raw.Description)

	if fix == nil {
		feature := arch.ParsedFeature{
			Name:        raw.Name,
			Level:       classification.Level,
			Type:        classification.Type,
			Target:      classification.Target,
			Description: raw.Description,
			Source:      arch.SourceAutoParse,
		}
		matchFeature(&feature, progression, false)
		return feature
	}

	source := arch.SourceOverride
	if tier == overrides.TierUser {
		source = arch.SourceUserFix
	}

	level := fix.Level
	if level == 0 {
		// Override supplied no level, keep whatever the text gave us.
		level = classification.Level
	}
	description := fix.Description
	if description == "" {
		description = raw.Description
	}

	feature := arch.ParsedFeature{
		Name:        raw.Name,
		Level:       level,
		Description: description,
		Source:      source,
	}

	switch {
	case fix.Replaces != "":
		feature.Type = arch.ChangeReplacement
		feature.Target = fix.Replaces
	case fix.IsAdditive:
		feature.Type = arch.ChangeAdditive
	case level > 0:
		feature.Type = arch.ChangeAdditive
	default:
		feature.Type = arch.ChangeUnknown
	}

	matchFeature(&feature, progression, fix.IsAdditive)
	return feature
}

// matchFeature finishes a parsed feature: target matching and the
// needs-user-input invariant.
func matchFeature(feature *arch.ParsedFeature, progression []arch.FeatureAssociation, explicitAdditive bool) {
	switch feature.Type {
	case arch.ChangeReplacement, arch.ChangeModification:
		feature.Matched = arch.MatchTarget(progression, feature.Target, feature.Level)
		feature.NeedsUserInput = feature.Matched == nil
	case arch.ChangeAdditive:
		feature.Target = ""
		feature.Matched = nil
		feature.NeedsUserInput = false
	default:
		feature.Target = ""
		feature.Matched = nil
		feature.NeedsUserInput = !explicitAdditive
	}
}

// resolveUserInput offers every still-ambiguous feature to the pluggable
// target resolver, when one is configured.
func (s *service) resolveUserInput(ctx context.Context, parsed *arch.ParsedArchetype, progression []arch.FeatureAssociation) {
	if s.targetResolver == nil {
		return
	}

	for i := range parsed.Features {
		feature := &parsed.Features[i]
		if !feature.NeedsUserInput {
			continue
		}

		resolution, err := s.targetResolver.Resolve(ctx, feature, progression)
		if err != nil {
			log.Printf("target resolution failed for %q: %v", feature.Name, err)
			continue
		}
		if resolution == nil {
			continue
		}

		if resolution.Additive {
			feature.Type = arch.ChangeAdditive
			feature.Target = ""
			feature.Matched = nil
			feature.NeedsUserInput = false
			continue
		}
		if resolution.Target == nil {
			continue
		}

		feature.Type = resolution.Type
		if feature.Type != arch.ChangeModification {
			feature.Type = arch.ChangeReplacement
		}
		feature.Target = resolution.Target.Name
		feature.Matched = resolution.Target
		feature.NeedsUserInput = false
	}
}

// unresolvedNames lists the features that still need user input.
func unresolvedNames(parsed *arch.ParsedArchetype) []string {
	var names []string
	for i := range parsed.Features {
		if parsed.Features[i].NeedsUserInput {
			names = append(names, parsed.Features[i].Name)
		}
	}
	return names
}

func deslug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
