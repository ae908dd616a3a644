package archetype

// BuildDiff compares a class's current feature progression against a
// resolved archetype and produces the ordered change set. Purely
// functional: same inputs always produce the same output.
//
// Unchanged, removed, and modified entries keep the progression's relative
// order. A replacement's added entry follows its removed entry directly;
// additive entries are appended at the end in archetype-feature order.
// When two features contend for the same association the first keeps the
// slot and any later ones are appended as added entries, so no feature
// drops out of the change set.
func BuildDiff(progression []FeatureAssociation, parsed *ParsedArchetype) []DiffEntry {
	// First matched feature per association wins.
	byTarget := make(map[string]*ParsedFeature)
	for i := range parsed.Features {
		feat := &parsed.Features[i]
		if feat.Matched == nil {
			continue
		}
		if _, taken := byTarget[feat.Matched.ID]; !taken {
			byTarget[feat.Matched.ID] = feat
		}
	}

	diff := make([]DiffEntry, 0, len(progression)+len(parsed.Features))

	for i := range progression {
		assoc := progression[i]
		feat, targeted := byTarget[assoc.ID]
		if !targeted {
			diff = append(diff, DiffEntry{
				Status:   DiffUnchanged,
				Level:    assoc.Level,
				Name:     assoc.Name,
				Original: &assoc,
			})
			continue
		}

		switch feat.Type {
		case ChangeModification:
			// The slot stays, its behavior is overridden.
			diff = append(diff, DiffEntry{
				Status:           DiffModified,
				Level:            assoc.Level,
				Name:             feat.Name,
				Original:         &assoc,
				ArchetypeFeature: feat,
			})
		default:
			// Replacement: the base feature is gone and a wholly
			// distinct one appears in its place.
			diff = append(diff, DiffEntry{
				Status:   DiffRemoved,
				Level:    assoc.Level,
				Name:     assoc.Name,
				Original: &assoc,
			})
			diff = append(diff, DiffEntry{
				Status:           DiffAdded,
				Level:            feat.Level,
				Name:             feat.Name,
				ArchetypeFeature: feat,
			})
		}
	}

	for i := range parsed.Features {
		feat := &parsed.Features[i]
		lostSlot := feat.Matched != nil && byTarget[feat.Matched.ID] != feat
		if feat.Type != ChangeAdditive && !lostSlot {
			continue
		}
		diff = append(diff, DiffEntry{
			Status:           DiffAdded,
			Level:            feat.Level,
			Name:             feat.Name,
			ArchetypeFeature: feat,
		})
	}

	return diff
}
