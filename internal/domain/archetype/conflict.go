package archetype

import "sort"

// CheckConflicts reports which base features a candidate diff fights over
// with already-applied archetypes: every diff entry whose original id also
// appears among another archetype's removed originals is a conflict.
// Symmetric in the candidate and the applied set. Advisory only; the
// caller decides whether to warn or block.
func CheckConflicts(diff []DiffEntry, applied map[string]*AppliedArchetypeRecord) []Conflict {
	var conflicts []Conflict

	for i := range diff {
		entry := &diff[i]
		if entry.Original == nil {
			continue
		}
		if entry.Status != DiffRemoved && entry.Status != DiffModified {
			continue
		}

		var slugs []string
		for slug, record := range applied {
			for _, removed := range record.RemovedOriginals {
				if removed.Association.ID == entry.Original.ID {
					slugs = append(slugs, slug)
					break
				}
			}
		}
		if len(slugs) == 0 {
			continue
		}

		sort.Strings(slugs)
		conflicts = append(conflicts, Conflict{
			TargetName:       entry.Original.Name,
			ConflictingSlugs: slugs,
		})
	}

	return conflicts
}
