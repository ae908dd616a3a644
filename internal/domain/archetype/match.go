package archetype

import "strings"

// MatchTarget finds the association a parsed feature's target refers to.
// Names compare case-insensitively after trimming. When several
// associations share the target name at different levels (ranked features
// like "Armor Training 1/2/3" listed under one name), an exact level match
// wins, then the nearest level, ties going to the earlier association.
// Returns nil when nothing matches.
func MatchTarget(progression []FeatureAssociation, target string, level int) *FeatureAssociation {
	want := strings.ToLower(strings.TrimSpace(target))
	if want == "" {
		return nil
	}

	var candidates []int
	for i := range progression {
		if strings.ToLower(strings.TrimSpace(progression[i].Name)) == want {
			candidates = append(candidates, i)
		}
	}

	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return &progression[candidates[0]]
	}

	best := candidates[0]
	for _, i := range candidates {
		if progression[i].Level == level {
			return &progression[i]
		}
		if levelDistance(progression[i].Level, level) < levelDistance(progression[best].Level, level) {
			best = i
		}
	}
	return &progression[best]
}

func levelDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
