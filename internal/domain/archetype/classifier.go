package archetype

import (
	"regexp"
	"strconv"
	"strings"
)

// Classification is the result of classifying one feature description.
// Target is empty unless Type is replacement or modification. Level is
// zero when no level marker was found.
type Classification struct {
	Type   ChangeType
	Target string
	Level  int
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	levelPattern = regexp.MustCompile(`(?i)\blevel:?\s*(\d+)`)

	// "replaces <name>." — trailing period required, name trimmed.
	replacesPattern = regexp.MustCompile(`(?i)\breplaces\s+([^.]+)\.`)

	// "modify/modifies/modifying <name>[ [the] class feature/ability]."
	modifiesPattern = regexp.MustCompile(`(?i)\bmodif(?:y|ies|ying)\s+([^.]+?)(?:\s+(?:the\s+)?class\s+(?:feature|ability))?\s*\.`)
)

// Classify turns a feature's free-text description into a typed change
// operation. Pure and deterministic; empty input classifies as unknown.
//
// Precedence: replacement, then modification, then additive when a level
// marker was found, then unknown.
func Classify(description string) Classification {
	if strings.TrimSpace(description) == "" {
		return Classification{Type: ChangeUnknown}
	}

	text := htmlTagPattern.ReplaceAllString(description, " ")

	level := 0
	if m := levelPattern.FindStringSubmatch(text); m != nil {
		if parsed, err := strconv.Atoi(m[1]); err == nil {
			level = parsed
		}
	}

	if m := replacesPattern.FindStringSubmatch(text); m != nil {
		return Classification{
			Type:   ChangeReplacement,
			Target: strings.TrimSpace(m[1]),
			Level:  level,
		}
	}

	if m := modifiesPattern.FindStringSubmatch(text); m != nil {
		return Classification{
			Type:   ChangeModification,
			Target: strings.TrimSpace(m[1]),
			Level:  level,
		}
	}

	if level > 0 {
		return Classification{Type: ChangeAdditive, Level: level}
	}

	return Classification{Type: ChangeUnknown}
}
