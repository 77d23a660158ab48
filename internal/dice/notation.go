package dice

import (
	"regexp"
	"strconv"
)

const (
	// DefaultCount is used when the notation omits the "Nd" prefix.
	DefaultCount = 1
	// DefaultSides is used when the die size cannot be read.
	DefaultSides = 10
	// DefaultModifier is used when the notation has no "+M" or "-M" suffix.
	DefaultModifier = 0
)

// notationPattern is matched anywhere in the input, so a leading command
// token such as "!roll " is skipped without being stripped first.
//
// Groups: 2 = die count, 3 = die size, 4 = signed modifier.
var notationPattern = regexp.MustCompile(`\s*(([1-9][0-9]*)d)?([1-9][0-9]*)([+-][1-9][0-9]*)?`)

// Spec describes a homogeneous set of dice plus one additive modifier.
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// Parse extracts the first dice notation found in text.
//
// The second return value is false when no substring matches the grammar.
// Numeric groups that fail to parse (for example digits beyond the 32-bit
// range) fall back to their defaults instead of rejecting the match.
func Parse(text string) (Spec, bool) {
	groups := notationPattern.FindStringSubmatch(text)
	if groups == nil {
		return Spec{}, false
	}

	return Spec{
		Count:    parseGroup(groups[2], DefaultCount),
		Sides:    parseGroup(groups[3], DefaultSides),
		Modifier: parseGroup(groups[4], DefaultModifier),
	}, true
}

func parseGroup(group string, fallback int) int {
	if group == "" {
		return fallback
	}
	value, err := strconv.ParseInt(group, 10, 32)
	if err != nil {
		return fallback
	}
	return int(value)
}

// String renders s in canonical "NdS+M" form.
func (s Spec) String() string {
	notation := strconv.Itoa(s.Count) + "d" + strconv.Itoa(s.Sides)
	switch {
	case s.Modifier > 0:
		notation += "+" + strconv.Itoa(s.Modifier)
	case s.Modifier < 0:
		notation += strconv.Itoa(s.Modifier)
	}
	return notation
}
