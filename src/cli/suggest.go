package cli

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// NearestNames ranks every entry in known within maxDistance edits of typed,
// closest first. Used to turn a misspelled target or configuration name on
// the command line into a short list of names the user probably meant.
func NearestNames(typed string, known []string, maxDistance int) []string {
	r := []rune(typed)
	matches := make([]match, 0, len(known))
	for _, candidate := range known {
		dist := levenshtein.DistanceForStrings(r, []rune(candidate), levenshtein.DefaultOptions)
		if len(candidate) > 0 && dist <= maxDistance {
			matches = append(matches, match{name: candidate, dist: dist})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// DidYouMean renders NearestNames's result as a human-readable hint to
// append to an "unknown target"/"unknown configuration" error, or "" if
// nothing was close enough to typed to be worth suggesting.
func DidYouMean(typed string, known []string, maxDistance int) string {
	names := NearestNames(typed, known, maxDistance)
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nDid you mean ")
	for i, name := range names {
		switch {
		case i == 0:
		case i == len(names)-1:
			b.WriteString(" or ")
		default:
			b.WriteString(", ")
		}
		b.WriteString(name)
	}
	b.WriteString("?")
	return b.String()
}

type match struct {
	name string
	dist int
}
