// ABOUTME: "Did you mean" hints over sahilm/fuzzy for mistyped commands and package names
// ABOUTME: Matches in both directions so dropped and doubled letters still find a candidate

package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a ranked candidate.
type Match struct {
	Str   string
	Index int
	Score int
}

// Find returns the candidates that contain pattern's characters in order,
// best first.
func Find(pattern string, candidates []string) []Match {
	results := fuzzy.Find(pattern, candidates)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{Str: r.Str, Index: r.Index, Score: r.Score}
	}
	return matches
}

// Closest returns the single best candidate for input. A candidate
// qualifies when input fuzzy-matches it ("inst" -> "install") or it
// fuzzy-matches input ("installl" -> "install"); among the latter the
// longest candidate wins.
func Closest(input string, candidates []string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(candidates) == 0 {
		return "", false
	}
	if m := Find(input, candidates); len(m) > 0 {
		return m[0].Str, true
	}

	var contained []string
	for _, c := range candidates {
		if c != "" && len(fuzzy.Find(c, []string{input})) > 0 {
			contained = append(contained, c)
		}
	}
	if len(contained) == 0 {
		return "", false
	}
	sort.SliceStable(contained, func(i, j int) bool {
		return len(contained[i]) > len(contained[j])
	})
	return contained[0], true
}
