// pattern: Functional Core

package selector

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"rigit/internal/candidate"
)

var initScheme sync.Once

// Match is a candidate that passed the filter.
type Match struct {
	Candidate candidate.Candidate
	Score     int
	// Positions are the matched rune offsets in the name, unordered.
	Positions []int
}

// Filter ranks candidates against query with fzf's matching algorithm.
// Matching is smart-case: case-sensitive only when query has an upper-case
// letter. Higher scores come first; ties keep the input order. An empty
// query keeps every candidate in order.
func Filter(cands []candidate.Candidate, query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		matches := make([]Match, len(cands))
		for i, c := range cands {
			matches[i] = Match{Candidate: c}
		}
		return matches
	}

	initScheme.Do(func() { algo.Init("default") })

	caseSensitive := strings.IndexFunc(query, unicode.IsUpper) >= 0
	pattern := []rune(query)
	if !caseSensitive {
		pattern = []rune(strings.ToLower(query))
	}

	slab := util.MakeSlab(16*1024, 2048)
	var matches []Match
	for _, c := range cands {
		chars := util.ToChars([]byte(c.Name))
		result, positions := algo.FuzzyMatchV2(caseSensitive, true, true, &chars, pattern, true, slab)
		if result.Start < 0 {
			continue
		}
		m := Match{Candidate: c, Score: result.Score}
		if positions != nil {
			m.Positions = slices.Clone(*positions)
		}
		matches = append(matches, m)
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})
	return matches
}

// Candidates drops the scoring from matches.
func Candidates(matches []Match) []candidate.Candidate {
	out := make([]candidate.Candidate, len(matches))
	for i, m := range matches {
		out[i] = m.Candidate
	}
	return out
}
