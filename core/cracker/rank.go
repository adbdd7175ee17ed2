package cracker

import (
	"slices"
	"sort"
)

// rankMatches orders matches by score, best first. Ties are broken by rotor
// order and start positions so the report is stable across runs.
func rankMatches(matches []Match) []Match {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if c := slices.Compare(matches[i].Rotors[:], matches[j].Rotors[:]); c != 0 {
			return c < 0
		}
		return matches[i].Positions < matches[j].Positions
	})
	return matches
}
