package search

import (
	"strings"
)

// CribBonus is added to the score of any decoding that contains the crib. It
// exceeds the vowel count of any realistic message, so a decoding with the crib
// always outranks one without it.
const CribBonus = 1000

// Scorer rates a candidate decoding. Higher is better.
type Scorer interface {
	Score(text, crib string) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(text, crib string) float64

func (f ScorerFunc) Score(text, crib string) float64 { return f(text, crib) }

// CribScorer awards CribBonus for a crib hit and one point per vowel.
type CribScorer struct{}

func (CribScorer) Score(text, crib string) float64 {
	score := 0
	if crib != "" && strings.Contains(text, crib) {
		score += CribBonus
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case 'A', 'E', 'I', 'O', 'U':
			score++
		}
	}
	return float64(score)
}

// FindCrib returns the first offset at which decoded contains crib and every
// aligned ciphertext letter differs from the crib letter, or -1. A letter never
// encrypts to itself, so an occurrence that fails the check cannot be genuine.
// A crib longer than the text simply never matches.
func FindCrib(ciphertext, decoded, crib string) int {
	if crib == "" || len(crib) > len(decoded) || len(decoded) > len(ciphertext) {
		return -1
	}
	from := 0
	for from+len(crib) <= len(decoded) {
		i := strings.Index(decoded[from:], crib)
		if i < 0 {
			return -1
		}
		i += from
		if consistent(ciphertext[i:i+len(crib)], crib) {
			return i
		}
		from = i + 1
	}
	return -1
}

func consistent(segment, crib string) bool {
	for j := 0; j < len(crib); j++ {
		if segment[j] == crib[j] {
			return false
		}
	}
	return true
}
