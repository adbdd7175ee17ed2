// Package alphabet maps the 26 uppercase Latin letters to the indices used by
// every table in the cipher.
package alphabet

import (
	"strings"
	"unicode"
)

// Size is the number of symbols on every rotor, reflector and plugboard.
const Size = 26

// Letters lists the alphabet in index order.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// IsLetter reports whether c is one of 'A'..'Z'.
func IsLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// Index returns the alphabet index of an uppercase letter.
// The caller must have checked IsLetter.
func Index(c byte) uint8 {
	return c - 'A'
}

// Letter returns the uppercase letter at index i.
func Letter(i uint8) byte {
	return 'A' + i
}

// Mod wraps any integer into [0, Size).
func Mod(n int) uint8 {
	n %= Size
	if n < 0 {
		n += Size
	}
	return uint8(n)
}

// Normalize uppercases text and removes all whitespace. Other characters are kept.
func Normalize(text string) string {
	text = strings.ToUpper(text)
	if strings.IndexFunc(text, unicode.IsSpace) < 0 {
		return text
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// ParsePermutation converts a 26-letter wiring string into an index table.
// ok is false if the string is not a permutation of the alphabet.
func ParsePermutation(wiring string) (table [Size]uint8, ok bool) {
	if len(wiring) != Size {
		return table, false
	}
	var seen [Size]bool
	for i := 0; i < Size; i++ {
		c := wiring[i]
		if !IsLetter(c) || seen[Index(c)] {
			return table, false
		}
		seen[Index(c)] = true
		table[i] = Index(c)
	}
	return table, true
}

// Invert returns the inverse of a permutation table.
func Invert(table [Size]uint8) [Size]uint8 {
	var inv [Size]uint8
	for i, v := range table {
		inv[v] = uint8(i)
	}
	return inv
}
