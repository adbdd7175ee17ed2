package machine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

// MaxPlugboardPairs is the most pairs 26 letters can form.
const MaxPlugboardPairs = alphabet.Size / 2

// Pair is one plugboard cable joining two letters.
type Pair struct {
	A, B byte
}

func (p Pair) String() string { return string([]byte{p.A, p.B}) }

// Plugboard is a self-inverse letter swap. The zero value has no cables.
// Plugboards are values: copies never alias.
type Plugboard struct {
	// partner[i] is the partner's index plus one, or 0 when i is unplugged.
	partner [alphabet.Size]uint8
}

// IdentityPlugboard returns a plugboard with no cables.
func IdentityPlugboard() Plugboard {
	return Plugboard{}
}

func (p *Plugboard) swapIndex(i uint8) uint8 {
	if v := p.partner[i]; v != 0 {
		return v - 1
	}
	return i
}

// NewPlugboard builds a plugboard from pairs. A letter paired with itself or
// with two different partners is rejected.
func NewPlugboard(pairs ...Pair) (Plugboard, error) {
	p := IdentityPlugboard()
	if len(pairs) > MaxPlugboardPairs {
		return Plugboard{}, fmt.Errorf("%w: %d pairs, at most %d allowed", ErrInvalidPlugboard, len(pairs), MaxPlugboardPairs)
	}
	for _, pair := range pairs {
		if err := p.connect(pair.A, pair.B); err != nil {
			return Plugboard{}, err
		}
	}
	return p, nil
}

// PlugboardFromMap builds a plugboard from a letter-to-letter map. Both
// directions of a pair may be present as long as they agree.
func PlugboardFromMap(m map[byte]byte) (Plugboard, error) {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	p := IdentityPlugboard()
	for _, a := range keys {
		b := m[a]
		if alphabet.IsLetter(a) && alphabet.IsLetter(b) && a != b && p.partner[alphabet.Index(a)] == alphabet.Index(b)+1 {
			continue
		}
		if err := p.connect(a, b); err != nil {
			return Plugboard{}, err
		}
	}
	return p, nil
}

// ParsePlugboard reads "A:B,C:D" or "AB CD" (case-insensitive). An empty
// string is the identity plugboard.
func ParsePlugboard(text string) (Plugboard, error) {
	fields := strings.FieldsFunc(strings.ToUpper(text), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	pairs := make([]Pair, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, ":", "")
		if len(f) != 2 {
			return Plugboard{}, fmt.Errorf("%w: malformed pair %q", ErrInvalidPlugboard, f)
		}
		pairs = append(pairs, Pair{A: f[0], B: f[1]})
	}
	return NewPlugboard(pairs...)
}

func (p *Plugboard) connect(a, b byte) error {
	if !alphabet.IsLetter(a) || !alphabet.IsLetter(b) {
		return fmt.Errorf("%w: pair %q-%q is not two letters", ErrInvalidPlugboard, a, b)
	}
	if a == b {
		return fmt.Errorf("%w: letter %c paired with itself", ErrInvalidPlugboard, a)
	}
	ia, ib := alphabet.Index(a), alphabet.Index(b)
	if v := p.partner[ia]; v != 0 {
		return fmt.Errorf("%w: letter %c is already connected to %c", ErrInvalidPlugboard, a, alphabet.Letter(v-1))
	}
	if v := p.partner[ib]; v != 0 {
		return fmt.Errorf("%w: letter %c is already connected to %c", ErrInvalidPlugboard, b, alphabet.Letter(v-1))
	}
	p.partner[ia] = ib + 1
	p.partner[ib] = ia + 1
	return nil
}

// Swap returns the partner of c, or c itself if it is unplugged or not a letter.
func (p Plugboard) Swap(c byte) byte {
	if !alphabet.IsLetter(c) {
		return c
	}
	return alphabet.Letter(p.swapIndex(alphabet.Index(c)))
}

// Pairs lists the cables in alphabetical order, lower letter first.
func (p Plugboard) Pairs() []Pair {
	var pairs []Pair
	for i, v := range p.partner {
		if v != 0 && uint8(i) < v-1 {
			pairs = append(pairs, Pair{A: alphabet.Letter(uint8(i)), B: alphabet.Letter(v - 1)})
		}
	}
	return pairs
}

// NumPairs returns the number of cables.
func (p Plugboard) NumPairs() int {
	n := 0
	for _, v := range p.partner {
		if v != 0 {
			n++
		}
	}
	return n / 2
}

// Map returns the plugboard as a symmetric letter map of connected letters only.
func (p Plugboard) Map() map[byte]byte {
	m := make(map[byte]byte)
	for i, v := range p.partner {
		if v != 0 {
			m[alphabet.Letter(uint8(i))] = alphabet.Letter(v - 1)
		}
	}
	return m
}

// String formats the plugboard as space-separated pairs, e.g. "AB CD".
func (p Plugboard) String() string {
	pairs := p.Pairs()
	parts := make([]string, len(pairs))
	for i, pair := range pairs {
		parts[i] = pair.String()
	}
	return strings.Join(parts, " ")
}
