package search

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

// NumPositions is the number of distinct start position triples.
const NumPositions = alphabet.Size * alphabet.Size * alphabet.Size

// Candidate is one rotor order and start position hypothesis.
type Candidate struct {
	// Index is unique within an enumeration and seeds the candidate's random stream.
	Index     int
	Rotors    [3]string
	Positions string
}

// RotorOrders returns every ordered choice of three distinct rotors from ids,
// in lexicographic order of their catalog indices.
func RotorOrders(ids []string) [][3]string {
	var orders [][3]string
	for a := range ids {
		for b := range ids {
			if b == a {
				continue
			}
			for c := range ids {
				if c == a || c == b {
					continue
				}
				orders = append(orders, [3]string{ids[a], ids[b], ids[c]})
			}
		}
	}
	return orders
}

// AllPositions returns "AAA" through "ZZZ".
func AllPositions() []string {
	positions := make([]string, 0, NumPositions)
	for _, a := range []byte(alphabet.Letters) {
		for _, b := range []byte(alphabet.Letters) {
			for _, c := range []byte(alphabet.Letters) {
				positions = append(positions, string([]byte{a, b, c}))
			}
		}
	}
	return positions
}

// SamplePositions draws limit distinct position triples uniformly without
// replacement. A limit outside (0, NumPositions) returns every triple.
func SamplePositions(limit int, rng *rand.Rand) []string {
	all := AllPositions()
	if limit <= 0 || limit >= len(all) {
		return all
	}
	// Partial Fisher-Yates: the first limit slots end up a uniform sample.
	for i := 0; i < limit; i++ {
		j := i + rng.IntN(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:limit]
}

// Enumerator is the cross product of rotor orders and start positions.
type Enumerator struct {
	orders    [][3]string
	positions []string
}

// EnumeratorOptions narrows the search space. The zero value enumerates every
// rotor order against every position.
type EnumeratorOptions struct {
	// RotorOrders restricts the orders tried. Empty means every order from the catalog.
	RotorOrders [][3]string
	// Positions restricts the start positions tried. Empty means all, or a sample
	// when LimitPositions is set.
	Positions []string
	// LimitPositions samples this many positions when Positions is empty.
	LimitPositions int
}

// NewEnumerator validates opts and builds the candidate space. rng is only used
// when positions are sampled.
func NewEnumerator(opts EnumeratorOptions, rng *rand.Rand) (*Enumerator, error) {
	orders := opts.RotorOrders
	if len(orders) == 0 {
		orders = RotorOrders(machine.RotorIDs())
	}
	for _, order := range orders {
		for i, id := range order {
			if _, err := machine.LookupRotor(id); err != nil {
				return nil, err
			}
			for j := 0; j < i; j++ {
				if order[j] == id {
					return nil, fmt.Errorf("%w: %q in order %v", machine.ErrDuplicateRotor, id, order)
				}
			}
		}
	}

	var positions []string
	if len(opts.Positions) > 0 {
		positions = make([]string, len(opts.Positions))
		for i, p := range opts.Positions {
			up, err := machine.ParsePositions(p)
			if err != nil {
				return nil, err
			}
			positions[i] = up
		}
	} else {
		positions = SamplePositions(opts.LimitPositions, rng)
	}

	return &Enumerator{orders: orders, positions: positions}, nil
}

// Len returns the number of candidates.
func (e *Enumerator) Len() int {
	return len(e.orders) * len(e.positions)
}

// Orders returns the rotor orders being enumerated.
func (e *Enumerator) Orders() [][3]string { return e.orders }

// Positions returns the start positions being enumerated.
func (e *Enumerator) Positions() []string { return e.positions }

// Candidate returns the i-th candidate, order-major.
func (e *Enumerator) Candidate(i int) Candidate {
	return Candidate{
		Index:     i,
		Rotors:    e.orders[i/len(e.positions)],
		Positions: e.positions[i%len(e.positions)],
	}
}

// All yields every candidate once.
func (e *Enumerator) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i := 0; i < e.Len(); i++ {
			if !yield(e.Candidate(i)) {
				return
			}
		}
	}
}

// Chunks yields consecutive index ranges [lo, hi) of at most size candidates.
func (e *Enumerator) Chunks(size int) iter.Seq2[int, int] {
	size = max(1, size)
	return func(yield func(int, int) bool) {
		for lo := 0; lo < e.Len(); lo += size {
			if !yield(lo, min(lo+size, e.Len())) {
				return
			}
		}
	}
}
