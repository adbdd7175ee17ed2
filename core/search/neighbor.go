package search

import (
	"math/rand/v2"

	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

// Neighbor proposes a plugboard one move away from p: two distinct cables are
// picked uniformly and their four letters re-paired, either first-with-first
// or crosswise with equal probability. With fewer than two cables there is no
// move and p is returned.
func Neighbor(p machine.Plugboard, rng *rand.Rand) machine.Plugboard {
	pairs := p.Pairs()
	if len(pairs) < 2 {
		return p
	}

	i := rng.IntN(len(pairs))
	j := rng.IntN(len(pairs) - 1)
	if j >= i {
		j++
	}
	p1, p2 := pairs[i], pairs[j]

	var n1, n2 machine.Pair
	if rng.Float64() < 0.5 {
		n1 = machine.Pair{A: p1.A, B: p2.A}
		n2 = machine.Pair{A: p1.B, B: p2.B}
	} else {
		n1 = machine.Pair{A: p1.A, B: p2.B}
		n2 = machine.Pair{A: p1.B, B: p2.A}
	}
	if n1.A == n1.B || n2.A == n2.B {
		return p
	}

	next := make([]machine.Pair, 0, len(pairs))
	for k, pair := range pairs {
		if k != i && k != j {
			next = append(next, pair)
		}
	}
	next = append(next, n1, n2)
	out, err := machine.NewPlugboard(next...)
	if err != nil {
		return p
	}
	return out
}

// RandomPlugboard shuffles the alphabet and cables the first 2n letters in
// consecutive pairs. n is clamped to [0, 13].
func RandomPlugboard(n int, rng *rand.Rand) machine.Plugboard {
	n = max(0, min(n, machine.MaxPlugboardPairs))
	letters := []byte(alphabet.Letters)
	rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	pairs := make([]machine.Pair, n)
	for i := range pairs {
		pairs[i] = machine.Pair{A: letters[2*i], B: letters[2*i+1]}
	}
	p, err := machine.NewPlugboard(pairs...)
	if err != nil {
		// A shuffle of distinct letters cannot produce a conflicting pair.
		panic(err)
	}
	return p
}
