package core

import (
	"fmt"

	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
	"github.com/enigmacrack/enigmacrack/pkg/securerandom"
)

// GenerateSettings draws a fresh key from crypto/rand: three distinct rotors,
// random start positions and a plugboard with the given number of pairs.
func GenerateSettings(pairs int) (machine.Settings, error) {
	var s machine.Settings
	if pairs < 0 || pairs > machine.MaxPlugboardPairs {
		return s, fmt.Errorf("%w: cannot generate %d pairs", machine.ErrInvalidPlugboard, pairs)
	}

	ids := machine.RotorIDs()
	perm, err := securerandom.Perm(len(ids))
	if err != nil {
		return s, err
	}
	for i := range s.Rotors {
		s.Rotors[i] = ids[perm[i]]
	}

	positions := make([]byte, len(s.Rotors))
	for i := range positions {
		n, err := securerandom.Int(0, alphabet.Size-1)
		if err != nil {
			return s, err
		}
		positions[i] = alphabet.Letter(uint8(n))
	}
	s.Positions = string(positions)

	letters := []byte(alphabet.Letters)
	if err := securerandom.Shuffle(letters); err != nil {
		return s, err
	}
	plugs := make([]machine.Pair, pairs)
	for i := range plugs {
		plugs[i] = machine.Pair{A: letters[2*i], B: letters[2*i+1]}
	}
	if s.Plugboard, err = machine.NewPlugboard(plugs...); err != nil {
		return s, err
	}
	return s, nil
}
