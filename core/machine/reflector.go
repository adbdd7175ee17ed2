package machine

import (
	"fmt"

	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

// Reflector is a fixed involution without fixed points. It has no state and is
// shared read-only by any number of machines.
type Reflector struct {
	name   string
	wiring [alphabet.Size]uint8
}

// NewReflector validates wiring and builds a reflector.
func NewReflector(name, wiring string) (*Reflector, error) {
	table, ok := alphabet.ParsePermutation(wiring)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a permutation", ErrInvalidReflector, name)
	}
	for i, v := range table {
		if int(v) == i {
			return nil, fmt.Errorf("%w: %s maps %c to itself", ErrInvalidReflector, name, alphabet.Letter(v))
		}
		if int(table[v]) != i {
			return nil, fmt.Errorf("%w: %s is not an involution at %c", ErrInvalidReflector, name, alphabet.Letter(uint8(i)))
		}
	}
	return &Reflector{name: name, wiring: table}, nil
}

// Name returns the reflector's catalog name.
func (r *Reflector) Name() string { return r.name }

// Reflect maps a letter to its reflector partner.
func (r *Reflector) Reflect(c byte) byte {
	return alphabet.Letter(r.wiring[alphabet.Index(c)])
}
