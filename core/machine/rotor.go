package machine

import (
	"fmt"

	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

// RotorSpec is an immutable catalog entry: the wiring of one rotor type and its notch.
type RotorSpec struct {
	ID      string
	Wiring  string
	Notch   byte
	forward [alphabet.Size]uint8
	inverse [alphabet.Size]uint8
}

// NewRotorSpec validates a wiring and notch and precomputes both lookup tables.
func NewRotorSpec(id, wiring string, notch byte) (RotorSpec, error) {
	table, ok := alphabet.ParsePermutation(wiring)
	if !ok {
		return RotorSpec{}, fmt.Errorf("rotor %s: wiring %q is not a permutation of the alphabet", id, wiring)
	}
	if !alphabet.IsLetter(notch) {
		return RotorSpec{}, fmt.Errorf("rotor %s: notch %q is not a letter", id, notch)
	}
	return RotorSpec{
		ID:      id,
		Wiring:  wiring,
		Notch:   notch,
		forward: table,
		inverse: alphabet.Invert(table),
	}, nil
}

// Rotor is one stepping substitution unit. It holds a private copy of its
// spec's tables, so rotors built from the same spec never share state.
type Rotor struct {
	id       string
	forward  [alphabet.Size]uint8
	inverse  [alphabet.Size]uint8
	notch    uint8
	position uint8
}

// NewRotor returns a rotor of the given type set to position (a letter).
func NewRotor(spec RotorSpec, position byte) (Rotor, error) {
	if !alphabet.IsLetter(position) {
		return Rotor{}, fmt.Errorf("%w: rotor %s position %q", ErrInvalidPositions, spec.ID, position)
	}
	return Rotor{
		id:       spec.ID,
		forward:  spec.forward,
		inverse:  spec.inverse,
		notch:    alphabet.Index(spec.Notch),
		position: alphabet.Index(position),
	}, nil
}

// ID returns the catalog name of the rotor.
func (r *Rotor) ID() string { return r.id }

// Position returns the current position as a letter.
func (r *Rotor) Position() byte { return alphabet.Letter(r.position) }

func (r *Rotor) setPosition(i uint8) { r.position = i }

// Forward passes a letter through the rotor towards the reflector.
func (r *Rotor) Forward(c byte) byte {
	return alphabet.Letter(r.forwardIndex(alphabet.Index(c)))
}

// Backward passes a letter through the rotor away from the reflector.
// It is the exact inverse of Forward at the same position.
func (r *Rotor) Backward(c byte) byte {
	return alphabet.Letter(r.backwardIndex(alphabet.Index(c)))
}

func (r *Rotor) forwardIndex(i uint8) uint8 {
	return (r.forward[(i+r.position)%alphabet.Size] + alphabet.Size - r.position) % alphabet.Size
}

func (r *Rotor) backwardIndex(i uint8) uint8 {
	return (r.inverse[(i+r.position)%alphabet.Size] + alphabet.Size - r.position) % alphabet.Size
}

// Step advances the rotor by one and reports whether it stood at its notch
// before moving, i.e. whether the next rotor in the chain must step too.
func (r *Rotor) Step() bool {
	atNotch := r.position == r.notch
	r.position = (r.position + 1) % alphabet.Size
	return atNotch
}
