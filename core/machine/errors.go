package machine

import "errors"

var (
	// ErrUnknownRotor is returned when a rotor name is not in the catalog.
	ErrUnknownRotor = errors.New("unknown rotor identifier")
	// ErrDuplicateRotor is returned when one rotor is placed in two slots.
	ErrDuplicateRotor = errors.New("rotor used more than once")
	// ErrInvalidPositions is returned for start positions that are not three letters.
	ErrInvalidPositions = errors.New("invalid rotor positions")
	// ErrInvalidPlugboard is returned for self-pairs, letters with two partners,
	// non-letters or more than 13 pairs.
	ErrInvalidPlugboard = errors.New("invalid plugboard configuration")
	// ErrInvalidReflector is returned for reflector wirings that are not fixed-point-free involutions.
	ErrInvalidReflector = errors.New("invalid reflector wiring")
)
