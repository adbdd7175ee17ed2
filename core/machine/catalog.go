package machine

import (
	"fmt"
)

// The five rotors and reflector B of the three-rotor army machine.
var (
	rotorIDs = []string{"I", "II", "III", "IV", "V"}

	rotorCatalog = map[string]RotorSpec{
		"I":   mustRotorSpec("I", "EKMFLGDQVZNTOWYHXUSPAIBRCJ", 'Q'),
		"II":  mustRotorSpec("II", "AJDKSIRUXBLHWTMCQGZNPYFVOE", 'E'),
		"III": mustRotorSpec("III", "BDFHJLCPRTXVZNYEIWGAKMUSQO", 'V'),
		"IV":  mustRotorSpec("IV", "ESOVPZJAYQUIRHXLNFTGKDCMWB", 'J'),
		"V":   mustRotorSpec("V", "VZBRGITYUPSDNHLXAWMJQOFECK", 'Z'),
	}

	// ReflectorB is the only reflector the machine supports.
	ReflectorB = mustReflector("B", "YRUHQSLDPXNGOKMIEBFZCWVJAT")
)

// RotorIDs returns the catalog's rotor names in catalog order.
func RotorIDs() []string {
	ids := make([]string, len(rotorIDs))
	copy(ids, rotorIDs)
	return ids
}

// LookupRotor returns the spec for a rotor name.
func LookupRotor(id string) (RotorSpec, error) {
	spec, ok := rotorCatalog[id]
	if !ok {
		return RotorSpec{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownRotor, id, rotorIDs)
	}
	return spec, nil
}

func mustRotorSpec(id, wiring string, notch byte) RotorSpec {
	spec, err := NewRotorSpec(id, wiring, notch)
	if err != nil {
		panic(err)
	}
	return spec
}

func mustReflector(name, wiring string) *Reflector {
	r, err := NewReflector(name, wiring)
	if err != nil {
		panic(err)
	}
	return r
}
