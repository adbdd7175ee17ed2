// Package machine simulates a three-rotor reflecting rotor cipher with a plugboard.
//
// A Machine is a per-letter state machine: the only thing that changes while
// encoding is the position of each rotor. Encoding is its own inverse, so the
// same Machine, reset to its start positions, decrypts what it encrypted.
//
// Machines are not safe for concurrent use. Build one per goroutine; the rotor
// catalog and ReflectorB are immutable and may be shared freely.
package machine

import (
	"fmt"
	"strings"

	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

// Settings is the plain-value description of a machine configuration.
type Settings struct {
	// Rotors lists rotor names left to right; the rightmost rotor steps fastest.
	Rotors [3]string
	// Positions holds the three start letters, left to right.
	Positions string
	Plugboard Plugboard
}

func (s Settings) String() string {
	return fmt.Sprintf("rotors=%s positions=%s plugboard=[%s]", strings.Join(s.Rotors[:], ","), s.Positions, s.Plugboard)
}

// Machine is the cipher engine.
type Machine struct {
	rotors    [3]Rotor
	initial   [3]uint8
	reflector *Reflector
	plugboard Plugboard
}

// New builds a machine using ReflectorB.
func New(s Settings) (*Machine, error) {
	return NewWithReflector(s, ReflectorB)
}

// NewWithReflector builds a machine from the rotor catalog and an explicit reflector.
func NewWithReflector(s Settings, reflector *Reflector) (*Machine, error) {
	if reflector == nil {
		return nil, fmt.Errorf("%w: nil reflector", ErrInvalidReflector)
	}
	positions, err := ParsePositions(s.Positions)
	if err != nil {
		return nil, err
	}

	m := &Machine{reflector: reflector, plugboard: s.Plugboard}
	for i, id := range s.Rotors {
		for j := 0; j < i; j++ {
			if s.Rotors[j] == id {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateRotor, id)
			}
		}
		spec, err := LookupRotor(id)
		if err != nil {
			return nil, err
		}
		m.rotors[i], err = NewRotor(spec, positions[i])
		if err != nil {
			return nil, err
		}
		m.initial[i] = alphabet.Index(positions[i])
	}
	return m, nil
}

// ParsePositions validates three start letters (case-insensitive) and returns
// them uppercased.
func ParsePositions(positions string) (string, error) {
	up := strings.ToUpper(positions)
	if len(up) != 3 {
		return "", fmt.Errorf("%w: %q must be exactly three letters", ErrInvalidPositions, positions)
	}
	for i := 0; i < 3; i++ {
		if !alphabet.IsLetter(up[i]) {
			return "", fmt.Errorf("%w: %q must be exactly three letters", ErrInvalidPositions, positions)
		}
	}
	return up, nil
}

// EncodeLetter steps the rotors and encodes one letter. Anything other than
// 'A'..'Z' is returned unchanged and does not move the rotors.
func (m *Machine) EncodeLetter(c byte) byte {
	if !alphabet.IsLetter(c) {
		return c
	}
	m.step()
	return alphabet.Letter(m.encodeIndex(alphabet.Index(c)))
}

func (m *Machine) step() {
	if m.rotors[2].Step() {
		if m.rotors[1].Step() {
			m.rotors[0].Step()
		}
	}
}

func (m *Machine) encodeIndex(i uint8) uint8 {
	i = m.plugboard.swapIndex(i)
	i = m.rotors[2].forwardIndex(i)
	i = m.rotors[1].forwardIndex(i)
	i = m.rotors[0].forwardIndex(i)
	i = m.reflector.wiring[i]
	i = m.rotors[0].backwardIndex(i)
	i = m.rotors[1].backwardIndex(i)
	i = m.rotors[2].backwardIndex(i)
	return m.plugboard.swapIndex(i)
}

// EncodeMessage uppercases text, drops whitespace and encodes what remains,
// carrying rotor state from letter to letter.
func (m *Machine) EncodeMessage(text string) string {
	text = alphabet.Normalize(text)
	return string(m.AppendEncoded(make([]byte, 0, len(text)), text))
}

// AppendEncoded encodes text byte by byte without normalizing it and appends
// the result to dst.
func (m *Machine) AppendEncoded(dst []byte, text string) []byte {
	for i := 0; i < len(text); i++ {
		dst = append(dst, m.EncodeLetter(text[i]))
	}
	return dst
}

// Reset returns every rotor to the position it had when the machine was built.
func (m *Machine) Reset() {
	for i := range m.rotors {
		m.rotors[i].setPosition(m.initial[i])
	}
}

// SetPlugboard replaces the plugboard. Rotor positions are left alone.
func (m *Machine) SetPlugboard(p Plugboard) {
	m.plugboard = p
}

// Plugboard returns the current plugboard.
func (m *Machine) Plugboard() Plugboard {
	return m.plugboard
}

// Positions returns the current rotor positions, left to right.
func (m *Machine) Positions() string {
	return string([]byte{m.rotors[0].Position(), m.rotors[1].Position(), m.rotors[2].Position()})
}

// Settings returns the configuration the machine was built with.
func (m *Machine) Settings() Settings {
	return Settings{
		Rotors:    [3]string{m.rotors[0].ID(), m.rotors[1].ID(), m.rotors[2].ID()},
		Positions: string([]byte{alphabet.Letter(m.initial[0]), alphabet.Letter(m.initial[1]), alphabet.Letter(m.initial[2])}),
		Plugboard: m.plugboard,
	}
}
