package machine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
)

func mustMachine(t *testing.T, rotors [3]string, positions, plugboard string) *Machine {
	t.Helper()
	pb, err := ParsePlugboard(plugboard)
	require.NoError(t, err)
	m, err := New(Settings{Rotors: rotors, Positions: positions, Plugboard: pb})
	require.NoError(t, err)
	return m
}

func TestGoldenVectors(t *testing.T) {
	tests := []struct {
		name      string
		rotors    [3]string
		positions string
		plugboard string
		plaintext string
		want      string
	}{
		{
			name:      "HelloWorld",
			rotors:    [3]string{"I", "II", "III"},
			positions: "AAA",
			plugboard: "A:B,C:D",
			plaintext: "HELLOWORLD",
			want:      "ILACBBMTBE",
		},
		{
			name:      "Punctuation_Passes_Through",
			rotors:    [3]string{"I", "II", "III"},
			positions: "AAA",
			plugboard: "A:B,C:D",
			plaintext: "Hello, World!",
			want:      "ILACB,BMTBE!",
		},
		{
			name:      "No_Plugboard",
			rotors:    [3]string{"I", "II", "III"},
			positions: "AAA",
			plaintext: "AAAAA",
			want:      "BDZGO",
		},
		{
			name:      "Pangram",
			rotors:    [3]string{"III", "I", "V"},
			positions: "QEV",
			plugboard: "AZ HK XM",
			plaintext: "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG",
			want:      "HLXMYBXAIBQMXSENXDEQLICLNUYPFJMMKFJ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMachine(t, tt.rotors, tt.positions, tt.plugboard)
			got := m.EncodeMessage(tt.plaintext)
			assert.Equal(t, tt.want, got)

			m.Reset()
			assert.Equal(t, alphabet.Normalize(tt.plaintext), m.EncodeMessage(got))
		})
	}
}

func TestStepping(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"Right_Only", "AAA", "AAB"},
		{"Right_Notch_Carries", "AAV", "ABW"},
		{"Middle_Notch_Carries", "AEV", "BFW"},
		{"Middle_At_Notch_Without_Carry", "AEA", "AEB"},
		{"Wraps", "ZZZ", "ZZA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMachine(t, [3]string{"I", "II", "III"}, tt.start, "")
			m.EncodeLetter('A')
			assert.Equal(t, tt.want, m.Positions())
		})
	}

	t.Run("Non_Letter_Does_Not_Step", func(t *testing.T) {
		m := mustMachine(t, [3]string{"I", "II", "III"}, "AAA", "")
		assert.Equal(t, byte('7'), m.EncodeLetter('7'))
		assert.Equal(t, byte('a'), m.EncodeLetter('a'))
		assert.Equal(t, "AAA", m.Positions())
	})

	t.Run("Reset_Restores_Start", func(t *testing.T) {
		m := mustMachine(t, [3]string{"I", "II", "III"}, "QEV", "")
		m.EncodeMessage("SOMELONGERMESSAGETHATSTEPSTHEROTORS")
		assert.NotEqual(t, "QEV", m.Positions())
		m.Reset()
		assert.Equal(t, "QEV", m.Positions())
	})
}

func randomSettings(rng *rand.Rand) Settings {
	ids := RotorIDs()
	perm := rng.Perm(len(ids))
	positions := []byte{
		alphabet.Letter(uint8(rng.IntN(alphabet.Size))),
		alphabet.Letter(uint8(rng.IntN(alphabet.Size))),
		alphabet.Letter(uint8(rng.IntN(alphabet.Size))),
	}
	letters := rng.Perm(alphabet.Size)
	var pairs []Pair
	n := rng.IntN(MaxPlugboardPairs + 1)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{A: alphabet.Letter(uint8(letters[2*i])), B: alphabet.Letter(uint8(letters[2*i+1]))})
	}
	pb, err := NewPlugboard(pairs...)
	if err != nil {
		panic(err)
	}
	return Settings{
		Rotors:    [3]string{ids[perm[0]], ids[perm[1]], ids[perm[2]]},
		Positions: string(positions),
		Plugboard: pb,
	}
}

func randomText(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet.Letter(uint8(rng.IntN(alphabet.Size)))
	}
	return string(b)
}

func TestMachineProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		s := randomSettings(rng)
		plaintext := randomText(rng, 1+rng.IntN(300))

		enc, err := New(s)
		require.NoError(t, err)
		dec, err := New(s)
		require.NoError(t, err)

		ciphertext := enc.EncodeMessage(plaintext)
		require.Len(t, ciphertext, len(plaintext))

		// Round trip through a second, identically configured machine.
		require.Equal(t, plaintext, dec.EncodeMessage(ciphertext), "settings %s", s)

		// Round trip through the same machine after a reset.
		enc.Reset()
		require.Equal(t, plaintext, enc.EncodeMessage(ciphertext), "settings %s", s)

		for j := range plaintext {
			require.NotEqual(t, plaintext[j], ciphertext[j], "self-mapping at %d with %s", j, s)
		}
	}
}

func TestDeterminism(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	s := randomSettings(rng)
	text := randomText(rng, 500)

	a, err := New(s)
	require.NoError(t, err)
	b, err := New(s)
	require.NoError(t, err)

	// Interleave to catch state leaking between instances.
	var outA, outB []byte
	for i := 0; i < len(text); i++ {
		outA = append(outA, a.EncodeLetter(text[i]))
		outB = append(outB, b.EncodeLetter(text[i]))
	}
	assert.Equal(t, outA, outB)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  error
	}{
		{"Unknown_Rotor", Settings{Rotors: [3]string{"I", "II", "VI"}, Positions: "AAA"}, ErrUnknownRotor},
		{"Duplicate_Rotor", Settings{Rotors: [3]string{"I", "I", "III"}, Positions: "AAA"}, ErrDuplicateRotor},
		{"Short_Positions", Settings{Rotors: [3]string{"I", "II", "III"}, Positions: "AA"}, ErrInvalidPositions},
		{"Digit_Position", Settings{Rotors: [3]string{"I", "II", "III"}, Positions: "A1A"}, ErrInvalidPositions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.settings)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	m := mustMachine(t, [3]string{"V", "III", "I"}, "xyz", "QW ER")
	s := m.Settings()
	assert.Equal(t, [3]string{"V", "III", "I"}, s.Rotors)
	assert.Equal(t, "XYZ", s.Positions)
	assert.Equal(t, "ER QW", s.Plugboard.String())
	m.EncodeMessage("ABCDEF")
	assert.Equal(t, "XYZ", m.Settings().Positions)
}

func TestSetPlugboardKeepsPositions(t *testing.T) {
	m := mustMachine(t, [3]string{"I", "II", "III"}, "AAA", "")
	m.EncodeMessage("ABC")
	pb, err := ParsePlugboard("AB CD")
	require.NoError(t, err)
	m.SetPlugboard(pb)
	assert.Equal(t, "AAD", m.Positions())
	assert.Equal(t, pb, m.Plugboard())

	m.Reset()
	assert.Equal(t, "ILACBBMTBE", m.EncodeMessage("HELLOWORLD"))
}
