package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/enigmacrack/enigmacrack/core/machine"
)

// TestTimeout is the default timeout for operations in tests.
const TestTimeout = 30 * time.Second

// HelloCiphertext is HELLOWORLD under rotors I, II, III at AAA with plugboard AB CD.
const HelloCiphertext = "ILACBBMTBE"

// HelloSettings returns the settings that produce HelloCiphertext.
func HelloSettings(t testing.TB) machine.Settings {
	t.Helper()
	return machine.Settings{
		Rotors:    [3]string{"I", "II", "III"},
		Positions: "AAA",
		Plugboard: MustPlugboard(t, "AB CD"),
	}
}

// MustPlugboard parses a plugboard or fails the test.
func MustPlugboard(t testing.TB, pairs string) machine.Plugboard {
	t.Helper()
	pb, err := machine.ParsePlugboard(pairs)
	require.NoError(t, err)
	return pb
}

// EncryptFixture encrypts plaintext with a fresh machine built from s.
func EncryptFixture(t testing.TB, s machine.Settings, plaintext string) string {
	t.Helper()
	m, err := machine.New(s)
	require.NoError(t, err)
	return m.EncodeMessage(plaintext)
}
