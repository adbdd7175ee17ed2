package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexLetterRoundTrip(t *testing.T) {
	for i := 0; i < Size; i++ {
		c := Letters[i]
		assert.True(t, IsLetter(c))
		assert.Equal(t, uint8(i), Index(c))
		assert.Equal(t, c, Letter(uint8(i)))
	}
	assert.False(t, IsLetter('a'))
	assert.False(t, IsLetter('@'))
	assert.False(t, IsLetter('['))
}

func TestMod(t *testing.T) {
	assert.Equal(t, uint8(0), Mod(26))
	assert.Equal(t, uint8(25), Mod(-1))
	assert.Equal(t, uint8(1), Mod(-51))
	assert.Equal(t, uint8(3), Mod(55))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello world", "HELLOWORLD"},
		{"HELLO", "HELLO"},
		{" a\tb\nc ", "ABC"},
		{"Hello, World!", "HELLO,WORLD!"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestParsePermutation(t *testing.T) {
	table, ok := ParsePermutation("EKMFLGDQVZNTOWYHXUSPAIBRCJ")
	assert.True(t, ok)
	assert.Equal(t, uint8('E'-'A'), table[0])

	inv := Invert(table)
	for i := range table {
		assert.Equal(t, uint8(i), inv[table[i]])
	}

	_, ok = ParsePermutation("ABC")
	assert.False(t, ok)
	_, ok = ParsePermutation("AAMFLGDQVZNTOWYHXUSPAIBRCJ")
	assert.False(t, ok)
	_, ok = ParsePermutation("ekmflgdqvzntowyhxuspaibrcj")
	assert.False(t, ok)
}
