// Package securerandom draws from crypto/rand. It supplies entropy for run
// seeds and freshly generated machine keys; the search itself uses seeded,
// reproducible streams instead.
package securerandom

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
)

// Int returns a cryptographically secure random integer in the range [min, max].
func Int(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max (got min=%d, max=%d)", min, max)
	}
	if min == max {
		return min, nil
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate crypto/rand integer: %w", err)
	}
	return int(n.Int64()) + min, nil
}

// Uint64 returns 64 random bits.
func Uint64() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate secure random bytes: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// Seed returns a non-zero 64-bit seed. Zero is reserved to mean "pick one".
func Seed() (uint64, error) {
	for {
		s, err := Uint64()
		if err != nil {
			return 0, err
		}
		if s != 0 {
			return s, nil
		}
	}
}

// Perm returns a random permutation of integers [0,n).
func Perm(n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid argument to Perm: %d", n)
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	if err := Shuffle(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Shuffle permutes s in place using the Fisher-Yates algorithm.
func Shuffle[T any](s []T) error {
	for i := len(s) - 1; i > 0; i-- {
		j, err := Int(0, i)
		if err != nil {
			return err
		}
		s[i], s[j] = s[j], s[i]
	}
	return nil
}
