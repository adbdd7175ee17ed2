package interfaces

import (
	"context"

	"github.com/enigmacrack/enigmacrack/core/cracker"
)

// Engine defines the public interface for the cipher engine.
type Engine interface {
	// Encode runs text through the machine with the configured key.
	Encode(text string) (string, error)
	// Crack searches for keys under which ciphertext decodes to text containing crib.
	Crack(ctx context.Context, ciphertext, crib string) (*cracker.Report, error)
	// Stop cancels a running crack.
	Stop() error
	// Status returns the current operational status of the engine.
	Status() (string, error)
}
