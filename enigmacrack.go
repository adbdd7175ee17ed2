// Package enigmacrack is a three-rotor cipher machine together with a crib
// attack that recovers its key.
package enigmacrack

import (
	"context"

	"github.com/enigmacrack/enigmacrack/core"
	"github.com/enigmacrack/enigmacrack/core/config"
	"github.com/enigmacrack/enigmacrack/core/cracker"
	"github.com/enigmacrack/enigmacrack/interfaces"
	"github.com/enigmacrack/enigmacrack/pkg/logging"
)

// Engine represents the cipher engine.
type Engine struct {
	coreEngine *core.Engine
}

// NewEngine creates a new instance of the cipher engine. A nil cfg uses the
// defaults; a nil logger uses the global logger.
func NewEngine(cfg *config.FileConfig, logger logging.Logger) (interfaces.Engine, error) {
	coreEngine, err := core.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{coreEngine: coreEngine}, nil
}

// Encode runs text through the machine with the configured key.
func (e *Engine) Encode(text string) (string, error) {
	return e.coreEngine.Encode(text)
}

// Crack searches for keys that decode ciphertext to text containing crib.
func (e *Engine) Crack(ctx context.Context, ciphertext, crib string) (*cracker.Report, error) {
	return e.coreEngine.Crack(ctx, ciphertext, crib)
}

// Stop cancels a running crack.
func (e *Engine) Stop() error {
	return e.coreEngine.Stop()
}

// Status returns the current operational status of the engine.
func (e *Engine) Status() (string, error) {
	return e.coreEngine.Status()
}
