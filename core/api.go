package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/enigmacrack/enigmacrack/core/config"
	"github.com/enigmacrack/enigmacrack/core/cracker"
	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/pkg/logging"
)

// Engine is the main controller: it encodes with the configured key and runs
// crib attacks with the configured search parameters.
type Engine struct {
	cracker    *cracker.Cracker
	config     *config.FileConfig
	settings   machine.Settings
	mu         sync.Mutex
	cancelRun  context.CancelFunc
	stopped    bool
	lastReport *cracker.Report
	lastErr    error
	logger     logging.Logger
}

// NewEngine creates a new core engine. A nil cfg selects config.Default().
func NewEngine(cfg *config.FileConfig, logger logging.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	settings, err := cfg.MachineSettings()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{
		cracker:  cracker.NewCracker(logger.With("component", "cracker")),
		config:   cfg,
		settings: settings,
		logger:   logger.With("component", "engine"),
	}, nil
}

// Settings returns the configured machine key.
func (e *Engine) Settings() machine.Settings {
	return e.settings
}

// Encode runs text through a fresh machine set to the configured key. The
// machine is self-reciprocal, so Encode also decodes.
func (e *Engine) Encode(text string) (string, error) {
	m, err := machine.New(e.settings)
	if err != nil {
		return "", fmt.Errorf("failed to build machine: %w", err)
	}
	return m.EncodeMessage(text), nil
}

// Crack runs a crib attack with the configured search parameters. Only one
// run may be active at a time; Stop cancels it from another goroutine.
func (e *Engine) Crack(ctx context.Context, ciphertext, crib string) (*cracker.Report, error) {
	params, err := e.config.SearchParams()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.cancelRun != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("a crack run is already in progress")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancelRun = cancel
	e.stopped = false
	e.lastErr = nil
	e.mu.Unlock()

	report, err := e.cracker.Crack(ctx, ciphertext, crib, params)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelRun = nil
	if report != nil {
		e.lastReport = report
	}
	switch {
	case err == nil:
		// Stop raced with the final candidate; the run still completed.
		e.stopped = false
	case errors.Is(err, context.Canceled):
		e.stopped = true
	default:
		e.lastErr = err
		e.logger.Error("Crack run failed", "error", err)
	}
	return report, err
}

// Stop cancels the running crack. Chunks already handed to workers finish first.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancelRun == nil {
		return fmt.Errorf("no crack run in progress")
	}
	e.stopped = true
	e.cancelRun()
	return nil
}

// Status returns the current state of the engine.
func (e *Engine) Status() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.lastErr != nil:
		return "Crack failed", e.lastErr
	case e.cancelRun != nil && e.stopped:
		return "Crack stopping", nil
	case e.cancelRun != nil:
		return "Crack running", nil
	case e.stopped:
		return "Crack stopped", nil
	case e.lastReport != nil:
		return fmt.Sprintf("Last crack %s: %d matches in %d candidates",
			e.lastReport.RunID, len(e.lastReport.Matches), e.lastReport.Candidates), nil
	}
	return "Idle", nil
}
