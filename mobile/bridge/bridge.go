//go:generate mockgen -package=mocks -destination=../../mocks/mock_status_updater.go github.com/enigmacrack/enigmacrack/mobile/bridge StatusUpdater

// Package bridge provides a gomobile-compatible wrapper around the engine.
// Only strings, errors and callback interfaces cross the boundary, so crack
// reports are delivered as JSON.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/enigmacrack/enigmacrack/core"
	"github.com/enigmacrack/enigmacrack/core/config"
	"github.com/enigmacrack/enigmacrack/core/cracker"
	"github.com/enigmacrack/enigmacrack/pkg/logging"
)

// Status values passed to StatusUpdater.
const (
	StatusReady    = "READY"
	StatusCracking = "CRACKING"
	StatusDone     = "DONE"
	StatusStopped  = "STOPPED"
	StatusError    = "ERROR"
)

// StatusUpdater is an interface that native mobile code must implement
// to receive status updates from the Go library.
type StatusUpdater interface {
	// OnStatusUpdate is called with one of the Status values and a message.
	// For StatusDone the message is the JSON encoded report.
	OnStatusUpdate(status, message string)
}

type bridge struct {
	mu     sync.Mutex
	engine *core.Engine
	// ctx is cancelled when the engine is released.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var global = &bridge{}

// SetGlobalBridgeForTesting replaces the global engine. Passing nil resets it.
func SetGlobalBridgeForTesting(engine *core.Engine) {
	global.release()
	global.wg.Wait()
	if engine != nil {
		global.mu.Lock()
		global.install(engine)
		global.mu.Unlock()
	}
}

// StartEngine creates the engine from a YAML configuration. An empty
// configuration selects the defaults.
func StartEngine(configYAML string, updater StatusUpdater) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.engine != nil {
		updater.OnStatusUpdate(StatusError, "Engine already started")
		return
	}

	cfg, err := config.Parse([]byte(configYAML))
	if err != nil {
		updater.OnStatusUpdate(StatusError, "Failed to parse configuration: "+err.Error())
		return
	}
	logger := logging.ForComponent(nil, "mobile")
	engine, err := core.NewEngine(cfg, logger)
	if err != nil {
		updater.OnStatusUpdate(StatusError, "Failed to create engine: "+err.Error())
		return
	}
	global.install(engine)

	s := engine.Settings()
	updater.OnStatusUpdate(StatusReady, "Engine ready with rotors "+strings.Join(s.Rotors[:], ",")+" at "+s.Positions)
}

// Encode encodes text with the configured key.
func Encode(text string) (string, error) {
	engine, err := global.current()
	if err != nil {
		return "", err
	}
	return engine.Encode(text)
}

// StartCrack runs a crib attack in the background. The outcome is reported
// through updater: StatusDone with the JSON report, StatusStopped after
// StopCrack, or StatusError.
func StartCrack(ciphertext, crib string, updater StatusUpdater) {
	global.mu.Lock()
	engine, ctx := global.engine, global.ctx
	if engine == nil {
		global.mu.Unlock()
		updater.OnStatusUpdate(StatusError, errNotStarted.Error())
		return
	}
	global.wg.Add(1)
	global.mu.Unlock()

	updater.OnStatusUpdate(StatusCracking, "Searching for settings matching crib "+strings.ToUpper(crib))
	go func() {
		defer global.wg.Done()
		report, err := engine.Crack(ctx, ciphertext, crib)
		switch {
		case errors.Is(err, context.Canceled):
			updater.OnStatusUpdate(StatusStopped, "Crack stopped.")
		case err != nil:
			updater.OnStatusUpdate(StatusError, "Crack failed: "+err.Error())
		default:
			out, err := encodeReport(report)
			if err != nil {
				updater.OnStatusUpdate(StatusError, "Failed to encode report: "+err.Error())
				return
			}
			updater.OnStatusUpdate(StatusDone, out)
		}
	}()
}

// StopCrack cancels a running crack started with StartCrack.
func StopCrack() error {
	engine, err := global.current()
	if err != nil {
		return err
	}
	return engine.Stop()
}

// StopEngine cancels any running crack, waits for it and releases the engine.
// No crack can start once StopEngine has been called.
func StopEngine(updater StatusUpdater) {
	if !global.release() {
		updater.OnStatusUpdate(StatusError, "Engine not running")
		return
	}
	global.wg.Wait()
	updater.OnStatusUpdate(StatusStopped, "Engine stopped.")
}

var errNotStarted = errors.New("engine not started")

func (b *bridge) current() (*core.Engine, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.engine == nil {
		return nil, errNotStarted
	}
	return b.engine, nil
}

// install must be called with b.mu held.
func (b *bridge) install(engine *core.Engine) {
	b.engine = engine
	b.ctx, b.cancel = context.WithCancel(context.Background())
}

// release detaches the engine and cancels its runs. It reports whether an
// engine was installed.
func (b *bridge) release() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.engine == nil {
		return false
	}
	b.cancel()
	b.engine, b.ctx, b.cancel = nil, nil, nil
	return true
}

type matchJSON struct {
	Rotors    []string `json:"rotors"`
	Positions string   `json:"positions"`
	Plugboard string   `json:"plugboard"`
	Decoded   string   `json:"decoded"`
	Offset    int      `json:"offset"`
	Score     float64  `json:"score"`
}

type reportJSON struct {
	RunID      string      `json:"run_id"`
	Seed       uint64      `json:"seed"`
	Candidates int         `json:"candidates"`
	Skipped    int         `json:"skipped"`
	ElapsedMs  int64       `json:"elapsed_ms"`
	Matches    []matchJSON `json:"matches"`
}

func encodeReport(r *cracker.Report) (string, error) {
	out := reportJSON{
		RunID:      r.RunID,
		Seed:       r.Seed,
		Candidates: r.Candidates,
		Skipped:    len(r.Skipped),
		ElapsedMs:  r.Elapsed.Milliseconds(),
		Matches:    make([]matchJSON, 0, len(r.Matches)),
	}
	for _, m := range r.Matches {
		out.Matches = append(out.Matches, matchJSON{
			Rotors:    m.Rotors[:],
			Positions: m.Positions,
			Plugboard: m.Plugboard.String(),
			Decoded:   m.Decoded,
			Offset:    m.Offset,
			Score:     m.Score,
		})
	}
	buf, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
