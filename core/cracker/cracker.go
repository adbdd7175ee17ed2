// Package cracker runs a crib attack over many rotor orders and start
// positions in parallel and collects the settings that could have produced
// the ciphertext.
package cracker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/core/search"
	"github.com/enigmacrack/enigmacrack/pkg/alphabet"
	"github.com/enigmacrack/enigmacrack/pkg/logging"
	"github.com/enigmacrack/enigmacrack/pkg/securerandom"
)

var (
	// ErrEmptyCrib is returned when the crib has no letters.
	ErrEmptyCrib = errors.New("crib must not be empty")
	// ErrInvalidParams is returned for unusable search parameters.
	ErrInvalidParams = errors.New("invalid search parameters")
)

// Defaults applied by Crack to unset Params fields.
const (
	DefaultPlugboardPairs   = 10
	DefaultChunkSize        = 64
	DefaultProgressInterval = 5 * time.Second
)

// Params configures one run.
type Params struct {
	// PlugboardPairs is the size of the random starting plugboard for annealing.
	// Zero anneals from an empty plugboard. Negative selects DefaultPlugboardPairs.
	PlugboardPairs int
	// Anneal is the schedule for every candidate. The zero value selects the defaults.
	Anneal search.AnnealParams
	// LimitPositions samples this many start positions instead of trying all of them.
	LimitPositions int
	// FixedPlugboard skips annealing and decodes every candidate with this plugboard.
	FixedPlugboard *machine.Plugboard
	// InitialPlugboard replaces the random starting plugboard for annealing.
	InitialPlugboard *machine.Plugboard
	RotorOrders      [][3]string
	Positions        []string
	// Workers bounds the number of chunks processed at once. Zero means runtime.NumCPU().
	Workers   int
	ChunkSize int
	// Seed derives every random stream of the run. Zero picks a fresh one.
	Seed             uint64
	ProgressInterval time.Duration
}

// Validate checks p without applying defaults.
func (p Params) Validate() error {
	if p.PlugboardPairs > machine.MaxPlugboardPairs {
		return fmt.Errorf("%w: plugboard pairs must be at most %d, got %d", ErrInvalidParams, machine.MaxPlugboardPairs, p.PlugboardPairs)
	}
	if p.LimitPositions < 0 {
		return fmt.Errorf("%w: limit positions must not be negative, got %d", ErrInvalidParams, p.LimitPositions)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParams, p.Workers)
	}
	if p.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must not be negative, got %d", ErrInvalidParams, p.ChunkSize)
	}
	if p.ProgressInterval < 0 {
		return fmt.Errorf("%w: progress interval must not be negative, got %s", ErrInvalidParams, p.ProgressInterval)
	}
	if p.FixedPlugboard == nil && p.Anneal != (search.AnnealParams{}) {
		if err := p.Anneal.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Params) withDefaults() Params {
	if p.PlugboardPairs < 0 {
		p.PlugboardPairs = DefaultPlugboardPairs
	}
	if p.Anneal == (search.AnnealParams{}) {
		p.Anneal = search.DefaultAnnealParams()
	}
	if p.Workers == 0 {
		p.Workers = runtime.NumCPU()
	}
	if p.ChunkSize == 0 {
		p.ChunkSize = DefaultChunkSize
	}
	if p.ProgressInterval == 0 {
		p.ProgressInterval = DefaultProgressInterval
	}
	return p
}

// Match is a candidate setting whose decoding contains the crib at a
// position consistent with the ciphertext.
type Match struct {
	Rotors    [3]string
	Positions string
	Plugboard machine.Plugboard
	Decoded   string
	// Offset is where the crib starts in Decoded.
	Offset int
	Score  float64
}

// Settings returns the machine settings of the match.
func (m Match) Settings() machine.Settings {
	return machine.Settings{Rotors: m.Rotors, Positions: m.Positions, Plugboard: m.Plugboard}
}

// Skipped records a candidate that failed and was left out of the run.
type Skipped struct {
	Candidate search.Candidate
	Reason    string
}

// Report is the outcome of a run.
type Report struct {
	RunID string
	Seed  uint64
	// Candidates is the number of candidates examined.
	Candidates int
	Matches    []Match
	Skipped    []Skipped
	Elapsed    time.Duration
}

// Cracker searches for machine settings.
type Cracker struct {
	Logger logging.Logger
	// Scorer ranks decodings. It is shared by all workers and must be safe for concurrent use.
	Scorer search.Scorer
}

// NewCracker creates a new Cracker instance.
func NewCracker(logger logging.Logger) *Cracker {
	if logger == nil {
		logger = logging.ForComponent(nil, "cracker")
	}
	return &Cracker{
		Logger: logger,
		Scorer: search.CribScorer{},
	}
}

type outcome struct {
	match   *Match
	skipped *Skipped
}

// Crack searches every candidate setting for decodings of ciphertext that
// contain crib. When ctx is cancelled no further chunks are dispatched; the
// partial report is returned together with ctx.Err(). A cancellation that
// arrives after every candidate was examined does not fail the run.
func (c *Cracker) Crack(ctx context.Context, ciphertext, crib string, params Params) (*Report, error) {
	start := time.Now()
	ciphertext = alphabet.Normalize(ciphertext)
	crib = alphabet.Normalize(crib)
	if crib == "" {
		return nil, ErrEmptyCrib
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.withDefaults()

	seed := params.Seed
	if seed == 0 {
		var err error
		if seed, err = securerandom.Seed(); err != nil {
			return nil, fmt.Errorf("failed to seed search: %w", err)
		}
	}

	enum, err := search.NewEnumerator(search.EnumeratorOptions{
		RotorOrders:    params.RotorOrders,
		Positions:      params.Positions,
		LimitPositions: params.LimitPositions,
	}, search.SamplingStream(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid candidate space: %w", err)
	}

	report := &Report{RunID: uuid.New().String(), Seed: seed}
	if len(crib) > len(ciphertext) {
		c.Logger.Warn("crib is longer than the ciphertext, no match is possible",
			"run_id", report.RunID, "crib_length", len(crib), "ciphertext_length", len(ciphertext))
		report.Elapsed = time.Since(start)
		return report, nil
	}

	mode := "anneal"
	if params.FixedPlugboard != nil {
		mode = "fixed"
	}
	c.Logger.Info("starting crack run",
		"run_id", report.RunID,
		"seed", seed,
		"candidates", enum.Len(),
		"workers", params.Workers,
		"chunk_size", params.ChunkSize,
		"mode", mode)

	annealer := &search.Annealer{Params: params.Anneal, Scorer: c.scorer()}
	results := make(chan outcome, params.Workers*2)
	var processed atomic.Int64
	progress := &rate.Sometimes{Interval: params.ProgressInterval}

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range results {
			if res.match != nil {
				report.Matches = append(report.Matches, *res.match)
			}
			if res.skipped != nil {
				report.Skipped = append(report.Skipped, *res.skipped)
			}
		}
	}()

	var g errgroup.Group
	g.SetLimit(params.Workers)
	for lo, hi := range enum.Chunks(params.ChunkSize) {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				res := c.tryCandidate(enum.Candidate(i), ciphertext, crib, params, seed, annealer)
				if res.match != nil || res.skipped != nil {
					results <- res
				}
				n := processed.Add(1)
				progress.Do(func() {
					c.Logger.Info("crack progress", "run_id", report.RunID, "processed", n, "total", enum.Len())
				})
			}
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-collected

	rankMatches(report.Matches)
	report.Candidates = int(processed.Load())
	report.Elapsed = time.Since(start)

	c.Logger.Info("crack run finished",
		"run_id", report.RunID,
		"examined", report.Candidates,
		"matches", len(report.Matches),
		"skipped", len(report.Skipped),
		"elapsed", report.Elapsed)

	if report.Candidates < enum.Len() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (c *Cracker) scorer() search.Scorer {
	if c.Scorer == nil {
		return search.CribScorer{}
	}
	return c.Scorer
}

// tryCandidate decodes one candidate. A panic is converted into a Skipped entry.
func (c *Cracker) tryCandidate(cand search.Candidate, ciphertext, crib string, params Params, seed uint64, annealer *search.Annealer) (res outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Warn("skipping candidate after panic",
				"rotors", strings.Join(cand.Rotors[:], ","),
				"positions", cand.Positions,
				"panic", r)
			res = outcome{skipped: &Skipped{Candidate: cand, Reason: fmt.Sprint(r)}}
		}
	}()

	m, err := machine.New(machine.Settings{Rotors: cand.Rotors, Positions: cand.Positions})
	if err != nil {
		return outcome{skipped: &Skipped{Candidate: cand, Reason: err.Error()}}
	}

	var best search.AnnealResult
	if params.FixedPlugboard != nil {
		best.Plugboard = *params.FixedPlugboard
		best.Decoded = search.Decode(m, best.Plugboard, ciphertext)
		best.Score = annealer.Scorer.Score(best.Decoded, crib)
	} else {
		rng := search.NewStream(seed, uint64(cand.Index))
		var initial machine.Plugboard
		if params.InitialPlugboard != nil {
			initial = *params.InitialPlugboard
		} else {
			initial = search.RandomPlugboard(params.PlugboardPairs, rng)
		}
		best = annealer.Run(m, ciphertext, crib, initial, rng)
	}

	offset := search.FindCrib(ciphertext, best.Decoded, crib)
	if offset < 0 {
		return outcome{}
	}
	c.Logger.Debug("crib match",
		"rotors", strings.Join(cand.Rotors[:], ","),
		"positions", cand.Positions,
		"plugboard", best.Plugboard.String(),
		"offset", offset,
		"score", best.Score)
	return outcome{match: &Match{
		Rotors:    cand.Rotors,
		Positions: cand.Positions,
		Plugboard: best.Plugboard,
		Decoded:   best.Decoded,
		Offset:    offset,
		Score:     best.Score,
	}}
}
