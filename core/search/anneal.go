package search

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/enigmacrack/enigmacrack/core/machine"
)

// ErrInvalidAnnealParams is returned by AnnealParams.Validate.
var ErrInvalidAnnealParams = errors.New("invalid annealing parameters")

// Defaults for AnnealParams.
const (
	DefaultIterations       = 10000
	DefaultStartTemperature = 10.0
	DefaultCoolingRate      = 0.0001
)

// AnnealParams controls the plugboard annealing schedule.
type AnnealParams struct {
	Iterations       int
	StartTemperature float64
	// CoolingRate shrinks the temperature by this fraction every iteration.
	CoolingRate float64
}

// DefaultAnnealParams returns the default schedule.
func DefaultAnnealParams() AnnealParams {
	return AnnealParams{
		Iterations:       DefaultIterations,
		StartTemperature: DefaultStartTemperature,
		CoolingRate:      DefaultCoolingRate,
	}
}

// Validate checks the schedule is usable.
func (p AnnealParams) Validate() error {
	if p.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidAnnealParams, p.Iterations)
	}
	if !(p.StartTemperature > 0) || math.IsInf(p.StartTemperature, 0) {
		return fmt.Errorf("%w: start temperature must be positive and finite, got %v", ErrInvalidAnnealParams, p.StartTemperature)
	}
	if !(p.CoolingRate >= 0 && p.CoolingRate < 1) {
		return fmt.Errorf("%w: cooling rate must be in [0, 1), got %v", ErrInvalidAnnealParams, p.CoolingRate)
	}
	return nil
}

// Step describes one finished annealing iteration.
type Step struct {
	Iteration    int
	Temperature  float64
	CurrentScore float64
	BestScore    float64
	Accepted     bool
}

// AnnealResult is the best plugboard an annealing run found.
type AnnealResult struct {
	Plugboard  machine.Plugboard
	Score      float64
	Decoded    string
	Iterations int
}

// Annealer searches plugboard space for one fixed rotor order and start position.
type Annealer struct {
	Params AnnealParams
	Scorer Scorer
	// Observe, when set, is called after every iteration.
	Observe func(Step)
}

// NewAnnealer returns an annealer using the default vowel/crib scorer.
func NewAnnealer(params AnnealParams) *Annealer {
	return &Annealer{Params: params, Scorer: CribScorer{}}
}

// Run anneals from initial. m supplies the rotor configuration; its plugboard
// is overwritten. ciphertext must already be normalized. The run stops early
// as soon as the best decoding contains the crib.
func (a *Annealer) Run(m *machine.Machine, ciphertext, crib string, initial machine.Plugboard, rng *rand.Rand) AnnealResult {
	scorer := a.Scorer
	if scorer == nil {
		scorer = CribScorer{}
	}
	buf := make([]byte, 0, len(ciphertext))

	current := initial
	currentText := decode(m, current, ciphertext, buf)
	currentScore := scorer.Score(currentText, crib)

	best := AnnealResult{Plugboard: current, Score: currentScore, Decoded: currentText}
	temperature := a.Params.StartTemperature

	for iter := 0; iter < a.Params.Iterations; iter++ {
		neighbor := Neighbor(current, rng)
		neighborText := decode(m, neighbor, ciphertext, buf)
		neighborScore := scorer.Score(neighborText, crib)
		delta := neighborScore - currentScore

		accepted := delta > 0 || rng.Float64() < math.Exp(delta/temperature)
		if accepted {
			current, currentText, currentScore = neighbor, neighborText, neighborScore
		}
		if currentScore > best.Score {
			best.Plugboard, best.Score, best.Decoded = current, currentScore, currentText
		}

		temperature *= 1 - a.Params.CoolingRate
		best.Iterations = iter + 1

		if a.Observe != nil {
			a.Observe(Step{
				Iteration:    iter,
				Temperature:  temperature,
				CurrentScore: currentScore,
				BestScore:    best.Score,
				Accepted:     accepted,
			})
		}
		if strings.Contains(best.Decoded, crib) {
			break
		}
	}
	return best
}

// Decode runs ciphertext through m with plugboard p from m's start positions.
func Decode(m *machine.Machine, p machine.Plugboard, ciphertext string) string {
	return decode(m, p, ciphertext, make([]byte, 0, len(ciphertext)))
}

func decode(m *machine.Machine, p machine.Plugboard, ciphertext string, buf []byte) string {
	m.SetPlugboard(p)
	m.Reset()
	return string(m.AppendEncoded(buf[:0], ciphertext))
}
