package cracker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/enigmacrack/enigmacrack/core/machine"
	"github.com/enigmacrack/enigmacrack/core/search"
	"github.com/enigmacrack/enigmacrack/mocks"
	"github.com/enigmacrack/enigmacrack/testutils"
)

func assertConsistent(t *testing.T, ciphertext, crib string, m Match) {
	t.Helper()
	require.GreaterOrEqual(t, m.Offset, 0)
	require.LessOrEqual(t, m.Offset+len(crib), len(m.Decoded))
	assert.Equal(t, crib, m.Decoded[m.Offset:m.Offset+len(crib)])
	for i := range crib {
		assert.NotEqual(t, crib[i], ciphertext[m.Offset+i], "crib letter %d would encrypt to itself", i)
	}
}

func findMatch(matches []Match, rotors [3]string, positions string) (Match, bool) {
	for _, m := range matches {
		if m.Rotors == rotors && m.Positions == positions {
			return m, true
		}
	}
	return Match{}, false
}

func TestCrackExhaustiveWithFixedPlugboard(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive search over every rotor order and position")
	}
	hint := testutils.MustPlugboard(t, "AB CD")
	c := NewCracker(testutils.NewTestLogger())

	report, err := c.Crack(context.Background(), testutils.HelloCiphertext, "HELLO", Params{
		FixedPlugboard: &hint,
		Seed:           1,
	})
	require.NoError(t, err)

	assert.Equal(t, 60*search.NumPositions, report.Candidates)
	assert.Empty(t, report.Skipped)
	m, ok := findMatch(report.Matches, [3]string{"I", "II", "III"}, "AAA")
	require.True(t, ok, "true setting must be among the matches")
	assert.Equal(t, "HELLOWORLD", m.Decoded)
	assert.Equal(t, 0, m.Offset)
	assert.Equal(t, "AB CD", m.Plugboard.String())
	for _, m := range report.Matches {
		assertConsistent(t, testutils.HelloCiphertext, "HELLO", m)
	}
}

func TestCrackAnnealsFromInitialPlugboard(t *testing.T) {
	initial := testutils.MustPlugboard(t, "AC BD")
	c := NewCracker(testutils.NewTestLogger())

	report, err := c.Crack(context.Background(), "ilacb bmtbe", "hello", Params{
		InitialPlugboard: &initial,
		Anneal:           search.AnnealParams{Iterations: 500, StartTemperature: 10, CoolingRate: 0.001},
		RotorOrders:      [][3]string{{"I", "II", "III"}},
		Positions:        []string{"AAA", "aab", "ZZZ"},
		Workers:          2,
		ChunkSize:        1,
		Seed:             42,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Candidates)
	assert.Equal(t, uint64(42), report.Seed)
	assert.NotEmpty(t, report.RunID)

	m, ok := findMatch(report.Matches, [3]string{"I", "II", "III"}, "AAA")
	require.True(t, ok)
	assert.Equal(t, "AB CD", m.Plugboard.String())
	assert.Equal(t, "HELLOWORLD", m.Decoded)
	assert.Equal(t, 1003.0, m.Score)
	assert.Equal(t, testutils.HelloSettings(t), m.Settings())
	for _, m := range report.Matches {
		assertConsistent(t, testutils.HelloCiphertext, "HELLO", m)
	}
}

func TestCrackIsReproducibleForSeed(t *testing.T) {
	ciphertext := testutils.EncryptFixture(t, machine.Settings{
		Rotors:    [3]string{"III", "I", "V"},
		Positions: "QEV",
		Plugboard: testutils.MustPlugboard(t, "AZ HK XM"),
	}, "ATTACKATDAWNONTHEEASTERNFRONT")

	run := func(workers int) *Report {
		c := NewCracker(testutils.NewTestLogger())
		report, err := c.Crack(context.Background(), ciphertext, "ATTACK", Params{
			PlugboardPairs: 3,
			Anneal:         search.AnnealParams{Iterations: 200, StartTemperature: 10, CoolingRate: 0.01},
			LimitPositions: 40,
			RotorOrders:    [][3]string{{"I", "II", "III"}, {"III", "I", "V"}},
			Workers:        workers,
			ChunkSize:      7,
			Seed:           99,
		})
		require.NoError(t, err)
		return report
	}

	first, second := run(1), run(4)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 80, first.Candidates)
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, first.Matches, second.Matches)
	assert.Equal(t, first.Skipped, second.Skipped)
	for _, m := range first.Matches {
		assertConsistent(t, ciphertext, "ATTACK", m)
	}
}

func TestCrackIsolatesPanickingCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn("skipping candidate after panic", gomock.Any()).Times(2)

	hint := testutils.MustPlugboard(t, "AB CD")
	c := NewCracker(logger)
	c.Scorer = search.ScorerFunc(func(text, crib string) float64 {
		panic("scorer exploded")
	})

	report, err := c.Crack(context.Background(), testutils.HelloCiphertext, "HELLO", Params{
		FixedPlugboard: &hint,
		RotorOrders:    [][3]string{{"I", "II", "III"}},
		Positions:      []string{"AAA", "AAB"},
		Seed:           5,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Candidates)
	assert.Empty(t, report.Matches)
	require.Len(t, report.Skipped, 2)
	for _, s := range report.Skipped {
		assert.Equal(t, "scorer exploded", s.Reason)
		assert.Equal(t, [3]string{"I", "II", "III"}, s.Candidate.Rotors)
	}
}

func TestCrackCribLongerThanCiphertext(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).Times(1)

	report, err := NewCracker(logger).Crack(context.Background(), "ABC", "ABCD", Params{Seed: 3})
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Zero(t, report.Candidates)
	assert.Equal(t, uint64(3), report.Seed)
}

func TestCrackCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewCracker(testutils.NewTestLogger()).Crack(ctx, testutils.HelloCiphertext, "HELLO", Params{Seed: 8})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Candidates)
}

func TestCrackZeroPlugboardPairs(t *testing.T) {
	settings := machine.Settings{Rotors: [3]string{"I", "II", "III"}, Positions: "AAA"}
	ciphertext := testutils.EncryptFixture(t, settings, "HELLOWORLD")

	report, err := NewCracker(testutils.NewTestLogger()).Crack(context.Background(), ciphertext, "HELLOWORLD", Params{
		PlugboardPairs: 0,
		Anneal:         search.AnnealParams{Iterations: 20, StartTemperature: 10},
		RotorOrders:    [][3]string{{"I", "II", "III"}},
		Positions:      []string{"AAA"},
		Seed:           13,
	})
	require.NoError(t, err)

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Empty(t, m.Plugboard.Pairs())
	assert.Equal(t, "HELLOWORLD", m.Decoded)
	assertConsistent(t, ciphertext, "HELLOWORLD", m)
}

func TestParamsWithDefaults(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		wantPairs int
		wantRate  float64
	}{
		{"zero_value", Params{}, 0, search.DefaultCoolingRate},
		{"negative_pairs_select_default", Params{PlugboardPairs: -1}, DefaultPlugboardPairs, search.DefaultCoolingRate},
		{"explicit_pairs", Params{PlugboardPairs: 4}, 4, search.DefaultCoolingRate},
		{"zero_cooling_kept", Params{Anneal: search.AnnealParams{Iterations: 5, StartTemperature: 2}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.params.Validate())
			got := tt.params.withDefaults()
			assert.Equal(t, tt.wantPairs, got.PlugboardPairs)
			assert.Equal(t, tt.wantRate, got.Anneal.CoolingRate)
			assert.Positive(t, got.Workers)
			assert.Equal(t, DefaultChunkSize, got.ChunkSize)
		})
	}
}

func TestCrackCancelledAfterLastCandidate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hint := testutils.MustPlugboard(t, "AB CD")

	c := NewCracker(testutils.NewTestLogger())
	c.Scorer = search.ScorerFunc(func(text, crib string) float64 {
		cancel()
		return search.CribScorer{}.Score(text, crib)
	})
	report, err := c.Crack(ctx, testutils.HelloCiphertext, "HELLO", Params{
		FixedPlugboard: &hint,
		RotorOrders:    [][3]string{{"I", "II", "III"}},
		Positions:      []string{"AAA"},
		Seed:           6,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Candidates)
	assert.Len(t, report.Matches, 1)
}

func TestCrackRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		crib    string
		params  Params
		wantErr error
	}{
		{"empty_crib", " \t", Params{}, ErrEmptyCrib},
		{"too_many_pairs", "HELLO", Params{PlugboardPairs: 14}, ErrInvalidParams},
		{"negative_workers", "HELLO", Params{Workers: -1}, ErrInvalidParams},
		{"negative_limit", "HELLO", Params{LimitPositions: -5}, ErrInvalidParams},
		{"bad_schedule", "HELLO", Params{Anneal: search.AnnealParams{Iterations: 10, CoolingRate: 0.5}}, search.ErrInvalidAnnealParams},
		{"unknown_rotor", "HELLO", Params{RotorOrders: [][3]string{{"I", "II", "IX"}}}, machine.ErrUnknownRotor},
		{"duplicate_rotor", "HELLO", Params{RotorOrders: [][3]string{{"I", "I", "III"}}}, machine.ErrDuplicateRotor},
		{"bad_positions", "HELLO", Params{Positions: []string{"AA"}}, machine.ErrInvalidPositions},
	}

	c := NewCracker(testutils.NewTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := c.Crack(context.Background(), testutils.HelloCiphertext, tt.crib, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, report)
		})
	}
}

func TestRankMatches(t *testing.T) {
	matches := []Match{
		{Rotors: [3]string{"II", "I", "III"}, Positions: "AAA", Score: 1002},
		{Rotors: [3]string{"I", "II", "III"}, Positions: "BBB", Score: 1004},
		{Rotors: [3]string{"I", "II", "III"}, Positions: "AAB", Score: 1002},
		{Rotors: [3]string{"I", "II", "III"}, Positions: "AAA", Score: 1002},
	}
	ranked := rankMatches(matches)

	got := make([]string, len(ranked))
	for i, m := range ranked {
		got[i] = strings.Join(m.Rotors[:], ",") + "/" + m.Positions
	}
	assert.Equal(t, []string{"I,II,III/BBB", "I,II,III/AAA", "I,II,III/AAB", "II,I,III/AAA"}, got)
}
