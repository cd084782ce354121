// Package experiments runs batches of seeded AI-vs-AI matches and folds them
// into match statistics.
package experiments

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"gemduel/engine"
	"gemduel/errkind"
	"gemduel/experiments/metrics"
	"gemduel/game"
	"gemduel/openingbook"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	// matchesTotal counts finished matches by outcome
	matchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gemduel_arena_matches_total",
		Help: "Total arena matches by outcome",
	}, []string{"outcome"})

	// matchDuration tracks wall time per match
	matchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gemduel_arena_match_duration_seconds",
		Help:    "Arena match duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	})
)

const (
	OutcomeWin     = "win"
	OutcomeDraw    = "draw"
	OutcomeCrash   = "crash"
	OutcomeIllegal = "illegal_move"
)

var errUnknownWinner = errors.New("runner reported an unknown winner")

// Match is everything a runner needs to play one seeded game.
type Match struct {
	Seed       int64
	Seats      map[game.Side]string // AI id per side
	Setups     map[game.Side]openingbook.Setup
	Placements map[game.Side][]openingbook.Placement
}

// MatchRunner plays one match to completion. Winner in the outcome is a side.
type MatchRunner interface {
	PlayMatch(ctx context.Context, match Match) (engine.Outcome, error)
}

type MatchRunnerFunc func(ctx context.Context, match Match) (engine.Outcome, error)

func (f MatchRunnerFunc) PlayMatch(ctx context.Context, match Match) (engine.Outcome, error) {
	return f(ctx, match)
}

// Recorder persists a finished batch.
type Recorder interface {
	SaveBatch(ctx context.Context, report Report) error
}

// Batch is N seeded matches between two AI versions.
type Batch struct {
	PlayerA string
	PlayerB string
	Seeds   []int64
}

// MaxBatchSeeds bounds the size of a seed range.
const MaxBatchSeeds = 1 << 24

// Seeds returns the inclusive seed range [start, end]. Reversed ranges and
// ranges longer than MaxBatchSeeds are validation errors.
func Seeds(start, end int64) ([]int64, error) {
	if end < start {
		return nil, fmt.Errorf("%w: seed range %d..%d is reversed", errkind.Validation, start, end)
	}
	// Unsigned difference cannot overflow
	if span := uint64(end) - uint64(start); span >= MaxBatchSeeds {
		return nil, fmt.Errorf("%w: seed range %d..%d exceeds %d seeds", errkind.Validation, start, end, MaxBatchSeeds)
	}
	seeds := make([]int64, 0, end-start+1)
	for s := start; ; s++ {
		seeds = append(seeds, s)
		if s == end {
			break
		}
	}
	return seeds, nil
}

// Report is the outcome of a batch. Results holds completed matches in seed
// order.
type Report struct {
	ID      uuid.UUID
	Players metrics.Players
	Stats   *metrics.MatchStats
	Results []metrics.GameResult
}

func (r Report) AverageTurns() float64 {
	return metrics.AverageTurns(r.Stats)
}

type Option func(a *Arena)

func WithWorkers(workers int) Option {
	return func(a *Arena) {
		if workers > 0 {
			a.workers = workers
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Arena) {
		a.logger = logger
	}
}

// WithAlternatingSides seats PlayerB as squares on odd seeds.
func WithAlternatingSides(alternate bool) Option {
	return func(a *Arena) {
		a.alternate = alternate
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(a *Arena) {
		a.recorder = recorder
	}
}

type Arena struct {
	book      *openingbook.Service
	runner    MatchRunner
	workers   int
	alternate bool
	recorder  Recorder
	logger    zerolog.Logger
}

func NewArena(book *openingbook.Service, runner MatchRunner, options ...Option) *Arena {
	a := &Arena{
		book:    book,
		runner:  runner,
		workers: runtime.GOMAXPROCS(0),
		logger:  log.Logger,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *Arena) Workers() int {
	return a.workers
}

// Run plays every seed of the batch on a bounded worker pool. A match that
// fails or panics is recorded as crashed and the batch goes on. On
// cancellation the matches in flight are abandoned, never merged, and Run
// returns the report of the completed ones together with ctx.Err().
func (a *Arena) Run(ctx context.Context, batch Batch) (Report, error) {
	report := Report{
		ID:      uuid.New(),
		Players: metrics.Players{PlayerA: batch.PlayerA, PlayerB: batch.PlayerB},
		Stats:   metrics.NewMatchStats(),
	}
	if batch.PlayerA == "" || batch.PlayerB == "" {
		return report, fmt.Errorf("%w: batch needs two player ids", errkind.Validation)
	}

	// The book must be ready before any match starts
	book := a.book.Load(ctx)

	a.logger.Info().Msgf("starting batch %s: %d matches between %s and %s on %d workers",
		report.ID, len(batch.Seeds), batch.PlayerA, batch.PlayerB, a.workers)
	start := time.Now()

	tally := metrics.NewTally()
	completed := make([]*metrics.GameResult, len(batch.Seeds))
	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, seed := range batch.Seeds {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			result, ok := a.play(ctx, book, batch, seed)
			if !ok {
				return nil
			}
			completed[i] = &result
			tally.Add(result)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range completed {
		if result != nil {
			report.Results = append(report.Results, *result)
		}
	}
	report.Stats = tally.Snapshot()

	if err := ctx.Err(); err != nil {
		a.logger.Warn().Msgf("batch %s cancelled after %d of %d matches", report.ID, len(report.Results), len(batch.Seeds))
		return report, err
	}
	a.logger.Info().Msgf("completed batch %s in %s: %d games, %d crashes, avg %.2f turns",
		report.ID, time.Since(start).Round(time.Millisecond), report.Stats.GamesPlayed, report.Stats.Crashes, report.AverageTurns())

	if a.recorder != nil {
		if err := a.recorder.SaveBatch(ctx, report); err != nil {
			return report, fmt.Errorf("record batch %s: %w", report.ID, err)
		}
	}
	return report, nil
}

// play runs one seed. ok is false when the match was abandoned.
func (a *Arena) play(ctx context.Context, book openingbook.Book, batch Batch, seed int64) (result metrics.GameResult, ok bool) {
	squares, circles := batch.PlayerA, batch.PlayerB
	if a.alternate && seed%2 != 0 {
		squares, circles = circles, squares
	}
	seats := map[game.Side]string{game.Square: squares, game.Circle: circles}
	result = metrics.GameResult{
		Seed:      seed,
		Players:   metrics.Players{PlayerA: batch.PlayerA, PlayerB: batch.PlayerB},
		SquaresID: squares,
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Int64("seed", seed).Msgf("match panicked: %v", r)
			result = crashed(result)
			ok = true
		}
		result.Duration = time.Since(start)
		if ok {
			matchesTotal.WithLabelValues(outcomeLabel(result)).Inc()
			matchDuration.Observe(result.Duration.Seconds())
		}
	}()

	match, err := prepare(book, seed, seats)
	if err != nil {
		a.logger.Error().Int64("seed", seed).Err(err).Msg("failed to prepare match")
		return crashed(result), true
	}

	outcome, err := a.runner.PlayMatch(ctx, match)
	if err != nil {
		if ctx.Err() != nil {
			return result, false
		}
		a.logger.Error().Int64("seed", seed).Err(err).Msg("match crashed")
		result.TurnCount = outcome.Turns
		return crashed(result), true
	}

	result.TurnCount = outcome.Turns
	result.IllegalMove = outcome.IllegalMove
	result.WinCondition = outcome.WinCondition
	if outcome.Winner != "" {
		id, known := seats[game.NormalizeSide(outcome.Winner)]
		if !known {
			a.logger.Error().Int64("seed", seed).Msgf("%v: %q", errUnknownWinner, outcome.Winner)
			return crashed(result), true
		}
		result.Winner = id
	}
	a.logger.Debug().Int64("seed", seed).Msgf("match finished after %d turns, winner %q", result.TurnCount, result.Winner)
	return result, true
}

func prepare(book openingbook.Book, seed int64, seats map[game.Side]string) (Match, error) {
	match := Match{
		Seed:       seed,
		Seats:      seats,
		Setups:     make(map[game.Side]openingbook.Setup, len(game.Sides)),
		Placements: make(map[game.Side][]openingbook.Placement, len(game.Sides)),
	}
	for _, side := range game.Sides {
		setup, err := book.SelectSetup(side.BookKey(), seed)
		if err != nil {
			return Match{}, err
		}
		sequence, err := openingbook.PlacementSequence(setup)
		if err != nil {
			return Match{}, err
		}
		match.Setups[side] = setup
		match.Placements[side] = sequence
	}
	return match, nil
}

func crashed(r metrics.GameResult) metrics.GameResult {
	r.Crashed = true
	r.Winner = ""
	r.WinCondition = ""
	r.IllegalMove = false
	return r
}

func outcomeLabel(r metrics.GameResult) string {
	switch {
	case r.Crashed:
		return OutcomeCrash
	case r.IllegalMove:
		return OutcomeIllegal
	case r.Winner != "":
		return OutcomeWin
	}
	return OutcomeDraw
}
