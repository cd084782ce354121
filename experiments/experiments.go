package experiments

import (
	"context"
	"fmt"

	"gemduel/experiments/metrics"
	"gemduel/meta"
	"gemduel/openingbook"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MatchUp pairs two AI versions.
type MatchUp struct {
	PlayerA string
	PlayerB string
}

// FromConfig wires an arena from settings: the book source, the worker count
// and the turn cap. Matches run on the race rules with the built-in agents.
func FromConfig(cfg meta.Config, options ...Option) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	book := openingbook.NewService(openingbook.SourceFor(cfg))
	runner := LocalRunner{Placer: book, MaxTurns: cfg.MaxTurns}
	return NewArena(book, runner, append([]Option{WithWorkers(cfg.Workers)}, options...)...), nil
}

// RunExperiment plays the seeds for every match up and stores the game results
// and merged stats as CSV under <root>/<name>/<timestamp>.
func RunExperiment(ctx context.Context, arena *Arena, root, name string, matchUps []MatchUp, seeds []int64) ([]Report, error) {
	reports := []Report{}
	results := []metrics.GameResult{}
	stats := metrics.NewMatchStats()

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between %s and %s...", mi+1, len(matchUps), matchUp.PlayerA, matchUp.PlayerB)

		report, err := arena.Run(ctx, Batch{PlayerA: matchUp.PlayerA, PlayerB: matchUp.PlayerB, Seeds: seeds})
		if err != nil {
			return reports, fmt.Errorf("matchup %d: %w", mi+1, err)
		}
		reports = append(reports, report)
		results = append(results, report.Results...)
		stats.Merge(report.Stats)

		logStats(log.Info(), report)
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return reports, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteGameResults(results); err != nil {
		return reports, fmt.Errorf("failed to write game results: %w", err)
	}
	log.Info().Msg("stored game results")

	if err := writer.WriteMatchStats(stats); err != nil {
		return reports, fmt.Errorf("failed to write match stats: %w", err)
	}
	log.Info().Msgf("stored match stats in %s", writer.Dir())
	return reports, nil
}

func logStats(event *zerolog.Event, report Report) {
	s := report.Stats
	event.
		Int("games", s.GamesPlayed).
		Int("draws", s.Draws).
		Int("crashes", s.Crashes).
		Int("illegal_moves", s.IllegalMoves).
		Interface("wins", s.WinsByAI).
		Msgf("%s vs %s: avg %.2f turns", report.Players.PlayerA, report.Players.PlayerB, report.AverageTurns())
}
