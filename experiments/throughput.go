package experiments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemduel/openingbook"

	"github.com/rs/zerolog/log"
)

var ErrNondeterministic = errors.New("match stats differ across worker counts")

// ThroughputSample is one batch timing at a given pool size.
type ThroughputSample struct {
	Workers        int
	Games          int
	Duration       time.Duration
	GamesPerSecond float64
}

// MeasureThroughput plays the same batch at each pool size. Stats must come out
// identical at every size, otherwise ErrNondeterministic is returned.
func MeasureThroughput(ctx context.Context, book *openingbook.Service, runner MatchRunner, batch Batch, workers []int) ([]ThroughputSample, error) {
	samples := make([]ThroughputSample, 0, len(workers))
	var baseline Report

	log.Info().Msg("starting throughput experiment...")

	for i, n := range workers {
		arena := NewArena(book, runner, WithWorkers(n))
		start := time.Now()
		report, err := arena.Run(ctx, batch)
		if err != nil {
			return samples, err
		}
		elapsed := time.Since(start)

		if i == 0 {
			baseline = report
		} else if !baseline.Stats.Equal(report.Stats) {
			return samples, fmt.Errorf("%w: %d workers vs %d", ErrNondeterministic, arena.Workers(), samples[0].Workers)
		}

		sample := ThroughputSample{Workers: arena.Workers(), Games: report.Stats.GamesPlayed, Duration: elapsed}
		if elapsed > 0 {
			sample.GamesPerSecond = float64(sample.Games) / elapsed.Seconds()
		}
		samples = append(samples, sample)
		log.Info().Msgf("%d workers: %d games in %s (%.1f games/s)", sample.Workers, sample.Games, elapsed, sample.GamesPerSecond)
	}
	return samples, nil
}
