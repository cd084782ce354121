package openingbook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gemduel/game"
	"gemduel/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type Option func(s *Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service owns the opening book for its lifetime: the book is fetched once,
// then only read.
type Service struct {
	source Source
	logger zerolog.Logger
	group  singleflight.Group

	mu   sync.RWMutex
	book Book
}

func NewService(source Source, options ...Option) *Service {
	s := &Service{
		source: source,
		logger: log.Logger,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// errAbandoned ends a flight whose fetch was cut short by the leading caller's
// cancellation. Nothing is cached and live waiters start a new flight.
var errAbandoned = errors.New("opening book load abandoned")

// Load returns the cached book, fetching it on first use. Any fetch or parse
// failure substitutes the default book, so Load never fails. A cancelled ctx
// yields the default book without caching it. Callers sharing a fetch each
// wait on their own ctx, so one cancelled caller never hands the default book
// to the others.
func (s *Service) Load(ctx context.Context) Book {
	for {
		if book, ok := s.cached(); ok {
			return book
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Err(err).Msg("opening book load cancelled, using default book")
			return DefaultBook()
		}

		ch := s.group.DoChan("book", func() (any, error) {
			return s.load(ctx)
		})
		select {
		case <-ctx.Done():
			s.logger.Warn().Err(ctx.Err()).Msg("opening book load cancelled, using default book")
			return DefaultBook()
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(Book)
			}
			s.logger.Debug().Err(res.Err).Msg("retrying opening book load")
		}
	}
}

// load runs inside a flight on the leading caller's ctx.
func (s *Service) load(ctx context.Context) (Book, error) {
	if book, ok := s.cached(); ok {
		return book, nil
	}
	book, err := s.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errAbandoned, err)
		}
		s.logger.Error().Err(err).Msg("failed to load opening book, using default book")
		book = DefaultBook()
	}
	s.mu.Lock()
	s.book = book
	s.mu.Unlock()
	return book, nil
}

func (s *Service) cached() (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book, s.book != nil
}

func (s *Service) fetch(ctx context.Context) (Book, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no opening book source configured")
	}
	data, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	book, dropped, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for _, reason := range dropped {
		s.logger.Warn().Err(reason).Msg("dropped invalid setup")
	}
	s.logger.Info().Msgf("loaded opening book with %d side(s)", len(book))
	return book, nil
}

// SelectSetup deterministically maps seed to one of the side's setups:
// ids are sorted and indexed by |seed| mod n.
func (s *Service) SelectSetup(side string, seed int64) (Setup, error) {
	book := s.Load(context.Background())
	return book.SelectSetup(side, seed)
}

func (b Book) SelectSetup(side string, seed int64) (Setup, error) {
	ids, ok := b.SetupIDs(side)
	if !ok {
		return Setup{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if len(ids) == 0 {
		return Setup{}, fmt.Errorf("%w: %q", ErrEmptyBook, side)
	}
	id := ids[utils.Magnitude(seed)%uint64(len(ids))]
	return b[game.Side(side).BookKey()][id].Clone(), nil
}

// NextPlacement is NextPlacement with the recovery paths logged.
func (s *Service) NextPlacement(setup Setup, board game.Board, side string) PlacementResult {
	result := NextPlacement(setup, board, side)
	switch result.Status {
	case Fallback:
		s.logger.Warn().Str("setup", setup.ID).Str("side", side).Msgf("gem collision, using fallback %s: %s", result.Placement, result.Reason)
	case Blocked:
		s.logger.Warn().Str("setup", setup.ID).Str("side", side).Msgf("no placement possible: %s", result.Reason)
	}
	return result
}
