package engine

import (
	"context"
	"errors"
	"fmt"

	"gemduel/game"
	"gemduel/meta"
	"gemduel/searcher/agent"
	"gemduel/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNoAgent = errors.New("no agent for side")

type Option func(e *Local)

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.MaxTurns = turns
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Local) {
		e.logger = logger
	}
}

// Local drives one game in process, strictly turn by turn.
type Local struct {
	State    game.State
	Agents   map[game.Side]agent.Agent
	MaxTurns int
	logger   zerolog.Logger
}

var _ Engine = (*Local)(nil)

func LocalEngine(state game.State, agents map[game.Side]agent.Agent, options ...Option) *Local {
	e := &Local{
		State:    state,
		Agents:   agents,
		MaxTurns: meta.MAX_TURNS,
		logger:   log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop. A move the agent returns that is not among the
// legal moves ends the game, and the offender's opponent wins. Cancellation is
// checked between turns and returns the outcome so far with ctx.Err().
func (e *Local) Run(ctx context.Context) (Outcome, error) {
	outcome := Outcome{}
	e.logger.Debug().Msgf("%s is starting", e.State.Player())

	for e.State.Winner() == "" && outcome.Turns < e.MaxTurns {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		side := game.NormalizeSide(e.State.Player())
		legal := e.State.LegalMoves()
		if len(legal) == 0 {
			e.logger.Debug().Msgf("%s has no legal moves after %d turns", side, outcome.Turns)
			outcome.WinCondition = winCondition(e.State)
			return outcome, nil
		}

		a, ok := e.Agents[side]
		if !ok || a == nil {
			return outcome, fmt.Errorf("%w %q", ErrNoAgent, side)
		}
		move, err := a.FindMove(ctx, e.State)
		if err != nil {
			return outcome, fmt.Errorf("%s agent at turn %d: %w", side, outcome.Turns+1, err)
		}

		if move == nil || utils.FindIndex(legal, move) < 0 {
			e.logger.Warn().Msgf("%s played illegal move %v at turn %d", side, move, outcome.Turns+1)
			outcome.IllegalMove = true
			outcome.Winner = string(side.Opponent())
			return outcome, nil
		}

		e.State = e.State.Play(move)
		outcome.Turns++
	}

	if winner := e.State.Winner(); winner != "" {
		outcome.Winner = string(game.NormalizeSide(winner))
		outcome.WinCondition = winCondition(e.State)
		return outcome, nil
	}
	e.logger.Debug().Msgf("stopped after %d turns with no winner", outcome.Turns)
	outcome.WinCondition = TurnLimit
	return outcome, nil
}

func winCondition(state game.State) string {
	if wc, ok := state.(game.WinConditioner); ok {
		return wc.WinCondition()
	}
	return ""
}
