package experiments

import (
	"context"
	"fmt"

	"gemduel/engine"
	"gemduel/game"
	"gemduel/game/race"
	"gemduel/meta"
	"gemduel/searcher/agent"

	"github.com/rs/zerolog"
)

// GameFactory builds the starting state of the rules engine from a seeded board.
type GameFactory func(seed int64, board game.Board) (game.State, error)

// AgentFactory builds a fresh agent for one side of one match.
type AgentFactory func(aiID string, side game.Side, seed int64) (agent.Agent, error)

// RaceGames starts a race game with squares to move.
func RaceGames(_ int64, board game.Board) (game.State, error) {
	return race.New(board, game.Square), nil
}

// BuiltinAgents resolves AI ids against the built-in agents. The two sides of
// a match get different random streams.
func BuiltinAgents(aiID string, side game.Side, seed int64) (agent.Agent, error) {
	if side == game.Circle {
		seed = ^seed
	}
	return agent.New(aiID, seed)
}

// LocalRunner plays matches in process with engine.Local.
type LocalRunner struct {
	Games    GameFactory
	Agents   AgentFactory
	Placer   Placer // nil places without logging
	MaxTurns int
	Logger   *zerolog.Logger
}

func (r LocalRunner) PlayMatch(ctx context.Context, match Match) (engine.Outcome, error) {
	board, err := SeedBoard(r.Placer, match.Setups)
	if err != nil {
		return engine.Outcome{}, err
	}
	games := r.Games
	if games == nil {
		games = RaceGames
	}
	state, err := games(match.Seed, board)
	if err != nil {
		return engine.Outcome{}, fmt.Errorf("start game: %w", err)
	}

	agents := r.Agents
	if agents == nil {
		agents = BuiltinAgents
	}
	players := make(map[game.Side]agent.Agent, len(match.Seats))
	for side, id := range match.Seats {
		a, err := agents(id, side, match.Seed)
		if err != nil {
			return engine.Outcome{}, fmt.Errorf("agent %s for %s: %w", id, side, err)
		}
		players[side] = a
	}

	maxTurns := r.MaxTurns
	if maxTurns <= 0 {
		maxTurns = meta.MAX_TURNS
	}
	options := []engine.Option{engine.WithMaxTurns(maxTurns)}
	if r.Logger != nil {
		options = append(options, engine.WithLogger(*r.Logger))
	}
	return engine.LocalEngine(state, players, options...).Run(ctx)
}
