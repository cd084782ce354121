// Package searcher defines the position evaluation contract used by search
// agents, and a small rollout search built on it.
//
// Evaluators only score simulation states: detached projections of a live
// game that search can play forward without touching the real match.
package searcher

import (
	"fmt"

	"gemduel/errkind"
	"gemduel/game"
)

// ErrInvalidState is returned when an evaluator is handed a state that does not
// report itself as a simulation state.
var ErrInvalidState = fmt.Errorf("state is not a simulation state: %w", errkind.InvalidState)

// SimulationState is a game.State that search may explore freely.
type SimulationState interface {
	game.State
	// SimulationState marks the capability. It has no behaviour.
	SimulationState()
	// Depth counts the moves played since the projection was taken.
	Depth() int
	Board() game.Board
}

// Observation is a telemetry snapshot of a simulation state.
type Observation struct {
	PieceCount      int    `json:"pieceCount"`
	CurrentPlayer   string `json:"currentPlayer"`
	SimulationDepth int    `json:"simulationDepth"`
}

// Evaluator scores positions. Positive scores favour the side to move.
type Evaluator interface {
	Evaluate(state game.State) (float64, error)
	Observe(state game.State) (Observation, error)
}

func asSimulation(state game.State) (SimulationState, error) {
	sim, ok := state.(SimulationState)
	if !ok || sim == nil {
		return nil, fmt.Errorf("%T: %w", state, ErrInvalidState)
	}
	return sim, nil
}

func observe(state game.State) (Observation, error) {
	sim, err := asSimulation(state)
	if err != nil {
		return Observation{}, err
	}
	return Observation{
		PieceCount:      len(sim.Board()),
		CurrentPlayer:   sim.Player(),
		SimulationDepth: sim.Depth(),
	}, nil
}

// Neutral scores every simulation state 0. It is the reference evaluator.
type Neutral struct{}

func (Neutral) Evaluate(state game.State) (float64, error) {
	if _, err := asSimulation(state); err != nil {
		return 0, err
	}
	return 0, nil
}

func (Neutral) Observe(state game.State) (Observation, error) {
	return observe(state)
}

// Material scores the gem balance of the side to move in [-1, 1]. Decided
// games score 1 for the winner and -1 for the loser.
type Material struct{}

func (Material) Evaluate(state game.State) (float64, error) {
	sim, err := asSimulation(state)
	if err != nil {
		return 0, err
	}
	player := game.NormalizeSide(sim.Player())
	if winner := sim.Winner(); winner != "" {
		if game.NormalizeSide(winner) == player {
			return 1, nil
		}
		return -1, nil
	}

	board := sim.Board()
	_, own := board.CountGems(player)
	_, other := board.CountGems(player.Opponent())
	return normalize(float64(own), float64(other)), nil
}

func (Material) Observe(state game.State) (Observation, error) {
	return observe(state)
}

func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
