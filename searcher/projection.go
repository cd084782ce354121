package searcher

import (
	"maps"

	"gemduel/game"
)

// BoardState is a live state that exposes its board.
type BoardState interface {
	game.State
	Board() game.Board
}

// Project detaches a simulation state from a live state. States are immutable,
// so the projection shares the live state and only copies its board on read.
// Live states without a board project with an empty one.
func Project(state game.State) SimulationState {
	if sim, ok := state.(SimulationState); ok {
		return sim
	}
	return &projection{inner: state}
}

type projection struct {
	inner game.State
	depth int
}

func (p *projection) SimulationState() {}

func (p *projection) Depth() int { return p.depth }

func (p *projection) Board() game.Board {
	if b, ok := p.inner.(BoardState); ok {
		return maps.Clone(b.Board())
	}
	return game.Board{}
}

func (p *projection) Player() string { return p.inner.Player() }

func (p *projection) LegalMoves() []game.Move { return p.inner.LegalMoves() }

func (p *projection) Winner() string { return p.inner.Winner() }

func (p *projection) Play(move game.Move) game.State {
	return &projection{inner: p.inner.Play(move), depth: p.depth + 1}
}
