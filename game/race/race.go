// Package race is a minimal ruleset over the gem board. It stands in for the
// full rules engine when exercising agents and the arena.
//
// Each turn the side to move steps one of its gems a single column toward the
// opponent. Stepping onto an opposing gem captures it. A side wins by bringing
// a gem to the goal column or by capturing every opposing gem.
package race

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"gemduel/game"
)

const Goal = 3

const (
	Crossing    = "crossing"
	Elimination = "elimination"
)

// Step moves the gem at From one column forward.
type Step struct {
	From game.Coordinate
	To   game.Coordinate
}

func (s Step) String() string {
	return fmt.Sprintf("%s->%s", s.From, s.To)
}

// State is immutable: Play returns a new state.
type State struct {
	board        game.Board
	toMove       game.Side
	winner       game.Side
	winCondition string
}

// New starts a game on a copy of board with first to move.
func New(board game.Board, first game.Side) *State {
	return &State{board: maps.Clone(board), toMove: game.NormalizeSide(string(first))}
}

func direction(side game.Side) int {
	if side == game.Circle {
		return 1
	}
	return -1
}

func reachedGoal(side game.Side, c game.Coordinate) bool {
	if side == game.Circle {
		return c.X >= Goal
	}
	return c.X <= -Goal
}

func (s *State) Player() string { return string(s.toMove) }

func (s *State) Winner() string { return string(s.winner) }

func (s *State) WinCondition() string { return s.winCondition }

func (s *State) Board() game.Board { return maps.Clone(s.board) }

// LegalMoves orders steps by source column, then row.
func (s *State) LegalMoves() []game.Move {
	if s.winner != "" {
		return nil
	}
	steps := []Step{}
	dx := direction(s.toMove)
	for c, piece := range s.board {
		if game.NormalizeSide(string(piece.Side)) != s.toMove || !piece.Gem.Valid() {
			continue
		}
		to := game.Coordinate{X: c.X + dx, Y: c.Y}
		if target, ok := s.board[to]; ok && game.NormalizeSide(string(target.Side)) == s.toMove {
			continue
		}
		steps = append(steps, Step{From: c, To: to})
	}
	slices.SortFunc(steps, func(a, b Step) int {
		return cmp.Or(cmp.Compare(a.From.X, b.From.X), cmp.Compare(a.From.Y, b.From.Y))
	})

	moves := make([]game.Move, len(steps))
	for i, step := range steps {
		moves[i] = step
	}
	return moves
}

// Play applies a step. Moves that are not legal steps panic.
func (s *State) Play(move game.Move) game.State {
	step, ok := move.(Step)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	piece, ok := s.board[step.From]
	if !ok || game.NormalizeSide(string(piece.Side)) != s.toMove {
		panic(fmt.Sprintf("no %s gem at %s", s.toMove, step.From))
	}

	next := &State{board: maps.Clone(s.board), toMove: s.toMove.Opponent()}
	delete(next.board, step.From)
	next.board[step.To] = piece

	opponent := s.toMove.Opponent()
	if _, remaining := next.board.CountGems(opponent); remaining == 0 {
		next.winner, next.winCondition = s.toMove, Elimination
	} else if reachedGoal(s.toMove, step.To) {
		next.winner, next.winCondition = s.toMove, Crossing
	}
	return next
}
