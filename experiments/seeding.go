package experiments

import (
	"fmt"

	"gemduel/errkind"
	"gemduel/game"
	"gemduel/openingbook"
)

// Placer is the incremental placement step. *openingbook.Service satisfies it
// with logging.
type Placer interface {
	NextPlacement(setup openingbook.Setup, board game.Board, side string) openingbook.PlacementResult
}

type placeFunc func(openingbook.Setup, game.Board, string) openingbook.PlacementResult

func (f placeFunc) NextPlacement(setup openingbook.Setup, board game.Board, side string) openingbook.PlacementResult {
	return f(setup, board, side)
}

// SeedBoard builds the starting board by placing gems side after side, squares
// first, until both sides are complete. A blocked placement is an error.
func SeedBoard(placer Placer, setups map[game.Side]openingbook.Setup) (game.Board, error) {
	if placer == nil {
		placer = placeFunc(openingbook.NextPlacement)
	}
	board := game.Board{}
	done := map[game.Side]bool{}
	for len(done) < len(game.Sides) {
		for _, side := range game.Sides {
			if done[side] {
				continue
			}
			setup, ok := setups[side]
			if !ok {
				return nil, fmt.Errorf("%w: no setup for %s", errkind.Validation, side)
			}
			result := placer.NextPlacement(setup, board, string(side))
			switch result.Status {
			case openingbook.Complete:
				done[side] = true
			case openingbook.Placed, openingbook.Fallback:
				board[result.Placement.Coordinate] = game.Piece{Side: side, Gem: result.Placement.Gem}
			default:
				return nil, fmt.Errorf("%w: seeding %s setup %s: %s", errkind.Validation, side, setup.ID, result.Reason)
			}
		}
	}
	return board, nil
}
