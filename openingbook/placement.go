package openingbook

import (
	"fmt"

	"gemduel/game"
)

// Placement is a single atomic gem placement.
type Placement struct {
	Gem        game.GemType    `json:"gem"`
	Coordinate game.Coordinate `json:"coordinate"`
}

func (p Placement) String() string {
	return fmt.Sprintf("%s@%s", p.Gem, p.Coordinate)
}

// PlacementStatus tells how NextPlacement resolved.
type PlacementStatus int

const (
	// Placed: the primary coordinate for the next gem is free.
	Placed PlacementStatus = iota
	// Fallback: the primary coordinate was occupied and the next one for the same gem is used.
	Fallback
	// Complete: the side already placed its full gem budget.
	Complete
	// Blocked: no legal coordinate exists for the next gem.
	Blocked
)

func (s PlacementStatus) String() string {
	switch s {
	case Placed:
		return "placed"
	case Fallback:
		return "fallback"
	case Complete:
		return "complete"
	case Blocked:
		return "blocked"
	}
	return fmt.Sprintf("PlacementStatus(%d)", int(s))
}

// PlacementResult carries a placement for Placed and Fallback, and a reason
// for Fallback and Blocked.
type PlacementResult struct {
	Status    PlacementStatus
	Placement Placement
	Reason    string
}

// OK reports whether the result carries a placement.
func (r PlacementResult) OK() bool {
	return r.Status == Placed || r.Status == Fallback
}

// NextPlacement picks the next gem placement of side for an incrementally
// seeded board. Only one fallback coordinate is tried on a collision.
func NextPlacement(setup Setup, board game.Board, side string) PlacementResult {
	target := game.NormalizeSide(side)
	counts, total := board.CountGems(target)
	if total >= game.GemsPerSide {
		return PlacementResult{Status: Complete}
	}
	if total >= len(setup.Order) {
		return PlacementResult{Status: Blocked, Reason: fmt.Sprintf("order has no entry %d", total)}
	}

	gem := setup.Order[total]
	coords := setup.Coords[gem]
	index := counts[gem]
	if !gem.Valid() || index >= len(coords) {
		return PlacementResult{Status: Blocked, Reason: fmt.Sprintf("no coordinate %d for %s", index, gem)}
	}

	primary := coords[index]
	if !board.Occupied(primary) {
		return PlacementResult{Status: Placed, Placement: Placement{Gem: gem, Coordinate: primary}}
	}

	if index+1 < len(coords) && !board.Occupied(coords[index+1]) {
		return PlacementResult{
			Status:    Fallback,
			Placement: Placement{Gem: gem, Coordinate: coords[index+1]},
			Reason:    fmt.Sprintf("%s occupied", primary),
		}
	}
	return PlacementResult{Status: Blocked, Reason: fmt.Sprintf("%s occupied and no free fallback", primary)}
}

// PlacementSequence expands a setup into its full ordered placement list.
func PlacementSequence(setup Setup) ([]Placement, error) {
	used := make(map[game.GemType]int, len(game.Gems))
	sequence := make([]Placement, 0, len(setup.Order))
	for _, gem := range setup.Order {
		coords := setup.Coords[gem]
		if used[gem] >= len(coords) {
			needed := 0
			for _, g := range setup.Order {
				if g == gem {
					needed++
				}
			}
			return nil, &OrderOverflowError{Gem: gem, Needed: needed, Defined: len(coords)}
		}
		sequence = append(sequence, Placement{Gem: gem, Coordinate: coords[used[gem]]})
		used[gem]++
	}
	return sequence, nil
}
