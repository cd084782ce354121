package engine

import "context"

// TurnLimit is the win condition reported when a game hits the turn cap.
const TurnLimit = "turn_limit"

// Outcome is how a driven game ended. Winner is a side, "" for a draw.
type Outcome struct {
	Winner       string
	WinCondition string
	Turns        int
	IllegalMove  bool
}

type Engine interface {
	// Run plays a game till there's a winner, no legal move or the turn cap is reached
	Run(ctx context.Context) (Outcome, error)
}
