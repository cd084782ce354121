package agent

import (
	"context"

	"gemduel/game"
)

type Agent interface {
	// FindMove picks the next move for the side to move in state
	FindMove(ctx context.Context, state game.State) (game.Move, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, state game.State) (game.Move, error)

func (f AgentFunc) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	return f(ctx, state)
}
