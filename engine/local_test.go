package engine

import (
	"context"
	"errors"
	"testing"

	"gemduel/game"
	"gemduel/game/race"
	"gemduel/searcher/agent"

	"github.com/stretchr/testify/require"
)

type mockMove int

func (m mockMove) String() string { return "+1" }

// countingState ends once the counter reaches target; the last mover wins.
type countingState struct {
	player  game.Side
	counter int
	target  int
	stuck   bool
}

func (s *countingState) Player() string { return string(s.player) }

func (s *countingState) LegalMoves() []game.Move {
	if s.stuck || s.Winner() != "" {
		return nil
	}
	return []game.Move{mockMove(1)}
}

func (s *countingState) Play(move game.Move) game.State {
	return &countingState{player: s.player.Opponent(), counter: s.counter + 1, target: s.target}
}

func (s *countingState) Winner() string {
	if s.target > 0 && s.counter >= s.target {
		return string(s.player.Opponent())
	}
	return ""
}

func (s *countingState) WinCondition() string { return "count" }

func firstMove() agent.Agent {
	return agent.AgentFunc(func(_ context.Context, s game.State) (game.Move, error) {
		return s.LegalMoves()[0], nil
	})
}

func both(a agent.Agent) map[game.Side]agent.Agent {
	return map[game.Side]agent.Agent{game.Square: a, game.Circle: a}
}

func TestLocalRun(t *testing.T) {
	t.Run("plays to a winner", func(t *testing.T) {
		e := LocalEngine(&countingState{player: game.Square, target: 5}, both(firstMove()))
		outcome, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, Outcome{Winner: "square", WinCondition: "count", Turns: 5}, outcome)
	})

	t.Run("turn cap", func(t *testing.T) {
		e := LocalEngine(&countingState{player: game.Square}, both(firstMove()), WithMaxTurns(12))
		outcome, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, Outcome{WinCondition: TurnLimit, Turns: 12}, outcome)
	})

	t.Run("a win on the last allowed turn is a win", func(t *testing.T) {
		e := LocalEngine(&countingState{player: game.Circle, target: 4}, both(firstMove()), WithMaxTurns(4))
		outcome, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, "square", outcome.Winner)
		require.Equal(t, 4, outcome.Turns)
	})

	t.Run("illegal move forfeits", func(t *testing.T) {
		cheat := agent.AgentFunc(func(context.Context, game.State) (game.Move, error) {
			return mockMove(2), nil
		})
		agents := map[game.Side]agent.Agent{game.Square: firstMove(), game.Circle: cheat}
		e := LocalEngine(&countingState{player: game.Square}, agents)

		outcome, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, Outcome{Winner: "square", Turns: 1, IllegalMove: true}, outcome)
	})

	t.Run("nil move is illegal", func(t *testing.T) {
		pass := agent.AgentFunc(func(context.Context, game.State) (game.Move, error) { return nil, nil })
		outcome, err := LocalEngine(&countingState{player: game.Square}, both(pass)).Run(context.Background())
		require.NoError(t, err)
		require.True(t, outcome.IllegalMove)
		require.Equal(t, "circle", outcome.Winner)
	})

	t.Run("no legal moves stops the game", func(t *testing.T) {
		e := LocalEngine(&countingState{player: game.Square, stuck: true}, both(firstMove()))
		outcome, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, Outcome{WinCondition: "count"}, outcome)
	})

	t.Run("agent errors surface", func(t *testing.T) {
		boom := errors.New("boom")
		broken := agent.AgentFunc(func(context.Context, game.State) (game.Move, error) { return nil, boom })
		_, err := LocalEngine(&countingState{player: game.Square}, both(broken)).Run(context.Background())
		require.ErrorIs(t, err, boom)
	})

	t.Run("missing agent", func(t *testing.T) {
		agents := map[game.Side]agent.Agent{game.Square: firstMove()}
		outcome, err := LocalEngine(&countingState{player: game.Square}, agents).Run(context.Background())
		require.ErrorIs(t, err, ErrNoAgent)
		require.Equal(t, 1, outcome.Turns)
	})

	t.Run("cancellation between turns", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		turns := 0
		stopper := agent.AgentFunc(func(_ context.Context, s game.State) (game.Move, error) {
			turns++
			if turns == 3 {
				cancel()
			}
			return s.LegalMoves()[0], nil
		})
		outcome, err := LocalEngine(&countingState{player: game.Square}, both(stopper)).Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 3, outcome.Turns)
	})
}

func TestLocalRunRace(t *testing.T) {
	board := game.Board{
		{X: -1, Y: 0}: {Side: game.Circle, Gem: game.Ruby},
		{X: 1, Y: 1}:  {Side: game.Square, Gem: game.Ruby},
	}
	agents := map[game.Side]agent.Agent{game.Circle: agent.NewRandomAgent(1), game.Square: agent.NewRandomAgent(2)}

	outcome, err := LocalEngine(race.New(board, game.Circle), agents).Run(context.Background())
	require.NoError(t, err)
	// Circle needs 4 steps, square 4; circle moves first
	require.Equal(t, Outcome{Winner: "circle", WinCondition: race.Crossing, Turns: 7}, outcome)
}
