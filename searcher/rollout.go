package searcher

import (
	"context"
	"math"
	"math/rand/v2"

	"gemduel/game"
)

const C_SQUARED = 2.0

const WIN = 1.0
const LOSS = 0.0

const (
	DefaultEpisodes = 200
	DefaultCutoff   = 40
)

type Option func(r *Rollout)

func WithEpisodes(episodes int) Option {
	return func(r *Rollout) {
		if episodes > 0 {
			r.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(r *Rollout) {
		if depth > 0 {
			r.cutoff = depth
		}
	}
}

func WithEvaluator(evaluator Evaluator) Option {
	return func(r *Rollout) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// Choice is the visit count a search gave one root move.
type Choice struct {
	Move   game.Move
	Visits int
}

// Rollout is a flat Monte Carlo search: root moves are picked by UCB1 and each
// episode plays random moves until the game ends or the cutoff depth, where the
// evaluator scores the position. A Rollout is not safe for concurrent use.
type Rollout struct {
	episodes  int
	cutoff    int
	evaluator Evaluator
	rng       *rand.Rand
}

// NewRollout returns a search whose random playouts are fixed by seed.
func NewRollout(seed uint64, options ...Option) *Rollout {
	r := &Rollout{
		episodes:  DefaultEpisodes,
		cutoff:    DefaultCutoff,
		evaluator: Material{},
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Simulate returns the visits of every legal root move, in LegalMoves order.
func (r *Rollout) Simulate(ctx context.Context, state game.State) ([]Choice, error) {
	root := Project(state)
	moves := root.LegalMoves()
	policy := make([]Choice, len(moves))
	rewards := make([]float64, len(moves))
	for i, move := range moves {
		policy[i].Move = move
	}
	if len(moves) == 0 {
		return policy, nil
	}

	player := root.Player()
	for episode := 0; episode < r.episodes; episode++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c2LnN := C_SQUARED * math.Log(float64(episode))
		best, bestScore := 0, math.Inf(-1)
		for i := range policy {
			if score := ucb1(rewards[i], policy[i].Visits, c2LnN); score > bestScore {
				best, bestScore = i, score
			}
		}

		child := advance(root, moves[best])
		reward, err := r.rollout(child, player)
		if err != nil {
			return nil, err
		}
		policy[best].Visits++
		rewards[best] += reward
	}
	return policy, nil
}

func (r *Rollout) rollout(state SimulationState, player string) (float64, error) {
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for state.Winner() == "" && len(moves) > 0 && state.Depth() < r.cutoff {
		move := moves[r.rng.IntN(len(moves))]
		state = advance(state, move)
		moves = state.LegalMoves()
	}

	if winner := state.Winner(); winner != "" {
		return rewarder(winner)(player), nil
	}

	score, err := r.evaluator.Evaluate(state)
	if err != nil {
		return 0, err
	}
	if game.NormalizeSide(state.Player()) != game.NormalizeSide(player) {
		score = -score
	}
	// Map [-1, 1] onto the reward scale
	return LOSS + (WIN-LOSS)*(score+1)/2, nil
}

// advance plays move on state. A result that is not a simulation state is
// projected again, one move deeper.
func advance(state SimulationState, move game.Move) SimulationState {
	next := state.Play(move)
	if sim, ok := next.(SimulationState); ok {
		return sim
	}
	return &projection{inner: next, depth: state.Depth() + 1}
}

func rewarder(winner string) func(player string) (reward float64) {
	return func(player string) float64 {
		if game.NormalizeSide(player) == game.NormalizeSide(winner) {
			return WIN
		}
		return LOSS
	}
}

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}
