package agent

import (
	"context"
	"math"
	"math/rand/v2"

	"gemduel/game"
	"gemduel/searcher"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x2545f4914f6cdd1d))
}

type trainingAgent struct {
	rollout     *searcher.Rollout
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent that samples moves from a rollout policy,
// sharpened or flattened by temperature. The agent is seeded, so a game played
// with it is reproducible. It must not be shared between concurrent games.
func NewTrainingAgent(rollout *searcher.Rollout, temperature float64, seed int64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &trainingAgent{rollout: rollout, temperature: temperature, rng: newRand(seed)}
}

func (a *trainingAgent) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	policy, err := a.rollout.Simulate(ctx, state)
	if err != nil {
		return nil, err
	}
	if len(policy) == 0 {
		return nil, ErrNoMoves
	}
	probs := adjustTemperature(policy, a.temperature)
	return sample(policy, probs, a.rng.Float64()), nil
}

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a seeded agent that plays uniformly random legal moves.
func NewRandomAgent(seed int64) Agent {
	return &randomAgent{rng: newRand(seed)}
}

func (a *randomAgent) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}
	return moves[a.rng.IntN(len(moves))], nil
}

func adjustTemperature(policy []searcher.Choice, temperature float64) []float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, choice := range policy {
		prob := math.Pow(float64(choice.Visits), exponent)
		sum += prob
		adjusted[i] = prob
	}
	if sum == 0 {
		for i := range adjusted {
			adjusted[i] = 1.0 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []searcher.Choice, probs []float64, sampled float64) game.Move {
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return policy[i].Move
		}
	}
	return policy[len(policy)-1].Move // Fallback in case of rounding errors
}
