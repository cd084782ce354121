package agent

import (
	"context"
	"errors"
	"math"

	"gemduel/game"
	"gemduel/searcher"
)

var ErrNoMoves = errors.New("no legal moves")

type evaluationAgent struct {
	rollout *searcher.Rollout
}

// NewEvaluationAgent returns an agent that plays the most visited move of a
// rollout search.
func NewEvaluationAgent(rollout *searcher.Rollout) Agent {
	return evaluationAgent{rollout: rollout}
}

func (a evaluationAgent) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	policy, err := a.rollout.Simulate(ctx, state)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(policy))
	for i, choice := range policy {
		scores[i] = float64(choice.Visits)
	}
	return findMax(policy, scores)
}

type greedyAgent struct {
	evaluator searcher.Evaluator
}

// NewGreedyAgent returns an agent that plays the move whose resulting position
// the evaluator likes best for the mover. Ties go to the first legal move.
func NewGreedyAgent(evaluator searcher.Evaluator) Agent {
	return greedyAgent{evaluator: evaluator}
}

func (a greedyAgent) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := searcher.Project(state)
	mover := game.NormalizeSide(root.Player())
	moves := root.LegalMoves()
	policy := make([]searcher.Choice, len(moves))
	scores := make([]float64, len(moves))
	for i, move := range moves {
		policy[i].Move = move
		child := root.Play(move)
		if winner := child.Winner(); winner != "" {
			if game.NormalizeSide(winner) == mover {
				scores[i] = math.Inf(1)
			} else {
				scores[i] = math.Inf(-1)
			}
			continue
		}
		score, err := a.evaluator.Evaluate(child)
		if err != nil {
			return nil, err
		}
		// Scores are from the child's side to move
		if game.NormalizeSide(child.Player()) != mover {
			score = -score
		}
		scores[i] = score
	}
	return findMax(policy, scores)
}

func findMax(policy []searcher.Choice, scores []float64) (game.Move, error) {
	if len(policy) == 0 {
		return nil, ErrNoMoves
	}
	maxMove := policy[0].Move
	maxScore := scores[0]
	for i, choice := range policy {
		if scores[i] > maxScore {
			maxScore = scores[i]
			maxMove = choice.Move
		}
	}
	return maxMove, nil
}
