package agent

import (
	"fmt"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
)

type evaluationAgent struct {
	simulations int
	options     []searcher.Option
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
// Every move searches a fresh tree and plays the most visited action.
func NewEvaluationAgent(simulations int, options ...searcher.Option) Agent {
	return evaluationAgent{simulations: simulations, options: options}
}

func (a evaluationAgent) FindMove(state game.State) (int, metrics.SearchMetric, error) {
	mcts, err := searcher.NewMCTS(a.simulations, state, a.options...)
	if err != nil {
		return -1, metrics.SearchMetric{}, err
	}
	action, err := mcts.SelectAction()
	if err != nil {
		return -1, metrics.SearchMetric{}, fmt.Errorf("evaluation agent: %w", err)
	}
	return action, mcts.Metrics(), nil
}
