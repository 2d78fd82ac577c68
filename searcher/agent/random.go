package agent

import (
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
)

type randomAgent struct {
	rng game.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random actions.
func NewRandomAgent(rng game.Rand) Agent {
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(state game.State) (int, metrics.SearchMetric, error) {
	if state.IsOver() {
		return -1, metrics.SearchMetric{}, searcher.ErrGameOver
	}
	count := state.Clone().CacheActions()
	if count == 0 {
		return -1, metrics.SearchMetric{}, searcher.ErrNoActions
	}
	return a.rng.Intn(count), metrics.SearchMetric{}, nil
}
