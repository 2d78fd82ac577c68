package agent

import (
	"mcts/experiments/metrics"
	"mcts/game"
)

type Agent interface {
	// FindMove returns the index of the chosen action among the actions cached
	// at state, and the metrics of the search behind it (if collected)
	FindMove(state game.State) (int, metrics.SearchMetric, error)
}
