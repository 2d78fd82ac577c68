package engine

import "mcts/experiments/metrics"

type Runner interface {
	// Run plays a game till it is over or a max number of moves is reached
	Run() (scores []float64, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
