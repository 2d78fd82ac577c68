package agent

import (
	"fmt"
	"math"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
)

type trainingAgent struct {
	simulations int
	temperature float64
	rng         Float64er
	options     []searcher.Option
}

// Float64er is the random source used to sample moves.
type Float64er interface {
	Float64() float64
}

// NewTrainingAgent returns a new agent for self-play during training. It samples
// moves in proportion to visit counts raised to 1/temperature.
func NewTrainingAgent(simulations int, temperature float64, rng Float64er, options ...searcher.Option) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return trainingAgent{simulations: simulations, temperature: temperature, rng: rng, options: options}
}

func (a trainingAgent) FindMove(state game.State) (int, metrics.SearchMetric, error) {
	mcts, err := searcher.NewMCTS(a.simulations, state, a.options...)
	if err != nil {
		return -1, metrics.SearchMetric{}, err
	}
	if _, err := mcts.SelectAction(); err != nil {
		return -1, metrics.SearchMetric{}, fmt.Errorf("training agent: %w", err)
	}
	policy := adjustTemperature(mcts.Policy(), a.temperature)
	return sample(policy, a.rng.Float64()), mcts.Metrics(), nil
}

func adjustTemperature(visits []int, temperature float64) []float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(visits))
	for i, visit := range visits {
		prob := math.Pow(float64(visit), exponent)
		sum += prob
		adjusted[i] = prob
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
