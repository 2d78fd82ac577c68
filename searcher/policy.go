package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant, UCT uses sqrt(CSquared)

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// pick returns the child maximizing UCT from the point of view of player, the
// player to move at the parent. Unvisited children are picked first, in order.
func (u uct) pick(t *tree, children []int, player int) int {
	best := -1
	bestScore := math.Inf(-1)
	for _, id := range children {
		child := t.get(id)
		if child.simulations == 0 {
			return id
		}
		score := u.evaluate(child.scores[player], float64(child.simulations))
		if best == -1 || score > bestScore {
			best = id
			bestScore = score
		}
	}
	return best
}
