package searcher

import (
	"fmt"
	"math"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

const MaxCutoff = math.MaxInt

type Option func(mcts *MCTS)

// MCTS searches a fresh tree rooted at one game state. The search is
// single-threaded and runs exactly the configured number of simulations.
type MCTS struct {
	simulations int
	cSquared    float64
	cutoff      int
	evaluate    game.Evaluate
	rng         game.Rand
	state       game.State
	tree        *tree
	metrics     metrics.Collector
	metric      metrics.SearchMetric
}

// WithSeed makes rollouts and chance sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng game.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithExploration(cSquared float64) Option {
	return func(m *MCTS) {
		if cSquared >= 0 {
			m.cSquared = cSquared
		}
	}
}

// WithCutoff stops rollouts after depth actions and scores the reached state
// with evaluate instead of playing on to the end.
func WithCutoff(depth int, evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if depth > 0 && evaluate != nil {
			m.cutoff = depth
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

type fastRand struct{}

func (fastRand) Intn(n int) int {
	return frand.Intn(n)
}

func NewMCTS(simulations int, state game.State, options ...Option) (*MCTS, error) {
	if simulations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, simulations)
	}
	m := &MCTS{ // Default values
		simulations: simulations,
		cSquared:    CSquared,
		cutoff:      MaxCutoff,
		rng:         fastRand{},
		state:       state.Clone(),
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	m.tree = newTree(m.state.Clone())
	return m, nil
}

// SelectAction runs the search and returns the index, among the actions cached
// at the root state, of the most visited root child.
func (m *MCTS) SelectAction() (int, error) {
	if m.state.IsOver() {
		return -1, ErrGameOver
	}
	if m.state.IsRandomStep() {
		return -1, ErrRandomRoot
	}

	m.tree = newTree(m.state.Clone())
	m.metrics.Start(m.simulations)
	for i := 0; i < m.simulations; i++ {
		if err := m.simulate(); err != nil {
			return -1, fmt.Errorf("simulation %d of %d: %w", i+1, m.simulations, err)
		}
	}
	m.metric = m.metrics.Complete(m.tree.size(), m.tree.depth())

	policy := m.Policy()
	action := utils.ArgMax(policy)
	log.Debug().
		Int("simulations", m.simulations).
		Int("nodes", m.tree.size()).
		Ints("visits", policy).
		Msgf("selected action %d", action)
	return action, nil
}

// Policy returns the visit count of each root child from the last search.
func (m *MCTS) Policy() []int {
	root := m.tree.root()
	visits := make([]int, len(root.children))
	for i, id := range root.children {
		visits[i] = m.tree.get(id).simulations
	}
	return visits
}

func (m *MCTS) Metrics() metrics.SearchMetric {
	return m.metric
}

func (m *MCTS) simulate() error {
	id := m.selectLeaf()

	if state := m.tree.get(id).state; state.IsOver() {
		scores, err := terminalScores(state)
		if err != nil {
			return err
		}
		m.metrics.AddFullPlayout()
		m.tree.backpropagate(id, scores)
		return nil
	}

	if err := m.tree.expand(id); err != nil {
		return err
	}
	id = m.pickNew(id)

	scores, err := m.rollout(m.tree.get(id).state)
	if err != nil {
		return err
	}
	m.tree.backpropagate(id, scores)
	return nil
}

// selectLeaf descends from the root to a terminal or unexpanded node. Children
// of decision nodes are chosen by UCT, children of random steps uniformly.
func (m *MCTS) selectLeaf() int {
	id := 0
	for {
		n := m.tree.get(id)
		if n.state.IsOver() || !n.expanded {
			return id
		}
		if n.player < 0 {
			id = n.children[m.rng.Intn(len(n.children))]
			continue
		}
		id = newUCT(m.cSquared, float64(n.simulations)).pick(m.tree, n.children, n.player)
	}
}

// pickNew chooses the freshly expanded child to roll out from.
func (m *MCTS) pickNew(id int) int {
	n := m.tree.get(id)
	if n.player < 0 {
		return n.children[m.rng.Intn(len(n.children))]
	}
	return n.children[0]
}

func (m *MCTS) rollout(state game.State) ([]float64, error) {
	state = state.Clone()
	depth := 0
	for !state.IsOver() {
		for state.IsRandomStep() {
			state.MakeRandomStep(m.rng)
		}
		if state.IsOver() {
			break
		}

		if depth >= m.cutoff {
			m.metrics.AddCutoff()
			return checkScores(m.evaluate(state), state.PlayerCount())
		}

		// Follow a uniform random rollout policy
		count := state.CacheActions()
		if count == 0 {
			return nil, fmt.Errorf("rollout: %w", ErrNoActions)
		}
		if err := state.MakeAction(m.rng.Intn(count)); err != nil {
			return nil, fmt.Errorf("rollout: %w", err)
		}
		depth++
	}

	m.metrics.AddFullPlayout()
	return terminalScores(state)
}

func terminalScores(state game.State) ([]float64, error) {
	scores, ok := state.Scores()
	if !ok {
		return nil, ErrMissingScores
	}
	return checkScores(scores, state.PlayerCount())
}

func checkScores(scores []float64, players int) ([]float64, error) {
	if len(scores) != players {
		return nil, fmt.Errorf("%w: %d scores for %d players", ErrScoreCount, len(scores), players)
	}
	return scores, nil
}
