package searcher

import (
	"fmt"
	"mcts/game"
)

const noParent = -1

// node is addressed by its index in the tree arena. Links between nodes are
// indices, never pointers, so the arena may grow while a simulation holds ids.
type node struct {
	parent      int
	children    []int
	expanded    bool
	state       game.State
	player      int // Active player, -1 on random steps
	scores      []float64
	simulations int
}

type tree struct {
	nodes []node
}

func newTree(state game.State) *tree {
	t := &tree{nodes: make([]node, 0, 64)}
	t.add(noParent, state)
	return t
}

func (t *tree) add(parent int, state game.State) int {
	player, ok := state.ActivePlayer()
	if !ok {
		player = -1
	}
	t.nodes = append(t.nodes, node{
		parent: parent,
		state:  state,
		player: player,
		scores: make([]float64, state.PlayerCount()),
	})
	return len(t.nodes) - 1
}

func (t *tree) get(id int) *node {
	return &t.nodes[id]
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

// expand adds one child per chance outcome or per cached action. The layer is
// built completely before it is attached so a failing action leaves the node
// unexpanded.
func (t *tree) expand(id int) error {
	n := t.get(id)
	if n.expanded {
		return fmt.Errorf("%w: node %d", ErrAlreadyExpanded, id)
	}

	var states []game.State
	if n.state.IsRandomStep() {
		outcomes, ok := n.state.PossibleRandom()
		if !ok || len(outcomes) == 0 {
			return fmt.Errorf("%w: node %d", ErrNoOutcomes, id)
		}
		states = outcomes
	} else {
		cached := n.state.Clone()
		count := cached.CacheActions()
		if count == 0 {
			return fmt.Errorf("%w: node %d", ErrNoActions, id)
		}
		states = make([]game.State, 0, count)
		for action := 0; action < count; action++ {
			next := cached.Clone()
			if err := next.MakeAction(action); err != nil {
				return fmt.Errorf("expanding action %d of node %d: %w", action, id, err)
			}
			states = append(states, next)
		}
	}

	children := make([]int, 0, len(states))
	for _, state := range states {
		children = append(children, t.add(id, state))
	}
	// Re-acquire the node, add may have moved the arena
	n = t.get(id)
	n.children = children
	n.expanded = true
	return nil
}

// backpropagate credits one visit and the rollout scores to every node from id
// up to the root.
func (t *tree) backpropagate(id int, scores []float64) {
	for id != noParent {
		n := t.get(id)
		n.simulations++
		for i, score := range scores {
			n.scores[i] += score
		}
		id = n.parent
	}
}

func (t *tree) size() int {
	return len(t.nodes)
}

func (t *tree) depth() int {
	// Children are always appended after their parent
	depths := make([]int, len(t.nodes))
	deepest := 0
	for id := 1; id < len(t.nodes); id++ {
		depths[id] = depths[t.nodes[id].parent] + 1
		deepest = max(deepest, depths[id])
	}
	return deepest
}
