package searcher

import (
	"mcts/game"
	"mcts/game/pig"
	"mcts/game/tictactoe"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMCTS(t *testing.T) {
	t.Run("rejecting a zero budget", func(t *testing.T) {
		m, err := NewMCTS(0, tictactoe.New())

		require.ErrorIs(t, err, ErrInvalidBudget)
		require.Nil(t, m)
	})

	t.Run("rejecting a negative budget", func(t *testing.T) {
		_, err := NewMCTS(-5, tictactoe.New())

		require.ErrorIs(t, err, ErrInvalidBudget)
	})

	t.Run("building a fresh root", func(t *testing.T) {
		m, err := NewMCTS(10, tictactoe.New())

		require.NoError(t, err)
		require.Equal(t, 1, m.tree.size())
		require.Equal(t, 0, m.tree.root().simulations)
		require.Empty(t, m.Policy())
	})
}

func TestSelectAction(t *testing.T) {
	t.Run("spending the whole budget under the root", func(t *testing.T) {
		budget := 300
		m, err := NewMCTS(budget, tictactoe.New(), WithSeed(7))
		require.NoError(t, err)

		action, err := m.SelectAction()

		require.NoError(t, err)
		require.GreaterOrEqual(t, action, 0)
		require.Less(t, action, tictactoe.Size)
		require.Equal(t, budget, m.tree.root().simulations, "Root should be on every selection path")
		sum := 0
		for _, visits := range m.Policy() {
			sum += visits
		}
		require.Equal(t, budget, sum, "Every simulation should credit exactly one root child")
		requireTreeShape(t, m.tree)
	})

	t.Run("returning the most visited child", func(t *testing.T) {
		m, err := NewMCTS(200, tictactoe.New(), WithSeed(3))
		require.NoError(t, err)

		action, err := m.SelectAction()

		require.NoError(t, err)
		policy := m.Policy()
		for i, visits := range policy {
			if i < action {
				require.Less(t, visits, policy[action], "Earlier children should have strictly fewer visits")
			} else {
				require.LessOrEqual(t, visits, policy[action])
			}
		}
	})

	t.Run("reproducing the decision with the same seed", func(t *testing.T) {
		state, err := tictactoe.FromBoard("X...O....")
		require.NoError(t, err)

		m1, err := NewMCTS(250, state, WithSeed(42))
		require.NoError(t, err)
		m2, err := NewMCTS(250, state, WithSeed(42))
		require.NoError(t, err)

		action1, err := m1.SelectAction()
		require.NoError(t, err)
		action2, err := m2.SelectAction()
		require.NoError(t, err)

		require.Equal(t, action1, action2)
		require.Equal(t, m1.Policy(), m2.Policy(), "Visit counts should be identical")
	})

	t.Run("reproducing chance searches with the same seed", func(t *testing.T) {
		state := pig.WithScore(15, 0, [2]int{6, 9}, 4)

		m1, err := NewMCTS(300, state, WithSeed(9))
		require.NoError(t, err)
		m2, err := NewMCTS(300, state, WithSeed(9))
		require.NoError(t, err)

		_, err = m1.SelectAction()
		require.NoError(t, err)
		_, err = m2.SelectAction()
		require.NoError(t, err)

		require.Equal(t, m1.Policy(), m2.Policy())
	})

	t.Run("failing on a terminal root", func(t *testing.T) {
		state, err := tictactoe.FromBoard("XOXXOOOXX")
		require.NoError(t, err)
		m, err := NewMCTS(10, state)
		require.NoError(t, err)

		action, err := m.SelectAction()

		require.ErrorIs(t, err, ErrGameOver)
		require.Equal(t, -1, action)
		require.Empty(t, m.Policy(), "Terminal root should have no children")
	})

	t.Run("failing on a random step root", func(t *testing.T) {
		state := pig.New(10)
		state.CacheActions()
		require.NoError(t, state.MakeAction(int(pig.Roll)))
		m, err := NewMCTS(10, state)
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.ErrorIs(t, err, ErrRandomRoot)
	})

	t.Run("aborting when the game rejects an action", func(t *testing.T) {
		m, err := NewMCTS(10, &mockState{depth: 3, actions: 2, failAction: true})
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.ErrorIs(t, err, errMock)
	})

	t.Run("aborting when a terminal state has no scores", func(t *testing.T) {
		m, err := NewMCTS(10, &mockState{depth: 1, actions: 2, noScores: true})
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.ErrorIs(t, err, ErrMissingScores)
	})

	t.Run("not mutating the caller's state", func(t *testing.T) {
		state := tictactoe.New()
		m, err := NewMCTS(50, state, WithSeed(1))
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.NoError(t, err)
		require.Equal(t, tictactoe.New().String(), state.String())
	})

	t.Run("rebuilding the tree on every search", func(t *testing.T) {
		m, err := NewMCTS(40, tictactoe.New(), WithSeed(5))
		require.NoError(t, err)

		_, err = m.SelectAction()
		require.NoError(t, err)
		_, err = m.SelectAction()
		require.NoError(t, err)

		require.Equal(t, 40, m.tree.root().simulations, "Second search should not reuse the first tree")
	})

	t.Run("finding the winning first action of a mock game", func(t *testing.T) {
		m, err := NewMCTS(400, &mockState{depth: 2, actions: 4, winning: 2}, WithSeed(11))
		require.NoError(t, err)

		action, err := m.SelectAction()

		require.NoError(t, err)
		require.Equal(t, 2, action)
	})
}

func TestCutoff(t *testing.T) {
	t.Run("scoring cut off rollouts with the evaluation function", func(t *testing.T) {
		evaluate := func(game.State) []float64 { return []float64{0.25, 0.25} }
		m, err := NewMCTS(100, tictactoe.New(), WithSeed(2), WithCutoff(1, evaluate), WithMetrics())
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.NoError(t, err)
		metric := m.Metrics()
		require.Equal(t, 100, metric.Simulations)
		require.Greater(t, metric.Cutoffs, 0)
		require.Equal(t, 100, metric.Cutoffs+metric.FullPlayouts)
		require.Equal(t, m.tree.size(), metric.TreeSize)
		require.Equal(t, m.tree.depth(), metric.TreeDepth)
	})

	t.Run("rejecting evaluations with the wrong score count", func(t *testing.T) {
		evaluate := func(game.State) []float64 { return []float64{1} }
		m, err := NewMCTS(10, tictactoe.New(), WithCutoff(1, evaluate))
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.ErrorIs(t, err, ErrScoreCount)
	})

	t.Run("ignoring a cutoff without evaluation function", func(t *testing.T) {
		m, err := NewMCTS(30, tictactoe.New(), WithCutoff(1, nil), WithMetrics())
		require.NoError(t, err)

		_, err = m.SelectAction()

		require.NoError(t, err)
		require.Equal(t, 0, m.Metrics().Cutoffs)
		require.Equal(t, 30, m.Metrics().FullPlayouts)
	})
}

// requireTreeShape walks the arena and checks the tree shape and the
// visit accounting of every node.
func requireTreeShape(t *testing.T, tr *tree) {
	t.Helper()

	for id := range tr.nodes {
		n := tr.get(id)
		if id == 0 {
			require.Equal(t, noParent, n.parent, "Only the root has no parent")
		} else {
			require.Less(t, n.parent, id, "Parents are created before their children")
			require.Contains(t, tr.get(n.parent).children, id, "Parent should own its child")
		}
		require.Len(t, n.scores, n.state.PlayerCount())

		if !n.expanded {
			require.Empty(t, n.children)
			continue
		}

		if n.state.IsRandomStep() {
			outcomes, _ := n.state.PossibleRandom()
			require.Len(t, n.children, len(outcomes), "One child per chance outcome")
		} else {
			require.Len(t, n.children, n.state.Clone().CacheActions(), "One child per legal action")
		}

		sum := 0
		for _, child := range n.children {
			require.GreaterOrEqual(t, n.simulations, tr.get(child).simulations)
			sum += tr.get(child).simulations
		}
		// A node only keeps a visit for itself when it was the child rolled out
		// right after its parent's expansion. The root never is.
		own := n.simulations - sum
		if id == 0 {
			require.Equal(t, 0, own)
		} else {
			require.Contains(t, []int{0, 1}, own)
		}
	}
}
