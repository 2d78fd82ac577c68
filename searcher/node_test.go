package searcher

import (
	"errors"
	"mcts/game"
	"mcts/game/pig"
	"mcts/game/tictactoe"
	"testing"

	"github.com/stretchr/testify/require"
)

var errMock = errors.New("mock action failure")

type mockMove struct {
	id int
}

func (m mockMove) String() string {
	return "mock"
}

// mockState is a two player game with a fixed number of actions at every step
// that ends after depth actions. Player 0 wins when the first action taken was
// the winning one.
type mockState struct {
	depth      int
	played     []int
	actions    int
	cached     int
	winning    int
	failAction bool
	noScores   bool
}

func (m *mockState) IsOver() bool {
	return len(m.played) >= m.depth
}

func (m *mockState) PlayerCount() int {
	return 2
}

func (m *mockState) ActivePlayer() (int, bool) {
	return len(m.played) % 2, true
}

func (m *mockState) Scores() ([]float64, bool) {
	if !m.IsOver() || m.noScores {
		return nil, false
	}
	if m.played[0] == m.winning {
		return []float64{1, 0}, true
	}
	return []float64{0, 1}, true
}

func (m *mockState) IsRandomStep() bool {
	return false
}

func (m *mockState) CacheActions() int {
	m.cached = 0
	if !m.IsOver() {
		m.cached = m.actions
	}
	return m.cached
}

func (m *mockState) Actions() []game.Move {
	moves := make([]game.Move, m.cached)
	for i := range moves {
		moves[i] = mockMove{id: i}
	}
	return moves
}

func (m *mockState) PossibleRandom() ([]game.State, bool) {
	return nil, false
}

func (m *mockState) MakeRandomStep(game.Rand) {}

func (m *mockState) MakeAction(index int) error {
	if m.failAction {
		return errMock
	}
	if err := game.CheckIndex(index, m.cached); err != nil {
		return err
	}
	m.played = append(m.played, index)
	m.cached = 0
	return nil
}

func (m *mockState) Clone() game.State {
	c := *m
	c.played = append([]int(nil), m.played...)
	return &c
}

func TestNewTree(t *testing.T) {
	tr := newTree(tictactoe.New())

	root := tr.root()
	require.Equal(t, 1, tr.size())
	require.Equal(t, noParent, root.parent, "Root should have no parent")
	require.Equal(t, []float64{0, 0}, root.scores, "Scores should have one zero per player")
	require.Equal(t, 0, root.simulations)
	require.Empty(t, root.children)
	require.False(t, root.expanded)
	require.Equal(t, 0, root.player)
}

func TestExpand(t *testing.T) {
	t.Run("expanding a decision node adds one child per action", func(t *testing.T) {
		tr := newTree(tictactoe.New())

		err := tr.expand(0)

		require.NoError(t, err)
		root := tr.root()
		require.True(t, root.expanded)
		require.Len(t, root.children, tictactoe.Size)
		for i, id := range root.children {
			child := tr.get(id)
			require.Equal(t, 0, child.parent, "Child should point back to the root")
			require.Equal(t, tictactoe.X, child.state.(*tictactoe.State).Cell(i),
				"Child i should follow action i")
			require.Equal(t, 1, child.player)
		}
		require.Equal(t, tictactoe.Empty, root.state.(*tictactoe.State).Cell(0),
			"Root state should not change")
	})

	t.Run("expanding a random step adds one child per outcome", func(t *testing.T) {
		state := pig.New(10)
		state.CacheActions()
		require.NoError(t, state.MakeAction(int(pig.Roll)))
		tr := newTree(state)

		err := tr.expand(0)

		require.NoError(t, err)
		require.Equal(t, -1, tr.root().player, "Random step should have no active player")
		require.Len(t, tr.root().children, pig.Faces)
		for _, id := range tr.root().children {
			require.False(t, tr.get(id).state.IsRandomStep())
		}
	})

	t.Run("expanding twice is rejected", func(t *testing.T) {
		tr := newTree(tictactoe.New())
		require.NoError(t, tr.expand(0))

		err := tr.expand(0)

		require.ErrorIs(t, err, ErrAlreadyExpanded)
		require.Len(t, tr.root().children, tictactoe.Size, "Children should not change")
		require.Equal(t, 1+tictactoe.Size, tr.size())
	})

	t.Run("failing action leaves the node unexpanded", func(t *testing.T) {
		tr := newTree(&mockState{depth: 2, actions: 3, failAction: true})

		err := tr.expand(0)

		require.ErrorIs(t, err, errMock)
		require.False(t, tr.root().expanded)
		require.Empty(t, tr.root().children)
		require.Equal(t, 1, tr.size(), "No partial layer should be attached")
	})

	t.Run("decision node without actions is rejected", func(t *testing.T) {
		tr := newTree(&mockState{depth: 2, actions: 0})

		err := tr.expand(0)

		require.ErrorIs(t, err, ErrNoActions)
	})
}

func TestBackpropagate(t *testing.T) {
	t.Run("adding scores along a single path", func(t *testing.T) {
		tr := newTree(tictactoe.New())
		require.NoError(t, tr.expand(0))
		child := tr.root().children[3]
		require.NoError(t, tr.expand(child))
		grandChild := tr.get(child).children[0]

		tr.backpropagate(grandChild, []float64{1, -1})
		tr.backpropagate(grandChild, []float64{0.5, 0})

		for _, id := range []int{grandChild, child, 0} {
			require.Equal(t, 2, tr.get(id).simulations, "Every node on the path should get one visit per call")
			require.Equal(t, []float64{1.5, -1}, tr.get(id).scores, "Every node on the path should add the same scores")
		}
		sibling := tr.get(tr.root().children[0])
		require.Equal(t, 0, sibling.simulations, "Nodes off the path should not change")
		require.Equal(t, []float64{0, 0}, sibling.scores)
		cousin := tr.get(tr.get(child).children[1])
		require.Equal(t, 0, cousin.simulations)
	})

	t.Run("backpropagating from the root updates only the root", func(t *testing.T) {
		tr := newTree(tictactoe.New())
		require.NoError(t, tr.expand(0))

		tr.backpropagate(0, []float64{0, 0})

		require.Equal(t, 1, tr.root().simulations)
		require.Equal(t, 0, tr.get(tr.root().children[0]).simulations)
	})
}

func TestDepth(t *testing.T) {
	tr := newTree(tictactoe.New())
	require.Equal(t, 0, tr.depth())

	require.NoError(t, tr.expand(0))
	require.NoError(t, tr.expand(tr.root().children[8]))

	require.Equal(t, 2, tr.depth())
	require.Equal(t, 1+9+8, tr.size())
}
