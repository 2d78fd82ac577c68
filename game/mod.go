package game

import (
	"errors"
	"fmt"
)

// Any game that aims to be playable by the searcher implements State. The
// searcher never looks inside a state, it only drives it through this contract.

// Move describes a cached action for display purposes.
type Move interface {
	fmt.Stringer
}

// Rand is the source of randomness injected into chance events and rollouts.
type Rand interface {
	Intn(n int) int
}

// State is one position of a turn-based game, possibly with chance events.
// States are mutable: MakeAction and MakeRandomStep advance the state in place,
// so callers Clone before branching.
type State interface {
	IsOver() bool
	// PlayerCount stays constant for every state derived from the same game
	PlayerCount() int
	// ActivePlayer returns ok=false exactly when IsRandomStep is true
	ActivePlayer() (player int, ok bool)
	// Scores returns one value per player once the game is over
	Scores() ([]float64, bool)
	IsRandomStep() bool
	// CacheActions computes the legal actions and returns their count. It must
	// be called again after the state changes.
	CacheActions() int
	// Actions returns the actions stored by the last CacheActions call
	Actions() []Move
	// PossibleRandom returns one state per outcome of the pending chance event
	PossibleRandom() ([]State, bool)
	MakeRandomStep(r Rand)
	// MakeAction applies the cached action at index
	MakeAction(index int) error
	Clone() State
}

// Evaluate scores a non-terminal state with one value per player, on the same
// scale as State.Scores.
type Evaluate func(State) []float64

var (
	ErrActionsNotCached = errors.New("actions not cached")
	ErrActionOutOfRange = errors.New("action index out of range")
	ErrIllegalAction    = errors.New("illegal action")
	ErrNoRandomStep     = errors.New("state is not a random step")
)

// CheckIndex validates an action index against the number of cached actions.
func CheckIndex(index, cached int) error {
	if index < 0 || index >= cached {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrActionOutOfRange, index, cached)
	}
	return nil
}
