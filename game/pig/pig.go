// Package pig implements the two-player dice game Pig. On their turn a player
// rolls a die repeatedly, adding each face to a turn total, until they hold and
// bank the total or roll a 1 and lose it. The first player to bank Target wins.
//
// Rolling is a chance event, so Pig exercises the random-step part of the
// game.State contract.
package pig

import (
	"fmt"
	"mcts/game"
)

const (
	Faces         = 6
	DefaultTarget = 20
)

type Action int

const (
	Roll Action = iota
	Hold
)

func (a Action) String() string {
	if a == Roll {
		return "roll"
	}
	return "hold"
}

type State struct {
	Target  int
	Banked  [2]int
	Turn    int
	player  int
	rolling bool
	winner  int
	actions []Action
	cached  bool
}

func New(target int) *State {
	if target <= 0 {
		target = DefaultTarget
	}
	return &State{Target: target, winner: -1}
}

// WithScore returns a position where player is to move with the given banked
// scores and turn total.
func WithScore(target, player int, banked [2]int, turn int) *State {
	s := New(target)
	s.player = player
	s.Banked = banked
	s.Turn = turn
	return s
}

func (s *State) IsOver() bool {
	return s.winner >= 0
}

func (s *State) PlayerCount() int {
	return 2
}

func (s *State) ActivePlayer() (int, bool) {
	if s.rolling {
		return 0, false
	}
	return s.player, true
}

func (s *State) Scores() ([]float64, bool) {
	if s.winner < 0 {
		return nil, false
	}
	scores := []float64{-1, -1}
	scores[s.winner] = 1
	return scores, true
}

func (s *State) IsRandomStep() bool {
	return s.rolling
}

func (s *State) CacheActions() int {
	s.actions = s.actions[:0]
	if !s.IsOver() && !s.rolling {
		s.actions = append(s.actions, Roll, Hold)
	}
	s.cached = true
	return len(s.actions)
}

func (s *State) Actions() []game.Move {
	moves := make([]game.Move, len(s.actions))
	for i, a := range s.actions {
		moves[i] = a
	}
	return moves
}

func (s *State) PossibleRandom() ([]game.State, bool) {
	if !s.rolling {
		return nil, false
	}
	outcomes := make([]game.State, 0, Faces)
	for face := 1; face <= Faces; face++ {
		next := s.clone()
		next.land(face)
		outcomes = append(outcomes, next)
	}
	return outcomes, true
}

func (s *State) MakeRandomStep(r game.Rand) {
	if !s.rolling {
		return
	}
	s.land(r.Intn(Faces) + 1)
}

func (s *State) MakeAction(index int) error {
	if !s.cached {
		return game.ErrActionsNotCached
	}
	if err := game.CheckIndex(index, len(s.actions)); err != nil {
		return err
	}
	action := s.actions[index]
	s.actions = s.actions[:0]
	s.cached = false

	switch action {
	case Roll:
		s.rolling = true
	case Hold:
		s.Banked[s.player] += s.Turn
		s.Turn = 0
		if s.Banked[s.player] >= s.Target {
			s.winner = s.player
			return nil
		}
		s.player = 1 - s.player
	default:
		return fmt.Errorf("%w: %d", game.ErrIllegalAction, action)
	}
	return nil
}

func (s *State) Clone() game.State {
	return s.clone()
}

func (s *State) clone() *State {
	c := *s
	c.actions = append([]Action(nil), s.actions...)
	return &c
}

func (s *State) land(face int) {
	s.rolling = false
	if face == 1 {
		s.Turn = 0
		s.player = 1 - s.player
		return
	}
	s.Turn += face
}

func (s *State) String() string {
	return fmt.Sprintf("banked %d-%d, player %d turn total %d", s.Banked[0], s.Banked[1], s.player, s.Turn)
}
