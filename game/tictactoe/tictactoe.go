// Package tictactoe implements three-in-a-row on a 3x3 board as a game.State.
// Player 0 plays X and moves first, player 1 plays O.
package tictactoe

import (
	"fmt"
	"mcts/game"
	"mcts/utils"
	"strings"

	"github.com/logrusorgru/aurora"
)

const Size = 9

type Cell int8

const (
	Empty Cell = iota
	X
	O
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Move places the active player's mark on a tile.
type Move struct {
	Tile int
}

func (m Move) String() string {
	return fmt.Sprintf("%d", m.Tile)
}

type State struct {
	board   [Size]Cell
	player  int
	winner  int // -1 while undecided
	moves   int
	actions []Move
	cached  bool
}

func New() *State {
	return &State{winner: -1}
}

// FromBoard builds a position from a 9 character layout of 'X', 'O' and '.',
// e.g. "XX.OO....". The player to move is derived from the mark counts.
func FromBoard(layout string) (*State, error) {
	if len(layout) != Size {
		return nil, fmt.Errorf("board layout must have %d cells, got %d", Size, len(layout))
	}
	s := New()
	xs, ohs := 0, 0
	for i, r := range layout {
		switch r {
		case 'X', 'x':
			s.board[i] = X
			xs++
		case 'O', 'o':
			s.board[i] = O
			ohs++
		case '.', ' ', '-':
		default:
			return nil, fmt.Errorf("unknown cell %q at %d", r, i)
		}
	}
	if xs != ohs && xs != ohs+1 {
		return nil, fmt.Errorf("impossible mark counts: %d X and %d O", xs, ohs)
	}
	s.moves = xs + ohs
	if xs > ohs {
		s.player = 1
	}
	s.checkWinner()
	return s, nil
}

func (s *State) Cell(tile int) Cell {
	return s.board[tile]
}

func (s *State) IsOver() bool {
	return s.winner >= 0 || s.moves == Size
}

func (s *State) PlayerCount() int {
	return 2
}

func (s *State) ActivePlayer() (int, bool) {
	return s.player, true
}

func (s *State) Scores() ([]float64, bool) {
	if !s.IsOver() {
		return nil, false
	}
	switch s.winner {
	case 0:
		return []float64{1, -1}, true
	case 1:
		return []float64{-1, 1}, true
	default:
		return []float64{0, 0}, true
	}
}

func (s *State) IsRandomStep() bool {
	return false
}

func (s *State) CacheActions() int {
	s.actions = s.actions[:0]
	if s.winner < 0 {
		for tile, c := range s.board {
			if c == Empty {
				s.actions = append(s.actions, Move{Tile: tile})
			}
		}
	}
	s.cached = true
	return len(s.actions)
}

func (s *State) Actions() []game.Move {
	moves := make([]game.Move, len(s.actions))
	for i, m := range s.actions {
		moves[i] = m
	}
	return moves
}

// IndexOf returns the cached action index placing a mark on tile, or -1.
func (s *State) IndexOf(tile int) int {
	return utils.FindIndex(s.actions, Move{Tile: tile})
}

func (s *State) PossibleRandom() ([]game.State, bool) {
	return nil, false
}

func (s *State) MakeRandomStep(game.Rand) {}

func (s *State) MakeAction(index int) error {
	if !s.cached {
		return game.ErrActionsNotCached
	}
	if err := game.CheckIndex(index, len(s.actions)); err != nil {
		return err
	}
	tile := s.actions[index].Tile
	if s.board[tile] != Empty {
		return fmt.Errorf("%w: tile %d already occupied", game.ErrIllegalAction, tile)
	}

	if s.player == 0 {
		s.board[tile] = X
	} else {
		s.board[tile] = O
	}
	s.player = 1 - s.player
	s.moves++
	s.actions = s.actions[:0]
	s.cached = false
	s.checkWinner()
	return nil
}

func (s *State) Clone() game.State {
	c := *s
	c.actions = append([]Move(nil), s.actions...)
	return &c
}

func (s *State) checkWinner() {
	for _, line := range lines {
		c := s.board[line[0]]
		if c != Empty && c == s.board[line[1]] && c == s.board[line[2]] {
			if c == X {
				s.winner = 0
			} else {
				s.winner = 1
			}
			return
		}
	}
	s.winner = -1
}

// WinningTiles returns the empty tiles that would complete a line for player.
func (s *State) WinningTiles(player int) []int {
	mark := X
	if player == 1 {
		mark = O
	}
	var tiles []int
	for tile, c := range s.board {
		if c != Empty {
			continue
		}
		next := s.board
		next[tile] = mark
		for _, line := range lines {
			if next[line[0]] == mark && next[line[1]] == mark && next[line[2]] == mark {
				tiles = append(tiles, tile)
				break
			}
		}
	}
	return tiles
}

func (s *State) String() string {
	var b strings.Builder
	for i, c := range s.board {
		b.WriteString(c.String())
		if i%3 == 2 && i != Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Pretty renders the board with colored marks for terminal output.
func (s *State) Pretty() string {
	var b strings.Builder
	for i, c := range s.board {
		switch c {
		case X:
			b.WriteString(aurora.Red("X").String())
		case O:
			b.WriteString(aurora.Blue("O").String())
		default:
			b.WriteString(aurora.Green(fmt.Sprintf("%d", i)).String())
		}
		if i%3 == 2 {
			b.WriteByte('\n')
		} else {
			b.WriteString(aurora.White("|").String())
		}
	}
	return b.String()
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}
