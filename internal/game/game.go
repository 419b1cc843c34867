// Package game holds the tic-tac-toe board, turn ownership and result checks.
package game

import "errors"

// Player is a mark on the board. The zero value is an empty cell.
type Player string

const (
	Empty Player = ""
	X     Player = "X"
	O     Player = "O"
)

// Players lists the two players in slot order.
var Players = [2]Player{X, O}

// Slot returns the player's stable index (X=0, O=1), or -1 for Empty.
func (p Player) Slot() int {
	switch p {
	case X:
		return 0
	case O:
		return 1
	default:
		return -1
	}
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == X {
		return O
	}
	return X
}

// BoardSize is the number of cells on the board.
const BoardSize = 9

// Board holds the owner of each cell, row by row.
type Board [BoardSize]Player

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrGameFinished = errors.New("game is already finished")
	ErrInvalidCell  = errors.New("invalid cell index")

	// WinCombos is scanned in order; the first complete line wins.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Outcome classifies a board.
type Outcome int

const (
	// Ongoing means no line is complete and empty cells remain.
	Ongoing Outcome = iota
	Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Result is the verdict of CheckWinner. Winner and Triple are set only for Win.
type Result struct {
	Outcome Outcome
	Winner  Player
	Triple  [3]int
}

// State is one game: board, turn and result. The zero value is not a valid
// game; use New or call Reset.
type State struct {
	Board         Board
	Current       Player
	GameOver      bool
	WinningTriple *[3]int
}

// New returns a fresh game with X to move.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset clears the board and gives the turn to X.
func (s *State) Reset() {
	s.Board = Board{}
	s.Current = X
	s.GameOver = false
	s.WinningTriple = nil
}

// AttemptMove places player's mark on cell. The move is rejected, leaving
// the state untouched, when the game is over, the cell is out of range or
// occupied, or it is not player's turn.
func (s *State) AttemptMove(player Player, cell int) error {
	if s.GameOver {
		return ErrGameFinished
	}

	if cell < 0 || cell >= BoardSize {
		return ErrInvalidCell
	}

	if s.Board[cell] != Empty {
		return ErrCellOccupied
	}

	if s.Current != player {
		return ErrNotYourTurn
	}

	s.Board[cell] = player
	s.Current = player.Opponent()

	return nil
}

// CheckWinner evaluates the board without modifying it.
func (s *State) CheckWinner() Result {
	for _, combo := range WinCombos {
		a, b, c := s.Board[combo[0]], s.Board[combo[1]], s.Board[combo[2]]
		if a != Empty && a == b && b == c {
			return Result{Outcome: Win, Winner: a, Triple: combo}
		}
	}

	for _, cell := range s.Board {
		if cell == Empty {
			return Result{Outcome: Ongoing}
		}
	}

	return Result{Outcome: Draw}
}

// Settle runs CheckWinner and records a finished game.
func (s *State) Settle() Result {
	res := s.CheckWinner()
	switch res.Outcome {
	case Win:
		triple := res.Triple
		s.GameOver = true
		s.WinningTriple = &triple
	case Draw:
		s.GameOver = true
		s.WinningTriple = nil
	}
	return res
}

// IsFree reports whether cell is in range and unoccupied.
func (s *State) IsFree(cell int) bool {
	return cell >= 0 && cell < BoardSize && s.Board[cell] == Empty
}

// Clone returns a deep copy of the state.
func (s *State) Clone() State {
	c := *s
	if s.WinningTriple != nil {
		triple := *s.WinningTriple
		c.WinningTriple = &triple
	}
	return c
}
