package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const e = Empty

func TestNew(t *testing.T) {
	// When: create a new game instance
	game := New()

	// Then: the game should have the expected initial state
	expected := State{
		Board:   [BoardSize]Player{e, e, e, e, e, e, e, e, e},
		Current: X,
	}

	require.NotNil(t, game)
	require.Equal(t, expected, *game)
}

func TestState_AttemptMove(t *testing.T) {
	t.Run("valid move places mark and flips turn", func(t *testing.T) {
		// Given: a new game
		game := New()

		// When: X plays the center
		err := game.AttemptMove(X, 4)

		// Then: the board and turn reflect the move
		require.NoError(t, err)
		require.Equal(t, State{
			Board:   [BoardSize]Player{e, e, e, e, X, e, e, e, e},
			Current: O,
		}, *game)
	})

	t.Run("occupied cell is a no-op", func(t *testing.T) {
		// Given: X holds the center
		game := New()
		require.NoError(t, game.AttemptMove(X, 4))
		before := game.Clone()

		// When: O tries the same cell
		err := game.AttemptMove(O, 4)

		// Then: rejected, state unchanged
		require.ErrorIs(t, err, ErrCellOccupied)
		require.Equal(t, before, *game)
	})

	t.Run("wrong player is a no-op", func(t *testing.T) {
		// Given: a new game, X to move
		game := New()
		before := game.Clone()

		// When: O tries to move first
		err := game.AttemptMove(O, 1)

		// Then: rejected, state unchanged
		require.ErrorIs(t, err, ErrNotYourTurn)
		require.Equal(t, before, *game)
	})

	t.Run("finished game is a no-op", func(t *testing.T) {
		// Given: X has won
		game := New()
		game.Board = [BoardSize]Player{X, X, X, O, O, e, e, e, e}
		game.Current = O
		game.Settle()
		require.True(t, game.GameOver)
		before := game.Clone()

		// When: O tries to keep playing
		err := game.AttemptMove(O, 5)

		// Then: rejected, state unchanged
		require.ErrorIs(t, err, ErrGameFinished)
		require.Equal(t, before, *game)
	})

	t.Run("out of range cell", func(t *testing.T) {
		game := New()
		before := game.Clone()

		require.ErrorIs(t, game.AttemptMove(X, -1), ErrInvalidCell)
		require.ErrorIs(t, game.AttemptMove(X, BoardSize), ErrInvalidCell)
		require.Equal(t, before, *game)
	})

	t.Run("turns alternate", func(t *testing.T) {
		game := New()

		for i, cell := range []int{0, 4, 8, 2, 6} {
			player := Players[i%2]
			require.NoError(t, game.AttemptMove(player, cell), "move %d", i)
			assert.Equal(t, player.Opponent(), game.Current)
		}
	})
}

func TestState_CheckWinner(t *testing.T) {
	tests := []struct {
		name  string
		board [BoardSize]Player
		want  Result
	}{
		{
			name:  "top row",
			board: [BoardSize]Player{X, X, X, O, O, e, e, e, e},
			want:  Result{Outcome: Win, Winner: X, Triple: [3]int{0, 1, 2}},
		},
		{
			name:  "middle column",
			board: [BoardSize]Player{X, O, X, e, O, e, X, O, e},
			want:  Result{Outcome: Win, Winner: O, Triple: [3]int{1, 4, 7}},
		},
		{
			name:  "anti diagonal",
			board: [BoardSize]Player{X, X, O, X, O, e, O, e, e},
			want:  Result{Outcome: Win, Winner: O, Triple: [3]int{2, 4, 6}},
		},
		{
			name:  "draw",
			board: [BoardSize]Player{X, O, X, X, O, O, O, X, X},
			want:  Result{Outcome: Draw},
		},
		{
			name:  "ongoing",
			board: [BoardSize]Player{X, O, X, e, O, e, e, X, e},
			want:  Result{Outcome: Ongoing},
		},
		{
			name:  "empty board",
			board: [BoardSize]Player{},
			want:  Result{Outcome: Ongoing},
		},
		{
			// Unreachable by play, but the scan order must still decide:
			// the top row is listed before the left column.
			name:  "first listed triple wins",
			board: [BoardSize]Player{X, X, X, X, O, O, X, O, O},
			want:  Result{Outcome: Win, Winner: X, Triple: [3]int{0, 1, 2}},
		},
		{
			name:  "row beats diagonal for different players",
			board: [BoardSize]Player{O, X, X, O, O, O, X, X, O},
			want:  Result{Outcome: Win, Winner: O, Triple: [3]int{3, 4, 5}},
		},
		{
			name:  "full board with a line is a win not a draw",
			board: [BoardSize]Player{X, O, X, O, X, O, O, X, X},
			want:  Result{Outcome: Win, Winner: X, Triple: [3]int{0, 4, 8}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := New()
			game.Board = tt.board
			before := game.Clone()

			assert.Equal(t, tt.want, game.CheckWinner())
			assert.Equal(t, before, *game, "CheckWinner must not mutate")
		})
	}
}

func TestState_Settle(t *testing.T) {
	t.Run("win records triple", func(t *testing.T) {
		game := New()
		game.Board = [BoardSize]Player{X, X, X, O, O, e, e, e, e}

		res := game.Settle()

		assert.Equal(t, Win, res.Outcome)
		assert.True(t, game.GameOver)
		require.NotNil(t, game.WinningTriple)
		assert.Equal(t, [3]int{0, 1, 2}, *game.WinningTriple)
	})

	t.Run("draw ends without triple", func(t *testing.T) {
		game := New()
		game.Board = [BoardSize]Player{X, O, X, X, O, O, O, X, X}

		res := game.Settle()

		assert.Equal(t, Draw, res.Outcome)
		assert.True(t, game.GameOver)
		assert.Nil(t, game.WinningTriple)
	})

	t.Run("ongoing leaves state alone", func(t *testing.T) {
		game := New()
		require.NoError(t, game.AttemptMove(X, 0))

		res := game.Settle()

		assert.Equal(t, Ongoing, res.Outcome)
		assert.False(t, game.GameOver)
	})
}

func TestState_Reset(t *testing.T) {
	// Given: a finished game with O to move
	game := New()
	for i, cell := range []int{0, 3, 1, 4, 2} {
		require.NoError(t, game.AttemptMove(Players[i%2], cell))
	}
	game.Settle()
	require.True(t, game.GameOver)

	// When: reset
	game.Reset()

	// Then: back to the initial state
	require.Equal(t, *New(), *game)
}

func TestState_Clone(t *testing.T) {
	game := New()
	game.Board = [BoardSize]Player{X, X, X, O, O, e, e, e, e}
	game.Settle()

	c := game.Clone()
	c.WinningTriple[0] = 8
	c.Board[8] = O

	assert.Equal(t, 0, game.WinningTriple[0])
	assert.Equal(t, Empty, game.Board[8])
}

func TestPlayer(t *testing.T) {
	assert.Equal(t, 0, X.Slot())
	assert.Equal(t, 1, O.Slot())
	assert.Equal(t, -1, Empty.Slot())
	assert.Equal(t, O, X.Opponent())
	assert.Equal(t, X, O.Opponent())
	assert.True(t, New().IsFree(0))
	assert.False(t, New().IsFree(9))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "win", Win.String())
	assert.Equal(t, "draw", Draw.String())
	assert.Equal(t, "ongoing", Ongoing.String())
}
