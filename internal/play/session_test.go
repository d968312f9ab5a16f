package play

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okhotnik/minesweeper-agent/internal/game"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSessionSolvesMinelessBoard(t *testing.T) {
	params := game.GameParams{Width: 4, Height: 4, MineCount: 0}

	s, err := NewSession(params, 0, 0, testRand())
	require.NoError(t, err)

	moves, err := s.Run()
	require.NoError(t, err)

	require.True(t, s.State.Won)
	require.False(t, s.State.Dead)
	/* 16 cells, one opened by NewSession */
	require.Len(t, moves, 15)
	for _, m := range moves {
		require.False(t, m.Guess, "every move on a mineless board is proved safe")
		require.False(t, m.Mine)
	}
}

func TestSessionWinsByFlaggingProvedMines(t *testing.T) {
	/*
	 * 3x1 board, mine at (2,0). Opening at (0,0) lets the agent prove
	 * the mine without guessing:
	 *
	 *   0 1 *
	 */
	state := &game.GameState{
		GameParams: game.GameParams{Width: 3, Height: 1, MineCount: 1},
		Mines:      []bool{false, false, true},
		PlayerGrid: game.Grid{game.Unknown, game.Unknown, game.Unknown},
	}
	state.OpenCell(0, 0)

	s, err := Restore(state, testRand())
	require.NoError(t, err)

	moves, err := s.Run()
	require.NoError(t, err)

	require.True(t, s.State.Won)
	require.Len(t, moves, 1) /* only (1,0) is left to open */
	require.Equal(t, Move{X: 1, Y: 0, Guess: false, Mine: false, Nearby: 1}, moves[0])
	require.Equal(t, game.Flagged, s.State.PlayerGrid[2])
}

func TestSessionGuessesWhenNothingIsProved(t *testing.T) {
	params := game.GameParams{Width: 9, Height: 9, MineCount: 10}

	s, err := NewSession(params, 4, 4, testRand())
	require.NoError(t, err)

	moves, err := s.Run()
	require.NoError(t, err)
	require.True(t, s.Done())

	if s.State.Dead {
		last := moves[len(moves)-1]
		require.True(t, last.Mine)
		require.True(t, last.Guess, "the agent only dies on gambles")
	}
}

func TestStepAfterGameOverFails(t *testing.T) {
	params := game.GameParams{Width: 4, Height: 4, MineCount: 0}

	s, err := NewSession(params, 0, 0, testRand())
	require.NoError(t, err)
	_, err = s.Run()
	require.NoError(t, err)
	require.True(t, s.Done())

	_, err = s.Step()
	require.Error(t, err)
}

func TestRestoreRebuildsKnowledge(t *testing.T) {
	params := game.GameParams{Width: 8, Height: 8, MineCount: 6}

	s, err := NewSession(params, 4, 4, testRand())
	require.NoError(t, err)
	for range 5 {
		if s.Done() {
			break
		}
		_, err := s.Step()
		require.NoError(t, err)
	}

	buf, err := s.State.Bytes()
	require.NoError(t, err)
	state, err := game.DecodeGameState(buf)
	require.NoError(t, err)

	restored, err := Restore(state, testRand())
	require.NoError(t, err)

	require.Equal(t, s.agent.KnownSafes(), restored.agent.KnownSafes())
	require.Equal(t, s.agent.KnownMines(), restored.agent.KnownMines())
}
