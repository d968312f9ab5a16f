package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestState builds a state with a fixed mine layout.
func newTestState(width, height int, mines ...int) *GameState {
	grid := make([]bool, width*height)
	count := 0
	for _, i := range mines {
		grid[i] = true
		count++
	}
	playerGrid := make(Grid, len(grid))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}
	return &GameState{
		GameParams: GameParams{Width: width, Height: height, MineCount: count},
		Mines:      grid,
		PlayerGrid: playerGrid,
	}
}

func TestNewMineGridPlacesExactCount(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	p := GameParams{Width: 9, Height: 9, MineCount: 10}

	grid, err := newMineGrid(p, 4, 4, r)
	require.NoError(t, err)

	count := 0
	for _, mine := range grid {
		if mine {
			count++
		}
	}
	require.Equal(t, p.MineCount, count)
}

func TestNewMineGridClearsOpening(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	p := GameParams{Width: 5, Height: 5, MineCount: 16}

	for range 50 {
		grid, err := newMineGrid(p, 2, 2, r)
		require.NoError(t, err)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				require.False(t, grid[(2+dy)*p.Width+(2+dx)])
			}
		}
	}
}

func TestNewMineGridTooManyMines(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	p := GameParams{Width: 3, Height: 3, MineCount: 1}

	/* the whole board is within one square of the center */
	_, err := newMineGrid(p, 1, 1, r)
	require.Error(t, err)
}

func TestNearbyMines(t *testing.T) {
	/*
	 *   * 2 1
	 *   2 * 1
	 *   1 1 1
	 */
	s := newTestState(3, 3, 0, 4)

	require.Equal(t, 2, s.NearbyMines(1, 0))
	require.Equal(t, 2, s.NearbyMines(0, 1))
	require.Equal(t, 1, s.NearbyMines(2, 0))
	require.Equal(t, 1, s.NearbyMines(2, 2))
	require.Equal(t, 1, s.NearbyMines(0, 2))
}

func TestOpenCellSafe(t *testing.T) {
	s := newTestState(3, 3, 0)

	n, ok := s.OpenCell(2, 2)
	require.True(t, ok)
	require.Equal(t, 0, n)
	require.Equal(t, CellState(0), s.PlayerGrid[s.index(2, 2)])
	require.False(t, s.Dead)

	n, ok = s.OpenCell(1, 1)
	require.True(t, ok)
	require.Equal(t, 1, n)
}

func TestOpenCellIsIdempotent(t *testing.T) {
	s := newTestState(3, 3, 0)

	first, ok := s.OpenCell(1, 1)
	require.True(t, ok)
	second, ok := s.OpenCell(1, 1)
	require.True(t, ok)
	require.Equal(t, first, second)
}

func TestOpenCellMine(t *testing.T) {
	s := newTestState(3, 3, 4)

	_, ok := s.OpenCell(1, 1)
	require.False(t, ok)
	require.True(t, s.Dead)
	require.Equal(t, ExplodedMine, s.PlayerGrid[s.index(1, 1)])
	/* the rest of the grid is revealed */
	require.Equal(t, CellState(1), s.PlayerGrid[s.index(0, 0)])
}

func TestWinFlagsRemainingMines(t *testing.T) {
	s := newTestState(2, 1, 1)

	_, ok := s.OpenCell(0, 0)
	require.True(t, ok)
	require.True(t, s.Won)
	require.False(t, s.Dead)
	require.Equal(t, Flagged, s.PlayerGrid[s.index(1, 0)])
}

func TestForfeitRevealsGrid(t *testing.T) {
	s := newTestState(2, 2, 3)

	s.Forfeit()
	require.True(t, s.Dead)
	require.Equal(t, UnflaggedMine, s.PlayerGrid[s.index(1, 1)])
	require.Equal(t, CellState(1), s.PlayerGrid[s.index(0, 0)])
}

func TestGameStateRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	params := GameParams{Width: 8, Height: 8, MineCount: 8}

	state, err := NewGame(&params, 4, 4, r)
	require.NoError(t, err)
	state.OpenCell(4, 4)

	buf, err := state.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)
	require.Equal(t, state, decoded)
}

func TestGameParamsValidate(t *testing.T) {
	require.NoError(t, GameParams{Width: 8, Height: 8, MineCount: 10}.Validate())
	require.Error(t, GameParams{Width: 0, Height: 8, MineCount: 1}.Validate())
	require.Error(t, GameParams{Width: 8, Height: 8, MineCount: -1}.Validate())
	require.Error(t, GameParams{Width: 2, Height: 2, MineCount: 4}.Validate())
}
