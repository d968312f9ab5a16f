package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireConsistent asserts the invariant that no cell is ever proved
// both safe and mined.
func requireConsistent(t *testing.T, a *Agent) {
	t.Helper()
	for _, c := range a.KnownSafes() {
		require.False(t, a.IsKnownMine(c), "cell %s both safe and mine", c)
	}
}

func TestObserveZeroCountMarksAllNeighboursSafe(t *testing.T) {
	a := NewAgent(3, 3)

	require.NoError(t, a.Observe(Cell{1, 1}, 0))

	want := []Cell{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {1, 1}, {2, 1},
		{0, 2}, {1, 2}, {2, 2},
	}
	require.Equal(t, want, a.KnownSafes())
	require.Empty(t, a.KnownMines())
	requireConsistent(t, a)
}

func TestObserveClipsNeighbourhoodToBounds(t *testing.T) {
	a := NewAgent(3, 3)

	require.NoError(t, a.Observe(Cell{0, 0}, 0))

	require.Equal(t, []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, a.KnownSafes())
}

func TestObserveFullCountMarksAllNeighboursMines(t *testing.T) {
	a := NewAgent(2, 1)

	require.NoError(t, a.Observe(Cell{0, 0}, 1))

	require.Equal(t, []Cell{{1, 0}}, a.KnownMines())
	requireConsistent(t, a)
}

func TestSubsetInference(t *testing.T) {
	a := NewAgent(8, 8)
	cellA, cellB, cellC := Cell{0, 0}, Cell{1, 0}, Cell{2, 0}

	a.add(NewSentence([]Cell{cellA, cellB, cellC}, 2))
	a.add(NewSentence([]Cell{cellA, cellB}, 1))
	a.propagate()

	/* {a,b,c}=2 minus {a,b}=1 forces {c}=1 */
	require.True(t, a.IsKnownMine(cellC))
	require.False(t, a.IsKnownMine(cellA))
	require.False(t, a.IsKnownMine(cellB))
	requireConsistent(t, a)
}

func TestCornerDeductionScenario(t *testing.T) {
	/*
	 * 3x2 board with a single mine at (1,1). Observing the whole top
	 * row pins the mine through subset inference alone:
	 *
	 *   1 1 1
	 *   . * .
	 */
	a := NewAgent(3, 2)

	require.NoError(t, a.Observe(Cell{0, 0}, 1))
	require.NoError(t, a.Observe(Cell{2, 0}, 1))
	require.NoError(t, a.Observe(Cell{1, 0}, 1))

	require.True(t, a.IsKnownMine(Cell{1, 1}))
	require.True(t, a.IsKnownSafe(Cell{0, 1}))
	require.True(t, a.IsKnownSafe(Cell{2, 1}))
	requireConsistent(t, a)

	move, ok := a.SafeMove()
	require.True(t, ok)
	require.Equal(t, Cell{0, 1}, move)
}

func TestObserveIsIdempotent(t *testing.T) {
	a := NewAgent(4, 4)

	require.NoError(t, a.Observe(Cell{0, 0}, 1))
	safes, mines := a.KnownSafes(), a.KnownMines()
	sentences := len(a.sentences)

	require.NoError(t, a.Observe(Cell{0, 0}, 1))

	require.Equal(t, safes, a.KnownSafes())
	require.Equal(t, mines, a.KnownMines())
	require.Equal(t, sentences, len(a.sentences))
}

func TestExhaustedSentencesArePruned(t *testing.T) {
	a := NewAgent(3, 3)

	require.NoError(t, a.Observe(Cell{1, 1}, 0))

	/* the zero-count sentence proved all its cells safe and must be gone */
	require.Empty(t, a.sentences)
}

func TestObserveBelowKnownMinesFails(t *testing.T) {
	a := NewAgent(3, 3)
	a.markMine(Cell{1, 1})

	err := a.Observe(Cell{0, 0}, 0)

	var ie InvariantError
	require.ErrorAs(t, err, &ie)
}

func TestContradictorySentencesPanic(t *testing.T) {
	a := NewAgent(3, 3)
	a.add(NewSentence([]Cell{{0, 0}}, 1))
	a.add(NewSentence([]Cell{{0, 0}}, 0))

	require.Panics(t, func() { a.propagate() })
}

func TestObserveOutOfBounds(t *testing.T) {
	a := NewAgent(3, 3)
	require.Error(t, a.Observe(Cell{3, 0}, 0))
	require.Error(t, a.Observe(Cell{0, -1}, 0))
	require.Error(t, a.Observe(Cell{0, 0}, 9))
}

func TestSafeMoveNoneSignal(t *testing.T) {
	a := NewAgent(2, 2)

	_, ok := a.SafeMove()
	require.False(t, ok)

	/* opening the only safe cell exhausts the candidates again */
	require.NoError(t, a.Observe(Cell{0, 0}, 3))
	_, ok = a.SafeMove()
	require.False(t, ok)
}

func TestRandomMoveSkipsMinesAndMoves(t *testing.T) {
	a := NewAgent(2, 1)
	r := rand.New(rand.NewPCG(1, 2))

	require.NoError(t, a.Observe(Cell{0, 0}, 1))

	/* only remaining cell is a proved mine */
	_, ok := a.RandomMove(r)
	require.False(t, ok)
}

func TestRandomMoveNoneOnExhaustedBoard(t *testing.T) {
	a := NewAgent(1, 1)
	r := rand.New(rand.NewPCG(1, 2))

	require.NoError(t, a.Observe(Cell{0, 0}, 0))

	_, ok := a.RandomMove(r)
	require.False(t, ok)
}

func TestNoFalsePositivesAcrossObservations(t *testing.T) {
	/*
	 * 4x4 board, mines at (3,0) and (0,3):
	 *
	 *   . . 1 *
	 *   . . 1 1
	 *   1 1 . .
	 *   * 1 . .
	 */
	mines := map[Cell]bool{{3, 0}: true, {0, 3}: true}
	nearby := func(c Cell) (n int) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if mines[Cell{c.X + dx, c.Y + dy}] {
					n++
				}
			}
		}
		return n
	}

	a := NewAgent(4, 4)
	for y := range 4 {
		for x := range 4 {
			c := Cell{x, y}
			if mines[c] {
				continue
			}
			require.NoError(t, a.Observe(c, nearby(c)))
			requireConsistent(t, a)
		}
	}

	require.Equal(t, []Cell{{3, 0}, {0, 3}}, a.KnownMines())
	for _, c := range a.KnownMines() {
		require.True(t, mines[c])
	}
}
