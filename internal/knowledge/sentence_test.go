package knowledge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentenceKnownMines(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {1, 0}}, 2)
	require.Equal(t, []Cell{{0, 0}, {1, 0}}, s.KnownMines())
	require.Empty(t, s.KnownSafes())

	s = NewSentence([]Cell{{0, 0}, {1, 0}}, 1)
	require.Empty(t, s.KnownMines())
	require.Empty(t, s.KnownSafes())
}

func TestSentenceKnownSafes(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {1, 0}, {2, 0}}, 0)
	require.Equal(t, []Cell{{0, 0}, {1, 0}, {2, 0}}, s.KnownSafes())
	require.Empty(t, s.KnownMines())
}

func TestEmptySentenceYieldsNothing(t *testing.T) {
	s := NewSentence(nil, 0)
	require.True(t, s.Empty())
	require.Empty(t, s.KnownMines())
	require.Empty(t, s.KnownSafes())
}

func TestSentenceResolveMine(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {1, 0}, {2, 0}}, 2)

	s.ResolveMine(Cell{1, 0})
	require.Equal(t, 1, s.Count())
	require.Equal(t, []Cell{{0, 0}, {2, 0}}, s.Cells())

	/* second application is a no-op */
	s.ResolveMine(Cell{1, 0})
	require.Equal(t, 1, s.Count())
	require.Equal(t, 2, s.Len())

	/* absent cell is a no-op */
	s.ResolveMine(Cell{7, 7})
	require.Equal(t, 1, s.Count())
	require.Equal(t, 2, s.Len())
}

func TestSentenceResolveSafe(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {1, 0}, {2, 0}}, 1)

	s.ResolveSafe(Cell{2, 0})
	require.Equal(t, 1, s.Count())
	require.Equal(t, []Cell{{0, 0}, {1, 0}}, s.Cells())

	s.ResolveSafe(Cell{2, 0})
	require.Equal(t, 1, s.Count())
	require.Equal(t, 2, s.Len())
}

func TestSentenceResolveMineBelowZeroPanics(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {1, 0}}, 0)
	require.PanicsWithError(
		t,
		"sentence {(0,0) (1,0)} = 0: resolving (0,0) as mine would drop count below zero",
		func() { s.ResolveMine(Cell{0, 0}) },
	)
}

func TestNewSentenceCountOutOfBoundsPanics(t *testing.T) {
	require.Panics(t, func() { NewSentence([]Cell{{0, 0}}, 2) })
	require.Panics(t, func() { NewSentence([]Cell{{0, 0}}, -1) })
}

func TestSentenceEqualIsStructural(t *testing.T) {
	a := NewSentence([]Cell{{0, 0}, {1, 0}}, 1)
	b := NewSentence([]Cell{{1, 0}, {0, 0}}, 1)
	c := NewSentence([]Cell{{0, 0}, {1, 0}}, 2)
	d := NewSentence([]Cell{{0, 0}, {2, 0}}, 1)

	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
}

func TestSentenceSubsetOf(t *testing.T) {
	big := NewSentence([]Cell{{0, 0}, {1, 0}, {2, 0}}, 2)
	small := NewSentence([]Cell{{0, 0}, {1, 0}}, 1)
	other := NewSentence([]Cell{{0, 0}, {3, 0}}, 1)

	require.True(t, small.SubsetOf(big))
	require.False(t, big.SubsetOf(small))
	require.False(t, other.SubsetOf(big))
	require.True(t, big.SubsetOf(big))
}

func TestSentenceString(t *testing.T) {
	s := NewSentence([]Cell{{1, 0}, {0, 1}}, 1)
	require.Equal(t, "{(1,0) (0,1)} = 1", s.String())
}
