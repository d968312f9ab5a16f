package knowledge

import (
	"fmt"
	"strings"
)

/*
A Sentence is a logical statement about the board: exactly `count` of
`cells` are mines. Sentences only ever mention cells whose status is
still undetermined; as soon as a cell is proved safe or mined it is
resolved out of every live sentence.
*/
type Sentence struct {
	cells map[Cell]bool
	count int
}

// panics [InvariantError]
func NewSentence(cells []Cell, count int) *Sentence {
	s := &Sentence{
		cells: make(map[Cell]bool, len(cells)),
		count: count,
	}
	for _, c := range cells {
		s.cells[c] = true
	}
	if count < 0 || count > len(s.cells) {
		panic(InvariantError{fmt.Sprintf(
			"sentence %s: count out of [0, %d]", s, len(s.cells),
		)})
	}
	return s
}

func (s *Sentence) Count() int { return s.count }

func (s *Sentence) Len() int { return len(s.cells) }

// Empty reports whether the sentence is exhausted and carries no
// further information.
func (s *Sentence) Empty() bool { return len(s.cells) == 0 }

func (s *Sentence) Contains(c Cell) bool { return s.cells[c] }

func (s *Sentence) Cells() []Cell { return sortedCells(s.cells) }

// KnownMines returns every cell of the sentence when all of them must
// be mines, i.e. when the mine count equals the set cardinality.
func (s *Sentence) KnownMines() []Cell {
	if s.count == len(s.cells) && s.count > 0 {
		return sortedCells(s.cells)
	}
	return nil
}

// KnownSafes returns every cell of the sentence when none of them can
// be a mine, i.e. when the mine count is zero.
func (s *Sentence) KnownSafes() []Cell {
	if s.count == 0 {
		return sortedCells(s.cells)
	}
	return nil
}

/*
ResolveMine folds the fact that c is a mine into the sentence: c is
removed and the count drops by one, so the remaining cells describe
the mines among the rest of the set. A second call with the same cell
is a no-op since the cell is no longer a member.

panics [InvariantError]
*/
func (s *Sentence) ResolveMine(c Cell) {
	if !s.cells[c] {
		return
	}
	if s.count == 0 {
		panic(InvariantError{fmt.Sprintf(
			"sentence %s: resolving %s as mine would drop count below zero", s, c,
		)})
	}
	delete(s.cells, c)
	s.count--
}

// ResolveSafe folds the fact that c is safe into the sentence: c is
// removed and the count is unchanged. No-op if c is not a member.
func (s *Sentence) ResolveSafe(c Cell) {
	delete(s.cells, c)
}

// SubsetOf reports whether every cell of s is also in o.
func (s *Sentence) SubsetOf(o *Sentence) bool {
	if len(s.cells) > len(o.cells) {
		return false
	}
	for c := range s.cells {
		if !o.cells[c] {
			return false
		}
	}
	return true
}

// minus returns the cells of s that are not in o.
func (s *Sentence) minus(o *Sentence) []Cell {
	var cells []Cell
	for _, c := range s.Cells() {
		if !o.cells[c] {
			cells = append(cells, c)
		}
	}
	return cells
}

// Equal is structural: same cell set and same count, regardless of
// identity.
func (s *Sentence) Equal(o *Sentence) bool {
	if s.count != o.count || len(s.cells) != len(o.cells) {
		return false
	}
	for c := range s.cells {
		if !o.cells[c] {
			return false
		}
	}
	return true
}

func (s *Sentence) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, c := range s.Cells() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.String())
	}
	fmt.Fprintf(&b, "} = %d", s.count)
	return b.String()
}
