package knowledge

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// InvariantError reports an inconsistency in the knowledge base: a
// sentence whose count left [0, |cells|], or a cell proved both safe
// and mined. It means either a malformed observation or a defect in
// propagation, so it is surfaced instead of being corrected silently.
type InvariantError struct {
	message string
}

// [InvariantError] implements [error]
func (e InvariantError) Error() string {
	return e.message
}

/*
Agent is a knowledge base over a single bounded board. It accumulates
observations of the form "this opened cell has n mines among its
neighbours" as sentences, and runs deduction to a fixed point after
every observation, so the certainty sets it exposes are always fully
propagated.
*/
type Agent struct {
	width, height int

	moves map[Cell]bool /* cells already played */
	safes map[Cell]bool /* cells proved safe */
	mines map[Cell]bool /* cells proved to be mines */

	sentences []*Sentence
}

func NewAgent(width, height int) *Agent {
	return &Agent{
		width:  width,
		height: height,
		moves:  make(map[Cell]bool),
		safes:  make(map[Cell]bool),
		mines:  make(map[Cell]bool),
	}
}

func (a *Agent) inBounds(c Cell) bool {
	return 0 <= c.X && c.X < a.width && 0 <= c.Y && c.Y < a.height
}

func (a *Agent) IsKnownSafe(c Cell) bool { return a.safes[c] }

func (a *Agent) IsKnownMine(c Cell) bool { return a.mines[c] }

func (a *Agent) KnownSafes() []Cell { return sortedCells(a.safes) }

func (a *Agent) KnownMines() []Cell { return sortedCells(a.mines) }

/*
Observe records that cell c was opened without exploding and has count
mines among its in-bounds neighbours. It seeds the knowledge base with
the corresponding sentence and runs deduction to a fixed point before
returning.

An inconsistent observation (or a propagation defect it exposes) is
returned as an [InvariantError]; the knowledge base must not be
trusted afterwards.
*/
func (a *Agent) Observe(c Cell, count int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ie InvariantError
			if e, ok := r.(error); ok && errors.As(e, &ie) {
				err = ie
				return
			}
			panic(r)
		}
	}()

	if !a.inBounds(c) {
		return fmt.Errorf("cell %s out of %dx%d board", c, a.width, a.height)
	}
	if count < 0 || count > 8 {
		return fmt.Errorf("nearby mine count %d out of [0, 8]", count)
	}

	a.moves[c] = true
	if !a.safes[c] {
		a.markSafe(c)
	}

	/*
	 * Build the sentence for c's neighbourhood. Cells already proved
	 * safe carry no information; cells already proved to be mines are
	 * accounted for by lowering the count instead of joining the set.
	 */
	var cells []Cell
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Cell{c.X + dx, c.Y + dy}
			if !a.inBounds(n) || a.safes[n] {
				continue
			}
			if a.mines[n] {
				count--
				continue
			}
			cells = append(cells, n)
		}
	}
	if count < 0 {
		panic(InvariantError{fmt.Sprintf(
			"observation at %s reports fewer mines than already proved nearby", c,
		)})
	}

	a.add(NewSentence(cells, count))
	a.propagate()
	return nil
}

// add inserts a sentence unless it is exhausted or a structural
// duplicate of a live one.
func (a *Agent) add(s *Sentence) {
	if s.Empty() || a.hasSentence(s) {
		return
	}
	a.sentences = append(a.sentences, s)
}

func (a *Agent) hasSentence(s *Sentence) bool {
	for _, t := range a.sentences {
		if t.Equal(s) {
			return true
		}
	}
	return false
}

// panics [InvariantError]
func (a *Agent) markMine(c Cell) {
	if a.safes[c] {
		panic(InvariantError{fmt.Sprintf("cell %s proved both safe and mine", c)})
	}
	a.mines[c] = true
	for _, s := range a.sentences {
		s.ResolveMine(c)
	}
}

// panics [InvariantError]
func (a *Agent) markSafe(c Cell) {
	if a.mines[c] {
		panic(InvariantError{fmt.Sprintf("cell %s proved both safe and mine", c)})
	}
	a.safes[c] = true
	for _, s := range a.sentences {
		s.ResolveSafe(c)
	}
}

/*
propagate runs deduction to a fixed point. Each pass extracts the
certainties every sentence yields on its own, folds them back into all
live sentences, prunes exhausted sentences, and derives new sentences
from subset pairs. The pass repeats until nothing changes.

Certainties are collected from a snapshot before any sentence is
mutated, and subset inferences are staged and appended after the scan,
so the outcome does not depend on iteration order.

panics [InvariantError]
*/
func (a *Agent) propagate() {
	for {
		changed := false

		mines := make(map[Cell]bool)
		safes := make(map[Cell]bool)
		for _, s := range a.sentences {
			for _, c := range s.KnownMines() {
				mines[c] = true
			}
			for _, c := range s.KnownSafes() {
				safes[c] = true
			}
		}
		for _, c := range sortedCells(mines) {
			if !a.mines[c] {
				a.markMine(c)
				changed = true
			}
		}
		for _, c := range sortedCells(safes) {
			if !a.safes[c] {
				a.markSafe(c)
				changed = true
			}
		}

		/*
		 * Prune exhausted sentences, and sentences that resolving has
		 * whittled down into copies of an earlier one.
		 */
		live := a.sentences[:0]
		for _, s := range a.sentences {
			if s.Empty() {
				if s.Count() != 0 {
					panic(InvariantError{fmt.Sprintf(
						"exhausted sentence still expects %d mines", s.Count(),
					)})
				}
				continue
			}
			dup := false
			for _, t := range live {
				if t.Equal(s) {
					dup = true
					break
				}
			}
			if !dup {
				live = append(live, s)
			}
		}
		a.sentences = live

		/*
		 * Subset rule: if B's cells all lie within A, the cells of A
		 * outside B must hold exactly countA-countB mines. The subset
		 * relation is not symmetric, so every ordered pair is checked.
		 */
		var staged []*Sentence
		for i, big := range a.sentences {
			for j, small := range a.sentences {
				if i == j || !small.SubsetOf(big) {
					continue
				}
				count := big.Count() - small.Count()
				if count < 0 {
					panic(InvariantError{fmt.Sprintf(
						"subset %s expects more mines than %s", small, big,
					)})
				}
				inferred := NewSentence(big.minus(small), count)
				if inferred.Empty() || a.hasSentence(inferred) {
					continue
				}
				dup := false
				for _, t := range staged {
					if t.Equal(inferred) {
						dup = true
						break
					}
				}
				if !dup {
					staged = append(staged, inferred)
				}
			}
		}
		if len(staged) > 0 {
			a.sentences = append(a.sentences, staged...)
			changed = true
		}

		if !changed {
			return
		}
	}
}

// SafeMove picks a cell proved safe that has not been played yet. The
// scan is in row-major order so repeated calls are deterministic. The
// second return value is false when no such cell exists.
func (a *Agent) SafeMove() (Cell, bool) {
	for y := range a.height {
		for x := range a.width {
			c := Cell{x, y}
			if a.safes[c] && !a.moves[c] {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// RandomMove picks uniformly among cells that have not been played and
// are not proved to be mines. The second return value is false when no
// candidate remains.
func (a *Agent) RandomMove(r *rand.Rand) (Cell, bool) {
	var candidates []Cell
	for y := range a.height {
		for x := range a.width {
			c := Cell{x, y}
			if !a.moves[c] && !a.mines[c] {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[r.IntN(len(candidates))], true
}
