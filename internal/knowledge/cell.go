package knowledge

import (
	"fmt"
	"slices"
)

// Cell is a single board coordinate. Cells are only ever used as set
// elements and map keys, never mutated.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func cellcmp(a, b Cell) int {
	if a.Y < b.Y {
		return -1
	}
	if a.Y > b.Y {
		return 1
	}
	if a.X < b.X {
		return -1
	}
	if a.X > b.X {
		return 1
	}
	return 0
}

// sortedCells collects a cell set into a slice with a stable row-major
// order, so that callers and tests see deterministic results.
func sortedCells(set map[Cell]bool) []Cell {
	cells := make([]Cell, 0, len(set))
	for c := range set {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, cellcmp)
	return cells
}
