package game

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown       CellState = -2
	Flagged       CellState = -1
	ExplodedMine  CellState = 65
	UnflaggedMine CellState = 67
	/*
	 * Values 0 to 8 mean the cell is open and carries its surrounding
	 * mine count.
	 *
	 * -2 means the cell has not been opened and nothing is proved
	 * about it.
	 *
	 * -1 means the cell is flagged as a proved mine.
	 *
	 * 65 means the cell held the mine the agent stepped on.
	 *
	 * 67 means the cell held a mine revealed after the game ended.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged:
		return "*"
	case s == ExplodedMine:
		return "X"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is the agent-visible view of the board, in row-major order.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
