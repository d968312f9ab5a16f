package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

func absDiff(x, y int) int {
	if x > y {
		return x - y
	}
	return y - x
}

/*
newMineGrid places p.MineCount mines at random, none of them at the
starting cell (sx, sy) or within one square of it, so the opening
observation is always valid.
*/
func newMineGrid(p GameParams, sx, sy int, r *rand.Rand) ([]bool, error) {
	grid := make([]bool, p.CellCount())

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, p.CellCount())
	for y := range p.Height {
		for x := range p.Width {
			if absDiff(sy, y) > 1 || absDiff(sx, x) > 1 {
				candidates = append(candidates, y*p.Width+x)
			}
		}
	}

	if p.MineCount > len(candidates) {
		return nil, fmt.Errorf(
			"%d mines do not fit a %dx%d board with a clear opening at (%d,%d)",
			p.MineCount, p.Width, p.Height, sx, sy,
		)
	}

	/*
	 * Now pick them off the list at random.
	 */
	k := len(candidates)
	for range p.MineCount {
		i := r.IntN(k)
		grid[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return grid, nil
}

func renderMines(grid []bool, width, sx, sy int) string {
	var b strings.Builder
	for i, mine := range grid {
		x, y := i%width, i/width
		switch {
		case x == sx && y == sy:
			fmt.Fprint(&b, "S ")
		case mine:
			fmt.Fprint(&b, "* ")
		default:
			fmt.Fprint(&b, "- ")
		}
		if x == width-1 {
			fmt.Fprint(&b, "\n")
		}
	}
	return b.String()
}
