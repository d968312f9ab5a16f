package game

import "fmt"

type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

func (p GameParams) CellCount() int {
	return p.Width * p.Height
}

func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("board dimensions %dx%d must be positive", p.Width, p.Height)
	}
	if p.MineCount < 0 {
		return fmt.Errorf("mine count %d must not be negative", p.MineCount)
	}
	if p.MineCount >= p.CellCount() {
		return fmt.Errorf(
			"%d mines do not fit a %dx%d board",
			p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d:%d", p.Width, p.Height, p.MineCount)
}
