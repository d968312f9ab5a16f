package game

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
)

// GameState is the full state of one game: the real mine grid, the
// agent-visible player grid and the terminal flags. It is the unit of
// persistence; everything else (including the knowledge base) can be
// rebuilt from it.
type GameState struct {
	GameParams
	StartX, StartY int
	Dead, Won      bool
	Mines          []bool /* real mine locations */
	PlayerGrid     Grid   /* agent knowledge */
}

func NewGame(params *GameParams, x, y int, r *rand.Rand) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !params.ValidatePosition(x, y) {
		return nil, fmt.Errorf("starting cell (%d,%d) outside %s board", x, y, params)
	}

	mines, err := newMineGrid(*params, x, y, r)
	if err != nil {
		return nil, err
	}

	playerGrid := make(Grid, len(mines))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}

	return &GameState{
		GameParams: *params,
		StartX:     x,
		StartY:     y,
		Mines:      mines,
		PlayerGrid: playerGrid,
	}, nil
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var state GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *GameState) index(x, y int) int {
	return y*s.Width + x
}

func (s *GameState) MineAt(x, y int) bool {
	return s.Mines[s.index(x, y)]
}

// NearbyMines counts the mines within one row and column of (x, y),
// not including the cell itself.
func (s *GameState) NearbyMines(x, y int) (n int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if s.ValidatePosition(x+dx, y+dy) && s.MineAt(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}

/*
OpenCell opens one cell. On a mine it marks the game dead, reveals the
grid and reports ok=false. Otherwise it writes the nearby mine count
into the player grid, checks for a win and returns the count. Opening
an already open cell just returns its count again.

Unlike a human-facing board there is no flood fill on zero counts: the
agent must observe every cell it opens, one at a time.
*/
func (s *GameState) OpenCell(x, y int) (nearby int, ok bool) {
	i := s.index(x, y)

	if 0 <= s.PlayerGrid[i] && s.PlayerGrid[i] <= 8 {
		return int(s.PlayerGrid[i]), true
	}

	if s.Mines[i] {
		s.Dead = true
		s.PlayerGrid[i] = ExplodedMine
		s.RevealMines()
		return 0, false
	}

	n := s.NearbyMines(x, y)
	s.PlayerGrid[i] = CellState(n)
	s.checkWon()
	return n, true
}

// FlagCell marks an unopened cell as a proved mine.
func (s *GameState) FlagCell(x, y int) {
	i := s.index(x, y)
	if s.PlayerGrid[i] == Unknown {
		s.PlayerGrid[i] = Flagged
	}
}

/*
checkWon scans the grid: when exactly as many cells remain covered as
there are mines, every one of them must be a mine, so the game is won
and the stragglers get flagged.
*/
func (s *GameState) checkWon() {
	if s.Dead {
		return
	}
	var nmines, ncovered int
	for i := range s.Mines {
		if s.PlayerGrid[i] < 0 {
			ncovered++
		}
		if s.Mines[i] {
			nmines++
		}
	}
	if ncovered == nmines {
		for i := range s.PlayerGrid {
			if s.PlayerGrid[i] == Unknown {
				s.PlayerGrid[i] = Flagged
			}
		}
		s.Won = true
	}
}

// RevealMines exposes the real grid once the game is over.
func (s *GameState) RevealMines() {
	for i := range s.Mines {
		switch s.PlayerGrid[i] {
		case Unknown:
			if s.Mines[i] {
				s.PlayerGrid[i] = UnflaggedMine
			} else {
				s.PlayerGrid[i] = CellState(s.NearbyMines(i%s.Width, i/s.Width))
			}
		case Flagged:
			/* the agent only flags proved mines, leave them flagged */
		}
	}
}

// Forfeit ends a running game as lost and reveals the grid.
func (s *GameState) Forfeit() {
	if !s.Dead && !s.Won {
		s.Dead = true
	}
	s.RevealMines()
}

// Render returns a printable player grid.
func (s *GameState) Render() string {
	return s.PlayerGrid.ToString(s.Width)
}

// RenderMines returns a printable real mine grid, for logging.
func (s *GameState) RenderMines() string {
	return renderMines(s.Mines, s.Width, s.StartX, s.StartY)
}
