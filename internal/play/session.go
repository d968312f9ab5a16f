package play

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/okhotnik/minesweeper-agent/internal/game"
	"github.com/okhotnik/minesweeper-agent/internal/knowledge"
)

// ErrNoMoves signals that neither a safe nor a random move is
// available. It is a normal terminal condition, not a failure.
var ErrNoMoves = errors.New("no moves available")

// Move records one step of the agent.
type Move struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Guess  bool `json:"guess"`  /* no safe cell was proved, the agent gambled */
	Mine   bool `json:"mine"`   /* the move hit a mine */
	Nearby int  `json:"nearby"` /* observed mine count, when the move was safe */
}

// Session drives one agent against one board: the board is the oracle,
// the knowledge base does the deduction, the session shuttles
// observations between them.
type Session struct {
	State *game.GameState

	agent *knowledge.Agent
	rnd   *rand.Rand
}

// NewSession generates a board, opens the starting cell and feeds the
// first observation to the agent.
func NewSession(params game.GameParams, x, y int, r *rand.Rand) (*Session, error) {
	state, err := game.NewGame(&params, x, y, r)
	if err != nil {
		return nil, err
	}
	s := &Session{
		State: state,
		agent: knowledge.NewAgent(params.Width, params.Height),
		rnd:   r,
	}
	nearby, ok := state.OpenCell(x, y)
	if !ok {
		return nil, fmt.Errorf("mine in starting cell (%d,%d)", x, y)
	}
	if err := s.observe(x, y, nearby); err != nil {
		return nil, err
	}
	return s, nil
}

/*
Restore rebuilds a session from a persisted game state. The knowledge
base is not stored: it is fully determined by which cells are open, so
it is rebuilt by replaying every opened cell as an observation.
*/
func Restore(state *game.GameState, r *rand.Rand) (*Session, error) {
	s := &Session{
		State: state,
		agent: knowledge.NewAgent(state.Width, state.Height),
		rnd:   r,
	}
	for y := range state.Height {
		for x := range state.Width {
			nearby := state.PlayerGrid[y*state.Width+x]
			if 0 <= nearby && nearby <= 8 {
				if err := s.observe(x, y, int(nearby)); err != nil {
					return nil, fmt.Errorf("replaying cell (%d,%d): %w", x, y, err)
				}
			}
		}
	}
	return s, nil
}

func (s *Session) Done() bool {
	return s.State.Dead || s.State.Won
}

/*
Step performs one move: a proved-safe cell when the knowledge base has
one, otherwise a uniformly random cell among those not proved to be
mines. Hitting a mine ends the game; a safe move's observation is fed
back into the knowledge base before returning.

Returns [ErrNoMoves] when no candidate cell remains.
*/
func (s *Session) Step() (Move, error) {
	if s.Done() {
		return Move{}, fmt.Errorf("game is over")
	}

	cell, ok := s.agent.SafeMove()
	guess := false
	if !ok {
		cell, ok = s.agent.RandomMove(s.rnd)
		guess = true
	}
	if !ok {
		return Move{}, ErrNoMoves
	}

	move := Move{X: cell.X, Y: cell.Y, Guess: guess}

	nearby, safe := s.State.OpenCell(cell.X, cell.Y)
	if !safe {
		move.Mine = true
		return move, nil
	}

	move.Nearby = nearby
	if err := s.observe(cell.X, cell.Y, nearby); err != nil {
		return move, err
	}
	return move, nil
}

// Run steps the session until the game ends or moves run out.
func (s *Session) Run() ([]Move, error) {
	var moves []Move
	for !s.Done() {
		move, err := s.Step()
		if errors.Is(err, ErrNoMoves) {
			break
		}
		if err != nil {
			return moves, err
		}
		moves = append(moves, move)
	}
	return moves, nil
}

// observe feeds one opened cell into the knowledge base and reflects
// any newly proved mines as flags on the player grid.
func (s *Session) observe(x, y, nearby int) error {
	if err := s.agent.Observe(knowledge.Cell{X: x, Y: y}, nearby); err != nil {
		return err
	}
	for _, c := range s.agent.KnownMines() {
		s.State.FlagCell(c.X, c.Y)
	}
	return nil
}
