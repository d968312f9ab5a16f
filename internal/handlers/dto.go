package handlers

import (
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/okhotnik/minesweeper-agent/internal/game"
	"github.com/okhotnik/minesweeper-agent/internal/play"
	"github.com/okhotnik/minesweeper-agent/internal/repository"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type NewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseNewGameDTO(query url.Values) (dto NewGameDTO, err error) {
	err = decoder.Decode(&dto, query)
	return dto, err
}

type PosDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosDTO(query url.Values) (dto PosDTO, err error) {
	err = decoder.Decode(&dto, query)
	return dto, err
}

type SessionDTO struct {
	SessionID int64      `json:"session_id"`
	Width     int32      `json:"width"`
	Height    int32      `json:"height"`
	MineCount int32      `json:"mine_count"`
	Dead      bool       `json:"dead"`
	Won       bool       `json:"won"`
	Moves     int32      `json:"moves"`
	Guesses   int32      `json:"guesses"`
	Grid      string     `json:"grid"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	LastMoves []play.Move `json:"last_moves,omitempty"`
}

func NewSessionDTO(
	session *repository.SolveSession, state *game.GameState, moves []play.Move,
) SessionDTO {
	return SessionDTO{
		SessionID: session.SolveSessionID,
		Width:     session.Width,
		Height:    session.Height,
		MineCount: session.MineCount,
		Dead:      session.Dead,
		Won:       session.Won,
		Moves:     session.Moves,
		Guesses:   session.Guesses,
		Grid:      state.Render(),
		StartedAt: session.StartedAt.Time,
		EndedAt:   session.EndedAt,
		LastMoves: moves,
	}
}
