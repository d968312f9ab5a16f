package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SolveSession is one agent run against one board. The full game state
// lives in the State blob; the scalar columns are denormalized for
// querying and leaderboards.
type SolveSession struct {
	SolveSessionID int64
	PlayerID       *int64
	Width          int32
	Height         int32
	MineCount      int32
	Dead           bool
	Won            bool
	Moves          int32
	Guesses        int32
	State          []byte
	StartedAt      pgtype.Timestamptz
	EndedAt        *time.Time
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type CreateSolveSessionParams struct {
	PlayerID  *int64
	Width     int32
	Height    int32
	MineCount int32
	Dead      bool
	Won       bool
	Moves     int32
	Guesses   int32
	State     []byte
}

func (q *Queries) CreateSolveSession(
	ctx context.Context, params CreateSolveSessionParams,
) (*SolveSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO solve_session (
			player_id, width, height, mine_count, dead, won, moves, guesses, state
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @dead, @won, @moves, @guesses, @state
		)
		RETURNING *`,
		pgx.NamedArgs{
			"player_id":  params.PlayerID,
			"width":      params.Width,
			"height":     params.Height,
			"mine_count": params.MineCount,
			"dead":       params.Dead,
			"won":        params.Won,
			"moves":      params.Moves,
			"guesses":    params.Guesses,
			"state":      params.State,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolveSession])
}

func (q *Queries) FetchSolveSession(
	ctx context.Context, solveSessionId int64,
) (*SolveSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM solve_session WHERE solve_session_id = $1",
		solveSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolveSession])
}

type UpdateSolveSessionParams struct {
	SolveSessionID int64
	Dead           bool
	Won            bool
	Moves          int32
	Guesses        int32
	State          []byte
	EndedAt        *time.Time
}

func (q *Queries) UpdateSolveSession(
	ctx context.Context, params UpdateSolveSessionParams,
) (*SolveSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`UPDATE solve_session SET
			dead = @dead,
			won = @won,
			moves = @moves,
			guesses = @guesses,
			state = @state,
			ended_at = @ended_at,
			updated_at = now()
		WHERE solve_session_id = @solve_session_id
		RETURNING *`,
		pgx.NamedArgs{
			"solve_session_id": params.SolveSessionID,
			"dead":             params.Dead,
			"won":              params.Won,
			"moves":            params.Moves,
			"guesses":          params.Guesses,
			"state":            params.State,
			"ended_at":         params.EndedAt,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolveSession])
}
