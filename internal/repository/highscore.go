package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/okhotnik/minesweeper-agent/internal/game"
)

// Highscore is one completed, won solve run on the leaderboard.
type Highscore struct {
	SolveSessionID int64   `json:"solve_session_id"`
	Username       *string `json:"username"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	MineCount      int     `json:"mine_count"`
	Moves          int     `json:"moves"`
	Guesses        int     `json:"guesses"`
	PlaytimeMs     float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username   *string
	GameParams *game.GameParams
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mineCount"] = f.GameParams.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// GetHighscores lists won runs ordered by fewest guesses, then fewest
// moves, then playtime. Guessing less means the agent proved more.
func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		solve_session_id,
		username,
		width,
		height,
		mine_count,
		moves,
		guesses,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM solve_session
		LEFT OUTER JOIN player USING (player_id)
	WHERE
		won = true
		AND dead = false
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY guesses, moves, playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
