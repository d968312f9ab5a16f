package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/okhotnik/minesweeper-agent/internal/config"
	"github.com/okhotnik/minesweeper-agent/internal/game"
	"github.com/okhotnik/minesweeper-agent/internal/middleware"
	"github.com/okhotnik/minesweeper-agent/internal/play"
	"github.com/okhotnik/minesweeper-agent/internal/repository"
)

var ErrSessionOver = fmt.Errorf("solve session is already over")

type GameHandler struct {
	log  *logrus.Logger
	repo *repository.Queries
	ws   *config.WebSocket
	rnd  *rand.Rand
}

func NewGameHandler(
	log *logrus.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		log:  log,
		repo: repository.New(db),
		ws:   ws,
		rnd:  rnd,
	}
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseNewGameDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	params := game.GameParams(dto)

	pos, err := ParsePosDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	if !params.ValidatePosition(pos.X, pos.Y) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(fmt.Errorf("invalid starting position")))
		return
	}

	session, err := play.NewSession(params, pos.X, pos.Y, g.rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	state, err := session.State.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to encode game state: ", err)
		return
	}

	var playerId *int64
	if claims, ok := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims); ok {
		playerId = &claims.PlayerId
	}

	stored, err := g.repo.CreateSolveSession(r.Context(), repository.CreateSolveSessionParams{
		PlayerID:  playerId,
		Width:     int32(params.Width),
		Height:    int32(params.Height),
		MineCount: int32(params.MineCount),
		Dead:      session.State.Dead,
		Won:       session.State.Won,
		Moves:     1, /* the opening move */
		Guesses:   0,
		State:     state,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to create solve session: ", err)
		return
	}

	sendJSONOrLog(w, g.log, NewSessionDTO(stored, session.State, nil))
}

func (g *GameHandler) fetchSession(
	ctx context.Context, w http.ResponseWriter, r *http.Request,
) (*repository.SolveSession, *game.GameState, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := g.repo.FetchSolveSession(ctx, sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to fetch solve session: ", err)
		return nil, nil, false
	}

	state, err := game.DecodeGameState(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("db returned invalid solve_session.state: ", err)
		return nil, nil, false
	}

	return session, state, true
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(r.Context(), w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewSessionDTO(session, state, nil))
}

// advance steps a restored session and persists the outcome.
func (g *GameHandler) advance(
	ctx context.Context,
	session *repository.SolveSession,
	state *game.GameState,
	solve bool,
) (*repository.SolveSession, []play.Move, error) {
	runner, err := play.Restore(state, g.rnd)
	if err != nil {
		return nil, nil, err
	}

	var moves []play.Move
	if solve {
		moves, err = runner.Run()
	} else {
		var move play.Move
		move, err = runner.Step()
		moves = []play.Move{move}
	}
	if errors.Is(err, play.ErrNoMoves) {
		moves, err = nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	guesses := session.Guesses
	for _, m := range moves {
		if m.Guess {
			guesses++
		}
	}

	endedAt := session.EndedAt
	if runner.Done() && endedAt == nil {
		now := time.Now().UTC()
		endedAt = &now
	}

	buf, err := runner.State.Bytes()
	if err != nil {
		return nil, nil, err
	}

	updated, err := g.repo.UpdateSolveSession(ctx, repository.UpdateSolveSessionParams{
		SolveSessionID: session.SolveSessionID,
		Dead:           runner.State.Dead,
		Won:            runner.State.Won,
		Moves:          session.Moves + int32(len(moves)),
		Guesses:        guesses,
		State:          buf,
		EndedAt:        endedAt,
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, moves, nil
}

func (g *GameHandler) Step(w http.ResponseWriter, r *http.Request) {
	g.advanceHandler(w, r, false)
}

func (g *GameHandler) Solve(w http.ResponseWriter, r *http.Request) {
	g.advanceHandler(w, r, true)
}

func (g *GameHandler) advanceHandler(w http.ResponseWriter, r *http.Request, solve bool) {
	session, state, ok := g.fetchSession(r.Context(), w, r)
	if !ok {
		return
	}
	if session.Dead || session.Won {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.log, wrapError(ErrSessionOver))
		return
	}

	updated, moves, err := g.advance(r.Context(), session, state, solve)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to advance solve session: ", err)
		return
	}

	state, err = game.DecodeGameState(updated.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to decode updated state: ", err)
		return
	}

	sendJSONOrLog(w, g.log, NewSessionDTO(updated, state, moves))
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(r.Context(), w, r)
	if !ok {
		return
	}
	if session.Dead || session.Won {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.log, wrapError(ErrSessionOver))
		return
	}

	state.Forfeit()

	buf, err := state.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to encode game state: ", err)
		return
	}

	now := time.Now().UTC()
	updated, err := g.repo.UpdateSolveSession(r.Context(), repository.UpdateSolveSessionParams{
		SolveSessionID: session.SolveSessionID,
		Dead:           state.Dead,
		Won:            state.Won,
		Moves:          session.Moves,
		Guesses:        session.Guesses,
		State:          buf,
		EndedAt:        &now,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to update solve session: ", err)
		return
	}

	sendJSONOrLog(w, g.log, NewSessionDTO(updated, state, nil))
}

func (g *GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter repository.HighscoreFilter
	if username := query.Get("username"); username != "" {
		filter.Username = &username
	}
	if query.Has("width") {
		dto, err := ParseNewGameDTO(query)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, g.log, wrapError(err))
			return
		}
		params := game.GameParams(dto)
		filter.GameParams = &params
	}

	highscores, err := g.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.Error("unable to fetch highscores: ", err)
		return
	}

	sendJSONOrLog(w, g.log, highscores)
}
