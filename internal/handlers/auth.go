package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/okhotnik/minesweeper-agent/internal/config"
	"github.com/okhotnik/minesweeper-agent/internal/middleware"
	"github.com/okhotnik/minesweeper-agent/internal/repository"
)

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
	ErrBadCredentials     = fmt.Errorf("invalid username or password")
)

type Auth struct {
	log     *logrus.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	jwt     *config.JWT
}

func NewAuth(
	log *logrus.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		log:     log,
		repo:    repository.New(db),
		cookies: cookies,
		jwt:     jwt,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims)
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.log, Status{LoggedIn: false})
		return
	}

	token, err := a.jwt.Sign(claims)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.Error("unable to refresh token: ", err)
		return
	}
	a.cookies.Refresh(w, token)

	sendJSONOrLog(w, a.log, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerId, claims.Username},
	})
}

func parseCredentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	if len(password) > 72 {
		return "", "", ErrBadPasswordTooLong
	}
	return username, password, nil
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, a.log, wrapError(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.Error("unable to hash password: ", err)
		return
	}

	player, err := a.repo.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, a.log, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.Error("unable to insert player: ", err)
		return
	}

	a.sendToken(w, player)
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, a.log, wrapError(err))
		return
	}

	player, err := a.repo.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, a.log, wrapError(ErrBadCredentials))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.Error("unable to fetch player: ", err)
		return
	}

	if bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, a.log, wrapError(ErrBadCredentials))
		return
	}

	a.sendToken(w, player)
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (a *Auth) sendToken(w http.ResponseWriter, player *repository.Player) {
	token, err := a.jwt.Sign(config.NewPlayerClaims(player.PlayerID, player.Username))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.Error("unable to sign token: ", err)
		return
	}
	a.cookies.Refresh(w, token)
	sendJSONOrLog(w, a.log, PlayerInfo{player.PlayerID, player.Username})
}
