package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/okhotnik/minesweeper-agent/internal/game"
	"github.com/okhotnik/minesweeper-agent/internal/repository"
)

var ErrUnknownCommand = fmt.Errorf(`unknown command (want "step" or "solve")`)

func decodeSessionState(s *repository.SolveSession) (*game.GameState, error) {
	return game.DecodeGameState(s.State)
}

/*
Watch serves a live view of a solve session. The client drives the
agent with text commands ("step" or "solve") and receives the updated
session after each one; the connection closes once the game is over.
*/
func (g *GameHandler) Watch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(r.Context(), w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("ws upgrade: ", err)
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				g.log.Warn("ws read: ", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		var solve bool
		switch strings.TrimSpace(string(message)) {
		case "step":
			solve = false
		case "solve":
			solve = true
		default:
			if err := c.WriteJSON(wrapError(ErrUnknownCommand)); err != nil {
				g.log.Error("ws write: ", err)
				return
			}
			continue
		}

		if session.Dead || session.Won {
			if err := c.WriteJSON(wrapError(ErrSessionOver)); err != nil {
				g.log.Error("ws write: ", err)
			}
			return
		}

		updated, moves, err := g.advance(r.Context(), session, state, solve)
		if err != nil {
			g.log.Error("unable to advance solve session: ", err)
			return
		}
		session = updated

		state, err = decodeSessionState(updated)
		if err != nil {
			g.log.Error("unable to decode updated state: ", err)
			return
		}

		if err := c.WriteJSON(NewSessionDTO(updated, state, moves)); err != nil {
			g.log.Error("ws write: ", err)
			return
		}

		if session.Dead || session.Won {
			return
		}
	}
}
