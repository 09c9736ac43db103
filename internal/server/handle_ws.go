package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/playperu/pittrivia/internal/game"
)

const wsWriteTimeout = 5 * time.Second

// handleGameWS streams a game's events over a WebSocket. The stream is
// one-way; moves are made through the HTTP API.
func handleGameWS(logger *slog.Logger, games *game.Manager, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "gameID")

		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		snap, err := games.Lookup(r.Context(), id)
		if errors.Is(err, game.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load game")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "game_id", id, "error", err)
			return
		}
		defer conn.CloseNow()

		// CloseRead discards client frames and cancels ctx once the peer goes away.
		ctx := conn.CloseRead(r.Context())

		if err := writeWS(ctx, conn, snapshotEvent(snap)); err != nil {
			logger.Debug("websocket write failed", "game_id", id, "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket stream ended", "game_id", id)
				return
			case data := <-ch:
				if err := writeWS(ctx, conn, data); err != nil {
					logger.Debug("websocket write failed", "game_id", id, "error", err)
					return
				}
			}
		}
	}
}

func writeWS(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
