package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/pittrivia/internal/game"
)

// snapshotEvent is sent first on every stream so clients start from the
// current state.
func snapshotEvent(snap game.Snapshot) []byte {
	data, _ := json.Marshal(game.Event{Type: "snapshot", GameID: snap.ID, Snapshot: &snap})
	return data
}

func handleEvents(games *game.Manager, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "gameID")

		// Subscribe before taking the snapshot so no event falls in between.
		// Events already reflected in it may follow; their snapshot version
		// is not newer.
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

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		fmt.Fprintf(w, "event: game\ndata: %s\n\n", snapshotEvent(snap))
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: game\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
