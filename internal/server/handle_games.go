package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/pittrivia/internal/game"
	"github.com/playperu/pittrivia/internal/round"
	"github.com/playperu/pittrivia/internal/trivia"
)

type CreateGameRequest struct {
	CategoryIDs []string  `json:"categoryIds"`
	Teams       [2]string `json:"teams"`
	// Language overrides the Accept-Language header.
	Language string `json:"language,omitempty"`
}

type SelectQuestionRequest struct {
	CategoryID string `json:"categoryId"`
	QuestionID string `json:"questionId"`
}

type ActionRequest struct {
	Action string         `json:"action"`
	Team   *trivia.TeamID `json:"team,omitempty"`
}

// MoveResponse answers every game move. Applied is false when the move was
// not valid in the current state; the game is then unchanged.
type MoveResponse struct {
	Applied bool          `json:"applied"`
	Game    game.Snapshot `json:"game"`
}

func handleCreateGame(logger *slog.Logger, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		lang := req.Language
		if lang == "" {
			lang = r.Header.Get("Accept-Language")
		}
		s, err := games.Create(r.Context(), game.NewGame{
			CategoryIDs: req.CategoryIDs,
			Teams:       req.Teams,
			Language:    lang,
		})
		switch {
		case errors.Is(err, game.ErrInvalidSelection), errors.Is(err, game.ErrInvalidTeams):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			logger.Error("creating game", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create game")
			return
		}
		writeJSON(w, http.StatusCreated, s.Snapshot())
	}
}

func handleGetGame(logger *slog.Logger, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := games.Lookup(r.Context(), chi.URLParam(r, "gameID"))
		if errors.Is(err, game.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("loading game", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load game")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleSelectQuestion(logger *slog.Logger, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectQuestionRequest
		if err := readJSON(w, r, &req); err != nil || req.CategoryID == "" || req.QuestionID == "" {
			writeError(w, http.StatusBadRequest, "categoryId and questionId are required")
			return
		}
		move(w, r, logger, games, func(s *game.Session) (game.Snapshot, bool) {
			return s.SelectQuestion(trivia.QuestionRef{CategoryID: req.CategoryID, QuestionID: req.QuestionID})
		})
	}
}

func handleAction(logger *slog.Logger, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ActionRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		kind, err := round.ParseActionKind(req.Action)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		move(w, r, logger, games, func(s *game.Session) (game.Snapshot, bool) {
			return s.Act(round.Action{Kind: kind, Team: req.Team})
		})
	}
}

func handleCloseQuestion(logger *slog.Logger, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		move(w, r, logger, games, (*game.Session).Close)
	}
}

func handleAbandonGame(logger *slog.Logger, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		move(w, r, logger, games, (*game.Session).Abandon)
	}
}

// move applies fn to a live game. Moves against a finished game are answered
// like any other rejected move.
func move(w http.ResponseWriter, r *http.Request, logger *slog.Logger, games *game.Manager, fn func(*game.Session) (game.Snapshot, bool)) {
	id := chi.URLParam(r, "gameID")
	s, err := games.Get(id)
	if err == nil {
		snap, applied := fn(s)
		writeJSON(w, http.StatusOK, MoveResponse{Applied: applied, Game: snap})
		return
	}

	snap, err := games.Lookup(r.Context(), id)
	if errors.Is(err, game.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		logger.Error("loading game", "game_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load game")
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Applied: false, Game: snap})
}
