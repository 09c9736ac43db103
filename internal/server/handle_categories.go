package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/pittrivia/internal/store"
	"github.com/playperu/pittrivia/internal/trivia"
)

// CategorySummary is a category as offered on the game setup screen. It never
// carries questions.
type CategorySummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	NameAr        string `json:"nameAr,omitempty"`
	MainKey       string `json:"mainKey,omitempty"`
	SortOrder     int    `json:"sortOrder"`
	ImageURL      string `json:"imageUrl,omitempty"`
	QuestionCount int    `json:"questionCount"`
}

type CategoriesResponse struct {
	Categories []CategorySummary `json:"categories"`
}

type AdminCategoriesRequest struct {
	Categories []trivia.Category `json:"categories"`
}

type AdminCategoriesResponse struct {
	Categories []trivia.Category `json:"categories"`
}

type SaveCategoriesResponse struct {
	Success bool `json:"success"`
	store.SaveResult
}

func handleListCategories(logger *slog.Logger, cats store.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cats.ListCategories(r.Context(), true)
		if err != nil {
			logger.Error("listing categories", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch categories")
			return
		}

		resp := CategoriesResponse{Categories: make([]CategorySummary, 0, len(list))}
		for _, c := range list {
			resp.Categories = append(resp.Categories, CategorySummary{
				ID:            c.ID,
				Name:          c.Name,
				NameAr:        c.NameAr,
				MainKey:       c.MainKey,
				SortOrder:     c.SortOrder,
				ImageURL:      c.ImageURL,
				QuestionCount: len(c.Questions),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAdminListCategories(logger *slog.Logger, cats store.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cats.ListCategories(r.Context(), false)
		if err != nil {
			logger.Error("listing categories", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch categories")
			return
		}
		writeJSON(w, http.StatusOK, AdminCategoriesResponse{Categories: list})
	}
}

func handleAdminSaveCategories(logger *slog.Logger, cats store.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminCategoriesRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := cats.SaveCategories(r.Context(), req.Categories)
		switch {
		case errors.Is(err, store.ErrEmptyCategories), errors.Is(err, store.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			logger.Error("saving categories", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save categories")
			return
		}

		logger.Info("categories saved", "created", res.Created, "updated", res.Updated, "removed", res.Removed)
		writeJSON(w, http.StatusOK, SaveCategoriesResponse{Success: true, SaveResult: res})
	}
}
