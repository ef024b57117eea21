package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gotale/api/internal/gotale"
)

type ScenarioSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AuthorID    *string `json:"authorId"`
	StepCount   int     `json:"stepCount"`
	CreatedAt   string  `json:"createdAt"`
}

type ScenarioDetail struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Author      *UserResponse `json:"author"`
	RootStep    *StepResponse `json:"rootStep"`
	CreatedAt   string        `json:"createdAt"`
	ModifiedAt  string        `json:"modifiedAt"`
}

// ScenarioCreateRequest is the request body for POST /api/scenarios: the
// scenario metadata plus the whole step graph, with edges expressed through
// submission-scoped step ids.
type ScenarioCreateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Steps       []gotale.StepSpec `json:"steps"`
}

func handleListScenarios(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenarios, err := store.ListScenarios(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, scenarios)
	}
}

func handleGetScenario(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenario, err := store.GetScenario(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, scenario)
	}
}

func handleCreateScenario(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)

		var req ScenarioCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}

		scenario, err := store.CreateScenario(r.Context(), p.UserID, req)
		var verrs gotale.ValidationErrors
		if errors.As(err, &verrs) {
			writeValidationErrors(w, verrs)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, scenario)
	}
}

func handleDeleteScenario(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		id := chi.URLParam(r, "id")

		scenario, err := store.GetScenario(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var authorID *string
		if scenario.Author != nil {
			authorID = &scenario.Author.ID
		}
		if !canModifyScenario(p, authorID) {
			writeError(w, http.StatusForbidden, "only the author or an admin can delete a scenario")
			return
		}

		if err := store.DeleteScenario(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "scenario not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
