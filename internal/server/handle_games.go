package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChoiceResponse is a player-facing choice. The target step is deliberately
// not exposed; the only way to see it is to take the choice.
type ChoiceResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// StepResponse is one node of the narrative as the player sees it. A step
// with an empty choice list is terminal.
type StepResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    *LocationResponse `json:"location"`
	Choices     []ChoiceResponse  `json:"choices"`
}

type GameSummary struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	ScenarioID    string  `json:"scenarioId"`
	ScenarioTitle string  `json:"scenarioTitle"`
	Status        string  `json:"status"`
	EndedAt       *string `json:"endedAt"`
	CreatedAt     string  `json:"createdAt"`
}

type GameResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	ScenarioID  string        `json:"scenarioId"`
	Status      string        `json:"status"`
	CurrentStep *StepResponse `json:"currentStep"`
	EndedAt     *string       `json:"endedAt"`
	CreatedAt   string        `json:"createdAt"`
}

type HistoryEntry struct {
	ID         string  `json:"id"`
	StepID     *string `json:"stepId"`
	StepTitle  string  `json:"stepTitle,omitempty"`
	ChoiceID   *string `json:"choiceId"`
	ChoiceText string  `json:"choiceText,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// GameCreateRequest is the request body for POST /api/games.
type GameCreateRequest struct {
	Scenario string `json:"scenario"`
}

// DecisionRequest is the request body for POST /api/games/{id}/step.
type DecisionRequest struct {
	Choice string `json:"choice"`
}

func handleListGames(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)

		games, err := store.ListGames(r.Context(), p.UserID, p.IsAdmin)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func handleCreateGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)

		var req GameCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Scenario == "" {
			writeError(w, http.StatusBadRequest, "scenario is required")
			return
		}

		game, err := store.CreateGame(r.Context(), p.UserID, req.Scenario)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, game)
	}
}

// ownedGame loads the game and enforces that the caller may touch it.
// Writes the error response itself and reports ok=false when it did.
func ownedGame(w http.ResponseWriter, r *http.Request, store Store) (GameResponse, bool) {
	game, err := store.GetGame(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return GameResponse{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return GameResponse{}, false
	}
	if !canAccessGame(principalFrom(r), game.UserID) {
		writeError(w, http.StatusForbidden, "not your game")
		return GameResponse{}, false
	}
	return game, true
}

func handleGetGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := ownedGame(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

func handleDeleteGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := ownedGame(w, r, store)
		if !ok {
			return
		}

		if err := store.DeleteGame(r.Context(), game.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCurrentStep(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := ownedGame(w, r, store)
		if !ok {
			return
		}

		step, err := store.CurrentStep(r.Context(), game.ID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, step)
	}
}

func handleDecision(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := ownedGame(w, r, store)
		if !ok {
			return
		}

		var req DecisionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Choice == "" {
			writeError(w, http.StatusBadRequest, "choice is required")
			return
		}

		step, err := store.Advance(r.Context(), game.ID, req.Choice)
		switch {
		case errors.Is(err, ErrGameEnded):
			writeError(w, http.StatusBadRequest, "This game has already ended")
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "choice not found")
		case errors.Is(err, ErrInvalidChoice):
			writeError(w, http.StatusBadRequest, "invalid choice for current step")
		case errors.Is(err, ErrDecisionConflict):
			writeError(w, http.StatusConflict, "another decision was made concurrently")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, step)
		}
	}
}

func handleGameHistory(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := ownedGame(w, r, store)
		if !ok {
			return
		}

		entries, err := store.GameHistory(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
