package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gotale/api/internal/gotale"
)

// LocationResponse is the public shape of a reusable geo point.
type LocationResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CreatedBy   *string `json:"createdBy"`
	CreatedAt   string  `json:"createdAt"`
	ModifiedBy  *string `json:"modifiedBy"`
	ModifiedAt  string  `json:"modifiedAt"`
}

// LocationRequest is the request body for creating or updating a location.
type LocationRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (req *LocationRequest) validate() gotale.ValidationErrors {
	req.Title = strings.TrimSpace(req.Title)
	var errs gotale.ValidationErrors
	if req.Title == "" {
		errs = append(errs, "Title is required.")
	}
	return append(errs, gotale.ValidCoordinates(req.Latitude, req.Longitude)...)
}

func handleListLocations(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := store.ListLocations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, locations)
	}
}

func handleGetLocation(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location, err := store.GetLocation(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, location)
	}
}

func handleCreateLocation(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !canManageLocations(p) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}

		var req LocationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if errs := req.validate(); errs != nil {
			writeValidationErrors(w, errs)
			return
		}

		location, err := store.CreateLocation(r.Context(), p.UserID, req)
		if errors.Is(err, ErrDuplicateCoordinates) {
			writeError(w, http.StatusConflict, "a location with these coordinates already exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, location)
	}
}

func handleUpdateLocation(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)
		if !canManageLocations(p) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}

		var req LocationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if errs := req.validate(); errs != nil {
			writeValidationErrors(w, errs)
			return
		}

		location, err := store.UpdateLocation(r.Context(), chi.URLParam(r, "id"), p.UserID, req)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}
		if errors.Is(err, ErrDuplicateCoordinates) {
			writeError(w, http.StatusConflict, "a location with these coordinates already exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, location)
	}
}

func handleDeleteLocation(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !canManageLocations(principalFrom(r)) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}

		err := store.DeleteLocation(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
