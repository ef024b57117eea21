package server

import (
	"encoding/json"
	"net/http"

	"github.com/gotale/api/internal/gotale"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidationErrors reports every independent finding about a bad
// submission in one response.
func writeValidationErrors(w http.ResponseWriter, errs gotale.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{"errors": errs})
}
