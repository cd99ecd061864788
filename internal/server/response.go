package server

import (
	"encoding/json"
	"net/http"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("Encoding response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeErr translates a domain error into its HTTP status.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, errorStatus(err), err.Error())
}

// errorStatus maps the error taxonomy onto HTTP statuses. Absent state is
// 404, caller mistakes are 4xx, everything unrecognized is 500.
func errorStatus(err error) int {
	switch {
	case errors.IsNotLoaded(err), errors.IsMappingNotConfigured(err):
		return http.StatusNotFound
	case errors.IsInvalidMapping(err):
		return http.StatusUnprocessableEntity
	case errors.IsMissingKeyField(err):
		return http.StatusConflict
	case errors.IsMalformedInput(err), errors.IsDuplicateField(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
