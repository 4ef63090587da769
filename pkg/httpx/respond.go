package httpx

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// RespondData sends a successful response with a payload
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, Response{Success: true, Data: data})
}

// RespondError maps domain errors to HTTP status codes and sends the
// error envelope.
func RespondError(w http.ResponseWriter, err error) {
	RespondJSON(w, StatusForError(err), Response{Success: false, Error: err.Error()})
}

// StatusForError maps sentinel errors to HTTP status codes. Unknown
// errors are treated as internal.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrAlreadyAssigned),
		errors.Is(err, errs.ErrAlreadyProcessed),
		errors.Is(err, errs.ErrSchedulingConflict),
		errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RegisterHealthCheck registers the /health endpoint backed by a
// database ping.
func RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			RespondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		RespondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Maintenance service is healthy",
		})
	}).Methods("GET")
}
