package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/category"
	"clubhouse/internal/domain/lineup"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/trainingsession"
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// maxJSONBytes caps a JSON request body.
const maxJSONBytes = 1 << 20

// strictDecode decodes JSON from the request body, rejecting unknown fields.
// Bodies over maxJSONBytes fail to decode.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// badRequestErrors are domain rule violations caused by client input.
var badRequestErrors = []error{
	trainingsession.ErrEmptyTitle,
	trainingsession.ErrTitleTooLong,
	trainingsession.ErrInvalidDate,
	trainingsession.ErrInvalidTime,
	trainingsession.ErrInvalidStatus,
	trainingsession.ErrEmptySeasonID,
	trainingsession.ErrReasonNotAllow,
	attendance.ErrEmptyMemberID,
	attendance.ErrEmptySessionID,
	attendance.ErrInvalidStatus,
	attendance.ErrNoteTooLong,
	member.ErrEmptyName,
	member.ErrEmptySurname,
	member.ErrNameTooLong,
	member.ErrInvalidSex,
	member.ErrInvalidEmail,
	member.ErrInvalidBirthDate,
	category.ErrEmptyName,
	category.ErrNameTooLong,
	lineup.ErrEmptyCategoryID,
	lineup.ErrEmptySeasonID,
	lineup.ErrEmptyName,
	lineup.ErrEmptyMemberID,
}

var conflictErrors = []error{
	trainingsession.ErrSessionLocked,
	orchestrators.ErrDuplicateCategory,
	orchestrators.ErrDuplicateRegistration,
}

// writeError maps orchestrator errors to status codes. Unknown errors are internal.
func writeError(w http.ResponseWriter, err error) {
	var validation *trainingsession.ValidationError
	var importErr *orchestrators.ImportMembersValidationError
	switch {
	case errors.As(err, &validation), errors.As(err, &importErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "not found", http.StatusNotFound)
	case matchesAny(err, conflictErrors):
		http.Error(w, err.Error(), http.StatusConflict)
	case matchesAny(err, badRequestErrors):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, err)
	}
}

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// requireParams reads required query parameters, writing a 400 when one is missing.
func requireParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = r.URL.Query().Get(name)
		if values[i] == "" {
			http.Error(w, name+" is required", http.StatusBadRequest)
			return nil, false
		}
	}
	return values, true
}

// intParam parses an optional non-negative integer query parameter.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		http.Error(w, name+" must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// boolParam treats "1", "true" and "yes" as true.
func boolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}
