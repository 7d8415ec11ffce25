package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	Issues  []issue `json:"issues,omitempty"`
}

type issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// bodyError answers a request whose body could not be read or decoded.
func bodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error:   "body_too_large",
			Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
		})
		return
	}
	badRequest(w, "invalid JSON body")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	message := err.Error()
	var categorised *goerrors.Error
	if errors.As(err, &categorised) && categorised.Message != "" {
		message = categorised.Message
	}

	// Explicit categories win over sentinels found deeper in the chain.
	switch {
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: message}
	case goerrors.IsCategory(err, goerrors.CategoryConflict):
		return http.StatusConflict, errorResponse{Error: "conflict", Message: message}
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: message,
			Issues:  issuesOf(err),
		}
	case goerrors.IsCategory(err, goerrors.CategoryBadInput):
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message}
	case versioning.IsNotFound(err):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: message}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: message}
}

func issuesOf(err error) []issue {
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok {
		return nil
	}
	out := make([]issue, 0, len(fields))
	for _, field := range fields {
		out = append(out, issue{Field: field.Field, Message: field.Message})
	}
	return out
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntQuery(value string, defaultValue int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}
