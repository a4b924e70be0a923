package handler

import (
	"encoding/json"
	"net/http"

	"github.com/payflow/gateway/internal/domain"
)

type errorBody struct {
	Error *domain.AppError `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err in the standard {"error":{"code","description"}} envelope.
// Errors that are not AppErrors become generic 500s so internal details never
// leak to clients.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		appErr = domain.ErrInternal("An internal error occurred", err)
	}
	JSON(w, appErr.Status, errorBody{Error: appErr})
}

// DecodeJSON parses the request body into dst, rejecting malformed JSON with
// a 400 in the standard envelope.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrBadRequest("Invalid JSON body")
	}
	return nil
}
