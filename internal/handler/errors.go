package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/service"
	"github.com/firstlabs/accounts/internal/token"
	"github.com/firstlabs/accounts/internal/verification"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		err := json.NewEncoder(w).Encode(v)
		if err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError maps the closed set of failure kinds to a status and a fixed
// message. Internal error text never reaches the response body.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		// Validation messages are our own fixed strings, safe to surface
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrDuplicateEmail):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "email already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		// 401, not the 404 the original service returned for bad logins;
		// that mapping leaked account existence and was judged accidental
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	case errors.Is(err, token.ErrExpired):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "expired token"})
	case errors.Is(err, token.ErrMalformed):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed token"})
	case errors.Is(err, verification.ErrCodeMismatch):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid code"})
	case errors.Is(err, repository.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrNoAvatar):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "no avatar set"})
	default:
		slog.Error("unhandled error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
