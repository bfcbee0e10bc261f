package handler

import (
	"net/http"

	"github.com/firstlabs/accounts/internal/ctxkeys"
	"github.com/firstlabs/accounts/internal/service"
)

type VerificationHandler struct {
	authService *service.AuthService
}

func NewVerificationHandler(authService *service.AuthService) *VerificationHandler {
	return &VerificationHandler{authService: authService}
}

type verifyAccountRequest struct {
	Email     string `json:"email"`
	CodeToken string `json:"codeToken"`
}

type forgetPasswordSendRequest struct {
	Email string `json:"email"`
}

type forgetPasswordResetRequest struct {
	Email     string `json:"email"`
	CodeToken string `json:"codeToken"`
	Password  string `json:"password"`
}

// VerifyAccount marks the account valid when the presented code token
// matches the pending pair.
func (h *VerificationHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req verifyAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err := h.authService.VerifyAccount(req.Email, req.CodeToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

// ResendVerification regenerates the pending pair for the authenticated
// user and re-sends the verify-account message.
func (h *VerificationHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.ResendVerification(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

// ForgetPasswordSend generates a reset pair and sends the forget-password
// message to the given address.
func (h *VerificationHandler) ForgetPasswordSend(w http.ResponseWriter, r *http.Request) {
	var req forgetPasswordSendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err := h.authService.RequestPasswordReset(req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

// ForgetPasswordReset replaces the password when the presented code token
// matches the pending pair.
func (h *VerificationHandler) ForgetPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req forgetPasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err := h.authService.ResetPassword(req.Email, req.CodeToken, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}
