package handler

import (
	"log/slog"
	"net/http"

	"github.com/firstlabs/accounts/internal/ctxkeys"
	"github.com/firstlabs/accounts/internal/model"
	"github.com/firstlabs/accounts/internal/service"
)

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	user, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.openSession(w, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.openSession(w, user, http.StatusOK)
}

// Logout revokes exactly the session the request authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionToken := ctxkeys.SessionToken(r.Context())

	err := h.sessionService.Revoke(sessionToken)
	if err != nil {
		respondError(w, err)
		return
	}

	h.sessionService.ClearCookies(w)
	respondJSON(w, http.StatusOK, nil)
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.sessionService.RevokeAll(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.sessionService.ClearCookies(w)
	respondJSON(w, http.StatusOK, nil)
}

func (h *AuthHandler) openSession(w http.ResponseWriter, user *model.User, status int) {
	sessionToken, err := h.sessionService.Issue(user)
	if err != nil {
		respondError(w, err)
		return
	}

	h.sessionService.SetCookies(w, sessionToken)
	slog.Info("session opened", "user_id", user.ID)

	respondJSON(w, status, sessionResponse{User: user, Token: sessionToken})
}
