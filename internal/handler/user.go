package handler

import (
	"net/http"

	"github.com/firstlabs/accounts/internal/ctxkeys"
	"github.com/firstlabs/accounts/internal/service"
)

type UserHandler struct {
	avatarService *service.AvatarService
}

func NewUserHandler(avatarService *service.AvatarService) *UserHandler {
	return &UserHandler{avatarService: avatarService}
}

type avatarUploadResponse struct {
	URL string `json:"url"`
}

type avatarAckRequest struct {
	URL string `json:"url"`
}

// Me returns the authenticated user's client-safe representation.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

// AvatarUploadRequest hands the client a presigned URL to PUT the image to.
func (h *UserHandler) AvatarUploadRequest(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileType := r.URL.Query().Get("fileType")

	url, err := h.avatarService.UploadRequest(user, fileType)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, avatarUploadResponse{URL: url})
}

// AvatarUploadAck records the uploaded object on the user record.
func (h *UserHandler) AvatarUploadAck(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req avatarAckRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err := h.avatarService.UploadAck(user, req.URL)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, avatarUploadResponse{URL: req.URL})
}

// AvatarRemove clears the avatar. 404 when none is set.
func (h *UserHandler) AvatarRemove(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.avatarService.Remove(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}
