package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/firstlabs/accounts/internal/model"
	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/storage"
	"github.com/firstlabs/accounts/internal/validation"
)

// ErrNoAvatar is returned when removing an avatar that was never set.
var ErrNoAvatar = errors.New("no avatar set")

// AvatarService is a thin pass-through to object storage: the client
// uploads directly against a presigned URL, then acknowledges so the
// object reference lands on the user record.
type AvatarService struct {
	users   repository.UserRepository
	storage storage.Storage
}

func NewAvatarService(users repository.UserRepository, store storage.Storage) *AvatarService {
	return &AvatarService{
		users:   users,
		storage: store,
	}
}

// UploadRequest returns a presigned PUT URL for a new avatar object keyed
// under the user's id.
func (s *AvatarService) UploadRequest(user *model.User, fileType string) (string, error) {
	err := validation.ValidateImageFileType(fileType)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err)
	}

	key := fmt.Sprintf("%s/%s.%s", user.ID, uuid.New().String(), fileType)
	contentType := "image/" + fileType

	url, err := s.storage.PresignUpload(key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return url, nil
}

// UploadAck records the uploaded object's URL on the user.
func (s *AvatarService) UploadAck(user *model.User, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: url is required", ErrValidation)
	}

	user.AvatarURL = &url
	err := s.users.Update(user)
	if err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}
	return nil
}

// Remove clears the avatar reference and deletes the object best-effort.
func (s *AvatarService) Remove(user *model.User) error {
	if !user.HasAvatar() {
		return ErrNoAvatar
	}

	if key := s.storage.KeyFromURL(*user.AvatarURL); key != "" {
		err := s.storage.Delete(key)
		if err != nil {
			slog.Warn("failed to delete avatar object", "error", err, "user_id", user.ID)
		}
	}

	user.AvatarURL = nil
	err := s.users.Update(user)
	if err != nil {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	return nil
}
