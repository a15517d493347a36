package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/response"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/repository"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/service"
)

type UserHandler struct {
	users   repository.UserRepository
	avatars service.AvatarStorage
	logger  *slog.Logger
}

func NewUserHandler(users repository.UserRepository, avatars service.AvatarStorage, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, avatars: avatars, logger: logger}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	u, err := h.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"user": u})
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if h.avatars == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "EXTERNAL_SERVICE", "avatar storage is not configured", nil)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "failed to parse multipart form", nil)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	objectKey, err := h.avatars.Upload(r.Context(), userID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooBig):
			response.Error(w, r, http.StatusBadRequest, "FILE_TOO_LARGE", "file size exceeds 5MB limit", nil)
		case errors.Is(err, service.ErrInvalidFileType):
			response.Error(w, r, http.StatusBadRequest, "INVALID_FILE_TYPE", "only JPEG and PNG images are allowed", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to upload avatar", nil)
		}
		return
	}

	avatarURL, err := h.avatars.PresignedURL(r.Context(), objectKey)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to generate avatar URL", nil)
		return
	}
	if err := h.users.UpdateAvatar(userID, avatarURL); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to save avatar", nil)
		return
	}

	observability.EmitAudit(h.logger, r, observability.AuditInput{
		EventName:   "avatar.upload",
		ActorUserID: userID,
		TargetType:  "avatar",
		TargetID:    objectKey,
		Action:      "upload",
		Outcome:     "success",
		Reason:      "avatar_uploaded",
	}, "file_size", header.Size)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"object_key": objectKey,
		"avatar_url": avatarURL,
	})
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if h.avatars == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "EXTERNAL_SERVICE", "avatar storage is not configured", nil)
		return
	}

	var body struct {
		ObjectKey string `json:"object_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ObjectKey == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "object_key is required", nil)
		return
	}

	if err := h.avatars.Delete(r.Context(), body.ObjectKey); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete avatar", nil)
		return
	}

	observability.EmitAudit(h.logger, r, observability.AuditInput{
		EventName:   "avatar.delete",
		ActorUserID: userID,
		TargetType:  "avatar",
		TargetID:    body.ObjectKey,
		Action:      "delete",
		Outcome:     "success",
		Reason:      "avatar_deleted",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
