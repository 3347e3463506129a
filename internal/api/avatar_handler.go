package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/taskmanager-api/internal/api/shared"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/imaging"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/service"
)

// AvatarFormField is the multipart field carrying the upload.
const AvatarFormField = "avatar"

// multipartOverhead allows for boundaries and part headers on top of the
// file itself.
const multipartOverhead = 64 << 10

// AvatarHandler handles avatar upload, removal and download.
type AvatarHandler struct {
	users    service.UserService
	maxBytes int64
	logger   *slog.Logger
}

// NewAvatarHandler creates an AvatarHandler accepting files up to maxBytes.
func NewAvatarHandler(users service.UserService, maxBytes int64, logger *slog.Logger) *AvatarHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AvatarHandler")
	}
	return &AvatarHandler{
		users:    users,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "avatar_handler")),
	}
}

// Upload handles POST /users/me/avatar with a multipart "avatar" file.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	upload, err := h.readUpload(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.users.SetAvatar(r.Context(), user.ID, upload); err != nil {
		HandleAPIError(w, r, err, "Failed to store avatar")
		return
	}

	log.Debug("avatar uploaded", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Avatar uploaded"})
}

// readUpload extracts the avatar file, enforcing the size limit while
// reading so oversized bodies are never buffered whole.
func (h *AvatarHandler) readUpload(w http.ResponseWriter, r *http.Request) (service.AvatarUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile(AvatarFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr), strings.Contains(err.Error(), "request body too large"):
			return service.AvatarUpload{}, h.tooLarge()
		case errors.Is(err, http.ErrMissingFile):
			return service.AvatarUpload{}, domain.NewValidationError(AvatarFormField,
				service.ErrAvatarRequired.Error(), service.ErrAvatarRequired)
		default:
			return service.AvatarUpload{}, domain.NewValidationError(AvatarFormField,
				"must be sent as multipart/form-data", err)
		}
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.maxBytes {
		return service.AvatarUpload{}, h.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return service.AvatarUpload{}, fmt.Errorf("failed to read avatar: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return service.AvatarUpload{}, h.tooLarge()
	}

	return service.AvatarUpload{Filename: header.Filename, Data: data}, nil
}

func (h *AvatarHandler) tooLarge() error {
	return domain.NewValidationError(AvatarFormField,
		fmt.Sprintf("must be at most %d bytes", h.maxBytes), imaging.ErrTooLarge)
}

// Delete handles DELETE /users/me/avatar.
func (h *AvatarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.users.DeleteAvatar(r.Context(), user.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete avatar")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Avatar removed"})
}

// Get handles GET /users/{id}/avatar, serving the stored PNG.
func (h *AvatarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	img, err := h.users.GetAvatar(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve avatar")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("failed to write avatar", "error", err)
	}
}
