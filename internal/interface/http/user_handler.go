package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contactshub/contacts-api/internal/application"
	"github.com/contactshub/contacts-api/internal/interface/middleware"
	"github.com/contactshub/contacts-api/pkg/response"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	profile, err := h.Svc.Profile(c.Request.Context(), u.ID)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":          profile.ID,
		"email":       profile.Email,
		"full_name":   profile.FullName,
		"avatar_url":  profile.AvatarURL,
		"is_verified": profile.IsVerified,
		"created_at":  profile.CreatedAt,
		"updated_at":  profile.UpdatedAt,
	}, "profile", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	if fh.Size > maxAvatarSize {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	url, err := h.Svc.UploadAvatar(c.Request.Context(), u.ID, f, fh.Filename, contentType)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "avatar upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}
