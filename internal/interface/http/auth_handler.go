package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contactshub/contacts-api/internal/application"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	"github.com/contactshub/contacts-api/pkg/response"
	"github.com/contactshub/contacts-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	FullName string `json:"full_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"full_name":   u.FullName,
		"avatar_url":  u.AvatarURL,
		"is_verified": u.IsVerified,
	}, "user registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// one message for unknown email and wrong password alike
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// VerifyEmail GET /api/auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error[any](c, http.StatusBadRequest, "missing token", nil)
		return
	}
	outcome, err := h.Svc.ConfirmVerification(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrInvalidVerifyToken):
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		default:
			h.Logger.WithError(err).Error("verify email failed")
			response.Error[any](c, http.StatusInternalServerError, "verification failed", nil)
		}
		return
	}
	if outcome == application.AlreadyVerified {
		response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email already verified", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email successfully verified", nil)
}
