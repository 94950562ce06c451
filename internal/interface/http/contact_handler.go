package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contactshub/contacts-api/internal/application"
	"github.com/contactshub/contacts-api/internal/domain/entity"
	repo "github.com/contactshub/contacts-api/internal/domain/repository"
	"github.com/contactshub/contacts-api/internal/interface/middleware"
	"github.com/contactshub/contacts-api/pkg/response"
	"github.com/contactshub/contacts-api/pkg/validation"
)

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type contactRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Birthday       string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	AdditionalInfo string `json:"additional_info"`
}

func (r *contactRequest) toInput() application.ContactInput {
	in := application.ContactInput{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		AdditionalInfo: r.AdditionalInfo,
	}
	if r.Birthday != "" {
		if t, err := time.Parse("2006-01-02", r.Birthday); err == nil {
			in.Birthday = &t
		}
	}
	return in
}

func contactPayload(c *entity.Contact) gin.H {
	var birthday any
	if c.Birthday != nil {
		birthday = c.Birthday.Format("2006-01-02")
	}
	return gin.H{
		"id":              c.ID,
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"email":           c.Email,
		"phone":           c.Phone,
		"birthday":        birthday,
		"additional_info": c.AdditionalInfo,
		"created_at":      c.CreatedAt,
		"updated_at":      c.UpdatedAt,
	}
}

func contactsPayload(cs []entity.Contact) []gin.H {
	out := make([]gin.H, 0, len(cs))
	for i := range cs {
		out = append(out, contactPayload(&cs[i]))
	}
	return out
}

// Create POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ct, err := h.Svc.Create(c.Request.Context(), uid, req.toInput())
	if err != nil {
		h.Logger.WithError(err).Error("create contact failed")
		response.Error[any](c, http.StatusInternalServerError, "create contact failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, contactPayload(ct), "contact created", nil)
}

// List GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	cs, err := h.Svc.List(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list contacts failed")
		response.Error[any](c, http.StatusInternalServerError, "list contacts failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contactsPayload(cs), "contacts", nil)
}

// Get GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	ct, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.notFoundOrFail(c, err, "get contact failed")
		return
	}
	response.Success(c, http.StatusOK, contactPayload(ct), "contact", nil)
}

// Update PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ct, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), req.toInput())
	if err != nil {
		h.notFoundOrFail(c, err, "update contact failed")
		return
	}
	response.Success(c, http.StatusOK, contactPayload(ct), "contact updated", nil)
}

// Delete DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.notFoundOrFail(c, err, "delete contact failed")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "contact deleted", nil)
}

// Search GET /api/contacts/search?first_name=&last_name=&email=
func (h *ContactHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	f := repo.ContactFilter{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
	}
	cs, err := h.Svc.Search(c.Request.Context(), uid, f)
	if err != nil {
		h.Logger.WithError(err).Error("search contacts failed")
		response.Error[any](c, http.StatusInternalServerError, "search contacts failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contactsPayload(cs), "contacts", nil)
}

// Query GET /api/contacts/query?q=&size= (full-text via Elasticsearch)
func (h *ContactHandler) Query(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Query(c.Request.Context(), uid, q, size)
	if err != nil {
		h.Logger.WithError(err).Error("contact query failed")
		response.Error[any](c, http.StatusInternalServerError, "contact query failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "contacts", nil)
}

// UpcomingBirthdays GET /api/contacts/upcoming-birthdays
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	cs, err := h.Svc.UpcomingBirthdays(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("upcoming birthdays failed")
		response.Error[any](c, http.StatusInternalServerError, "upcoming birthdays failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contactsPayload(cs), "contacts", nil)
}

func (h *ContactHandler) notFoundOrFail(c *gin.Context, err error, msg string) {
	if errors.Is(err, application.ErrContactNotFound) {
		response.Error[any](c, http.StatusNotFound, "contact not found", nil)
		return
	}
	h.Logger.WithError(err).Error(msg)
	response.Error[any](c, http.StatusInternalServerError, msg, nil)
}
