// Package handler exposes the prospect HTTP endpoints: the authenticated
// back-office CRUD plus the public intake forms.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eprofos_admin_backend/internal/prospects/dedup"
	"eprofos_admin_backend/internal/prospects/management"
	"eprofos_admin_backend/internal/prospects/notes"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/httpkit"
	"eprofos_admin_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the authenticated prospect management endpoints.
type Handler struct {
	mgmt     *management.Service
	notes    *notes.Service
	dedup    *dedup.Service
	validate *validator.Validator
}

func New(mgmt *management.Service, notesSvc *notes.Service, dedupSvc *dedup.Service, validate *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, notes: notesSvc, dedup: dedupSvc, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/metrics", h.Metrics)
	rg.POST("/dedup", h.RunDedup)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/touchpoints", h.TouchpointCounts)
	rg.GET("/:id/notes", h.ListNotes)
	rg.POST("/:id/notes", h.AddNote)
	rg.DELETE("/:id/notes/:noteId", h.DeleteNote)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "20"))

	filter := management.ListFilter{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Source:    c.Query("source"),
		Search:    c.Query("search"),
		Page:      page,
		PerPage:   perPage,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	resp, err := h.mgmt.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.mgmt.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.mgmt.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.mgmt.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) TouchpointCounts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	counts, err := h.mgmt.GetTouchpointCounts(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, counts)
}

func (h *Handler) Metrics(c *gin.Context) {
	resp, err := h.mgmt.Metrics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// RunDedup triggers a synchronous duplicate merge pass. Also runnable from
// the prospect-dedup command.
func (h *Handler) RunDedup(c *gin.Context) {
	merges, err := h.dedup.MergeDuplicates(c.Request.Context())
	if err != nil {
		// Partial progress is reported alongside the failure.
		httpkit.Error(c, http.StatusInternalServerError, "dedup aborted", gin.H{
			"mergesPerformed": merges,
			"reason":          err.Error(),
		})
		return
	}
	httpkit.OK(c, transport.DedupResponse{MergesPerformed: merges})
}

func (h *Handler) ListNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "50"))
	filter := notes.ListFilter{
		Type:    c.Query("type"),
		Page:    page,
		PerPage: perPage,
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid since timestamp", nil)
			return
		}
		filter.Since = &t
	}

	resp, err := h.notes.List(c.Request.Context(), id, filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var authorID *uuid.UUID
	if value, ok := c.Get(httpkit.ContextUserIDKey); ok {
		if userID, ok := value.(uuid.UUID); ok {
			authorID = &userID
		}
	}

	resp, err := h.notes.Add(c.Request.Context(), id, authorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), noteID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
