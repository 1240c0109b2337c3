package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eprofos_admin_backend/internal/prospects/intake"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/httpkit"
	"eprofos_admin_backend/platform/validator"
)

// PublicHandler serves the unauthenticated website endpoints that feed the
// prospect pipeline: contact form, session signup, needs analysis.
type PublicHandler struct {
	intake   *intake.Service
	validate *validator.Validator
}

func NewPublic(intakeSvc *intake.Service, validate *validator.Validator) *PublicHandler {
	return &PublicHandler{intake: intakeSvc, validate: validate}
}

func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact-requests", h.SubmitContactRequest)
	rg.POST("/session-registrations", h.SubmitSessionRegistration)
	rg.POST("/needs-analysis", h.SubmitNeedsAnalysis)
}

func (h *PublicHandler) SubmitContactRequest(c *gin.Context) {
	var req transport.CreateContactRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.intake.SubmitContactRequest(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *PublicHandler) SubmitSessionRegistration(c *gin.Context) {
	var req transport.CreateSessionRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.intake.SubmitSessionRegistration(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *PublicHandler) SubmitNeedsAnalysis(c *gin.Context) {
	var req transport.CreateNeedsAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.intake.SubmitNeedsAnalysis(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}
