package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/models"
	"github.com/dfma-ops/checkin-api/internal/service"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type checkinService interface {
	ResolveCode(code string) (*models.Session, error)
	CheckIn(ctx context.Context, req service.CheckInRequest, policy models.WritePolicy) (*service.CheckInResult, error)
}

type writePolicySource interface {
	Policy() models.WritePolicy
}

// CheckinHandler exposes the attendee-facing kiosk endpoints. These routes
// are unauthenticated; the session code is the only gate.
type CheckinHandler struct {
	service checkinService
	policy  writePolicySource
}

// NewCheckinHandler builds a new handler.
func NewCheckinHandler(svc checkinService, policy writePolicySource) *CheckinHandler {
	return &CheckinHandler{service: svc, policy: policy}
}

// Resolve godoc
// @Summary Resolve a session code
// @Description Look up the active session behind a 6-digit code
// @Tags Checkin
// @Produce json
// @Param code path string true "6-digit session code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /checkin/sessions/{code} [get]
func (h *CheckinHandler) Resolve(c *gin.Context) {
	session, err := h.service.ResolveCode(c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// CheckIn godoc
// @Summary Record a check-in
// @Description Verify the attendee and append one attendance record
// @Tags Checkin
// @Accept json
// @Produce json
// @Param payload body service.CheckInRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /checkin [post]
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req service.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-in payload"))
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), req, h.policy.Policy())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
