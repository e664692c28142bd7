package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/service"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type projectionService interface {
	Feed(ctx context.Context, sessionID int64) (*service.ProjectionFeed, error)
}

// ProjectionHandler serves the shared-screen view model. The projector
// page polls this endpoint and re-renders the whole view each cycle.
type ProjectionHandler struct {
	service projectionService
}

// NewProjectionHandler builds a new handler.
func NewProjectionHandler(svc projectionService) *ProjectionHandler {
	return &ProjectionHandler{service: svc}
}

// Feed godoc
// @Summary Projection feed
// @Description Masked live attendance feed plus the kiosk URL for the QR code
// @Tags Projection
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projection/{id} [get]
func (h *ProjectionHandler) Feed(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session id must be an integer"))
		return
	}
	feed, err := h.service.Feed(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed, nil)
}
