package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type rosterService interface {
	List(ctx context.Context) ([]models.Participant, error)
	Names(ctx context.Context) ([]string, error)
	ReplaceFallback(ctx context.Context, data []byte) (int, error)
}

// RosterHandler serves the participant roster. Names is the only public
// route; it backs the kiosk's name picker and exposes nothing beyond the
// name strings themselves.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler builds a new handler.
func NewRosterHandler(svc rosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// Names godoc
// @Summary List roster names
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/names [get]
func (h *RosterHandler) Names(c *gin.Context) {
	names, err := h.service.Names(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names, nil)
}

// List godoc
// @Summary List roster entries
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	participants, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participants, map[string]interface{}{"total": len(participants)})
}

// Upload godoc
// @Summary Upload a roster CSV
// @Description Replace the fallback roster file used when the remote source is unreachable
// @Tags Roster
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster CSV"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/roster/upload [post]
func (h *RosterHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "roster file required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}

	count, err := h.service.ReplaceFallback(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": count}, nil)
}
