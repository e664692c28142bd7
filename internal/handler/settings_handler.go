package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type settingsService interface {
	Get() (models.KioskSettings, error)
	SetHighTraffic(enabled bool) (models.KioskSettings, error)
}

// SettingsHandler exposes the kiosk write-policy toggle.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler builds a new handler.
func NewSettingsHandler(svc settingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Get godoc
// @Summary Get kiosk settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update godoc
// @Summary Update kiosk settings
// @Description Toggle high-traffic mode; when enabled, check-ins write to the local log only
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body object true "Settings payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req struct {
		HighTraffic *bool `json:"high_traffic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "high_traffic flag required"))
		return
	}
	settings, err := h.service.SetHighTraffic(*req.HighTraffic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
