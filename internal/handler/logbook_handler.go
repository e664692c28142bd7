package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/models"
	"github.com/dfma-ops/checkin-api/internal/service"
	"github.com/dfma-ops/checkin-api/pkg/export"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type logbookService interface {
	ReadAll(ctx context.Context) ([]models.AttendanceRecord, error)
	Reconcile(ctx context.Context) (*service.ReconcileResult, error)
}

// LogbookHandler exposes admin views over the attendance log.
type LogbookHandler struct {
	service logbookService
}

// NewLogbookHandler builds a new handler.
func NewLogbookHandler(svc logbookService) *LogbookHandler {
	return &LogbookHandler{service: svc}
}

// List godoc
// @Summary List attendance records
// @Description Full attendance log, optionally filtered by session name
// @Tags Logbook
// @Produce json
// @Param session query string false "Session name filter"
// @Success 200 {object} response.Envelope
// @Router /admin/logbook [get]
func (h *LogbookHandler) List(c *gin.Context) {
	records, err := h.service.ReadAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if session := c.Query("session"); session != "" {
		filtered := make([]models.AttendanceRecord, 0, len(records))
		for _, record := range records {
			if record.Session == session {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"total": len(records)})
}

// Download godoc
// @Summary Download the attendance log as CSV
// @Tags Logbook
// @Produce text/csv
// @Success 200 {file} file
// @Router /admin/logbook/download [get]
func (h *LogbookHandler) Download(c *gin.Context) {
	records, err := h.service.ReadAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.Dataset{Headers: models.AttendanceColumns}
	for _, record := range records {
		row := record.Row()
		m := make(map[string]string, len(dataset.Headers))
		for i, header := range dataset.Headers {
			m[header] = row[i]
		}
		dataset.Rows = append(dataset.Rows, m)
	}

	payload, err := export.NewCSVExporter().Render(dataset)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_log_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// Reconcile godoc
// @Summary Reconcile local log with the remote mirror
// @Description Merge both sides, dedupe, and push the result to the mirror
// @Tags Logbook
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/logbook/reconcile [post]
func (h *LogbookHandler) Reconcile(c *gin.Context) {
	result, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if claims := claimsFromContext(c); claims != nil {
		meta = map[string]interface{}{"triggered_by": claims.Subject}
	}
	response.JSON(c, http.StatusOK, result, meta)
}
