package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/models"
	"github.com/dfma-ops/checkin-api/internal/service"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type exportService interface {
	CreateJob(req service.CreateExportRequest) (*models.ExportJob, error)
	GetJob(id string) (*models.ExportJob, error)
	Download(token string) (*service.ExportDownload, error)
}

// ExportHandler manages asynchronous attendance exports. Creation and
// status are admin routes; the download route is gated by the signed
// token alone so the file link can be shared.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create godoc
// @Summary Create an export job
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body service.CreateExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req service.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	job, err := h.service.CreateJob(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download an export file
// @Description Resolve a signed token into the rendered file
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.service.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+download.Filename)
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", download.File, nil)
}
