package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dfma-ops/checkin-api/internal/models"
	"github.com/dfma-ops/checkin-api/internal/service"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/response"
)

type sessionService interface {
	Create(req service.CreateSessionRequest) (*models.Session, error)
	List() ([]models.Session, error)
	Find(id int64) (*models.Session, error)
	Delete(id int64) error
	Deactivate(id int64) error
}

// SessionHandler exposes admin session management endpoints.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(svc sessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Create godoc
// @Summary Create a session
// @Description Register a new check-in window with a fresh 6-digit code
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.service.Create(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// List godoc
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.service.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Get godoc
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.service.Find(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Delete a session
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate a session
// @Description Close the check-in window without deleting the record
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sessions/{id}/deactivate [post]
func (h *SessionHandler) Deactivate(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Deactivate(id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func sessionID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "session id must be an integer")
	}
	return id, nil
}
