package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

type sessionStore interface {
	Load() ([]models.Session, error)
	Append(session models.Session) error
	Mutate(fn func([]models.Session) ([]models.Session, bool)) (bool, error)
}

// SessionService manages the admin-defined check-in windows. Registry
// persistence failures are fatal to the admin action: losing the file
// loses all session state, so they surface instead of being swallowed.
type SessionService struct {
	registry  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	codeGen   func() string
}

// NewSessionService constructs the service.
func NewSessionService(registry sessionStore, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		registry:  registry,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		codeGen:   randomCode,
	}
}

// CreateSessionRequest describes a new check-in window.
type CreateSessionRequest struct {
	Name       string `json:"name" validate:"required"`
	Date       string `json:"date" validate:"required"`
	StartTime  string `json:"start" validate:"required"`
	LateBuffer string `json:"duration" validate:"required"`
}

// Create generates a fresh 6-digit code and persists the session. Codes
// are not checked for uniqueness against other active sessions; a
// collision is a documented edge case resolved at check-in time by the
// most-recently-created tie-break.
func (s *SessionService) Create(req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}
	if !validStartTime(req.StartTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start time %q, expected HH:MM", req.StartTime))
	}
	if _, err := parseBufferMinutes(req.LateBuffer); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid late buffer %q, expected e.g. 15m or 1hr", req.LateBuffer))
	}

	session := models.Session{
		ID:         s.now().UnixNano(),
		Name:       req.Name,
		Code:       s.codeGen(),
		Date:       req.Date,
		StartTime:  req.StartTime,
		LateBuffer: req.LateBuffer,
		Active:     models.BoolPtr(true),
	}

	if err := s.registry.Append(session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist session")
	}
	s.logger.Info("session created", zap.Int64("id", session.ID), zap.String("name", session.Name), zap.String("code", session.Code))
	return &session, nil
}

// List returns every session, active or not.
func (s *SessionService) List() ([]models.Session, error) {
	sessions, err := s.registry.Load()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load sessions")
	}
	return sessions, nil
}

// ListActive filters to sessions accepting check-ins.
func (s *SessionService) ListActive() ([]models.Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}
	active := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.IsActive() {
			active = append(active, session)
		}
	}
	return active, nil
}

// Find returns a session by id regardless of active state.
func (s *SessionService) Find(id int64) (*models.Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
}

// Delete removes a session from the registry entirely.
func (s *SessionService) Delete(id int64) error {
	changed, err := s.registry.Mutate(func(sessions []models.Session) ([]models.Session, bool) {
		next := make([]models.Session, 0, len(sessions))
		removed := false
		for _, session := range sessions {
			if session.ID == id {
				removed = true
				continue
			}
			next = append(next, session)
		}
		return next, removed
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist session removal")
	}
	if !changed {
		return appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	return nil
}

// Deactivate keeps the session record but closes the check-in window.
func (s *SessionService) Deactivate(id int64) error {
	changed, err := s.registry.Mutate(func(sessions []models.Session) ([]models.Session, bool) {
		for i := range sessions {
			if sessions[i].ID == id && sessions[i].IsActive() {
				sessions[i].Active = models.BoolPtr(false)
				return sessions, true
			}
		}
		return sessions, false
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist session deactivation")
	}
	if !changed {
		return appErrors.Clone(appErrors.ErrNotFound, "active session not found")
	}
	return nil
}

func validStartTime(raw string) bool {
	if _, err := time.Parse("15:04", raw); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", raw)
	return err == nil
}

func randomCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
