package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

type activeSessionLister interface {
	ListActive() ([]models.Session, error)
}

type rosterLookup interface {
	Lookup(ctx context.Context, name string) (*models.Participant, error)
}

type recordCommitter interface {
	Commit(ctx context.Context, record models.AttendanceRecord, policy models.WritePolicy) error
}

type welcomeGenerator interface {
	Greet(ctx context.Context, name, sessionName string) string
}

type checkinMetrics interface {
	IncCheckin(status, attendeeType string)
}

// CheckinConfig tunes the attendance engine.
type CheckinConfig struct {
	EventLocation         *time.Location
	VerificationSuffixLen int
}

// CheckinService is the attendance engine: it resolves a code, verifies
// identity, classifies timing and commits exactly one record per
// successful check-in.
type CheckinService struct {
	sessions  activeSessionLister
	roster    rosterLookup
	logbook   recordCommitter
	greeter   welcomeGenerator
	metrics   checkinMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CheckinConfig
	now       func() time.Time
}

// NewCheckinService constructs the engine.
func NewCheckinService(sessions activeSessionLister, roster rosterLookup, logbook recordCommitter, greeter welcomeGenerator, metrics checkinMetrics, validate *validator.Validate, logger *zap.Logger, cfg CheckinConfig) *CheckinService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EventLocation == nil {
		cfg.EventLocation = time.FixedZone("UTC+8", 8*3600)
	}
	if cfg.VerificationSuffixLen <= 0 {
		cfg.VerificationSuffixLen = 4
	}
	return &CheckinService{
		sessions:  sessions,
		roster:    roster,
		logbook:   logbook,
		greeter:   greeter,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CheckInRequest is the attendee-facing payload. Proof is the last digits
// of the attendee's ID, checked only on the roster path; email and phone
// are required only for walk-ins.
type CheckInRequest struct {
	Code  string `json:"code" validate:"required,len=6,numeric"`
	Name  string `json:"name" validate:"required"`
	Proof string `json:"proof"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// CheckInResult reports the committed record and the side-channel greeting.
type CheckInResult struct {
	Record   models.AttendanceRecord `json:"record"`
	Greeting string                  `json:"greeting"`
}

// ResolveCode finds the active session matching a 6-digit code. Codes are
// not guaranteed unique; on a collision the most recently created session
// wins, an explicit tie-break rather than a registry-order accident.
func (s *CheckinService) ResolveCode(code string) (*models.Session, error) {
	code = strings.TrimSpace(code)
	sessions, err := s.sessions.ListActive()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load sessions")
	}

	var match *models.Session
	for i := range sessions {
		if sessions[i].Code != code {
			continue
		}
		if match == nil || sessions[i].ID > match.ID {
			match = &sessions[i]
		}
	}
	if match == nil {
		return nil, appErrors.ErrInvalidCode
	}
	return match, nil
}

// CheckIn runs the full state transition. The roster decides the identity
// path: a known name must prove the last digits of its verification id,
// while an unknown name becomes a walk-in with no verification at all.
// Commit succeeds on local durability alone; mirroring is best-effort.
func (s *CheckinService) CheckIn(ctx context.Context, req CheckInRequest, policy models.WritePolicy) (*CheckInResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}
	req.Name = strings.TrimSpace(req.Name)

	session, err := s.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}

	participant, err := s.roster.Lookup(ctx, req.Name)
	if err != nil {
		s.logger.Warn("roster lookup failed, treating as walk-in", zap.String("name", req.Name), zap.Error(err))
		participant = nil
	}

	attendeeType := models.WalkInType
	email, phone := "-", "-"
	if participant != nil {
		if !s.verifyProof(participant.VerificationID, req.Proof) {
			return nil, appErrors.ErrVerificationFailed
		}
		attendeeType = participant.Category
		if attendeeType == "" || attendeeType == "-" {
			attendeeType = "Pre-registered"
		}
	} else {
		if req.Email == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "walk-in check-in requires an email")
		}
		email = req.Email
		if req.Phone != "" {
			phone = req.Phone
		}
	}

	now := s.now().In(s.cfg.EventLocation)
	status := classifyTiming(*session, now, s.cfg.EventLocation)

	record := models.AttendanceRecord{
		Timestamp: now.Format(timestampLayout),
		Session:   session.Name,
		Name:      req.Name,
		Type:      attendeeType,
		Status:    string(status),
		Email:     email,
		Phone:     phone,
	}

	if err := s.logbook.Commit(ctx, record, policy); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncCheckin(record.Status, record.Type)
	}

	result := &CheckInResult{Record: record}
	if s.greeter != nil {
		result.Greeting = s.greeter.Greet(ctx, record.Name, session.Name)
	}
	return result, nil
}

// verifyProof compares the suffix of the supplied proof against the
// normalized stored id. Spreadsheet-sourced ids arrive with numeric-cell
// artifacts (a trailing ".0") that must not break the match.
func (s *CheckinService) verifyProof(storedID, proof string) bool {
	stored := normalizeVerificationID(storedID)
	if stored == "" || stored == "-" {
		// Roster rows without a verification id cannot be checked.
		return true
	}
	proof = strings.TrimSpace(proof)
	n := s.cfg.VerificationSuffixLen
	if len(stored) < n || len(proof) < n {
		return false
	}
	return stored[len(stored)-n:] == proof[len(proof)-n:]
}

func normalizeVerificationID(id string) string {
	id = strings.TrimSpace(id)
	return strings.TrimSuffix(id, ".0")
}
