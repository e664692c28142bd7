package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

type localLog interface {
	Append(record models.AttendanceRecord) error
	ReadAll() ([]models.AttendanceRecord, error)
	Exists() bool
}

type mirrorStore interface {
	Append(ctx context.Context, record models.AttendanceRecord) error
	ReadAll(ctx context.Context) ([]models.AttendanceRecord, error)
	ReplaceAll(ctx context.Context, records []models.AttendanceRecord) error
}

type mirrorMetrics interface {
	IncMirrorFailure()
}

// LogbookService owns the record store and its remote mirror. The local
// append is the durability guarantee; everything touching the mirror is
// wrapped so a remote failure degrades to local-only operation instead of
// reaching an attendee.
type LogbookService struct {
	log     localLog
	mirror  mirrorStore
	metrics mirrorMetrics
	logger  *zap.Logger
}

// NewLogbookService constructs the service. A nil mirror disables
// mirroring and reconciliation.
func NewLogbookService(log localLog, mirror mirrorStore, metrics mirrorMetrics, logger *zap.Logger) *LogbookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogbookService{log: log, mirror: mirror, metrics: metrics, logger: logger}
}

// Commit appends the record locally and, when the policy asks for it,
// mirrors it best-effort. The commit is reported successful whenever the
// local append succeeds.
func (s *LogbookService) Commit(ctx context.Context, record models.AttendanceRecord, policy models.WritePolicy) error {
	if err := s.log.Append(record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to write attendance log")
	}

	if policy != models.PolicyMirror || s.mirror == nil {
		return nil
	}
	if err := s.mirror.Append(ctx, record); err != nil {
		s.logger.Warn("mirror append failed, record kept locally", zap.String("name", record.Name), zap.Error(err))
		if s.metrics != nil {
			s.metrics.IncMirrorFailure()
		}
	}
	return nil
}

// ReadAll returns the full record set. The local log is strictly preferred
// whenever it exists; the mirror is only a fallback, and its failures
// degrade to an empty result.
func (s *LogbookService) ReadAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	if s.log.Exists() {
		records, err := s.log.ReadAll()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read attendance log")
		}
		return records, nil
	}

	if s.mirror == nil {
		return nil, nil
	}
	records, err := s.mirror.ReadAll(ctx)
	if err != nil {
		s.logger.Warn("mirror read failed, proceeding with empty log", zap.Error(err))
		if s.metrics != nil {
			s.metrics.IncMirrorFailure()
		}
		return nil, nil
	}
	return records, nil
}

// ReconcileResult summarises a merge for the admin.
type ReconcileResult struct {
	LocalCount  int `json:"local_count"`
	RemoteCount int `json:"remote_count"`
	MergedCount int `json:"merged_count"`
}

// Reconcile merges local and mirrored records, de-duplicates them and
// writes the merged set back to the mirror. It runs only on explicit admin
// request and is idempotent; failures surface as plain diagnostic errors
// with no automatic retry.
func (s *LogbookService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	if s.mirror == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "remote mirror is disabled")
	}

	local, err := s.log.ReadAll()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read attendance log")
	}
	remote, err := s.mirror.ReadAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read remote mirror")
	}

	// Local rows come last so they win the keep-last de-duplication.
	merged := dedupeRecords(append(append([]models.AttendanceRecord{}, remote...), local...))

	if err := s.mirror.ReplaceAll(ctx, merged); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write merged records to mirror")
	}

	return &ReconcileResult{
		LocalCount:  len(local),
		RemoteCount: len(remote),
		MergedCount: len(merged),
	}, nil
}

// dedupeRecords keeps the last occurrence per (timestamp, name, session).
// The session name is part of the key so same-named attendees checking
// into different sessions at the identical second stay distinct.
func dedupeRecords(records []models.AttendanceRecord) []models.AttendanceRecord {
	type position struct{ idx int }
	seen := make(map[string]position, len(records))
	result := make([]models.AttendanceRecord, 0, len(records))
	for _, record := range records {
		key := record.Timestamp + "|" + record.Name + "|" + record.Session
		if pos, ok := seen[key]; ok {
			result[pos.idx] = record
			continue
		}
		seen[key] = position{idx: len(result)}
		result = append(result, record)
	}
	return result
}
