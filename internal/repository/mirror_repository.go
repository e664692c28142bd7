package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// MirrorRepository is the remote replica of the attendance log, one row per
// record in the same column contract as the local file. It is never the
// durability boundary: callers wrap every method so failures degrade to
// local-only operation.
type MirrorRepository struct {
	db *sqlx.DB
}

// NewMirrorRepository constructs the repository.
func NewMirrorRepository(db *sqlx.DB) *MirrorRepository {
	return &MirrorRepository{db: db}
}

// Append inserts one record.
func (r *MirrorRepository) Append(ctx context.Context, record models.AttendanceRecord) error {
	const query = `INSERT INTO attendance_mirror (ts, session, name, type, status, email, phone)
VALUES (:ts, :session, :name, :type, :status, :email, :phone)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}
	return nil
}

// ReadAll returns every mirrored record in insertion order.
func (r *MirrorRepository) ReadAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	const query = `SELECT ts, session, name, type, status, email, phone FROM attendance_mirror ORDER BY id ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("read mirror: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps the mirror content for the merged set in one transaction.
// Reconciliation uses this so a failed write leaves the previous rows intact.
func (r *MirrorRepository) ReplaceAll(ctx context.Context, records []models.AttendanceRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror replace tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_mirror`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear mirror: %w", err)
	}
	const query = `INSERT INTO attendance_mirror (ts, session, name, type, status, email, phone)
VALUES (:ts, :session, :name, :type, :status, :email, :phone)`
	for i := range records {
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert mirror row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mirror replace: %w", err)
	}
	return nil
}
