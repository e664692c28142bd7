package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
)

func newMirrorMock(t *testing.T) (*MirrorRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	return NewMirrorRepository(sqlx.NewDb(db, "postgres")), mock
}

func mirrorRecord() models.AttendanceRecord {
	return models.AttendanceRecord{
		Timestamp: "2025-03-14 09:00:00",
		Session:   "Briefing",
		Name:      "Alice Tan",
		Type:      "VIP",
		Status:    "On-time",
		Email:     "-",
		Phone:     "-",
	}
}

func TestMirrorAppend(t *testing.T) {
	repo, mock := newMirrorMock(t)

	mock.ExpectExec("INSERT INTO attendance_mirror").
		WithArgs("2025-03-14 09:00:00", "Briefing", "Alice Tan", "VIP", "On-time", "-", "-").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Append(context.Background(), mirrorRecord()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMirrorReadAll(t *testing.T) {
	repo, mock := newMirrorMock(t)

	rows := sqlmock.NewRows([]string{"ts", "session", "name", "type", "status", "email", "phone"}).
		AddRow("2025-03-14 09:00:00", "Briefing", "Alice Tan", "VIP", "On-time", "-", "-").
		AddRow("2025-03-14 09:01:00", "Briefing", "Bob Lee", "Walk-in", "Late", "bob@example.com", "-")
	mock.ExpectQuery("SELECT ts, session, name, type, status, email, phone FROM attendance_mirror").
		WillReturnRows(rows)

	records, err := repo.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alice Tan", records[0].Name)
	assert.Equal(t, "Late", records[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMirrorReplaceAll(t *testing.T) {
	repo, mock := newMirrorMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance_mirror").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO attendance_mirror").
		WithArgs("2025-03-14 09:00:00", "Briefing", "Alice Tan", "VIP", "On-time", "-", "-").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceAll(context.Background(), []models.AttendanceRecord{mirrorRecord()}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMirrorReplaceAllRollsBackOnFailure(t *testing.T) {
	repo, mock := newMirrorMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance_mirror").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), []models.AttendanceRecord{mirrorRecord()})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
