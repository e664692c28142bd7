package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/jobs"
	"github.com/dfma-ops/checkin-api/pkg/storage"
)

type jobStoreStub struct {
	jobs map[string]models.ExportJob
}

func (s *jobStoreStub) Create(job models.ExportJob) {
	if s.jobs == nil {
		s.jobs = make(map[string]models.ExportJob)
	}
	s.jobs[job.ID] = job
}

func (s *jobStoreStub) Get(id string) (models.ExportJob, bool) {
	job, ok := s.jobs[id]
	return job, ok
}

func (s *jobStoreStub) Update(job models.ExportJob) {
	s.jobs[job.ID] = job
}

type dispatcherStub struct {
	enqueued []jobs.Job
	err      error
}

func (s *dispatcherStub) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

func newTestExportService(t *testing.T, records []models.AttendanceRecord) (*ExportService, *jobStoreStub, *dispatcherStub) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	store := &jobStoreStub{}
	svc := NewExportService(store, &logbookReaderStub{records: records}, files, signer, nil, nil, ExportConfig{APIPrefix: "/api/v1"})
	dispatcher := &dispatcherStub{}
	svc.SetDispatcher(dispatcher)
	return svc, store, dispatcher
}

func TestCreateJobEnqueues(t *testing.T) {
	svc, store, dispatcher := newTestExportService(t, nil)

	job, err := svc.CreateJob(CreateExportRequest{Format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, models.ExportStatusQueued, job.Status)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, job.ID, dispatcher.enqueued[0].ID)
	_, ok := store.Get(job.ID)
	assert.True(t, ok)
}

func TestCreateJobRejectsUnknownFormat(t *testing.T) {
	svc, _, _ := newTestExportService(t, nil)

	_, err := svc.CreateJob(CreateExportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHandleJobRendersCSVAndSignsURL(t *testing.T) {
	records := []models.AttendanceRecord{
		{Timestamp: "2025-03-14 09:00:00", Session: "Briefing", Name: "Alice Tan", Type: "VIP", Status: "On-time", Email: "-", Phone: "-"},
		{Timestamp: "2025-03-14 09:05:00", Session: "Workshop", Name: "Bob Lee", Type: "Walk-in", Status: "Late", Email: "bob@example.com", Phone: "-"},
	}
	svc, store, dispatcher := newTestExportService(t, records)

	job, err := svc.CreateJob(CreateExportRequest{Format: "csv", Session: "Briefing"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleJob(context.Background(), dispatcher.enqueued[0]))

	finished, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.ExportStatusCompleted, finished.Status)
	assert.NotEmpty(t, finished.Token)
	assert.True(t, strings.HasPrefix(finished.URL, "/api/v1/export/"))
	require.NotNil(t, finished.ExpiresAt)

	download, err := svc.Download(finished.Token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck

	buf := make([]byte, 4096)
	n, _ := download.File.Read(buf)
	content := string(buf[:n])
	assert.Contains(t, content, "Alice Tan")
	assert.NotContains(t, content, "Bob Lee")
}

func TestHandleJobRendersPDF(t *testing.T) {
	records := []models.AttendanceRecord{
		{Timestamp: "2025-03-14 09:00:00", Session: "Briefing", Name: "Alice Tan", Type: "VIP", Status: "On-time", Email: "-", Phone: "-"},
	}
	svc, store, dispatcher := newTestExportService(t, records)

	job, err := svc.CreateJob(CreateExportRequest{Format: "pdf"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleJob(context.Background(), dispatcher.enqueued[0]))

	finished, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.ExportStatusCompleted, finished.Status)
}

func TestDownloadRejectsBadToken(t *testing.T) {
	svc, _, _ := newTestExportService(t, nil)

	_, err := svc.Download("tampered.token.value.here")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetJobUnknown(t *testing.T) {
	svc, _, _ := newTestExportService(t, nil)

	_, err := svc.GetJob("missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
