package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
	"github.com/dfma-ops/checkin-api/pkg/export"
	"github.com/dfma-ops/checkin-api/pkg/jobs"
	"github.com/dfma-ops/checkin-api/pkg/storage"
)

type exportJobStore interface {
	Create(job models.ExportJob)
	Get(id string) (models.ExportJob, bool)
	Update(job models.ExportJob)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportService renders attendance-log exports asynchronously: admin
// requests enqueue a job, a worker renders the file, and the result is
// fetched through a signed, expiring URL.
type ExportService struct {
	store     exportJobStore
	logbook   logbookReader
	storage   fileStorage
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	pdf       pdfRenderer
	queue     jobDispatcher
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(store exportJobStore, logbook logbookReader, files fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:     store,
		logbook:   logbook,
		storage:   files,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// SetDispatcher wires the job queue; the queue's handler is this
// service's HandleJob, so the hookup happens after construction.
func (s *ExportService) SetDispatcher(queue jobDispatcher) {
	s.queue = queue
}

// CreateExportRequest describes an export job.
type CreateExportRequest struct {
	Format  string `json:"format" validate:"required,oneof=csv pdf"`
	Session string `json:"session"`
}

// CreateJob registers and enqueues an export.
func (s *ExportService) CreateJob(req CreateExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue not running")
	}

	job := models.ExportJob{
		ID:        uuid.NewString(),
		Format:    models.ExportFormat(req.Format),
		Session:   req.Session,
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.store.Create(job)

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "export"}); err != nil {
		job.Status = models.ExportStatusFailed
		job.Error = "failed to enqueue export"
		s.store.Update(job)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return &job, nil
}

// GetJob returns job metadata.
func (s *ExportService) GetJob(id string) (*models.ExportJob, error) {
	job, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &job, nil
}

// HandleJob is the queue handler: it renders and stores one export.
func (s *ExportService) HandleJob(ctx context.Context, queued jobs.Job) error {
	job, ok := s.store.Get(queued.ID)
	if !ok {
		return fmt.Errorf("export job %s not found", queued.ID)
	}

	job.Status = models.ExportStatusRunning
	s.store.Update(job)

	if err := s.generate(ctx, &job); err != nil {
		s.logger.Sugar().Errorw("export job failed", "job_id", job.ID, "format", job.Format, "error", err)
		job.Status = models.ExportStatusFailed
		job.Error = err.Error()
		now := time.Now().UTC()
		job.FinishedAt = &now
		s.store.Update(job)
		return err
	}

	job.Status = models.ExportStatusCompleted
	now := time.Now().UTC()
	job.FinishedAt = &now
	s.store.Update(job)
	return nil
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File     *os.File
	Filename string
}

// Download resolves a signed token into the stored file.
func (s *ExportService) Download(token string) (*ExportDownload, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	parts := strings.Split(relPath, "/")
	return &ExportDownload{File: file, Filename: parts[len(parts)-1]}, nil
}

func (s *ExportService) generate(ctx context.Context, job *models.ExportJob) error {
	records, err := s.logbook.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read logbook: %w", err)
	}

	dataset := export.Dataset{Headers: models.AttendanceColumns}
	for _, record := range records {
		if job.Session != "" && record.Session != job.Session {
			continue
		}
		row := record.Row()
		m := make(map[string]string, len(dataset.Headers))
		for i, header := range dataset.Headers {
			m[header] = row[i]
		}
		dataset.Rows = append(dataset.Rows, m)
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		title := "Attendance Log"
		if job.Session != "" {
			title = "Attendance - " + job.Session
		}
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("attendance_%s.%s", job.ID, job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return fmt.Errorf("store export: %w", err)
	}
	job.ResultPath = relPath

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign export url: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	job.Token = token
	job.URL = fmt.Sprintf("%s/export/%s", prefix, token)
	job.ExpiresAt = &expiresAt
	return nil
}
