package models

import "time"

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks the job lifecycle.
type ExportStatus string

const (
	ExportStatusQueued    ExportStatus = "queued"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusCompleted ExportStatus = "completed"
	ExportStatusFailed    ExportStatus = "failed"
)

// ExportJob describes an asynchronous attendance-log export.
type ExportJob struct {
	ID         string       `json:"id"`
	Format     ExportFormat `json:"format"`
	Session    string       `json:"session,omitempty"`
	Status     ExportStatus `json:"status"`
	ResultPath string       `json:"-"`
	Token      string       `json:"token,omitempty"`
	URL        string       `json:"url,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	ExpiresAt  *time.Time   `json:"expires_at,omitempty"`
}
