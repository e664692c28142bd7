package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// AttendanceLog is the append-only local log file, the durability boundary
// for every check-in. Appends are serialized behind a mutex and written as
// a single flushed row in O_APPEND mode, so concurrent check-ins cannot
// interleave bytes and readers never observe a torn row.
type AttendanceLog struct {
	path string
	mu   sync.Mutex
}

// NewAttendanceLog returns a log backed by the given CSV file path.
func NewAttendanceLog(path string) *AttendanceLog {
	return &AttendanceLog{path: path}
}

// Exists reports whether the log file has been created.
func (l *AttendanceLog) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Append writes one record, creating the file with a header row first if
// needed. The row is never rewritten afterwards.
func (l *AttendanceLog) Append(record models.AttendanceRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("prepare log directory: %w", err)
	}

	writeHeader := !l.exists()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open attendance log: %w", err)
	}
	defer file.Close() //nolint:errcheck

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(models.AttendanceColumns); err != nil {
			return fmt.Errorf("write log header: %w", err)
		}
	}
	if err := writer.Write(record.Row()); err != nil {
		return fmt.Errorf("write log row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush attendance log: %w", err)
	}
	return nil
}

// ReadAll returns every record in file order. A missing file yields an
// empty slice, not an error.
func (l *AttendanceLog) ReadAll() ([]models.AttendanceRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open attendance log: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read attendance log: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]models.AttendanceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.RecordFromRow(row))
	}
	return records, nil
}

func (l *AttendanceLog) exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}
