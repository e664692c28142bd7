package repository

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// RosterFile is the local fallback roster, an admin-uploaded tabular file.
// Columns map positionally to Name, Email, Category, VerificationId no
// matter what the header row says; the schema is resolved once at load and
// missing columns default to "-".
type RosterFile struct {
	path string
	mu   sync.Mutex
}

// NewRosterFile returns a fallback roster backed by the given path.
func NewRosterFile(path string) *RosterFile {
	return &RosterFile{path: path}
}

// Load parses the fallback file. A missing file is an empty roster.
func (f *RosterFile) Load() ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return parseRoster(raw)
}

// Replace validates and atomically installs an uploaded roster file.
func (f *RosterFile) Replace(data []byte) (int, error) {
	participants, err := parseRoster(data)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("prepare roster directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "roster-*.csv")
	if err != nil {
		return 0, fmt.Errorf("create roster temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return 0, fmt.Errorf("write roster file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return 0, fmt.Errorf("close roster temp file: %w", err)
	}
	if err := os.Rename(name, f.path); err != nil {
		os.Remove(name)
		return 0, fmt.Errorf("replace roster file: %w", err)
	}
	return len(participants), nil
}

// parseRoster maps rows positionally: column 0 is the name, then email,
// category, verification id. The first row is always treated as a header.
func parseRoster(data []byte) ([]models.Participant, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
		return "-"
	}

	participants := make([]models.Participant, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(rowValue(row, 0))
		if name == "" {
			continue
		}
		participants = append(participants, models.Participant{
			Name:           name,
			Email:          cell(row, 1),
			Category:       cell(row, 2),
			VerificationID: cell(row, 3),
		})
	}
	return participants, nil
}

func rowValue(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
