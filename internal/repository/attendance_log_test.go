package repository

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
)

func testRecord(name string) models.AttendanceRecord {
	return models.AttendanceRecord{
		Timestamp: "2025-03-14 09:00:00",
		Session:   "Briefing",
		Name:      name,
		Type:      "Walk-in",
		Status:    "On-time",
		Email:     "-",
		Phone:     "-",
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_log.csv")
	log := NewAttendanceLog(path)

	assert.False(t, log.Exists())
	require.NoError(t, log.Append(testRecord("Alice Tan")))
	require.NoError(t, log.Append(testRecord("Bob Lee")))
	assert.True(t, log.Exists())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(models.AttendanceColumns, ","), lines[0])
}

func TestReadAllSkipsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_log.csv")
	log := NewAttendanceLog(path)

	require.NoError(t, log.Append(testRecord("Alice Tan")))

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice Tan", records[0].Name)
	assert.Equal(t, "Briefing", records[0].Session)
}

func TestReadAllMissingFile(t *testing.T) {
	log := NewAttendanceLog(filepath.Join(t.TempDir(), "nope.csv"))

	records, err := log.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadAllToleratesShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_log.csv")
	content := strings.Join(models.AttendanceColumns, ",") + "\n2025-03-14 09:00:00,Briefing,Alice Tan\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := NewAttendanceLog(path).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice Tan", records[0].Name)
	assert.Empty(t, records[0].Status)
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_log.csv")
	log := NewAttendanceLog(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Append(testRecord("Attendee")))
		}()
	}
	wg.Wait()

	records, err := log.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 20)
}
