package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRoster = `Full Name,E-mail,Category,ID Number
Alice Tan,alice@example.com,VIP,88881234
Bob Lee,,,90125678.0
Carol Ng,carol@example.com
,should be skipped,,
`

func TestRosterPositionalParsing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleRoster), 0o644))

	participants, err := NewRosterFile(path).Load()
	require.NoError(t, err)
	require.Len(t, participants, 3)

	assert.Equal(t, "Alice Tan", participants[0].Name)
	assert.Equal(t, "alice@example.com", participants[0].Email)
	assert.Equal(t, "VIP", participants[0].Category)
	assert.Equal(t, "88881234", participants[0].VerificationID)

	// Missing cells default to the placeholder.
	assert.Equal(t, "-", participants[1].Email)
	assert.Equal(t, "-", participants[1].Category)
	assert.Equal(t, "90125678.0", participants[1].VerificationID)

	assert.Equal(t, "-", participants[2].VerificationID)
}

func TestRosterMissingFile(t *testing.T) {
	participants, err := NewRosterFile(filepath.Join(t.TempDir(), "nope.csv")).Load()
	require.NoError(t, err)
	assert.Empty(t, participants)
}

func TestRosterHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Email\n"), 0o644))

	participants, err := NewRosterFile(path).Load()
	require.NoError(t, err)
	assert.Empty(t, participants)
}

func TestRosterReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	file := NewRosterFile(path)

	count, err := file.Replace([]byte(sampleRoster))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	participants, err := file.Load()
	require.NoError(t, err)
	assert.Len(t, participants, 3)
}

func TestRosterReplaceRejectsMalformedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	file := NewRosterFile(path)

	_, err := file.Replace([]byte("Name\n\"unterminated"))
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
