package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"email-verifier-service/internal/constants"
	"email-verifier-service/internal/verifier/v1/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	log := zerolog.Nop()
	return NewWriter(&log)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWrite(t *testing.T) {
	writer := newTestWriter(t)
	outputDir := filepath.Join(t.TempDir(), "nested", "output")

	results := []models.Result{
		{
			Email:        "alice@example.com",
			Verdict:      constants.VerdictGood,
			Reason:       constants.ReasonSMTPActive,
			ActiveStatus: constants.ActiveStatusActive,
		},
		{
			Email:        "bob@example.org",
			Verdict:      constants.VerdictBad,
			Reason:       constants.ReasonNoMX,
			ActiveStatus: constants.ActiveStatusInactive,
		},
	}

	outPath, err := writer.Write(outputDir, results)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, DefaultFileName), outPath)

	records := readCSV(t, outPath)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"email", "verdict", "reason", "active_status"}, records[0])
	assert.Equal(t, []string{"alice@example.com", "good", "smtp-active", "active"}, records[1])
	assert.Equal(t, []string{"bob@example.org", "bad", "no-mx", "inactive"}, records[2])
}

func TestWriteFallbackName(t *testing.T) {
	writer := newTestWriter(t)
	outputDir := t.TempDir()

	first, err := writer.Write(outputDir, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, DefaultFileName), first)

	second, err := writer.Write(outputDir, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, FallbackFileName), second)
}

func TestWriteEmptyResults(t *testing.T) {
	writer := newTestWriter(t)

	outPath, err := writer.Write(t.TempDir(), nil)
	require.NoError(t, err)

	records := readCSV(t, outPath)
	require.Len(t, records, 1, "header only")
}
