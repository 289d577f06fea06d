// Package report provides CSV report writing for verification results.

package report

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"email-verifier-service/internal/verifier/v1/models"

	"github.com/rs/zerolog"
)

const (
	// DefaultFileName is the primary report name inside the output directory.
	DefaultFileName = "verified_results.csv"
	// FallbackFileName is used when the primary name is already taken.
	FallbackFileName = "verified_results_new.csv"
)

var header = []string{"email", "verdict", "reason", "active_status"}

// Writer defines a new object and sets its attributes.
type Writer struct {
	log *zerolog.Logger
}

// NewWriter initializes a new Writer instance.
func NewWriter(logger *zerolog.Logger) *Writer {
	logger.Debug().Msg("calling initializer of report writer service")
	return &Writer{log: logger}
}

// Write dumps results into a CSV file under outputDir, creating the
// directory when absent. Returns the path of the written report.
func (w *Writer) Write(outputDir string, results []models.Result) (string, error) {
	w.log.Debug().Msg("calling `Write` method")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		w.log.Error().Err(err).Str("dir", outputDir).Msg("could not create output directory")
		return "", err
	}

	outPath := filepath.Join(outputDir, DefaultFileName)
	if _, err := os.Stat(outPath); err == nil {
		outPath = filepath.Join(outputDir, FallbackFileName)
	}

	f, err := os.Create(outPath)
	if err != nil {
		w.log.Error().Err(err).Str("file", outPath).Msg("could not create report file")
		return "", err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", err
	}
	for _, result := range results {
		record := []string{result.Email, result.Verdict, result.Reason, result.ActiveStatus}
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	w.log.Info().Str("file", outPath).Int("rows", len(results)).Msg("report written")
	return outPath, nil
}
