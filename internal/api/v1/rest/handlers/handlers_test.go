package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"email-verifier-service/internal/config"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T, outputDir string) *EndpointHandlers {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Verifier.OutputDir = outputDir
	log := zerolog.Nop()
	return &EndpointHandlers{cfg: cfg, log: &log}
}

func newReportRouter(h *EndpointHandlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/jobs/{jobID}/report", h.GetJobReportHandle)
	return r
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		done     int64
		total    int64
		expected float64
	}{
		{name: "zero total", done: 0, total: 0, expected: 0},
		{name: "zero total with done", done: 5, total: 0, expected: 0},
		{name: "not started", done: 0, total: 100, expected: 0},
		{name: "half done", done: 50, total: 100, expected: 50},
		{name: "rounds to two decimals", done: 1, total: 3, expected: 33.33},
		{name: "complete", done: 200, total: 200, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, progressPercent(tt.done, tt.total))
		})
	}
}

func TestGetJobReportHandle(t *testing.T) {
	outputDir := t.TempDir()
	router := newReportRouter(newTestHandlers(t, outputDir))

	t.Run("missing report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/no-such-job/report", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("existing report", func(t *testing.T) {
		jobDir := filepath.Join(outputDir, "job-1")
		require.NoError(t, os.MkdirAll(jobDir, 0o755))
		content := "email,verdict,reason,active_status\nalice@example.com,good,syntax+mx,unknown\n"
		require.NoError(t, os.WriteFile(filepath.Join(jobDir, "verified_results.csv"), []byte(content), 0o644))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/report", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "verified_results.csv")
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, content, string(body))
	})

	t.Run("empty job directory", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(outputDir, "job-2"), 0o755))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-2/report", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
