package disposable

import (
	"os"
	"path/filepath"
	"testing"

	"email-verifier-service/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, listFile string) *Checker {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Verifier.DisposableFile = listFile
	log := zerolog.Nop()
	return NewChecker(cfg, &log)
}

func TestIsDisposable(t *testing.T) {
	checker := newTestChecker(t, "")

	tests := []struct {
		name     string
		domain   string
		expected bool
	}{
		{name: "built-in provider", domain: "mailinator.com", expected: true},
		{name: "case insensitive", domain: "MAILINATOR.COM", expected: true},
		{name: "subdomain collapses to registered domain", domain: "mail.mailinator.com", expected: true},
		{name: "regular provider", domain: "gmail.com", expected: false},
		{name: "regular subdomain", domain: "mail.example.co.uk", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker.IsDisposable(tt.domain))
		})
	}
}

func TestCheckerListFile(t *testing.T) {
	dir := t.TempDir()
	listFile := filepath.Join(dir, "domains.txt")
	require.NoError(t, os.WriteFile(listFile, []byte("# extra providers\nthrowaway.example\n\nOther.Example\n"), 0o644))

	checker := newTestChecker(t, listFile)

	assert.True(t, checker.IsDisposable("throwaway.example"))
	assert.True(t, checker.IsDisposable("other.example"))
	assert.True(t, checker.IsDisposable("mailinator.com"), "built-in set survives file load")
	assert.False(t, checker.IsDisposable("gmail.com"))
}

func TestCheckerMissingListFile(t *testing.T) {
	checker := newTestChecker(t, filepath.Join(t.TempDir(), "nope.txt"))

	assert.True(t, checker.IsDisposable("mailinator.com"), "falls back to built-in set")
}
