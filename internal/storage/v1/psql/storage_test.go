package psql

import (
	"context"
	"testing"

	"email-verifier-service/internal/config"
	"email-verifier-service/internal/constants"
	"email-verifier-service/internal/syncutils"
	"email-verifier-service/internal/verifier/v1/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	cfg := config.NewConfig()
	log := zerolog.Nop()
	syncUtils := syncutils.NewSyncUtils()
	storage := NewStorage(cfg, &log, syncUtils)
	t.Cleanup(func() {
		syncUtils.SyncCancel()
		syncUtils.Wg.Wait()
	})
	return storage
}

func TestUpdateJobStatusRejectsUnknownStatus(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.UpdateJobStatus(context.Background(), "some-job", "bogus")
	assert.EqualError(t, err, "invalid status")

	for _, status := range constants.ValidJobStatuses {
		assert.True(t, storage.checkInSlice(constants.ValidJobStatuses, status))
	}
}

func TestUpsertCachedVerdictRejectsUnknownVerdict(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.UpsertCachedVerdict(context.Background(), &models.Result{
		Email:   "joe@example.com",
		Verdict: "maybe",
	})
	assert.EqualError(t, err, "invalid verdict")

	for _, verdict := range constants.ValidVerdicts {
		assert.True(t, storage.checkInSlice(constants.ValidVerdicts, verdict))
	}
}
