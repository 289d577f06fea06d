// Package agent provides intermediary functionality for HTTP, AMQP and CLI handlers.

package agent

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"email-verifier-service/internal/agent/errors"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/constants"
	"email-verifier-service/internal/report"
	"email-verifier-service/internal/s3/s3"
	"email-verifier-service/internal/storage/v1/psql"
	"email-verifier-service/internal/verifier/v1/models"
	"email-verifier-service/internal/verifier/v1/verifier"

	"github.com/rs/zerolog"
)

const (
	handlerKey = "handler"
	jobIDKey   = "jobID"
)

// Agent defines an Agent object and sets its attributes.
type Agent struct {
	log      *zerolog.Logger
	cfg      *config.Config
	storage  *psql.Storage
	verifier *verifier.Verifier
	writer   *report.Writer
	s3       *s3.Service
}

// NewAgent initializes an Agent object.
func NewAgent(
	logger *zerolog.Logger,
	cfg *config.Config,
	storage *psql.Storage,
	verifier *verifier.Verifier,
	writer *report.Writer,
	s3 *s3.Service) *Agent {
	logger.Debug().Msg("calling initializer of agent service")
	return &Agent{
		log:      logger,
		cfg:      cfg,
		storage:  storage,
		verifier: verifier,
		writer:   writer,
		s3:       s3,
	}
}

// VerifyOne classifies a single address.
func (a *Agent) VerifyOne(ctx context.Context, email string, deep bool) *models.Result {
	a.log.Debug().Msg("calling `VerifyOne` method")
	return a.verifier.VerifyOne(ctx, email, deep)
}

// RunBatch verifies every address found under inputPath and writes a CSV
// report into outputDir. Used by the CLI path where no job entry exists.
func (a *Agent) RunBatch(ctx context.Context, inputPath, outputDir string, deep bool, workers int, handler string) (string, int, error) {
	a.log.Debug().Msg("calling `RunBatch` method")

	emails, err := a.verifier.ExtractFromPath(inputPath)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.ExtractionError)
		return "", 0, err
	}
	a.log.Info().Str(handlerKey, handler).Int("emails", len(emails)).Msg("addresses extracted")

	results := a.verifier.VerifyBatch(ctx, emails, deep, workers, nil)

	reportPath, err := a.writer.Write(outputDir, results)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.ReportWritingError)
		return "", 0, err
	}

	return reportPath, len(results), nil
}

// RunJob executes a stored verification job end to end: fetch input, verify
// with per-address progress updates, write and optionally archive the report.
func (a *Agent) RunJob(ctx context.Context, jobID string, deep, fromQueue bool, handler string) error {
	a.log.Debug().Msg("calling `RunJob` method")

	job, err := a.storage.GetJob(ctx, jobID)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobNotFoundError)
		return err
	}
	if job.Status == constants.JobStatusRunning {
		a.log.Warn().Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobAlreadyRunningError)
		return fmt.Errorf("job blocked: %s", errors.JobAlreadyRunningError)
	}

	inputPath := filepath.Join(a.cfg.Verifier.UploadDir, job.FileName)
	if _, statErr := os.Stat(inputPath); statErr != nil {
		if !fromQueue {
			a.log.Error().Err(statErr).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.InputNotFoundError)
			return statErr
		}
		if err := a.s3.DownloadInput(job.FileName); err != nil {
			a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.InputDownloadError)
			return err
		}
	}

	if err := a.storage.UpdateJobStatus(ctx, jobID, constants.JobStatusRunning); err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobStatusUpdateError)
		return err
	}

	emails, err := a.verifier.ExtractFromPath(inputPath)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.ExtractionError)
		return a.failJob(ctx, jobID, err)
	}

	if err := a.storage.SetJobTotal(ctx, jobID, int64(len(emails))); err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobProgressError)
		return a.failJob(ctx, jobID, err)
	}

	results := a.verifier.VerifyBatch(ctx, emails, deep, a.cfg.Verifier.Workers, func() {
		if err := a.storage.IncrementJobDone(ctx, jobID); err != nil {
			a.log.Warn().Err(err).Str(jobIDKey, jobID).Msg(errors.JobProgressError)
		}
	})

	outputDir := filepath.Join(a.cfg.Verifier.OutputDir, jobID)
	reportPath, err := a.writer.Write(outputDir, results)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.ReportWritingError)
		return a.failJob(ctx, jobID, err)
	}

	if a.cfg.Verifier.ArchiveReports {
		if err := a.s3.UploadReport(reportPath, jobID); err != nil {
			a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.ReportArchivingError)
			return a.failJob(ctx, jobID, err)
		}
	}

	if err := a.storage.UpdateJobStatus(ctx, jobID, constants.JobStatusDone); err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobStatusUpdateError)
		return err
	}

	a.log.Info().Str(handlerKey, handler).Str(jobIDKey, jobID).Str("report", reportPath).Msg("job is complete")
	return nil
}

// failJob marks a job as errored, preserving the original failure.
func (a *Agent) failJob(ctx context.Context, jobID string, cause error) error {
	if err := a.storage.UpdateJobStatus(ctx, jobID, constants.JobStatusError); err != nil {
		a.log.Error().Err(err).Str(jobIDKey, jobID).Msg(errors.JobStatusUpdateError)
	}
	return cause
}

// GetJobProgress queries the progress of a job.
func (a *Agent) GetJobProgress(ctx context.Context, jobID, handler string) (*models.Job, int, string) {
	a.log.Debug().Msg("calling `GetJobProgress` method")
	job, err := a.storage.GetJob(ctx, jobID)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobNotFoundError)
		return nil, http.StatusNotFound, errors.JobNotFoundError
	}
	return job, http.StatusOK, ""
}
