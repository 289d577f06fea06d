// Package handlers implements handling functions for HTTP endpoints.

// @title Email Verifier Service REST API
// @desc REST API for bulk email verification job management.
//
// @ver 1.0.0
// @server https://some.domain.dev.com/api/v1 Production API
// @server https://some.domain.prod.com/api/v1 Development API

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"email-verifier-service/internal/agent/agent"
	"email-verifier-service/internal/api/v1/errors"
	"email-verifier-service/internal/api/v1/modeldto"
	busamqp "email-verifier-service/internal/bus/amqp"
	busErrors "email-verifier-service/internal/bus/errors"
	"email-verifier-service/internal/bus/modelbus"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/storage/v1/psql"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	handlerKey = "handler"
	jobIDKey   = "jobID"
)

// EndpointHandlers defines URLHandler object structure.
type EndpointHandlers struct {
	log     *zerolog.Logger
	cfg     *config.Config
	storage *psql.Storage
	agent   *agent.Agent
	amqp    *busamqp.AMQP
}

// NewEndpointHandlers initializes EndpointHandlers object setting its attributes.
func NewEndpointHandlers(
	cfg *config.Config,
	logger *zerolog.Logger,
	storage *psql.Storage,
	agent *agent.Agent,
	amqp *busamqp.AMQP,
) *EndpointHandlers {
	logger.Debug().Msg("calling initializer of HTTP handling service")
	return &EndpointHandlers{cfg: cfg, log: logger, storage: storage, agent: agent, amqp: amqp}
}

// CreateJobHandle handles requests to submit a new verification job.
// @summary Submit verification job request
// @desc Upload an input file and enqueue a verification job
// @id createJob
// @accept multipart/form-data
// @produce json
// @param file formData file true "Input file with candidate addresses"
// @param deep query boolean false "Enable SMTP mailbox probing"
// @success 202 {object} modeldto.ResponseJobCreated
// @failure 400 {string} Bad request
// @failure 500 {string} Internal Server Error
// @router /api/v1/jobs [post]
func (h *EndpointHandlers) CreateJobHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "create-job"

	h.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("HTTP: %s endpoint hit", handler))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.MultipartFormError)
		http.Error(w, errors.MultipartFormError, http.StatusBadRequest)
		return
	}
	defer file.Close()

	jobID := uuid.New().String()
	fileName := jobID + "_" + filepath.Base(fileHeader.Filename)

	if err := os.MkdirAll(h.cfg.Verifier.UploadDir, 0o755); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.FileSavingError)
		http.Error(w, errors.FileSavingError, http.StatusInternalServerError)
		return
	}
	localFile, err := os.Create(filepath.Join(h.cfg.Verifier.UploadDir, fileName))
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.FileSavingError)
		http.Error(w, errors.FileSavingError, http.StatusInternalServerError)
		return
	}
	defer localFile.Close()
	if _, err := io.Copy(localFile, file); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.FileSavingError)
		http.Error(w, errors.FileSavingError, http.StatusInternalServerError)
		return
	}

	if err := h.storage.AddNewJob(ctx, jobID, fileName); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobCreationError)
		http.Error(w, errors.JobCreationError, http.StatusInternalServerError)
		return
	}

	msg := modelbus.MsgVerify{
		JobID:    jobID,
		FileName: fileName,
		Deep:     r.URL.Query().Get("deep") == "true",
	}
	serialized, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(busErrors.AMQPMarshallingError)
		http.Error(w, errors.JobPublishingError, http.StatusInternalServerError)
		return
	}
	publishing := amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{},
		Body:        serialized,
	}
	if err := h.amqp.PublishToExchange(h.cfg.AMQP.VerifyExchangeInputName, publishing); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobPublishingError)
		http.Error(w, errors.JobPublishingError, http.StatusInternalServerError)
		return
	}

	responseJobCreated := modeldto.ResponseJobCreated{JobID: jobID, Status: "started"}
	resBody, err := json.Marshal(responseJobCreated)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.MarshallingError)
		http.Error(w, errors.MarshallingError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write(resBody)
	h.log.Info().Str(handlerKey, handler).Str(jobIDKey, jobID).Msg("response sent")
}

// progressPercent computes the completion percentage rounded to two decimal
// places. Jobs with no discovered addresses yet report zero.
func progressPercent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*10000) / 100
}

// GetJobProgressHandle handles requests to get progress of a job.
// @summary Get job progress request
// @desc Get verification progress for a job ID
// @id getJobProgress
// @accept x-www-form-urlencoded
// @produce json
// @param jobID path string true "Job ID to get progress for"
// @success 200 {object} modeldto.ResponseJobProgress
// @failure 404 {string} Not found
// @failure 500 {string} Internal Server Error
// @router /api/v1/jobs/{jobID} [get]
func (h *EndpointHandlers) GetJobProgressHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "get-job-progress"

	h.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("HTTP: %s endpoint hit", handler))

	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()

	jobID := chi.URLParam(r, "jobID")

	job, httpStatus, errorCode := h.agent.GetJobProgress(ctx, jobID, handler)
	if job == nil {
		http.Error(w, errorCode, httpStatus)
		return
	}

	responseJobProgress := modeldto.ResponseJobProgress{
		JobID:   job.JobID,
		Done:    job.Done,
		Total:   job.Total,
		Percent: progressPercent(job.Done, job.Total),
		Status:  job.Status,
	}
	resBody, err := json.Marshal(responseJobProgress)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.MarshallingError)
		http.Error(w, errors.MarshallingError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resBody)
	h.log.Info().Str(handlerKey, handler).Str(jobIDKey, jobID).Msg("response sent")
}

// GetJobReportHandle handles requests to download the report of a job.
// @summary Download job report request
// @desc Download the verification report CSV for a job ID
// @id getJobReport
// @accept x-www-form-urlencoded
// @produce text/csv
// @param jobID path string true "Job ID to download report for"
// @success 200 {file} file
// @failure 404 {string} Not found
// @router /api/v1/jobs/{jobID}/report [get]
func (h *EndpointHandlers) GetJobReportHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "get-job-report"

	h.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("HTTP: %s endpoint hit", handler))

	jobID := chi.URLParam(r, "jobID")

	jobOutputDir := filepath.Join(h.cfg.Verifier.OutputDir, jobID)
	entries, err := os.ReadDir(jobOutputDir)
	if err != nil || len(entries) == 0 {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.ReportNotFoundError)
		http.Error(w, errors.ReportNotFoundError, http.StatusNotFound)
		return
	}

	reportPath := filepath.Join(jobOutputDir, entries[0].Name())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entries[0].Name()))
	http.ServeFile(w, r, reportPath)
	h.log.Info().Str(handlerKey, handler).Str(jobIDKey, jobID).Msg("response sent")
}
