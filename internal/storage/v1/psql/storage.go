// Package psql provides PSQL storage service.

package psql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"email-verifier-service/internal/config"
	"email-verifier-service/internal/constants"
	storageErrors "email-verifier-service/internal/storage/errors"
	"email-verifier-service/internal/syncutils"
	"email-verifier-service/internal/verifier/v1/models"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog"
)

// Storage defines a new object and sets its attributes.
type Storage struct {
	mu        sync.Mutex
	cfg       *config.Config
	DB        *sql.DB
	log       *zerolog.Logger
	syncUtils *syncutils.SyncUtils
}

// checkInSlice checks that a string is contained within a slice.
func (s *Storage) checkInSlice(slice []string, value string) bool {
	s.log.Debug().Msg("calling `checkInSlice` method")
	for _, x := range slice {
		if x == value {
			return true
		}
	}
	return false
}

// NewStorage initializes a new Storage instance.
func NewStorage(cfg *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) *Storage {
	logger.Debug().Msg("calling initializer of storage service")
	db, err := sql.Open("pgx", cfg.DB.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open a DB connection")
	}
	st := Storage{
		cfg:       cfg,
		DB:        db,
		log:       logger,
		syncUtils: syncUtils,
	}
	logger.Debug().Msg("DB connection was established")

	st.syncUtils.Wg.Add(1)
	go func() {
		defer st.syncUtils.Wg.Done()
		<-st.syncUtils.Ctx.Done()
		err = st.DB.Close()
		if err != nil {
			logger.Fatal().Err(err).Msg("could not close DB connection")
		}
		logger.Debug().Msg("PSQL DB connection was closed")
	}()

	return &st
}

// Migrate creates the DB tables.
func (s *Storage) Migrate() error {
	s.log.Debug().Msg("calling `Migrate` method")
	ctx, cancel := context.WithTimeout(s.syncUtils.Ctx, 1000*time.Millisecond)
	defer cancel()
	defer s.syncUtils.SyncCancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	var queries []string
	query := `CREATE TABLE IF NOT EXISTS cache (
		id            BIGSERIAL   NOT NULL UNIQUE,
		email         TEXT        NOT NULL UNIQUE,
		verdict       TEXT        NOT NULL,
		reason        TEXT        NOT NULL,
		active_status TEXT        NOT NULL,
		mx_domain     TEXT,
		last_checked  TIMESTAMPTZ NOT NULL
	);`
	queries = append(queries, query)

	query = `CREATE TABLE IF NOT EXISTS jobs (
		id           BIGSERIAL   NOT NULL UNIQUE,
		job_id       TEXT        NOT NULL UNIQUE,
		file_name    TEXT        NOT NULL,
		status       TEXT        NOT NULL,
		total        BIGINT      NOT NULL DEFAULT 0,
		done         BIGINT      NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	);`
	queries = append(queries, query)

	for _, subquery := range queries {
		_, err := s.DB.ExecContext(ctx, subquery)
		if err != nil {
			return err
		}
	}
	return nil
}

// DropAll drops the DB tables.
func (s *Storage) DropAll() error {
	s.log.Debug().Msg("calling `DropAll` method")
	ctx, cancel := context.WithTimeout(s.syncUtils.Ctx, 1000*time.Millisecond)
	defer cancel()
	defer s.syncUtils.SyncCancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	var queries []string
	query := `DROP TABLE IF EXISTS cache;`
	queries = append(queries, query)

	query = `DROP TABLE IF EXISTS jobs;`
	queries = append(queries, query)

	for _, subquery := range queries {
		_, err := s.DB.ExecContext(ctx, subquery)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetCachedVerdict retrieves a cached classification for one address.
func (s *Storage) GetCachedVerdict(ctx context.Context, email string) (*models.Result, error) {
	s.log.Debug().Msg("calling `GetCachedVerdict` method")
	getCacheStmt, err := s.DB.PrepareContext(ctx, "SELECT verdict, reason, active_status, COALESCE(mx_domain, '') FROM cache WHERE email = $1")
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("could not prepare statement")
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer getCacheStmt.Close()
	chanOk := make(chan *models.Result)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		result := models.Result{Email: email}
		err := getCacheStmt.QueryRowContext(ctx, email).Scan(&result.Verdict, &result.Reason, &result.ActiveStatus, &result.MXDomain)
		if err != nil {
			if err == sql.ErrNoRows {
				chanEr <- &storageErrors.NotFoundError{Err: err}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- &result
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("email", email).Msg("getting cached verdict failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		return nil, methodErr
	case result := <-chanOk:
		s.log.Debug().Str("email", email).Msg("getting cached verdict done")
		return result, nil
	}
}

// UpsertCachedVerdict stores a classification, replacing any previous entry.
func (s *Storage) UpsertCachedVerdict(ctx context.Context, result *models.Result) error {
	s.log.Debug().Msg("calling `UpsertCachedVerdict` method")
	if !s.checkInSlice(constants.ValidVerdicts, result.Verdict) {
		err := errors.New("invalid verdict")
		s.log.Error().Err(err).Str("email", result.Email).Msg(fmt.Sprintf("verdict %s is invalid", result.Verdict))
		return err
	}

	upsertStmt, err := s.DB.PrepareContext(ctx, `INSERT INTO cache (email, verdict, reason, active_status, mx_domain, last_checked)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET (verdict, reason, active_status, mx_domain, last_checked) = ($2, $3, $4, $5, $6)`)
	if err != nil {
		s.log.Error().Err(err).Str("email", result.Email).Msg("could not prepare statement")
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer upsertStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := upsertStmt.ExecContext(ctx, result.Email, result.Verdict, result.Reason, result.ActiveStatus, result.MXDomain, time.Now().Format(time.RFC3339))
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("email", result.Email).Msg("upserting cached verdict failed")
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("email", result.Email).Msg("upserting cached verdict failed")
		return methodErr
	case <-chanOk:
		s.log.Debug().Str("email", result.Email).Msg("upserting cached verdict done")
		return nil
	}
}

// PurgeCache removes cache entries last checked before the TTL cutoff.
func (s *Storage) PurgeCache(ctx context.Context, ttl time.Duration) (int64, error) {
	s.log.Debug().Msg("calling `PurgeCache` method")
	purgeStmt, err := s.DB.PrepareContext(ctx, "DELETE FROM cache WHERE last_checked < $1")
	if err != nil {
		s.log.Error().Err(err).Msg("could not prepare statement")
		return 0, &storageErrors.StatementPSQLError{Err: err}
	}
	defer purgeStmt.Close()
	chanOk := make(chan int64)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		res, err := purgeStmt.ExecContext(ctx, time.Now().Add(-ttl).Format(time.RFC3339))
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- n
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("purging cache failed")
		return 0, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("purging cache failed")
		return 0, methodErr
	case n := <-chanOk:
		s.log.Info().Int64("purged", n).Msg("purging cache done")
		return n, nil
	}
}

// CacheStats counts cache entries per verdict.
func (s *Storage) CacheStats(ctx context.Context) (map[string]int64, error) {
	s.log.Debug().Msg("calling `CacheStats` method")
	statsStmt, err := s.DB.PrepareContext(ctx, "SELECT verdict, COUNT(1) FROM cache GROUP BY verdict")
	if err != nil {
		s.log.Error().Err(err).Msg("could not prepare statement")
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer statsStmt.Close()
	chanOk := make(chan map[string]int64)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := statsStmt.QueryContext(ctx)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()

		queryOutput := make(map[string]int64)
		for rows.Next() {
			var verdict string
			var count int64
			err = rows.Scan(&verdict, &count)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput[verdict] = count
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("collecting cache stats failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("collecting cache stats failed")
		return nil, methodErr
	case result := <-chanOk:
		s.log.Info().Msg("collecting cache stats done")
		return result, nil
	}
}

// AddNewJob creates a new job entry.
func (s *Storage) AddNewJob(ctx context.Context, jobID, fileName string) error {
	s.log.Debug().Msg("calling `AddNewJob` method")
	newJobStmt, err := s.DB.PrepareContext(ctx, "INSERT INTO jobs (job_id, file_name, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)")
	if err != nil {
		s.log.Error().Err(err).Str("jobID", jobID).Msg("could not prepare statement")
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer newJobStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := newJobStmt.ExecContext(ctx, jobID, fileName, constants.JobStatusNew, time.Now().Format(time.RFC3339))
		if err != nil {
			if err, ok := err.(*pgconn.PgError); ok && err.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, ID: jobID}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("jobID", jobID).Msg("adding new job failed")
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("jobID", jobID).Msg("adding new job failed")
		return methodErr
	case <-chanOk:
		s.log.Info().Str("jobID", jobID).Msg("adding new job done")
		return nil
	}
}

// GetJob retrieves one job entry.
func (s *Storage) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	s.log.Debug().Msg("calling `GetJob` method")
	getJobStmt, err := s.DB.PrepareContext(ctx, "SELECT job_id, file_name, status, total, done, created_at, updated_at FROM jobs WHERE job_id = $1")
	if err != nil {
		s.log.Error().Err(err).Str("jobID", jobID).Msg("could not prepare statement")
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer getJobStmt.Close()
	chanOk := make(chan *models.Job)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var job models.Job
		err := getJobStmt.QueryRowContext(ctx, jobID).Scan(&job.JobID, &job.FileName, &job.Status, &job.Total, &job.Done, &job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				chanEr <- &storageErrors.NotFoundError{Err: err}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- &job
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("jobID", jobID).Msg("getting job failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("jobID", jobID).Msg("getting job failed")
		return nil, methodErr
	case job := <-chanOk:
		s.log.Info().Str("jobID", jobID).Msg("getting job done")
		return job, nil
	}
}

// GetAllJobs retrieves all job entries.
func (s *Storage) GetAllJobs(ctx context.Context) ([]models.Job, error) {
	s.log.Debug().Msg("calling `GetAllJobs` method")
	getJobsStmt, err := s.DB.PrepareContext(ctx, "SELECT job_id, file_name, status, total, done, created_at, updated_at FROM jobs ORDER BY created_at")
	if err != nil {
		s.log.Error().Err(err).Msg("could not prepare statement")
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer getJobsStmt.Close()
	chanOk := make(chan []models.Job)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := getJobsStmt.QueryContext(ctx)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()

		var queryOutput []models.Job
		for rows.Next() {
			var job models.Job
			err = rows.Scan(&job.JobID, &job.FileName, &job.Status, &job.Total, &job.Done, &job.CreatedAt, &job.UpdatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput = append(queryOutput, job)
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting all jobs failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting all jobs failed")
		return nil, methodErr
	case result := <-chanOk:
		s.log.Info().Msg("getting all jobs done")
		return result, nil
	}
}

// UpdateJobStatus updates the status of a job entry.
func (s *Storage) UpdateJobStatus(ctx context.Context, jobID, status string) error {
	s.log.Debug().Msg("calling `UpdateJobStatus` method")
	if !s.checkInSlice(constants.ValidJobStatuses, status) {
		err := errors.New("invalid status")
		s.log.Error().Err(err).Str("jobID", jobID).Msg(fmt.Sprintf("status %s is invalid", status))
		return err
	}

	updateStmt, err := s.DB.PrepareContext(ctx, "UPDATE jobs SET (status, updated_at) = ($1, $2) WHERE job_id = $3")
	if err != nil {
		s.log.Error().Err(err).Str("jobID", jobID).Msg("could not prepare statement")
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer updateStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := updateStmt.ExecContext(ctx, status, time.Now().Format(time.RFC3339), jobID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("jobID", jobID).Msg("updating job status failed")
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("jobID", jobID).Msg("updating job status failed")
		return methodErr
	case <-chanOk:
		s.log.Info().Str("jobID", jobID).Str("status", status).Msg("updating job status done")
		return nil
	}
}

// SetJobTotal sets the discovered address count for a job entry.
func (s *Storage) SetJobTotal(ctx context.Context, jobID string, total int64) error {
	s.log.Debug().Msg("calling `SetJobTotal` method")
	updateStmt, err := s.DB.PrepareContext(ctx, "UPDATE jobs SET (total, updated_at) = ($1, $2) WHERE job_id = $3")
	if err != nil {
		s.log.Error().Err(err).Str("jobID", jobID).Msg("could not prepare statement")
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer updateStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := updateStmt.ExecContext(ctx, total, time.Now().Format(time.RFC3339), jobID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("jobID", jobID).Msg("setting job total failed")
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("jobID", jobID).Msg("setting job total failed")
		return methodErr
	case <-chanOk:
		s.log.Info().Str("jobID", jobID).Int64("total", total).Msg("setting job total done")
		return nil
	}
}

// IncrementJobDone advances the processed address counter of a job entry.
func (s *Storage) IncrementJobDone(ctx context.Context, jobID string) error {
	s.log.Debug().Msg("calling `IncrementJobDone` method")
	updateStmt, err := s.DB.PrepareContext(ctx, "UPDATE jobs SET (done, updated_at) = (done + 1, $1) WHERE job_id = $2")
	if err != nil {
		s.log.Error().Err(err).Str("jobID", jobID).Msg("could not prepare statement")
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer updateStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := updateStmt.ExecContext(ctx, time.Now().Format(time.RFC3339), jobID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("jobID", jobID).Msg("incrementing job progress failed")
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("jobID", jobID).Msg("incrementing job progress failed")
		return methodErr
	case <-chanOk:
		return nil
	}
}
