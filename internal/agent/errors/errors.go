// Package errors provides string codes for error instantiation.

package errors

const (
	VerificationRunError   = "could not run verification"
	JobNotFoundError       = "could not find job in DB"
	JobCreationError       = "could not add job to DB"
	JobStatusUpdateError   = "could not update job status in DB"
	JobProgressError       = "could not update job progress in DB"
	InputNotFoundError     = "could not find input file"
	InputDownloadError     = "could not download input file from S3"
	ExtractionError        = "could not extract addresses from input"
	ReportWritingError     = "could not write report"
	ReportArchivingError   = "could not archive report to S3"
	JobAlreadyRunningError = "job is currently running and locked"
)
