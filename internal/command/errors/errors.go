// Package errors provides string codes for error instantiation.

package errors

const (
	InputNotFoundError     = "input path not found"
	VerificationRunError   = "could not run verification"
	ReportWritingError     = "could not write report"
	JobNotFoundError       = "could not find job in DB"
	GettingJobStatusError  = "could not find job status in DB"
	GettingCacheStatsError = "could not collect cache stats from DB"
	CachePurgeError        = "could not purge cache entries"
)
