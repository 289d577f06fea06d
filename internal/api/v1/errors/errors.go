// Package errors provides string codes for error instantiation.

package errors

const (
	InvalidContentType      = "invalid content type"
	RequestBodyReadingError = "failed to read request body"
	MultipartFormError      = "failed to parse multipart form"
	FileSavingError         = "failed to save uploaded file"
	JobCreationError        = "failed to create job"
	JobPublishingError      = "failed to publish job invoice"
	MarshallingError        = "failed to marshall response body"
	ReportNotFoundError     = "no report found for job"
)
