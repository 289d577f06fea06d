// Package errors provides string codes for error instantiation.

package errors

const (
	FileOpeningError  = "failed to open file"
	FileUploadError   = "failed to upload file"
	FileDownloadError = "failed to download file"
	FileSavingError   = "failed to save file locally"
)
