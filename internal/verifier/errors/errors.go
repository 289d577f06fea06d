// Package errors provides string codes for error instantiation.

package errors

const (
	InputNotFoundError  = "input path not found"
	InputReadingError   = "could not read input file"
	CacheLookupError    = "could not query verdict cache"
	CacheWriteError     = "could not store verdict in cache"
	MXResolutionError   = "could not resolve MX records"
	SMTPConnectionError = "could not connect to MX host"
)
