// pkg/report/errors.go
package report

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrUnsupportedFormat is returned when the file is neither ZIP nor RAR
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrOpenFailed is returned when the archive cannot be opened for listing
	ErrOpenFailed = errors.New("archive could not be opened")

	// ErrMultiVolume is returned for RAR archives spanning several volumes
	ErrMultiVolume = errors.New("multi-volume archives are not supported")

	// ErrEncryptedHeaders is returned for RAR archives whose headers need a password
	ErrEncryptedHeaders = errors.New("archive headers are encrypted")
)
