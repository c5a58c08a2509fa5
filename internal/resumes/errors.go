package resumes

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers both missing resumes and resumes owned by someone else.
	ErrNotFound         = errors.New("resume not found")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
