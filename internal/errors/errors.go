// Package errors defines the sentinel errors for the analysis pipeline.
//
// Each pipeline stage fails with exactly one of these kinds, wrapped around
// provider-supplied detail text where available. Callers match with the Is*
// helpers (or errors.Is directly) instead of string comparison.
package errors

import "errors"

var (
	// ErrUploadFailed indicates the audio upload to the transcription
	// provider did not complete.
	ErrUploadFailed = errors.New("upload failed")

	// ErrTranscriptionFailed indicates the provider rejected the job or
	// reported a terminal error status.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrPollTimeout indicates the attempt budget was exhausted before the
	// job reached a terminal status.
	ErrPollTimeout = errors.New("poll timeout")

	// ErrSummarizationFailed indicates a transport failure contacting the
	// summarization provider.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrCancelled indicates the caller's context was cancelled while a
	// poll was in flight.
	ErrCancelled = errors.New("cancelled")
)

// IsUploadFailed reports whether any error in err's chain is ErrUploadFailed.
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// IsTranscriptionFailed reports whether any error in err's chain is ErrTranscriptionFailed.
func IsTranscriptionFailed(err error) bool {
	return errors.Is(err, ErrTranscriptionFailed)
}

// IsPollTimeout reports whether any error in err's chain is ErrPollTimeout.
func IsPollTimeout(err error) bool {
	return errors.Is(err, ErrPollTimeout)
}

// IsSummarizationFailed reports whether any error in err's chain is ErrSummarizationFailed.
func IsSummarizationFailed(err error) bool {
	return errors.Is(err, ErrSummarizationFailed)
}

// IsCancelled reports whether any error in err's chain is ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
