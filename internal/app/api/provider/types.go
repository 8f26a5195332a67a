package provider

import (
	"fmt"
)

// TranscriptionError represents a failed call to the transcription service.
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	StatusCode  int      `json:"status_code,omitempty"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions,omitempty"`
	Cause       error    `json:"-"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}

// FormatResult is the outcome of a formatting call: either text or the
// error that prevented it.
type FormatResult struct {
	text string
	err  error
}

// Formatted returns a successful result.
func Formatted(text string) FormatResult {
	return FormatResult{text: text}
}

// FormatFailed returns a failed result. A nil err is replaced so that the
// result still reports failure.
func FormatFailed(err error) FormatResult {
	if err == nil {
		err = fmt.Errorf("formatting failed")
	}
	return FormatResult{err: err}
}

// OK reports whether formatting succeeded.
func (r FormatResult) OK() bool {
	return r.err == nil
}

// Err returns the failure cause, or nil on success.
func (r FormatResult) Err() error {
	return r.err
}

// OrElse returns the formatted text on success and fallback unchanged on failure.
func (r FormatResult) OrElse(fallback string) string {
	if r.err != nil {
		return fallback
	}
	return r.text
}
