package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "lyriq/internal/app/errors"
	"lyriq/internal/app/api/provider"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindBadRequest ErrorKind = "bad_request"
	KindUpstream   ErrorKind = "upstream"
	KindInternal   ErrorKind = "internal"
)

// APIError represents a structured error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// SuggestionField is the Details key holding what the user can do about a
// failed transcription.
const SuggestionField = "suggestion"

// NewTranscriptionError turns a failed transcription into the message the
// user sees. Provider code, retry hint and suggestions are carried along.
func NewTranscriptionError(err error) *APIError {
	apiErr := &APIError{
		Kind:    KindUpstream,
		Message: fmt.Sprintf("Transcription error: %v", err),
	}
	var te *provider.TranscriptionError
	if errors.As(err, &te) {
		apiErr.Code = te.Code
		apiErr.Retryable = te.Retryable
		if len(te.Suggestions) > 0 {
			apiErr.Details = map[string]string{SuggestionField: strings.Join(te.Suggestions, "; ")}
		}
	}
	return apiErr
}

// FromUploadError maps upload validation failures to a validation error on
// the "file" field.
func FromUploadError(err error) *APIError {
	var detail string
	switch {
	case errors.Is(err, apperrors.ErrEmptyFilename), errors.Is(err, apperrors.ErrEmptyUpload):
		detail = "an audio file is required"
	case errors.Is(err, apperrors.ErrUnsupportedExtension):
		detail = "file type is not supported"
	default:
		return NewBadRequestError("Could not read the uploaded file")
	}
	return NewValidationError("Please upload an audio file (MP3, WAV, M4A, FLAC, OGG).", map[string]string{"file": detail})
}
