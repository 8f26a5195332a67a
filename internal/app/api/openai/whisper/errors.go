package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"lyriq/internal/app/api/provider"
)

// handleAPIError converts OpenAI API errors to TranscriptionError
func handleAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fromStatus(reqErr.HTTPStatusCode, http.StatusText(reqErr.HTTPStatusCode), err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &provider.TranscriptionError{
			Code:     "canceled",
			Message:  fmt.Sprintf("transcription was interrupted: %v", err),
			Provider: ProviderName,
			Cause:    err,
		}
	}

	return &provider.TranscriptionError{
		Code:      "network_error",
		Message:   fmt.Sprintf("could not reach the transcription service: %v", err),
		Provider:  ProviderName,
		Retryable: true,
		Cause:     err,
	}
}

func fromStatus(status int, detail string, cause error) *provider.TranscriptionError {
	te := &provider.TranscriptionError{
		Provider:   ProviderName,
		StatusCode: status,
		Cause:      cause,
	}

	switch status {
	case http.StatusUnauthorized:
		te.Code = "authentication_failed"
		te.Message = "OpenAI API key is invalid or missing"
		te.Suggestions = []string{"Check your OPENAI_API_KEY environment variable"}
	case http.StatusTooManyRequests:
		te.Code = "rate_limit_exceeded"
		te.Message = "OpenAI API rate limit exceeded"
		te.Retryable = true
		te.Suggestions = []string{"Wait a moment and try again"}
	case http.StatusRequestEntityTooLarge:
		te.Code = "file_too_large"
		te.Message = "Audio file is too large for OpenAI API"
		te.Suggestions = []string{"Upload a shorter or more compressed file"}
	case http.StatusBadRequest:
		te.Code = "invalid_file"
		te.Message = fmt.Sprintf("Invalid audio file format or corrupted file: %s", detail)
		te.Suggestions = []string{"Check file format", "Try converting to a supported format"}
	default:
		te.Code = "api_error"
		te.Message = fmt.Sprintf("OpenAI API error (status %d): %s", status, detail)
		te.Retryable = status >= http.StatusInternalServerError
	}

	return te
}
