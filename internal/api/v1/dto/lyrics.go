package dto

import (
	"mime/multipart"

	"lyriq/internal/api/errors"
	"lyriq/internal/app/audio"
)

// UploadForm is the multipart body of POST /transcribe.
type UploadForm struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// Validate checks the declared extension against the allow-list.
// The file contents are not inspected.
func (f *UploadForm) Validate() error {
	if err := audio.ValidateFilename(f.File.Filename); err != nil {
		return errors.FromUploadError(err)
	}
	return nil
}

// StageEvent is sent when a remote call starts.
type StageEvent struct {
	Stage string `json:"stage"`
	Text  string `json:"text"`
}

// LyricsResponse carries the final text. It does not say whether the
// formatter fell back to the raw transcript.
type LyricsResponse struct {
	Lyrics string `json:"lyrics"`
}

// ErrorEvent carries a user-visible failure message and, when known, what
// the user can do about it.
type ErrorEvent struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
