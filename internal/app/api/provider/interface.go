package provider

import (
	"context"

	"lyriq/internal/app/audio"
)

// Transcriber converts an audio upload into plain text with a remote service.
// Implementations make exactly one remote call per invocation and never retry.
type Transcriber interface {
	Transcribe(ctx context.Context, upload *audio.Upload) (string, error)
}

// Formatter rewrites a transcript with a remote text-generation service.
// It never returns an error: failures are carried inside the FormatResult so
// the caller decides what to show instead.
type Formatter interface {
	Format(ctx context.Context, transcript string) FormatResult
}

// Info describes a remote provider for logs and metrics labels.
type Info struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// Describer is implemented by providers that can report their Info.
type Describer interface {
	Info() Info
}
