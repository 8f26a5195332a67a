package whisper

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"lyriq/internal/app/api/provider"
	"lyriq/internal/app/audio"
)

// ProviderName labels this provider in logs and metrics.
const ProviderName = "openai/whisper"

// RemoteTranscriber implements remote transcription using the OpenAI API.
// It always requests plain text from whisper-1 and passes no language,
// prompt or temperature hints.
type RemoteTranscriber struct {
	client *openai.Client
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client) *RemoteTranscriber {
	return &RemoteTranscriber{client: client}
}

// Transcribe uploads the audio and returns the transcript exactly as the
// service produced it.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, upload *audio.Upload) (string, error) {
	if upload == nil {
		return "", &provider.TranscriptionError{
			Code:     "invalid_input",
			Message:  "no audio uploaded",
			Provider: ProviderName,
		}
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   upload.Reader(),
		FilePath: upload.Filename(),
		Format:   openai.AudioResponseFormatText,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", handleAPIError(err)
	}

	return resp.Text, nil
}

// Info implements provider.Describer.
func (rt *RemoteTranscriber) Info() provider.Info {
	return provider.Info{Name: ProviderName, Model: openai.Whisper1}
}
