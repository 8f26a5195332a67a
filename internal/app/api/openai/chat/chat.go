package chat

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
	"lyriq/internal/app/api/provider"
	apperrors "lyriq/internal/app/errors"
)

// ProviderName labels this provider in logs and metrics.
const ProviderName = "openai/chat"

const (
	// Model is the chat model used for formatting.
	Model = openai.GPT4
	// Temperature is fixed; outputs still vary between calls.
	Temperature float32 = 0.5

	SystemInstruction = "You are a helpful assistant that formats plain text as song lyrics, adding appropriate line breaks."
	userPromptPrefix  = "Format the following transcript as lyrics:\n\n"
)

// LyricsFormatter asks a chat model to re-break a transcript as lyrics.
type LyricsFormatter struct {
	client *openai.Client
}

// NewLyricsFormatter creates a formatter backed by client.
func NewLyricsFormatter(client *openai.Client) *LyricsFormatter {
	return &LyricsFormatter{client: client}
}

// UserPrompt embeds the transcript verbatim in the user message.
func UserPrompt(transcript string) string {
	return userPromptPrefix + transcript
}

// Format sends the transcript to the chat model. Any failure, including an
// empty completion, is returned as a failed result rather than an error.
func (f *LyricsFormatter) Format(ctx context.Context, transcript string) provider.FormatResult {
	request := openai.ChatCompletionRequest{
		Model: Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: UserPrompt(transcript),
			},
		},
		Temperature: Temperature,
	}

	resp, err := f.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return provider.FormatFailed(apperrors.Wrap(err, "chat completion failed"))
	}
	if len(resp.Choices) == 0 {
		return provider.FormatFailed(apperrors.Wrap(apperrors.ErrEmptyCompletion, "no choices"))
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return provider.FormatFailed(apperrors.ErrEmptyCompletion)
	}
	return provider.Formatted(text)
}

// Info implements provider.Describer.
func (f *LyricsFormatter) Info() provider.Info {
	return provider.Info{Name: ProviderName, Model: Model}
}
