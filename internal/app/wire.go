//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	openaiclient "lyriq/internal/app/api/openai"
	"lyriq/internal/app/api/openai/chat"
	"lyriq/internal/app/api/openai/whisper"
	"lyriq/internal/app/api/provider"
	"lyriq/internal/app/lyrics"
	"lyriq/internal/config"
)

// provideOpenAIClient builds the single client shared by both remote calls.
func provideOpenAIClient(settings *config.Settings, apiKey config.APIKey) *openai.Client {
	return openaiclient.NewClient(openaiclient.ClientConfig{
		APIKey:  string(apiKey),
		BaseURL: settings.OpenAI.BaseURL,
	})
}

var remoteSet = wire.NewSet(
	provideOpenAIClient,
	whisper.NewRemoteTranscriber,
	chat.NewLyricsFormatter,
	wire.Bind(new(provider.Transcriber), new(*whisper.RemoteTranscriber)),
	wire.Bind(new(provider.Formatter), new(*chat.LyricsFormatter)),
)

// InitializePipeline builds the interaction pipeline from startup configuration.
func InitializePipeline(settings *config.Settings, apiKey config.APIKey, logger *zap.Logger, metrics *provider.Metrics) *lyrics.Pipeline {
	wire.Build(remoteSet, lyrics.NewPipeline)
	return &lyrics.Pipeline{}
}
