package openai

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ClientConfig holds what is needed to reach the OpenAI API.
type ClientConfig struct {
	APIKey string
	// BaseURL overrides the default endpoint, e.g. for a proxy or a test server.
	BaseURL string
}

// NewClient builds a go-openai client. The client is safe for concurrent use
// and is shared by the transcription and formatting calls.
func NewClient(config ClientConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}
	return openai.NewClientWithConfig(clientConfig)
}
