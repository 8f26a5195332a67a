package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"lyriq/internal/app/api/provider"
	"lyriq/internal/app/audio"
	"lyriq/internal/app/lyrics"
	"lyriq/internal/config"
)

func TestInitializePipeline_UsesConfiguredEndpoint(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Bearer sk-wired", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/v1/audio/transcriptions":
			_, _ = w.Write([]byte("hello darkness my old friend"))
		case "/v1/chat/completions":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "Hello darkness,\nmy old friend"}},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	settings := config.DefaultSettings()
	settings.OpenAI.BaseURL = server.URL + "/v1/"

	pipeline := InitializePipeline(settings, config.APIKey("sk-wired"), zap.NewNop(), provider.NewMetrics(prometheus.NewRegistry()))

	upload, err := audio.NewUpload("song.mp3", "audio/mpeg", []byte("ID3"))
	require.NoError(t, err)

	out := pipeline.Run(context.Background(), upload, nil)
	require.Equal(t, lyrics.StageDone, out.Stage)
	assert.Equal(t, "Hello darkness,\nmy old friend", out.Lyrics)
	assert.False(t, out.Fallback)
	assert.Equal(t, []string{"/v1/audio/transcriptions", "/v1/chat/completions"}, paths)
}
