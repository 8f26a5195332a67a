package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"lyriq/internal/api/middleware"
	"lyriq/internal/api/v1/dto"
	"lyriq/internal/app/api/provider"
	"lyriq/internal/app/audio"
	"lyriq/internal/app/lyrics"
	"lyriq/web"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, upload *audio.Upload, observe lyrics.Observer) *lyrics.Outcome {
	args := m.Called(ctx, upload, observe)
	return args.Get(0).(*lyrics.Outcome)
}

// walk replays the stages a real interaction would pass through.
func walk(final lyrics.Stage) func(mock.Arguments) {
	return func(args mock.Arguments) {
		observe, _ := args.Get(2).(lyrics.Observer)
		if observe == nil {
			return
		}
		observe(lyrics.StageFileUploaded)
		observe(lyrics.StageTranscribing)
		if final == lyrics.StageDone {
			observe(lyrics.StageFormatting)
		}
		observe(final)
	}
}

func setupRouter(t *testing.T, runner lyrics.Runner) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zap.NewNop()))

	handler := NewLyricsHandler(runner, web.MustTemplates(), nil)
	router.GET("/", handler.Page)
	router.POST("/transcribe", handler.Transcribe)
	return router
}

func uploadRequest(t *testing.T, filename, accept string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("ID3 fake audio"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req
}

type sseEvent struct {
	Name string
	Data string
}

func parseEvents(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				ev.Data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
		if ev.Name != "" {
			events = append(events, ev)
		}
	}
	return events
}

func TestLyricsHandler_Page(t *testing.T) {
	router := setupRouter(t, new(mockRunner))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "🎤 Lyriq.AI")
	assert.Contains(t, rec.Body.String(), `accept=".mp3,.wav,.m4a,.flac,.ogg"`)
}

func TestLyricsHandler_TranscribeHTML(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		outcome      *lyrics.Outcome
		expectRun    bool
		expectStatus int
		contains     []string
		notContains  []string
	}{
		{
			name:         "formatted lyrics are shown",
			filename:     "song.mp3",
			outcome:      &lyrics.Outcome{Stage: lyrics.StageDone, Transcript: "raw", Lyrics: "line one\nline two"},
			expectRun:    true,
			expectStatus: http.StatusOK,
			contains:     []string{`readonly style="height: 300px">line one` + "\nline two</textarea>", "Done!", `<section id="result">`},
		},
		{
			name:         "fallback lyrics look the same as formatted ones",
			filename:     "song.wav",
			outcome:      &lyrics.Outcome{Stage: lyrics.StageDone, Transcript: "raw words", Lyrics: "raw words", Fallback: true},
			expectRun:    true,
			expectStatus: http.StatusOK,
			contains:     []string{">raw words</textarea>", "Done!"},
			notContains:  []string{"❌"},
		},
		{
			name:         "transcription failure shows a banner and no lyrics",
			filename:     "song.ogg",
			outcome:      &lyrics.Outcome{Stage: lyrics.StageError, Err: &provider.TranscriptionError{Code: "invalid_file", Message: "Invalid audio file format"}},
			expectRun:    true,
			expectStatus: http.StatusBadGateway,
			contains:     []string{"❌ Transcription error: Invalid audio file format", `<section id="result" hidden>`},
			notContains:  []string{"<textarea", "Done!"},
		},
		{
			name:     "transcription failure lists what the user can do",
			filename: "song.mp3",
			outcome: &lyrics.Outcome{Stage: lyrics.StageError, Err: &provider.TranscriptionError{
				Code:        "authentication_failed",
				Message:     "OpenAI API key is invalid or missing",
				Suggestions: []string{"Check your OPENAI_API_KEY environment variable"},
			}},
			expectRun:    true,
			expectStatus: http.StatusBadGateway,
			contains: []string{
				"❌ Transcription error: OpenAI API key is invalid or missing",
				"<li>suggestion: Check your OPENAI_API_KEY environment variable</li>",
			},
			notContains: []string{"<textarea"},
		},
		{
			name:         "unsupported extension is rejected before any call",
			filename:     "notes.txt",
			expectStatus: http.StatusUnprocessableEntity,
			contains:     []string{"file type is not supported", `<section id="result" hidden>`},
		},
		{
			name:         "missing file is rejected before any call",
			expectStatus: http.StatusUnprocessableEntity,
			contains:     []string{"file: is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			if tt.expectRun {
				runner.On("Run", mock.Anything, mock.MatchedBy(func(u *audio.Upload) bool {
					return u.Filename() == tt.filename
				}), mock.Anything).Return(tt.outcome).Once()
			}
			router := setupRouter(t, runner)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, tt.filename, "text/html,application/xhtml+xml,*/*;q=0.8"))

			assert.Equal(t, tt.expectStatus, rec.Code)
			body := rec.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
			runner.AssertExpectations(t)
			if !tt.expectRun {
				runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestLyricsHandler_TranscribeStream(t *testing.T) {
	t.Run("stages then done", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", mock.Anything, mock.Anything, mock.Anything).
			Run(walk(lyrics.StageDone)).
			Return(&lyrics.Outcome{Stage: lyrics.StageDone, Lyrics: "la la la", Fallback: true}).Once()
		router := setupRouter(t, runner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "song.m4a", MIMEEventStream))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), MIMEEventStream), rec.Header().Get("Content-Type"))

		events := parseEvents(t, rec.Body.String())
		require.Len(t, events, 3)
		assert.Equal(t, EventStage, events[0].Name)
		assert.Equal(t, EventStage, events[1].Name)
		assert.Equal(t, EventDone, events[2].Name)

		var first, second dto.StageEvent
		require.NoError(t, json.Unmarshal([]byte(events[0].Data), &first))
		require.NoError(t, json.Unmarshal([]byte(events[1].Data), &second))
		assert.Equal(t, dto.StageEvent{Stage: "transcribing", Text: lyrics.TranscribingText}, first)
		assert.Equal(t, dto.StageEvent{Stage: "formatting", Text: lyrics.FormattingText}, second)

		assert.JSONEq(t, `{"lyrics":"la la la"}`, events[2].Data)
		runner.AssertExpectations(t)
	})

	t.Run("transcription error ends the stream", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", mock.Anything, mock.Anything, mock.Anything).
			Run(walk(lyrics.StageError)).
			Return(&lyrics.Outcome{Stage: lyrics.StageError, Err: errors.New("connection reset")}).Once()
		router := setupRouter(t, runner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "song.flac", MIMEEventStream))

		events := parseEvents(t, rec.Body.String())
		require.Len(t, events, 2)
		assert.Equal(t, EventStage, events[0].Name)
		assert.Equal(t, EventError, events[1].Name)
		assert.JSONEq(t, `{"message":"Transcription error: connection reset"}`, events[1].Data)
	})

	t.Run("validation error is a single error event", func(t *testing.T) {
		runner := new(mockRunner)
		router := setupRouter(t, runner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "video.webm", MIMEEventStream))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		events := parseEvents(t, rec.Body.String())
		require.Len(t, events, 1)
		assert.Equal(t, EventError, events[0].Name)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLyricsHandler_TranscribeJSON(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Return(&lyrics.Outcome{Stage: lyrics.StageDone, Lyrics: "verse"}).Once()
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Return(&lyrics.Outcome{Stage: lyrics.StageError, Err: errors.New("quota exceeded")}).Once()
	router := setupRouter(t, runner)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "song.mp3", gin.MIMEJSON))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"lyrics":"verse"}`, rec.Body.String())

	// Same file again: the runner is called a second time.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "song.mp3", gin.MIMEJSON))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream", body["kind"])
	assert.Equal(t, "Transcription error: quota exceeded", body["message"])
	assert.NotEmpty(t, body["request_id"])

	runner.AssertNumberOfCalls(t, "Run", 2)
}

func TestLyricsHandler_TranscriptionErrorDetails(t *testing.T) {
	rateLimited := &lyrics.Outcome{Stage: lyrics.StageError, Err: &provider.TranscriptionError{
		Code:        "rate_limit_exceeded",
		Message:     "OpenAI API rate limit exceeded",
		Retryable:   true,
		Suggestions: []string{"Wait a moment and try again"},
	}}

	t.Run("json body", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(rateLimited).Once()
		router := setupRouter(t, runner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "song.mp3", gin.MIMEJSON))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "rate_limit_exceeded", body["code"])
		assert.Equal(t, true, body["retryable"])
		assert.Equal(t, map[string]interface{}{"suggestion": "Wait a moment and try again"}, body["details"])
	})

	t.Run("event stream", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", mock.Anything, mock.Anything, mock.Anything).
			Run(walk(lyrics.StageError)).
			Return(rateLimited).Once()
		router := setupRouter(t, runner)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "song.mp3", MIMEEventStream))

		events := parseEvents(t, rec.Body.String())
		require.Len(t, events, 2)
		assert.Equal(t, EventError, events[1].Name)
		assert.JSONEq(t, `{"message":"Transcription error: OpenAI API rate limit exceeded","details":{"suggestion":"Wait a moment and try again"}}`, events[1].Data)
	})
}
