package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
	apierrors "lyriq/internal/api/errors"
	"lyriq/internal/api/middleware"
	"lyriq/internal/api/v1/dto"
	"lyriq/internal/app/audio"
	"lyriq/internal/app/lyrics"
	"lyriq/web"
)

// MIMEEventStream is the Accept value that selects the streaming response.
const MIMEEventStream = "text/event-stream"

// Server-sent event names.
const (
	EventStage = "stage"
	EventDone  = "done"
	EventError = "error"
)

// LyricsHandler serves the page and runs interactions.
type LyricsHandler struct {
	runner lyrics.Runner
	page   *template.Template
	logger *zap.Logger
}

// NewLyricsHandler creates a new lyrics handler
func NewLyricsHandler(runner lyrics.Runner, page *template.Template, logger *zap.Logger) *LyricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LyricsHandler{
		runner: runner,
		page:   page,
		logger: logger,
	}
}

// Page handles GET /
func (h *LyricsHandler) Page(c *gin.Context) {
	h.render(c, http.StatusOK, web.NewPage())
}

// Transcribe handles POST /transcribe.
// The Accept header picks the response: an event stream, JSON, or the
// rendered page (the default, so the form works without scripts).
func (h *LyricsHandler) Transcribe(c *gin.Context) {
	format := c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON, MIMEEventStream)

	var form dto.UploadForm
	if err := middleware.ValidateForm(c, &form); err != nil {
		h.fail(c, format, err)
		return
	}

	upload, err := audio.FromMultipart(form.File)
	if err != nil {
		h.fail(c, format, apierrors.FromUploadError(err))
		return
	}

	if format == MIMEEventStream {
		h.stream(c, upload)
		return
	}

	outcome := h.runner.Run(c.Request.Context(), upload, nil)
	if outcome.Err != nil {
		h.fail(c, format, apierrors.NewTranscriptionError(outcome.Err))
		return
	}

	if format == gin.MIMEJSON {
		c.JSON(http.StatusOK, dto.LyricsResponse{Lyrics: outcome.Lyrics})
		return
	}

	page := web.NewPage()
	page.Filename = upload.Filename()
	page.Lyrics = outcome.Lyrics
	page.Done = true
	h.render(c, http.StatusOK, page)
}

// stream runs the interaction and reports every in-flight stage as it starts.
// Exactly one terminal event follows.
func (h *LyricsHandler) stream(c *gin.Context, upload *audio.Upload) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	observe := func(stage lyrics.Stage) {
		text := stage.ProgressText()
		if text == "" {
			return
		}
		c.SSEvent(EventStage, dto.StageEvent{Stage: stage.String(), Text: text})
		c.Writer.Flush()
	}

	outcome := h.runner.Run(c.Request.Context(), upload, observe)
	if outcome.Err != nil {
		apiErr := apierrors.NewTranscriptionError(outcome.Err)
		c.SSEvent(EventError, dto.ErrorEvent{Message: apiErr.Message, Details: apiErr.Details})
	} else {
		c.SSEvent(EventDone, dto.LyricsResponse{Lyrics: outcome.Lyrics})
	}
	c.Writer.Flush()
}

func (h *LyricsHandler) fail(c *gin.Context, format string, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		middleware.HandleError(c, err)
		return
	}
	_ = c.Error(err)

	switch format {
	case gin.MIMEJSON:
		middleware.HandleError(c, apiErr)
	case MIMEEventStream:
		c.Status(apiErr.HTTPStatus())
		c.SSEvent(EventError, dto.ErrorEvent{Message: apiErr.Message, Details: apiErr.Details})
		c.Writer.Flush()
	default:
		page := web.NewPage()
		page.Error = apiErr.Message
		page.Details = apiErr.Details
		h.render(c, apiErr.HTTPStatus(), page)
	}
}

func (h *LyricsHandler) render(c *gin.Context, status int, page web.Page) {
	c.Render(status, render.HTML{
		Template: h.page,
		Name:     web.PageTemplate,
		Data:     page,
	})
}
