package lyrics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"lyriq/internal/app/api/provider"
	"lyriq/internal/app/audio"
	apperrors "lyriq/internal/app/errors"
)

// Observer is told about every stage the interaction enters, in order.
type Observer func(stage Stage)

// Outcome is the result of one interaction.
type Outcome struct {
	ID         string
	Stage      Stage
	Transcript string
	Lyrics     string
	// Fallback is set when Lyrics is the raw transcript because formatting failed.
	// It is recorded for logs and metrics only.
	Fallback  bool
	Err       error
	Durations map[Stage]time.Duration
}

// Runner runs interactions. *Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, upload *audio.Upload, observe Observer) *Outcome
}

// Pipeline transcribes an upload and then formats the transcript.
// The two remote calls are strictly sequential and nothing is cached,
// so running the same upload twice makes two fresh pairs of calls.
type Pipeline struct {
	transcriber provider.Transcriber
	formatter   provider.Formatter
	logger      *zap.Logger
	metrics     *provider.Metrics
}

// NewPipeline wires a pipeline. A nil logger is replaced with a no-op logger
// and nil metrics record nothing.
func NewPipeline(transcriber provider.Transcriber, formatter provider.Formatter, logger *zap.Logger, metrics *provider.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		transcriber: transcriber,
		formatter:   formatter,
		logger:      logger,
		metrics:     metrics,
	}
}

type interaction struct {
	outcome *Outcome
	observe Observer
}

func (it *interaction) enter(next Stage) error {
	if !it.outcome.Stage.CanTransition(next) {
		return apperrors.Wrapf(apperrors.ErrInvalidTransition, "%s -> %s", it.outcome.Stage, next)
	}
	it.outcome.Stage = next
	if it.observe != nil {
		it.observe(next)
	}
	return nil
}

// Run executes one interaction. A transcription failure ends in StageError
// with Err set; a formatting failure ends in StageDone with the transcript as
// the lyrics. A nil upload leaves the interaction Idle.
func (p *Pipeline) Run(ctx context.Context, upload *audio.Upload, observe Observer) *Outcome {
	it := &interaction{
		outcome: &Outcome{
			ID:        uuid.NewString(),
			Stage:     StageIdle,
			Durations: make(map[Stage]time.Duration, 2),
		},
		observe: observe,
	}
	out := it.outcome
	log := p.logger.With(zap.String("interaction_id", out.ID))

	if upload == nil {
		out.Err = apperrors.ErrEmptyUpload
		return out
	}

	p.mustEnter(it, StageFileUploaded)
	log.Info("file uploaded",
		zap.String("filename", upload.Filename()),
		zap.String("format", string(upload.Format())),
		zap.String("content_type", upload.ContentType()),
		zap.Int64("size_bytes", upload.Size()),
	)

	p.mustEnter(it, StageTranscribing)
	transcript, err := p.transcribe(ctx, log, upload, out)
	if err != nil {
		out.Err = err
		p.mustEnter(it, StageError)
		p.metrics.RecordInteraction(out.Stage.String(), false)
		return out
	}
	out.Transcript = transcript

	p.mustEnter(it, StageFormatting)
	result := p.format(ctx, log, transcript, out)
	out.Lyrics = result.OrElse(transcript)
	out.Fallback = !result.OK()

	p.mustEnter(it, StageDone)
	p.metrics.RecordInteraction(out.Stage.String(), out.Fallback)
	log.Info("interaction finished",
		zap.Bool("fallback", out.Fallback),
		zap.Int("lyrics_chars", len(out.Lyrics)),
	)
	return out
}

func (p *Pipeline) transcribe(ctx context.Context, log *zap.Logger, upload *audio.Upload, out *Outcome) (string, error) {
	name := providerName(p.transcriber, "transcriber")
	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, upload)
	elapsed := time.Since(start)
	out.Durations[StageTranscribing] = elapsed

	if err != nil {
		code := "unknown_error"
		var te *provider.TranscriptionError
		if errors.As(err, &te) {
			code = te.Code
		}
		p.metrics.RecordFailure(name, code, elapsed)
		log.Error("transcription failed",
			zap.String("provider", name),
			zap.String("code", code),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	p.metrics.RecordSuccess(name, elapsed)
	log.Info("transcription finished",
		zap.String("provider", name),
		zap.Duration("elapsed", elapsed),
		zap.Int("transcript_chars", len(transcript)),
	)
	return transcript, nil
}

func (p *Pipeline) format(ctx context.Context, log *zap.Logger, transcript string, out *Outcome) provider.FormatResult {
	name := providerName(p.formatter, "formatter")
	start := time.Now()
	result := p.formatter.Format(ctx, transcript)
	elapsed := time.Since(start)
	out.Durations[StageFormatting] = elapsed

	if !result.OK() {
		code := "format_failed"
		if errors.Is(result.Err(), apperrors.ErrEmptyCompletion) {
			code = "empty_completion"
		}
		p.metrics.RecordFailure(name, code, elapsed)
		log.Warn("formatting failed, showing raw transcript",
			zap.String("provider", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(result.Err()),
		)
		return result
	}

	p.metrics.RecordSuccess(name, elapsed)
	log.Debug("formatting finished", zap.String("provider", name), zap.Duration("elapsed", elapsed))
	return result
}

// mustEnter panics on an invalid transition; Run only requests legal ones.
func (p *Pipeline) mustEnter(it *interaction, next Stage) {
	if err := it.enter(next); err != nil {
		panic(err)
	}
}

func providerName(v interface{}, fallback string) string {
	if d, ok := v.(provider.Describer); ok {
		return d.Info().Name
	}
	return fallback
}
