package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"lyriq/internal/app"
	"lyriq/internal/app/audio"
	apperrors "lyriq/internal/app/errors"
	"lyriq/internal/app/logging"
	"lyriq/internal/app/lyrics"
	"lyriq/internal/app/progress"
)

var noProgress bool

func init() {
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not show stage spinners")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe one audio file and print it formatted as lyrics",
	Long: `Transcribe one audio file and print it formatted as lyrics

- Accepts mp3, wav, m4a, flac and ogg files
- Prints the lyrics to stdout; stage spinners go to stderr
- Falls back to the raw transcript when formatting fails`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		rt, err := app.LoadRuntime(configPath)
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if verbose {
			if logger, err = logging.New(true, rt.Settings.Log.Level); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
		}

		pipeline := app.InitializePipeline(rt.Settings, rt.APIKey, logger, nil)
		tracker := progress.NewStageTracker(progress.Config{
			Enabled: !noProgress && progress.IsTTY(os.Stderr),
			Writer:  os.Stderr,
		})
		return Run(cmd.Context(), pipeline, args[0], cmd.OutOrStdout(), tracker)
	},
}

// Run reads the file at path, runs one interaction and prints the lyrics to out.
func Run(ctx context.Context, runner lyrics.Runner, path string, out io.Writer, tracker *progress.StageTracker) error {
	if ctx == nil {
		ctx = context.Background()
	}

	filename := filepath.Base(path)
	if err := audio.ValidateFilename(filename); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrap(err, "failed to read audio file")
	}
	upload, err := audio.NewUpload(filename, "", data)
	if err != nil {
		return err
	}

	outcome := runner.Run(ctx, upload, tracker.Observe)
	tracker.Wait()

	if outcome.Err != nil {
		return apperrors.Wrap(outcome.Err, "Transcription error")
	}
	_, err = fmt.Fprintln(out, outcome.Lyrics)
	return err
}
