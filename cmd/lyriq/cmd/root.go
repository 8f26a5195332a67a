package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"lyriq/cmd/lyriq/cmd/serve"
	"lyriq/cmd/lyriq/cmd/transcribe"
	"lyriq/cmd/lyriq/cmd/version"
	"lyriq/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lyriq",
	Short: "Transcribe songs with Whisper and format the words as lyrics",
	Long: `Lyriq transcribes an uploaded audio file with OpenAI Whisper and asks GPT-4
to lay the transcript out as song lyrics. If formatting fails the raw transcript
is shown instead.

- lyriq serve starts the web page
- lyriq transcribe <file> does the same for one file from the terminal`,
	SilenceErrors:    true,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

func report(w io.Writer, err error) {
	if errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Fprintln(w, "🚨 "+config.MissingKeyMessage)
		return
	}
	fmt.Fprintln(w, "❌ "+err.Error())
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML settings file (default $"+config.ConfigPathEnv+")")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
}
