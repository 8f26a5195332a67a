package main

import (
	"fmt"
	"os"

	"lyriq/cmd/lyriq/cmd"
	"lyriq/internal/config"
)

func main() {
	// A .env file is optional; variables already set in the process win.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
	}

	cmd.Execute()
}
