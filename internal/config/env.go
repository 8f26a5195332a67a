package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	apperrors "lyriq/internal/app/errors"
)

// APIKeyEnv is the environment variable holding the remote service key.
const APIKeyEnv = "OPENAI_API_KEY"

// MissingKeyMessage is shown to the operator when the key cannot be found.
const MissingKeyMessage = "OpenAI API key not found. Set " + APIKeyEnv + " in your environment or in .env."

// ErrMissingAPIKey is returned when the API key is absent or blank.
var ErrMissingAPIKey = apperrors.ErrMissingAPIKey

// APIKey is the secret used to authenticate against the remote services.
// It is never logged.
type APIKey string

// envPaths are tried in order; the first existing file wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from a .env file if one exists.
// Variables already present in the process environment take precedence.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		abs, err := filepath.Abs(envPath)
		if err != nil {
			abs = envPath
		}
		return abs, nil
	}
	return "", nil
}

// LoadCredential reads the API key from the environment.
// A missing or blank key is a configuration error and is never retried.
func LoadCredential() (APIKey, error) {
	key := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if key == "" {
		return "", apperrors.Wrapf(ErrMissingAPIKey, "%s is not set", APIKeyEnv)
	}
	return APIKey(key), nil
}
