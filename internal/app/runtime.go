package app

import (
	"os"

	"lyriq/internal/config"
)

// Runtime is the startup state every command needs.
type Runtime struct {
	Settings *config.Settings
	APIKey   config.APIKey
}

// LoadRuntime resolves the API key and the settings. The key is checked
// first so a missing key is reported even when the settings are also broken.
// An empty configPath falls back to $LYRIQ_CONFIG.
func LoadRuntime(configPath string) (*Runtime, error) {
	apiKey, err := config.LoadCredential()
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = os.Getenv(config.ConfigPathEnv)
	}
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return nil, err
	}

	return &Runtime{Settings: settings, APIKey: apiKey}, nil
}
