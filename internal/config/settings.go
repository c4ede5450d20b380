package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/handiism/fotoshare-downloader/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputPath            string  `json:"output_path"`
	Workers               int     `json:"workers"`
	DownloadMaxRetries    int     `json:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent"`

	// Site settings
	LoginURL  string `json:"login_url"`
	UserAgent string `json:"user_agent"`

	// Image post-processing
	ResizeDownloads bool `json:"resize_downloads"`
	ResizeMaxSize   int  `json:"resize_max_size"`

	// Credentials are consumed once at startup and never persisted.
	Email    string `json:"-"`
	Password string `json:"-"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputPath:            "./{album}",
		Workers:               4,
		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.5,
		DownloadRetryExponent: 3.0,

		LoginURL:  "https://fotoshare.co/login",
		UserAgent: "Mozilla/5.0 (compatible; fotoshare-downloader/1.0)",

		ResizeDownloads: false,
		ResizeMaxSize:   2048,
	}
}

// Load reads settings from a JSON file.
//
// Missing files are not an error; defaults are returned so a config file
// is always optional.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
//
// Credentials are excluded from serialization and never reach disk.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// HasCredentials reports whether both email and password were supplied.
func (s *Settings) HasCredentials() bool {
	return s.Email != "" && s.Password != ""
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputPath: s.OutputPath,
	}
}
