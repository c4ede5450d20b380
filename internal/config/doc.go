// Package config provides configuration management for fotoshare-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to PathConfig for the model package
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./<album-id>
//	// 4 concurrent workers
//	// 3 retries with exponential cooldown
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Credentials
//
// Email and Password are carried on Settings for the lifetime of the
// process only. They are tagged `json:"-"` so Save never writes them to
// disk.
package config
