// Package config provides configuration management for scorebook.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment and .env overrides for storage credentials
//   - Conversion to index and publish options for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Reads ~/Scores, writes ~/Scores/_site
//	// mp3 parts are copied verbatim, no previews
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// LoadEnv reads a .env file when one exists and then applies SCOREBOOK_*
// variables on top of the file settings. S3 credentials and the Postgres DSN
// are only ever taken from the environment:
//
//	SCOREBOOK_INPUT, SCOREBOOK_OUTPUT, SCOREBOOK_SINK
//	SCOREBOOK_S3_ENDPOINT, SCOREBOOK_S3_REGION, SCOREBOOK_S3_BUCKET,
//	SCOREBOOK_S3_PREFIX, SCOREBOOK_S3_USE_SSL
//	SCOREBOOK_S3_ACCESS_KEY (or MINIO_ROOT_USER)
//	SCOREBOOK_S3_SECRET_KEY (or MINIO_ROOT_PASSWORD)
//	SCOREBOOK_POSTGRES_DSN (or DATABASE_URL)
//
// Command-line flags are applied last by the commands themselves.
package config
