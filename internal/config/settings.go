package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/handiism/scorebook/internal/index"
	"github.com/handiism/scorebook/internal/publish"
)

// Sink names accepted by Settings.Sink.
const (
	SinkLocal = "local"
	SinkS3    = "s3"
)

// Settings holds all configuration options.
type Settings struct {
	// Paths
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`

	// Indexing
	Untagged          bool     `json:"untagged"`
	ContinueOnError   bool     `json:"continue_on_error"`
	AllowedExtensions []string `json:"allowed_extensions"`
	MergeParts        bool     `json:"merge_parts"`
	ResolverCacheSize int      `json:"resolver_cache_size"`

	// Publishing
	MaxConcurrentFiles int  `json:"max_concurrent_files"`
	CreatePreviews     bool `json:"create_previews"`
	PreviewMaxSize     int  `json:"preview_max_size"`
	PreviewQuality     int  `json:"preview_quality"`
	StampAudio         bool `json:"stamp_audio"`

	// Retry settings for sink writes
	WriteMaxRetries    int     `json:"write_max_retries"`
	WriteRetryCooldown float64 `json:"write_retry_cooldown"`
	WriteRetryExponent float64 `json:"write_retry_exponent"`

	// Storage
	Sink string     `json:"sink"` // local, s3
	S3   S3Settings `json:"s3"`

	// PostgresDSN enables the database export. Environment only.
	PostgresDSN string `json:"-"`
}

// S3Settings locates the bucket used by the s3 sink. Credentials are only
// read from the environment and never saved.
type S3Settings struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	UseSSL    bool   `json:"use_ssl"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		InputPath:  filepath.Join(homeDir, "Scores"),
		OutputPath: filepath.Join(homeDir, "Scores", "_site"),

		AllowedExtensions: append([]string(nil), index.DefaultAllowedExtensions...),
		ResolverCacheSize: 4096,

		MaxConcurrentFiles: 8,
		PreviewMaxSize:     publish.DefaultPreviewMaxSize,
		PreviewQuality:     85,
		StampAudio:         false,

		WriteMaxRetries:    3,
		WriteRetryCooldown: 0.2,
		WriteRetryExponent: 4.0,

		Sink: SinkLocal,
		S3: S3Settings{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// Load reads settings from a JSON file. A missing file yields the defaults.
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
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
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

// LoadEnv loads the given dotenv files (".env" when none are named) into the
// process environment and applies the environment overrides. Missing dotenv
// files are not an error.
func (s *Settings) LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
	s.ApplyEnv()
}

// ApplyEnv overrides settings from SCOREBOOK_* environment variables.
func (s *Settings) ApplyEnv() {
	s.InputPath = firstNonEmpty(env("SCOREBOOK_INPUT"), s.InputPath)
	s.OutputPath = firstNonEmpty(env("SCOREBOOK_OUTPUT"), s.OutputPath)
	s.Sink = strings.ToLower(firstNonEmpty(env("SCOREBOOK_SINK"), s.Sink))

	s.S3.Endpoint = firstNonEmpty(env("SCOREBOOK_S3_ENDPOINT"), s.S3.Endpoint)
	s.S3.Region = firstNonEmpty(env("SCOREBOOK_S3_REGION"), s.S3.Region, "us-east-1")
	s.S3.Bucket = firstNonEmpty(env("SCOREBOOK_S3_BUCKET"), s.S3.Bucket)
	s.S3.Prefix = firstNonEmpty(env("SCOREBOOK_S3_PREFIX"), s.S3.Prefix)
	s.S3.AccessKey = firstNonEmpty(env("SCOREBOOK_S3_ACCESS_KEY"), env("MINIO_ROOT_USER"), s.S3.AccessKey)
	s.S3.SecretKey = firstNonEmpty(env("SCOREBOOK_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD"), s.S3.SecretKey)
	if raw := env("SCOREBOOK_S3_USE_SSL"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			s.S3.UseSSL = v
		}
	}

	s.PostgresDSN = firstNonEmpty(env("SCOREBOOK_POSTGRES_DSN"), env("DATABASE_URL"), s.PostgresDSN)
}

// Validate reports settings that cannot start a run.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.InputPath) == "" {
		return fmt.Errorf("input path is required")
	}
	switch s.Sink {
	case SinkLocal, "":
		if strings.TrimSpace(s.OutputPath) == "" {
			return fmt.Errorf("output path is required")
		}
	case SinkS3:
		if s.S3.Endpoint == "" || s.S3.Bucket == "" {
			return fmt.Errorf("s3 sink needs an endpoint and a bucket")
		}
	default:
		return fmt.Errorf("unknown sink %q", s.Sink)
	}
	return nil
}

// ToIndexOptions converts settings to walker options.
func (s *Settings) ToIndexOptions() index.Options {
	policy := index.PolicyAbort
	if s.ContinueOnError {
		policy = index.PolicyContinue
	}
	return index.Options{
		Policy:            policy,
		AllowedExtensions: s.AllowedExtensions,
		MergeParts:        s.MergeParts,
	}
}

// ToPublishOptions converts settings to publisher options.
func (s *Settings) ToPublishOptions() publish.Options {
	return publish.Options{
		Concurrency:    s.MaxConcurrentFiles,
		Previews:       s.CreatePreviews,
		PreviewMaxSize: s.PreviewMaxSize,
		PreviewQuality: s.PreviewQuality,
		StampAudio:     s.StampAudio,
	}
}

// ToRetryPolicy converts settings to the sink retry policy.
func (s *Settings) ToRetryPolicy() publish.RetryPolicy {
	return publish.RetryPolicy{
		MaxRetries: s.WriteMaxRetries,
		Cooldown:   s.WriteRetryCooldown,
		Exponent:   s.WriteRetryExponent,
	}
}

// ToS3Config converts settings to the s3 sink configuration.
func (s *Settings) ToS3Config() publish.S3Config {
	return publish.S3Config{
		Endpoint:  s.S3.Endpoint,
		Region:    s.S3.Region,
		AccessKey: s.S3.AccessKey,
		SecretKey: s.S3.SecretKey,
		Bucket:    s.S3.Bucket,
		Prefix:    s.S3.Prefix,
		UseSSL:    s.S3.UseSSL,
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
