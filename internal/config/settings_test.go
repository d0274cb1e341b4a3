package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/scorebook/internal/index"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings := DefaultSettings()
	settings.InputPath = "/archive"
	settings.MergeParts = true
	settings.S3.Bucket = "scores"
	settings.S3.SecretKey = "hunter2"
	require.NoError(t, settings.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2", "credentials are never saved")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/archive", loaded.InputPath)
	assert.True(t, loaded.MergeParts)
	assert.Equal(t, "scores", loaded.S3.Bucket)
	assert.Empty(t, loaded.S3.SecretKey)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"create_previews": true}`), 0644))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.True(t, settings.CreatePreviews)
	assert.Equal(t, 8, settings.MaxConcurrentFiles)
	assert.Equal(t, index.DefaultAllowedExtensions, settings.AllowedExtensions)
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SCOREBOOK_INPUT", " /from/env ")
	t.Setenv("SCOREBOOK_SINK", "S3")
	t.Setenv("SCOREBOOK_S3_ENDPOINT", "minio:9000")
	t.Setenv("SCOREBOOK_S3_BUCKET", "scores")
	t.Setenv("SCOREBOOK_S3_USE_SSL", "false")
	t.Setenv("SCOREBOOK_S3_ACCESS_KEY", "")
	t.Setenv("MINIO_ROOT_USER", "minio")
	t.Setenv("SCOREBOOK_S3_SECRET_KEY", "secret")
	t.Setenv("SCOREBOOK_POSTGRES_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/scores")

	settings := DefaultSettings()
	settings.ApplyEnv()

	assert.Equal(t, "/from/env", settings.InputPath)
	assert.Equal(t, SinkS3, settings.Sink)
	assert.Equal(t, "minio:9000", settings.S3.Endpoint)
	assert.False(t, settings.S3.UseSSL)
	assert.Equal(t, "minio", settings.S3.AccessKey)
	assert.Equal(t, "secret", settings.S3.SecretKey)
	assert.Equal(t, "postgres://localhost/scores", settings.PostgresDSN)
	require.NoError(t, settings.Validate())

	cfg := settings.ToS3Config()
	assert.Equal(t, "scores", cfg.Bucket)
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestLoadEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SCOREBOOK_OUTPUT=/from/dotenv\n"), 0644))
	t.Setenv("SCOREBOOK_OUTPUT", "")
	os.Unsetenv("SCOREBOOK_OUTPUT")

	settings := DefaultSettings()
	settings.LoadEnv(path)
	assert.Equal(t, "/from/dotenv", settings.OutputPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"no input", func(s *Settings) { s.InputPath = "" }, true},
		{"no output", func(s *Settings) { s.OutputPath = " " }, true},
		{"s3 without bucket", func(s *Settings) { s.Sink = SinkS3; s.S3.Endpoint = "x" }, true},
		{"unknown sink", func(s *Settings) { s.Sink = "ftp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToOptions(t *testing.T) {
	s := DefaultSettings()
	s.ContinueOnError = true
	s.MergeParts = true
	s.CreatePreviews = true

	idx := s.ToIndexOptions()
	assert.Equal(t, index.PolicyContinue, idx.Policy)
	assert.True(t, idx.MergeParts)

	pub := s.ToPublishOptions()
	assert.True(t, pub.Previews)
	assert.Equal(t, 8, pub.Concurrency)
	assert.False(t, pub.StampAudio, "audio is copied verbatim unless stamping is enabled")
}
