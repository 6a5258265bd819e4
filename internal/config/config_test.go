package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "localhost", cfg.Server.Host)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.S3.Enabled)
	require.Equal(t, "images", cfg.S3.BucketName)
	require.Equal(t, int64(10*1024*1024), cfg.App.MaxImageSize)
	require.Contains(t, cfg.App.AllowedFormats, ".png")
	require.Contains(t, cfg.App.AllowedFormats, ".webp")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("S3_ENABLED", "true")
	t.Setenv("S3_BUCKET_NAME", "frames")
	t.Setenv("APP_MAX_IMAGE_SIZE", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.S3.Enabled)
	require.Equal(t, "frames", cfg.S3.BucketName)
	require.Equal(t, int64(2048), cfg.App.MaxImageSize)
}

func TestLoadRejectsNegativeSize(t *testing.T) {
	t.Setenv("APP_MAX_IMAGE_SIZE", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestEnsureDirs(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "a", "b")
	cfg := &Config{App: AppConfig{ImageRoot: root}}

	require.NoError(t, EnsureDirs(cfg))

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, EnsureDirs(&Config{}))
}
