package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type LogConfig struct {
	Level string
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

// AppConfig controls image inspection over HTTP. ImageRoot confines local
// paths and MaxImageSize caps lookups and uploads; read_image in the CLI and
// wasm hosts uses neither.
type AppConfig struct {
	ImageRoot      string
	MaxImageSize   int64
	AllowedFormats []string
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("S3_ENABLED", false)
	viper.SetDefault("S3_ENDPOINT", "localhost:9000")
	viper.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	viper.SetDefault("S3_USE_SSL", false)
	viper.SetDefault("S3_BUCKET_NAME", "images")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("APP_IMAGE_ROOT", "./images")
	viper.SetDefault("APP_MAX_IMAGE_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("APP_ALLOWED_FORMATS", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"})

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		S3: S3Config{
			Enabled:         viper.GetBool("S3_ENABLED"),
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          viper.GetBool("S3_USE_SSL"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			Region:          viper.GetString("S3_REGION"),
		},
		App: AppConfig{
			ImageRoot:      viper.GetString("APP_IMAGE_ROOT"),
			MaxImageSize:   viper.GetInt64("APP_MAX_IMAGE_SIZE"),
			AllowedFormats: viper.GetStringSlice("APP_ALLOWED_FORMATS"),
		},
	}

	if cfg.App.MaxImageSize < 0 {
		return nil, fmt.Errorf("APP_MAX_IMAGE_SIZE must not be negative, got %d", cfg.App.MaxImageSize)
	}

	return cfg, nil
}

// EnsureDirs creates the directories the HTTP host reads from.
func EnsureDirs(cfg *Config) error {
	dirs := []string{
		cfg.App.ImageRoot,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
