package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	// Storage drivers selectable via STORAGE_DRIVER.
	DriverLocal = "local"
	DriverS3    = "s3"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Host        string
	Port        string
	CORSOrigins string // extra allowed origins, comma-separated
}

type DatabaseConfig struct {
	DSN string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type StorageConfig struct {
	Driver string
	Local  LocalStorageConfig
	S3     S3Config
}

type LocalStorageConfig struct {
	ImagesDir     string
	ThumbnailsDir string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Folder          string
	PublicBaseURL   string
}

type UploadConfig struct {
	MaxFileSize  int64
	ThumbSize    int
	ThumbMode    string // "fit" or "fill"
	ThumbQuality int
}

// Load builds the configuration from environment variables with sane local
// defaults. The result is passed explicitly into the components that need it;
// nothing reads the environment after startup.
func Load() (*Config, error) {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SERVER_HOST", "")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("DATABASE_URL", "gallery.db")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("STORAGE_DRIVER", DriverLocal)
	viper.SetDefault("STORAGE_IMAGES_DIR", "./uploads/images")
	viper.SetDefault("STORAGE_THUMBNAILS_DIR", "./uploads/thumbnails")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_ACCESS_KEY_ID", "")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET", "gallery")
	viper.SetDefault("S3_FOLDER", "gallery_images")
	viper.SetDefault("S3_PUBLIC_BASE_URL", "")
	viper.SetDefault("UPLOAD_MAX_FILE_SIZE", 5*1024*1024)
	viper.SetDefault("UPLOAD_THUMB_SIZE", 300)
	viper.SetDefault("UPLOAD_THUMB_MODE", "fit")
	viper.SetDefault("UPLOAD_THUMB_QUALITY", 80)

	viper.AutomaticEnv()

	cfg := &Config{
		Env: viper.GetString("APP_ENV"),
		Server: ServerConfig{
			Host:        viper.GetString("SERVER_HOST"),
			Port:        viper.GetString("SERVER_PORT"),
			CORSOrigins: viper.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			TTL:    viper.GetDuration("JWT_TTL"),
		},
		Storage: StorageConfig{
			Driver: viper.GetString("STORAGE_DRIVER"),
			Local: LocalStorageConfig{
				ImagesDir:     viper.GetString("STORAGE_IMAGES_DIR"),
				ThumbnailsDir: viper.GetString("STORAGE_THUMBNAILS_DIR"),
			},
			S3: S3Config{
				Endpoint:        viper.GetString("S3_ENDPOINT"),
				AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
				Region:          viper.GetString("S3_REGION"),
				Bucket:          viper.GetString("S3_BUCKET"),
				Folder:          viper.GetString("S3_FOLDER"),
				PublicBaseURL:   viper.GetString("S3_PUBLIC_BASE_URL"),
			},
		},
		Upload: UploadConfig{
			MaxFileSize:  viper.GetInt64("UPLOAD_MAX_FILE_SIZE"),
			ThumbSize:    viper.GetInt("UPLOAD_THUMB_SIZE"),
			ThumbMode:    viper.GetString("UPLOAD_THUMB_MODE"),
			ThumbQuality: viper.GetInt("UPLOAD_THUMB_QUALITY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if c.Env != "development" {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
		c.JWT.Secret = "dev-only-insecure-secret"
	}
	if c.Storage.Driver != DriverLocal && c.Storage.Driver != DriverS3 {
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverS3 {
		if c.Storage.S3.AccessKeyID == "" || c.Storage.S3.SecretAccessKey == "" {
			return fmt.Errorf("s3 storage requires S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
		}
	}
	if c.Upload.ThumbMode != "fit" && c.Upload.ThumbMode != "fill" {
		return fmt.Errorf("unknown thumbnail mode %q", c.Upload.ThumbMode)
	}
	return nil
}

// EnsureLocalDirs creates the two local asset directories. Called from main
// when the local driver is selected.
func (c *Config) EnsureLocalDirs() error {
	for _, dir := range []string{c.Storage.Local.ImagesDir, c.Storage.Local.ThumbnailsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory %s: %w", dir, err)
		}
	}
	return nil
}
