package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Image host selectors for IMAGE_HOST.
const (
	ImageHostImgBB = "imgbb"
	ImageHostS3    = "s3"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"` // Base64 encoded service account JSON

	ImageHost      string `mapstructure:"IMAGE_HOST"`
	ImageMaxBytes  int64  `mapstructure:"IMAGE_MAX_BYTES"`
	ImgBBAPIKey    string `mapstructure:"IMGBB_API_KEY"`
	ImgBBUploadURL string `mapstructure:"IMGBB_UPLOAD_URL"`

	S3Region          string `mapstructure:"S3_REGION"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3PublicURL       string `mapstructure:"S3_PUBLIC_URL"`
}

// LoadConfig loads configuration from environment variables using Viper.
// Outside release mode a local .env file is folded in first; variables
// already present in the environment always win over it.
func LoadConfig() (*Config, error) {
	if strings.ToLower(os.Getenv("GIN_MODE")) != "release" {
		// A missing .env file is fine.
		_ = godotenv.Load()
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("IMAGE_HOST", ImageHostImgBB)
	viper.SetDefault("IMAGE_MAX_BYTES", 10<<20)

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("IMAGE_HOST")
	viper.BindEnv("IMAGE_MAX_BYTES")
	viper.BindEnv("IMGBB_API_KEY")
	viper.BindEnv("IMGBB_UPLOAD_URL")
	viper.BindEnv("S3_REGION")
	viper.BindEnv("S3_BUCKET")
	viper.BindEnv("S3_ACCESS_KEY_ID")
	viper.BindEnv("S3_SECRET_ACCESS_KEY")
	viper.BindEnv("S3_ENDPOINT")
	viper.BindEnv("S3_PUBLIC_URL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.ImageMaxBytes < 0 {
		return nil, errors.New("IMAGE_MAX_BYTES cannot be negative")
	}
	switch cfg.ImageHost {
	case ImageHostImgBB:
		if cfg.ImgBBAPIKey == "" {
			return nil, errors.New("IMGBB_API_KEY is required when IMAGE_HOST is imgbb")
		}
	case ImageHostS3:
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicURL == "" {
			return nil, errors.New("S3_REGION, S3_BUCKET and S3_PUBLIC_URL are required when IMAGE_HOST is s3")
		}
	default:
		return nil, errors.New("IMAGE_HOST must be either imgbb or s3")
	}

	return &cfg, nil
}
