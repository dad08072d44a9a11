package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	MinIO     MinIOConfig
	Media     MediaConfig
	Watermark WatermarkConfig
	Jobs      JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// SessionConfig - admin back-office authentication
type SessionConfig struct {
	Secret       string
	ExpiryHours  int    // session token lifetime
	CookieSecure bool   // true behind TLS
	AdminRoster  string // "user:secret,user:secret"; empty = built-in roster
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // agatecity
	UseSSL    bool   // false for local
}

// MediaConfig - upload ceilings cho product media
type MediaConfig struct {
	MaxImages     int
	MaxVideos     int
	MaxImageBytes int64
	MaxVideoBytes int64
}

type WatermarkConfig struct {
	Text     string // brand text in lên mọi product image
	LogoPath string // optional, text-only khi không load được
}

// JobConfig - scheduled maintenance jobs
type JobConfig struct {
	PurgeCron          string // cron spec cho purge job
	PurgeRetentionDays int    // soft-deleted products older than this are purged
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Agate City API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "agatecity"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			ExpiryHours:  getEnvInt("SESSION_EXPIRY_HOURS", 24),
			CookieSecure: getEnv("SESSION_COOKIE_SECURE", "false") == "true",
			AdminRoster:  getEnv("ADMIN_USERS", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "agatecity"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Media: MediaConfig{
			MaxImages:     getEnvInt("MEDIA_MAX_IMAGES", 4),
			MaxVideos:     getEnvInt("MEDIA_MAX_VIDEOS", 1),
			MaxImageBytes: int64(getEnvInt("MEDIA_MAX_IMAGE_MB", 1)) * 1024 * 1024,
			MaxVideoBytes: int64(getEnvInt("MEDIA_MAX_VIDEO_MB", 50)) * 1024 * 1024,
		},
		Watermark: WatermarkConfig{
			Text:     getEnv("WATERMARK_TEXT", "theagatecity.com"),
			LogoPath: getEnv("WATERMARK_LOGO_PATH", ""),
		},
		Jobs: JobConfig{
			PurgeCron:          getEnv("PURGE_CRON", "0 3 * * *"),
			PurgeRetentionDays: getEnvInt("PURGE_RETENTION_DAYS", 30),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	// Production environment phải có session secret riêng
	if c.App.Environment == "production" {
		if c.Session.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if c.Media.MaxImages < 1 || c.Media.MaxVideos < 0 {
		return fmt.Errorf("media ceilings must allow at least one image")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
