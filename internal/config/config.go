package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Password PasswordConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

const (
	StorageDriverLocal = "local"
	StorageDriverMinIO = "minio"
)

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

// RedisConfig configures the statistics cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Location        string
	UseSSL          bool
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found. Using environment and default values.")
	}

	env := getEnv("ENV", "development")

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  env,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_intake"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", StorageDriverLocal),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Password: PasswordConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 12),
			Pepper:     getEnv("PASSWORD_PEPPER", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			StatsTTL: getEnvAsDuration("STATS_CACHE_TTL", "5m"),
		},
		MinIO: MinIOConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretAccessKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:          getEnv("MINIO_BUCKET", "resumes"),
			Location:        getEnv("MINIO_LOCATION", "us-east-1"),
			UseSSL:          getEnvAsBool("MINIO_USE_SSL", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", env == "development"),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Validate checks settings that would otherwise fail late, at first request.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
		c.JWT.Secret = "dev-only-insecure-secret"
		log.Warn().Msg("JWT_SECRET not set, using an insecure development secret")
	}
	if c.JWT.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.JWT.ExpirationHours)
	}
	if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 4-14)", c.Password.BcryptCost)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got: %d", c.Storage.MaxFileSize)
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverMinIO:
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER: %q", c.Storage.Driver)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
