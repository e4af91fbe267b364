package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Config struct {
	Host        string
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigin  string

	SessionTTL time.Duration
	PresignTTL time.Duration

	// S3 is used when Endpoint is set; otherwise blobs go to StorageDir.
	S3         S3Config
	StorageDir string
}

func (c *Config) UseS3() bool {
	return c.S3.Endpoint != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getDatabaseURL(),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),
		SessionTTL:  getDuration("SESSION_TTL", 24*time.Hour),
		PresignTTL:  getDuration("PRESIGN_TTL", 15*time.Minute),
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", "files"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		StorageDir: getEnv("STORAGE_DIR", "./data"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate reports every missing required variable at once instead of
// failing on the first one.
func (c *Config) validate() error {
	var result *multierror.Error

	if c.JWTSecret == "" {
		result = multierror.Append(result, fmt.Errorf("JWT_SECRET environment variable is required"))
	}
	if c.UseS3() {
		if c.S3.AccessKey == "" {
			result = multierror.Append(result, fmt.Errorf("S3_ACCESS_KEY is required when S3_ENDPOINT is set"))
		}
		if c.S3.SecretKey == "" {
			result = multierror.Append(result, fmt.Errorf("S3_SECRET_KEY is required when S3_ENDPOINT is set"))
		}
		if c.S3.Bucket == "" {
			result = multierror.Append(result, fmt.Errorf("S3_BUCKET is required when S3_ENDPOINT is set"))
		}
	}

	return result.ErrorOrNil()
}

func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "postgres")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// URL form so the same string works for both lib/pq and migrate.
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode,
	)
}

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
