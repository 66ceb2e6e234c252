package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Password  PasswordConfig
	Session   SessionConfig
	CORS      CORSConfig
	Redis     RedisConfig
	S3        S3Config
	Scheduler SchedulerConfig
	Tracing   TracingConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Port         string
	GinMode      string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

type PasswordConfig struct {
	HashCost int // bcrypt cost for new hashes
}

// SessionConfig controls the cookie carrying the session token
type SessionConfig struct {
	CookieName string
	Secure     bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// Enabled reports whether exports should be archived to S3
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type SchedulerConfig struct {
	Enabled        bool
	ShipmentReport string // cron spec
}

type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	SampleRatio  float64
	OTLPEndpoint string // empty exports to stdout
	OTLPInsecure bool
}

// SeedConfig drives the demo account seeding done at startup
type SeedConfig struct {
	DemoUsers   bool
	AdminEmails []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			GinMode:      getEnv("GIN_MODE", "debug"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  parseDuration(getEnv("SERVER_READ_TIMEOUT", "15s"), 15*time.Second),
			WriteTimeout: parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "30s"), 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "giftbox"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "your-secret-key"),
			SessionExpiry: parseDuration(getEnv("JWT_SESSION_EXPIRY", "12h"), 12*time.Hour),
		},
		Password: PasswordConfig{
			HashCost: parseInt(getEnv("PASSWORD_HASH_COST", "12"), 12),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "giftbox_session"),
			Secure:     parseBool(getEnv("SESSION_COOKIE_SECURE", "false")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:        parseBool(getEnv("SCHEDULER_ENABLED", "true")),
			ShipmentReport: getEnv("SCHEDULER_SHIPMENT_REPORT", "0 9 * * *"),
		},
		Tracing: TracingConfig{
			Enabled:      parseBool(getEnv("OTEL_ENABLED", "false")),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "giftbox-backend"),
			SampleRatio:  parseFloat(getEnv("OTEL_SAMPLER_RATIO", "0.1"), 0.1),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure: parseBool(getEnv("OTEL_EXPORTER_OTLP_INSECURE", "false")),
		},
		Seed: SeedConfig{
			DemoUsers:   parseBool(getEnv("SEED_DEMO_USERS", "false")),
			AdminEmails: parseSlice(getEnv("ADMIN_EMAILS", "admin@example.com")),
		},
	}

	if config.Server.Environment == "production" && config.JWT.Secret == "your-secret-key" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns host:port for the redis client
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
