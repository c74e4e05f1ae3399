package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Geofence  GeofenceConfig
	Payroll   PayrollConfig
	Recap     RecapConfig
	Storage   StorageConfig
	AWS       AWSConfig
	Messaging MessagingConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory"
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// GeofenceConfig is the organization reference point and accepted radius band.
type GeofenceConfig struct {
	Latitude        float64
	Longitude       float64
	MinRadiusMeters float64
	MaxRadiusMeters float64
}

type PayrollConfig struct {
	StandardWorkingDays int
	Currency            string
}

type RecapConfig struct {
	// RefreshInterval re-aggregates the current month on a timer. Zero disables it.
	RefreshInterval time.Duration
}

type StorageConfig struct {
	// Type is "local" or "s3"
	Type     string
	BasePath string
	BaseURL  string
	S3Bucket string
}

type AWSConfig struct {
	Region string
	// Endpoint overrides every AWS endpoint, e.g. http://localhost:4566 for LocalStack.
	Endpoint string
}

type MessagingConfig struct {
	// SQSQueueURL enables the SQS publisher. Events are only logged when empty.
	SQSQueueURL string
}

type TelemetryConfig struct {
	// OTLPEndpoint enables tracing when set, e.g. localhost:4317.
	OTLPEndpoint string
	ServiceName  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "postgres"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Geofence configuration
	if config.Geofence.Latitude, err = getEnvFloat("GEOFENCE_LATITUDE", 0); err != nil {
		return nil, err
	}
	if config.Geofence.Longitude, err = getEnvFloat("GEOFENCE_LONGITUDE", 0); err != nil {
		return nil, err
	}
	if config.Geofence.MinRadiusMeters, err = getEnvFloat("GEOFENCE_MIN_RADIUS_METERS", 0); err != nil {
		return nil, err
	}
	if config.Geofence.MaxRadiusMeters, err = getEnvFloat("GEOFENCE_MAX_RADIUS_METERS", 100); err != nil {
		return nil, err
	}

	// Payroll configuration
	workingDays, err := getEnvInt("PAYROLL_STANDARD_WORKING_DAYS", 22)
	if err != nil {
		return nil, err
	}
	config.Payroll = PayrollConfig{
		StandardWorkingDays: workingDays,
		Currency:            getEnv("PAYROLL_CURRENCY", "IDR"),
	}

	refresh, err := getEnvDuration("RECAP_REFRESH_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	config.Recap = RecapConfig{RefreshInterval: refresh}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3Bucket: getEnv("STORAGE_S3_BUCKET", ""),
	}

	config.AWS = AWSConfig{
		Region:   getEnv("AWS_REGION", "ap-southeast-3"),
		Endpoint: getEnv("AWS_ENDPOINT", ""),
	}

	config.Messaging = MessagingConfig{
		SQSQueueURL: getEnv("SQS_QUEUE_URL", ""),
	}

	config.Telemetry = TelemetryConfig{
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "hris-payroll"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or memory, got %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	if _, err := slogLevel(c.App.LogLevel); err != nil {
		return err
	}

	if c.Geofence.Latitude < -90 || c.Geofence.Latitude > 90 {
		return fmt.Errorf("GEOFENCE_LATITUDE must be between -90 and 90")
	}
	if c.Geofence.Longitude < -180 || c.Geofence.Longitude > 180 {
		return fmt.Errorf("GEOFENCE_LONGITUDE must be between -180 and 180")
	}
	if c.Geofence.MinRadiusMeters < 0 || c.Geofence.MinRadiusMeters > c.Geofence.MaxRadiusMeters {
		return fmt.Errorf("GEOFENCE_MIN_RADIUS_METERS must be between 0 and GEOFENCE_MAX_RADIUS_METERS")
	}

	if c.Payroll.StandardWorkingDays <= 0 {
		return fmt.Errorf("PAYROLL_STANDARD_WORKING_DAYS must be positive")
	}
	if c.Recap.RefreshInterval < 0 {
		return fmt.Errorf("RECAP_REFRESH_INTERVAL must not be negative")
	}

	switch c.Storage.Type {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required when STORAGE_TYPE is s3")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be local or s3, got %q", c.Storage.Type)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := slogLevel(c.App.LogLevel)
	return level
}

func slogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
