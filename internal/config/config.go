package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Artifact      ArtifactConfig
	Cache         CacheConfig
	PredictionLog PredictionLogConfig
	Database      DatabaseConfig
	SQLite        SQLiteConfig
	Metrics       MetricsConfig
	Logger        LoggerConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	// MaxBodyBytes caps the size of scoring request bodies.
	MaxBodyBytes int64
}

type ArtifactConfig struct {
	Dir          string
	ModelFile    string
	MetadataFile string
	// TrainHint is the command suggested when an artifact is missing.
	TrainHint string
}

type CacheConfig struct {
	Size int
}

// Prediction log drivers
const (
	LogDriverNone     = ""
	LogDriverPostgres = "postgres"
	LogDriverSQLite   = "sqlite"
)

type PredictionLogConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type SQLiteConfig struct {
	Path string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type LoggerConfig struct {
	Level  string
	Format string
	// File enables a rotating log file in addition to stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("SERVER_MAX_BODY_BYTES", 1<<20)
	v.SetDefault("ARTIFACT_DIR", "model")
	v.SetDefault("MODEL_FILE", "wine_model.gob")
	v.SetDefault("METADATA_FILE", "metadata.json")
	v.SetDefault("ARTIFACT_TRAIN_HINT", "go run ./cmd/train")
	v.SetDefault("PREDICT_CACHE_SIZE", 0)
	v.SetDefault("PREDICTION_LOG_DRIVER", LogDriverNone)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wine_model")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("SQLITE_PATH", "predictions.db")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)

	// Env
	v.AutomaticEnv()

	shutdown, err := time.ParseDuration(v.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		shutdown = 10 * time.Second
	}
	lifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: shutdown,
			MaxBodyBytes:    v.GetInt64("SERVER_MAX_BODY_BYTES"),
		},
		Artifact: ArtifactConfig{
			Dir:          v.GetString("ARTIFACT_DIR"),
			ModelFile:    v.GetString("MODEL_FILE"),
			MetadataFile: v.GetString("METADATA_FILE"),
			TrainHint:    v.GetString("ARTIFACT_TRAIN_HINT"),
		},
		Cache: CacheConfig{
			Size: v.GetInt("PREDICT_CACHE_SIZE"),
		},
		PredictionLog: PredictionLogConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("PREDICTION_LOG_DRIVER"))),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		SQLite: SQLiteConfig{
			Path: v.GetString("SQLITE_PATH"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
	}

	switch cfg.PredictionLog.Driver {
	case LogDriverNone, LogDriverPostgres, LogDriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported PREDICTION_LOG_DRIVER %q", cfg.PredictionLog.Driver)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("SERVER_MAX_BODY_BYTES must be positive, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Cache.Size < 0 {
		return nil, fmt.Errorf("PREDICT_CACHE_SIZE must not be negative, got %d", cfg.Cache.Size)
	}

	return cfg, nil
}
