package config

import (
	"os"
	"strconv"

	"discoveryspark/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Paths    PathConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// report persistence.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds dashboard server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds file system paths
type PathConfig struct {
	DatasetDir  string
	MappingFile string
	ResultsDir  string
}

// AnalysisConfig holds the attribution engine thresholds
type AnalysisConfig struct {
	TopN           int
	ClassThreshold int
	NeutralEpsilon float64
	MinInteraction float64
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: envOr("SPARK_PORT", "8080"),
		},
		Paths: PathConfig{
			DatasetDir:  envOr("SPARK_DATASET_DIR", "datasets"),
			MappingFile: envOr("SPARK_MAPPING_FILE", "mapping/mapping.txt"),
			ResultsDir:  envOr("SPARK_RESULTS_DIR", "results"),
		},
	}

	analysis, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	cfg.Analysis = *analysis
	return cfg, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	topN, err := envIntOr("SPARK_TOP_N", 10)
	if err != nil {
		return nil, err
	}
	classThreshold, err := envIntOr("SPARK_CLASS_THRESHOLD", 10)
	if err != nil {
		return nil, err
	}
	neutralEps, err := envFloatOr("SPARK_NEUTRAL_EPSILON", 1e-9)
	if err != nil {
		return nil, err
	}
	minInteraction, err := envFloatOr("SPARK_MIN_INTERACTION", 0.05)
	if err != nil {
		return nil, err
	}
	return &AnalysisConfig{
		TopN:           topN,
		ClassThreshold: classThreshold,
		NeutralEpsilon: neutralEps,
		MinInteraction: minInteraction,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s must be an integer", key)
	}
	return parsed, nil
}

func envFloatOr(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%s must be a number", key)
	}
	return parsed, nil
}
