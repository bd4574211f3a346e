package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	NasaAPIKey  string
	NasaAPIBase string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Upstream and cache tuning.
	CacheTTL        time.Duration
	EnrichCacheTTL  time.Duration
	ProviderTimeout time.Duration

	// Physical-parameter fallbacks.
	DefaultAlbedo      float64
	DefaultDensityGcm3 float64

	// Assessment stream configuration.
	StreamEnabled        bool
	KafkaBrokers         []string
	KafkaAssessmentTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "300s")
	if err != nil {
		return nil, err
	}
	enrichTTL, err := parseDuration("ENRICH_CACHE_TTL", "3600s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	albedo, err := parseFloat("DEFAULT_ALBEDO", 0.14)
	if err != nil {
		return nil, err
	}
	density, err := parseFloat("DEFAULT_DENSITY_GCM3", 2.6)
	if err != nil {
		return nil, err
	}

	streamEnabled := false
	if v := os.Getenv("STREAM_ENABLED"); v != "" {
		streamEnabled = v == "true"
	}

	cfg := &Config{
		NasaAPIKey:  os.Getenv("NASA_API_KEY"),
		NasaAPIBase: envOrDefault("NASA_API_BASE", "https://api.nasa.gov/neo/rest/v1"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "*")),

		CacheTTL:        cacheTTL,
		EnrichCacheTTL:  enrichTTL,
		ProviderTimeout: providerTimeout,

		DefaultAlbedo:      albedo,
		DefaultDensityGcm3: density,

		StreamEnabled:        streamEnabled,
		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaAssessmentTopic: envOrDefault("KAFKA_ASSESSMENT_TOPIC", "neo-assessments"),
	}

	if cfg.NasaAPIKey == "" {
		return nil, errors.New("NASA_API_KEY is required")
	}
	if albedo <= 0 || albedo > 1 {
		return nil, errors.New("DEFAULT_ALBEDO must be in (0, 1]")
	}
	if density <= 0 {
		return nil, errors.New("DEFAULT_DENSITY_GCM3 must be positive")
	}
	if cfg.StreamEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("STREAM_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaAssessmentTopic == "" {
			return nil, errors.New("STREAM_ENABLED is true but KAFKA_ASSESSMENT_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
