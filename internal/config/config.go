package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CSV source: a file path, an http(s) URL, or s3://bucket/key.
	CSVSource       string
	CSVFetchTimeout time.Duration
	S3Endpoint      string

	// Language-model API configuration.
	LLMBaseURL     string
	LLMModel       string
	LLMAPIKey      string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration

	QueryMaxInFlight int

	// Query audit publishing (disabled when no brokers are set).
	AuditEnabled bool
	AuditBrokers []string
	AuditTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("CSV_FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	llmTimeout, err := parsePositiveDuration("LLM_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	maxTokens, err := strconv.Atoi(sharedcfg.EnvOrDefault("LLM_MAX_TOKENS", "500"))
	if err != nil || maxTokens <= 0 {
		return nil, errors.New("invalid LLM_MAX_TOKENS")
	}

	temperature, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("LLM_TEMPERATURE", "0.7"), 64)
	if err != nil || temperature < 0 || temperature > 2 {
		return nil, errors.New("invalid LLM_TEMPERATURE: must be between 0 and 2")
	}

	maxInFlight, err := strconv.Atoi(sharedcfg.EnvOrDefault("QUERY_MAX_IN_FLIGHT", "4"))
	if err != nil || maxInFlight <= 0 {
		return nil, errors.New("invalid QUERY_MAX_IN_FLIGHT")
	}

	var auditBrokers []string
	if v := strings.TrimSpace(os.Getenv("AUDIT_KAFKA_BROKERS")); v != "" {
		auditBrokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CSVSource:       sharedcfg.EnvOrDefault("CSV_SOURCE", "data/hk_birds.csv"),
		CSVFetchTimeout: fetchTimeout,
		S3Endpoint:      os.Getenv("AWS_S3_ENDPOINT"),

		LLMBaseURL:     sharedcfg.EnvOrDefault("LLM_BASE_URL", "https://api.deepseek.com/v1"),
		LLMModel:       sharedcfg.EnvOrDefault("LLM_MODEL", "deepseek-chat"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		LLMMaxTokens:   maxTokens,
		LLMTemperature: temperature,
		LLMTimeout:     llmTimeout,

		QueryMaxInFlight: maxInFlight,

		AuditEnabled: len(auditBrokers) > 0,
		AuditBrokers: auditBrokers,
		AuditTopic:   sharedcfg.EnvOrDefault("AUDIT_KAFKA_TOPIC", "bird-query-audit"),
	}

	if strings.TrimSpace(cfg.CSVSource) == "" {
		return nil, errors.New("CSV_SOURCE is required")
	}
	if cfg.LLMModel == "" {
		return nil, errors.New("LLM_MODEL is required")
	}
	if cfg.AuditEnabled && cfg.AuditTopic == "" {
		return nil, errors.New("AUDIT_KAFKA_BROKERS is set but AUDIT_KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
