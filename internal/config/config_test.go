package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultCSVSource = "data/hk_birds.csv"
	testAPIKey       = "sk-test-0123456789"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, defaultCSVSource, cfg.CSVSource)
	assert.Equal(t, 10*time.Second, cfg.CSVFetchTimeout)
	assert.Empty(t, cfg.S3Endpoint)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.LLMBaseURL)
	assert.Equal(t, "deepseek-chat", cfg.LLMModel)
	assert.Empty(t, cfg.LLMAPIKey)
	assert.Equal(t, 500, cfg.LLMMaxTokens)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 4, cfg.QueryMaxInFlight)
	assert.False(t, cfg.AuditEnabled)
	assert.Empty(t, cfg.AuditBrokers)
	assert.Equal(t, "bird-query-audit", cfg.AuditTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CSV_SOURCE", "s3://birds/hk_birds.csv")
	t.Setenv("CSV_FETCH_TIMEOUT", "3s")
	t.Setenv("AWS_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("LLM_MODEL", "qwen2.5")
	t.Setenv("LLM_API_KEY", testAPIKey)
	t.Setenv("LLM_MAX_TOKENS", "1000")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LLM_TIMEOUT", "2m")
	t.Setenv("QUERY_MAX_IN_FLIGHT", "1")
	t.Setenv("AUDIT_KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("AUDIT_KAFKA_TOPIC", "custom-audit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "s3://birds/hk_birds.csv", cfg.CSVSource)
	assert.Equal(t, 3*time.Second, cfg.CSVFetchTimeout)
	assert.Equal(t, "http://localhost:9000", cfg.S3Endpoint)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLMBaseURL)
	assert.Equal(t, "qwen2.5", cfg.LLMModel)
	assert.Equal(t, testAPIKey, cfg.LLMAPIKey)
	assert.Equal(t, 1000, cfg.LLMMaxTokens)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.LLMTimeout)
	assert.Equal(t, 1, cfg.QueryMaxInFlight)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.AuditBrokers)
	assert.Equal(t, "custom-audit", cfg.AuditTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"CSV_FETCH_TIMEOUT", "bad"},
		{"CSV_FETCH_TIMEOUT", "-1s"},
		{"LLM_TIMEOUT", "bad"},
		{"LLM_TIMEOUT", "0s"},
		{"LLM_MAX_TOKENS", "zero"},
		{"LLM_MAX_TOKENS", "0"},
		{"LLM_TEMPERATURE", "hot"},
		{"LLM_TEMPERATURE", "2.5"},
		{"LLM_TEMPERATURE", "-0.1"},
		{"QUERY_MAX_IN_FLIGHT", "0"},
		{"QUERY_MAX_IN_FLIGHT", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_BlankAuditBrokersDisablesAudit(t *testing.T) {
	t.Setenv("AUDIT_KAFKA_BROKERS", "   ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AuditEnabled)
}
