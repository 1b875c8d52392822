// Package config loads service configuration from environment variables,
// following 12-factor conventions. Everything has a default; the service
// runs with no environment at all using the simulated transport and the
// built-in catalog.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joao-fontenele/part-order-service/internal/workflow"
)

type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	// Facility tag stamped onto final confirmations.
	Facility string

	// Draft handling on cancel-from-quote: "preserve_draft" or "reset_draft".
	CancelPolicy workflow.CancelPolicy

	// Bounded wait for each transport call.
	CallTimeout time.Duration

	// Idle eviction for in-memory wizard sessions.
	SessionTTL time.Duration

	// Artificial latency of the simulated transport and catalog.
	SimulatedDelay time.Duration
	CatalogDelay   time.Duration

	// Optional: Postgres-backed part catalog. Empty means the built-in
	// static catalog.
	PostgresURL string

	// Optional: Kafka brokers for the lifecycle-event side-channel. Empty
	// disables publishing.
	KafkaBrokers []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Facility:        getEnv("FACILITY", "main"),
		CancelPolicy:    workflow.CancelPolicy(getEnv("CANCEL_POLICY", string(workflow.CancelPreserveDraft))),
		CallTimeout:     getEnvAsDuration("CALL_TIMEOUT", 10*time.Second),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SimulatedDelay:  getEnvAsDuration("SIMULATED_DELAY", 300*time.Millisecond),
		CatalogDelay:    getEnvAsDuration("CATALOG_DELAY", 600*time.Millisecond),
		PostgresURL:     getEnv("POSTGRES_URL", ""),
		KafkaBrokers:    getEnvAsSlice("KAFKA_BROKERS", nil),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.CancelPolicy {
	case workflow.CancelPreserveDraft, workflow.CancelResetDraft:
	default:
		return fmt.Errorf("invalid CANCEL_POLICY %q (must be %s or %s)",
			c.CancelPolicy, workflow.CancelPreserveDraft, workflow.CancelResetDraft)
	}

	if c.CallTimeout <= 0 {
		return fmt.Errorf("CALL_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
