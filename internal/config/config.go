package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service needs.
type Config struct {
	Server   ServerConfig
	Dialogue DialogueConfig
	Payment  PaymentConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	dialogue, err := loadDialogueConfig()
	if err != nil {
		return nil, err
	}

	payment, err := loadPaymentConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Dialogue: dialogue, Payment: payment}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DialogueConfig tunes the conversation flow and the agent's branding.
type DialogueConfig struct {
	MaxAttempts   int
	AgentName     string
	CompanyName   string
	SupportNumber string
}

func loadDialogueConfig() (DialogueConfig, error) {
	maxAttempts := 3
	if override, err := parseOptionalIntEnv("MAX_ATTEMPTS"); err != nil {
		return DialogueConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return DialogueConfig{}, fmt.Errorf("MAX_ATTEMPTS must be at least 1, got %d", *override)
		}
		maxAttempts = *override
	}

	return DialogueConfig{
		MaxAttempts:   maxAttempts,
		AgentName:     getEnvOrDefault("AGENT_NAME", "Nova"),
		CompanyName:   getEnvOrDefault("COMPANY_NAME", "Fongo"),
		SupportNumber: getEnvOrDefault("SUPPORT_NUMBER", "1-855-553-6646"),
	}, nil
}

// PaymentConfig describes the downstream payment-update endpoint.
type PaymentConfig struct {
	URL     string
	Timeout time.Duration
}

func loadPaymentConfig() (PaymentConfig, error) {
	timeoutSeconds := 10
	if override, err := parseOptionalIntEnv("PAYMENT_TIMEOUT_SECONDS"); err != nil {
		return PaymentConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return PaymentConfig{}, fmt.Errorf("PAYMENT_TIMEOUT_SECONDS must be at least 1, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return PaymentConfig{
		URL:     strings.TrimSpace(os.Getenv("PAYMENT_API_URL")),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
