package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds environment-driven configuration.
type Config struct {
	Port                 string
	DatabaseURL          string
	AllowedOrigin        string
	BroadcastConcurrency int
	OperatorJWTSecret    string
	LogLevel             string
	AppEnv               string

	Twilio TwilioConfig
	SMTP   SMTPConfig
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// Load reads configuration from environment variables. Callers load .env
// beforehand if they want one.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "5000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "https://pinkpulsehealth.info"),
		OperatorJWTSecret: os.Getenv("OPERATOR_JWT_SECRET"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AppEnv:            getEnv("APP_ENV", "production"),
		Twilio: TwilioConfig{
			AccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
		},
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	rawConcurrency := getEnv("BROADCAST_CONCURRENCY", "10")
	concurrency, err := strconv.Atoi(rawConcurrency)
	if err != nil || concurrency < 1 {
		return Config{}, fmt.Errorf("BROADCAST_CONCURRENCY must be a positive integer, got %q", rawConcurrency)
	}
	cfg.BroadcastConcurrency = concurrency

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return Config{}, fmt.Errorf("SMTP_PORT must be numeric: %w", err)
	}
	cfg.SMTP.Port = smtpPort

	insecure, err := strconv.ParseBool(getEnv("SMTP_INSECURE_SKIP_VERIFY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("SMTP_INSECURE_SKIP_VERIFY must be a boolean: %w", err)
	}
	cfg.SMTP.InsecureSkipVerify = insecure

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
