// Package config loads all backend configuration from the environment once
// at startup. Components receive the resulting struct by injection and never
// read ambient environment state themselves.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the ODIA backend.
type Config struct {
	Port      int
	Version   string
	PublicURL string
	Region    string
	Database  DatabaseConfig
	Cache     CacheConfig
	AI        AIConfig
	Voice     VoiceConfig
	Twilio    TwilioConfig
	Telegram  TelegramConfig
	Billing   BillingConfig
	Telemetry TelemetryConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	// URL is the Postgres connection string. Empty means the in-memory
	// store is used instead (local dev, tests).
	URL            string
	MaxConnections int
}

type CacheConfig struct {
	Enabled  bool
	MaxBytes int64
	TTL      time.Duration
}

type AIConfig struct {
	PrimaryEndpoint    string
	PrimaryAPIKey      string
	PrimaryModel       string
	SecondaryEndpoint  string
	SecondaryAPIKey    string
	SecondaryModel     string
	SecondaryMaxTokens int
}

type VoiceConfig struct {
	Endpoint        string
	APIKey          string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	// Timeout is the overall deadline for one /speak request. On expiry
	// the caller receives a text fallback rather than an error.
	Timeout time.Duration
}

type TwilioConfig struct {
	AuthToken string
}

type TelegramConfig struct {
	APIEndpoint string
	BotToken    string
}

type BillingConfig struct {
	Endpoint    string
	SecretKey   string
	RedirectURL string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:      envInt("PORT", 3000),
		Version:   envStr("ODIA_VERSION", "1.0.0"),
		PublicURL: envStr("PUBLIC_URL", ""),
		Region:    envStr("ODIA_REGION", "local"),
		Database: DatabaseConfig{
			URL:            envStr("DATABASE_URL", ""),
			MaxConnections: envInt("DATABASE_MAX_CONNECTIONS", 25),
		},
		Cache: CacheConfig{
			Enabled:  envBool("VOICE_CACHE_ENABLED", true),
			MaxBytes: int64(envInt("VOICE_CACHE_MAX_BYTES", 100<<20)),
			TTL:      envDuration("VOICE_CACHE_TTL", 14*24*time.Hour),
		},
		AI: AIConfig{
			PrimaryEndpoint:    envStr("ZAI_ENDPOINT", "https://api.z.ai/api/paas/v4"),
			PrimaryAPIKey:      envStr("ZAI_API_KEY", ""),
			PrimaryModel:       envStr("ZAI_MODEL", "glm-4.5"),
			SecondaryEndpoint:  envStr("CLAUDE_ENDPOINT", "https://api.anthropic.com"),
			SecondaryAPIKey:    envStr("CLAUDE_API_KEY", ""),
			SecondaryModel:     envStr("CLAUDE_MODEL", "claude-3-5-sonnet-20240620"),
			SecondaryMaxTokens: envInt("CLAUDE_MAX_TOKENS", 400),
		},
		Voice: VoiceConfig{
			Endpoint:        envStr("ELEVENLABS_ENDPOINT", "https://api.elevenlabs.io"),
			APIKey:          envStr("ELEVENLABS_API_KEY", ""),
			VoiceID:         envStr("ELEVENLABS_VOICE_ID", "5gBmGqdd8c8PD5xP7lPE"),
			ModelID:         envStr("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
			Stability:       envFloat("ELEVENLABS_STABILITY", 0.7),
			SimilarityBoost: envFloat("ELEVENLABS_SIMILARITY_BOOST", 0.7),
			Timeout:         envDuration("VOICE_TIMEOUT", 8*time.Second),
		},
		Twilio: TwilioConfig{
			AuthToken: envStr("TWILIO_AUTH_TOKEN", ""),
		},
		Telegram: TelegramConfig{
			APIEndpoint: envStr("TELEGRAM_API_ENDPOINT", "https://api.telegram.org"),
			BotToken:    envStr("TELEGRAM_BOT_TOKEN", ""),
		},
		Billing: BillingConfig{
			Endpoint:    envStr("FLW_ENDPOINT", "https://api.flutterwave.com"),
			SecretKey:   envStr("FLW_SECRET_KEY", ""),
			RedirectURL: envStr("FLW_REDIRECT_URL", "https://odia.dev/thank-you"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "odia-backend"),
		},
		RateLimit: RateLimitConfig{
			PerSecond: envFloat("RATE_LIMIT_PER_SECOND", 0.45),
			Burst:     envInt("RATE_LIMIT_BURST", 40),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
