package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Telegram delivery modes.
const (
	TelegramWebhook  = "webhook"
	TelegramPolling  = "polling"
	TelegramDisabled = "disabled"
)

type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret         string
	JWTExpiryDuration time.Duration

	CORSAllowedOrigins []string
	RateLimit          string

	TelegramBotToken      string
	TelegramMode          string
	TelegramWebhookSecret string

	DiscordBotToken  string
	DiscordChannelId string
}

// DiscordEnabled reports whether both Discord settings are present.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordBotToken != "" && c.DiscordChannelId != ""
}

// TelegramEnabled reports whether a Telegram bot should be started.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramMode != TelegramDisabled && c.TelegramBotToken != ""
}

// Load reads configuration from the environment, after loading a .env file if
// one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "lomba17.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_DURATION", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_MODE", TelegramWebhook)
	v.SetDefault("TELEGRAM_WEBHOOK_SECRET", "")
	v.SetDefault("DISCORD_BOT_TOKEN", "")
	v.SetDefault("DISCORD_CHANNEL_ID", "")
	v.AutomaticEnv()

	expiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		DatabaseDriver:        strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTExpiryDuration:     expiry,
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:             v.GetString("RATE_LIMIT"),
		TelegramBotToken:      v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramMode:          strings.ToLower(v.GetString("TELEGRAM_MODE")),
		TelegramWebhookSecret: v.GetString("TELEGRAM_WEBHOOK_SECRET"),
		DiscordBotToken:       v.GetString("DISCORD_BOT_TOKEN"),
		DiscordChannelId:      v.GetString("DISCORD_CHANNEL_ID"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is not set")
	}
	switch c.TelegramMode {
	case TelegramWebhook, TelegramPolling, TelegramDisabled:
	default:
		return fmt.Errorf("unsupported TELEGRAM_MODE %q", c.TelegramMode)
	}
	if c.TelegramMode == TelegramWebhook && c.TelegramBotToken != "" && c.TelegramWebhookSecret == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET is required in webhook mode")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
