package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Telegram
	BotToken    string `env:"BOT_TOKEN,required"`
	AdminChatID int64  `env:"ADMIN_CHAT_ID"`

	// OpenAI Assistants
	OpenAIKey         string `env:"OPENAI_API_KEY,required"`
	OpenAIAssistantID string `env:"OPENAI_ASSISTANT_ID,required"`
	OpenAIBaseURL     string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`

	// Google Sheets
	GoogleSheetID         string `env:"GOOGLE_SHEET_ID,required"`
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"credentials.json"`

	// Booking dates are interpreted in this time zone
	Timezone string `env:"TIMEZONE" envDefault:"Europe/Moscow"`

	// Web API
	Port int `env:"PORT" envDefault:"5000"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured booking time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
