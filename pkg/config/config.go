// WaGate - WhatsApp webhook relay gateway
// License: MIT
//
// Copyright (c) 2026 WaGate contributors

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/relaykit/wagate/pkg/logger"
)

// Config holds all process configuration. It is loaded once at startup and
// passed by value into constructors; nothing reads the environment after Load.
type Config struct {
	// Backend chat service.
	ChatAPIURL     string `env:"CHAT_API_URL" envDefault:"https://xxxxxx.execute-api.eu-west-2.amazonaws.com/prod/chat-api/message"`
	InternalAPIKey string `env:"INTERNAL_API_KEY"`

	// Twilio credentials and the WhatsApp sender address
	// (e.g. "whatsapp:+14155238886").
	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`

	// HTTP server.
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	WebhookPath string `env:"WEBHOOK_PATH" envDefault:"/whatsapp/webhook"`
}

// Load reads configuration from the environment, honoring a .env file in the
// working directory when one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.DebugC("config", "No .env file found, using system environment")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks that everything the relay needs at request time is present,
// so misconfiguration fails the process at startup instead of surfacing as
// per-request 500s.
func (c Config) Validate() error {
	if c.ChatAPIURL == "" {
		return fmt.Errorf("CHAT_API_URL is required")
	}
	if c.TwilioAccountSID == "" {
		return fmt.Errorf("TWILIO_ACCOUNT_SID is required")
	}
	if c.TwilioAuthToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN is required")
	}
	if c.TwilioWhatsAppNumber == "" {
		return fmt.Errorf("TWILIO_WHATSAPP_NUMBER is required")
	}
	return nil
}
