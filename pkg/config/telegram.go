package config

import (
	"fmt"
	"time"
)

// TelegramConfig holds the bot transport settings.
type TelegramConfig struct {
	Token         string `koanf:"token"`
	UpdateTimeout int    `koanf:"updateTimeout"`
	MaxInflight   int    `koanf:"maxInflight"`
}

func (c *TelegramConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("telegram token is not configured")
	}
	if c.UpdateTimeout <= 0 {
		return fmt.Errorf("invalid telegram update timeout: %d", c.UpdateTimeout)
	}
	if c.MaxInflight <= 0 {
		return fmt.Errorf("invalid telegram max inflight: %d", c.MaxInflight)
	}
	return nil
}

// GatewayConfig describes how to reach the catalog HTTP API.
type GatewayConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Probe   struct {
		Attempts int           `koanf:"attempts"`
		Delay    time.Duration `koanf:"delay"`
	} `koanf:"probe"`
}

func (c *GatewayConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("gateway URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid gateway timeout: %v", c.Timeout)
	}
	if c.Probe.Attempts <= 0 {
		return fmt.Errorf("invalid gateway probe attempts: %d", c.Probe.Attempts)
	}
	if c.Probe.Delay <= 0 {
		return fmt.Errorf("invalid gateway probe delay: %v", c.Probe.Delay)
	}
	return nil
}

// AdminConfig holds the shared admin secret for the conversational front-end.
type AdminConfig struct {
	Password string `koanf:"password"`
}

func (c *AdminConfig) Validate() error {
	if c.Password == "" {
		return fmt.Errorf("admin password is not configured")
	}
	return nil
}
