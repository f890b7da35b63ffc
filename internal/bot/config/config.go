// Package config defines the Telegram front-end configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/silkyway/catalog/pkg/config"
	"github.com/silkyway/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	Telegram config.TelegramConfig `koanf:"telegram"`
	Gateway  config.GatewayConfig  `koanf:"gateway"`
	Admin    config.AdminConfig    `koanf:"admin"`
	Log      config.LogConfig      `koanf:"log"`
}

// Defaults returns the built-in configuration values. The telegram token,
// gateway URL and admin password carry no defaults; missing values fail
// validation at startup.
func Defaults() map[string]any {
	return map[string]any{
		"telegram.updateTimeout":  60,
		"telegram.maxInflight":    64,
		"gateway.timeout":         "10s",
		"gateway.probe.attempts":  10,
		"gateway.probe.delay":     "2s",
		"log.level":               "info",
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Telegram Configuration ---\n")
	b.WriteString(fmt.Sprintf("  telegram.token: %s\n", mask(c.Telegram.Token)))
	b.WriteString(fmt.Sprintf("  telegram.updateTimeout: %d\n", c.Telegram.UpdateTimeout))
	b.WriteString(fmt.Sprintf("  telegram.maxInflight: %d\n", c.Telegram.MaxInflight))

	b.WriteString("\n--- Gateway Configuration ---\n")
	b.WriteString(fmt.Sprintf("  gateway.url: %s\n", c.Gateway.URL))
	b.WriteString(fmt.Sprintf("  gateway.timeout: %v\n", c.Gateway.Timeout))
	b.WriteString(fmt.Sprintf("  gateway.probe.attempts: %d\n", c.Gateway.Probe.Attempts))
	b.WriteString(fmt.Sprintf("  gateway.probe.delay: %v\n", c.Gateway.Probe.Delay))

	b.WriteString("\n--- Admin ---\n")
	b.WriteString(fmt.Sprintf("  admin.password: %s\n", mask(c.Admin.Password)))

	b.WriteString("\n--- Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))

	return b.String()
}

// mask hides secrets in startup logs.
func mask(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.Telegram.Validate(); err != nil {
		return err
	}
	if err := c.Gateway.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
