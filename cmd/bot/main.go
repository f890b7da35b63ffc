// Package main implements the Telegram front-end for the catalog service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/silkyway/catalog/internal/bot"
	"github.com/silkyway/catalog/internal/bot/client"
	"github.com/silkyway/catalog/internal/bot/config"
	"github.com/silkyway/catalog/internal/bot/session"
	"github.com/silkyway/catalog/pkg/bootstrap"
	"github.com/silkyway/catalog/pkg/config/configloader"
)

const serviceName = "bot"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads configuration, waits for the catalog gateway to come up and
// starts the long-polling loop until the process is signalled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName, config.Defaults())
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	gateway := client.New(cfg.Gateway.URL, cfg.Gateway.Timeout, logger)
	if err := gateway.WaitForReady(ctx, cfg.Gateway.Probe.Attempts, cfg.Gateway.Probe.Delay); err != nil {
		return fmt.Errorf("catalog gateway did not become ready: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	logger.Info("Authorized on Telegram", slog.String("username", api.Self.UserName))

	handler := bot.NewHandler(api, gateway, session.NewManager(), cfg.Admin.Password, logger)
	b := bot.New(api, handler, cfg.Telegram.UpdateTimeout, cfg.Telegram.MaxInflight, logger)

	return b.Run(ctx)
}
