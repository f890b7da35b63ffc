package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot runs the long-polling loop and fans incoming messages out to the
// handler. Updates from different chats are processed concurrently up to
// maxInflight; per-chat state stays consistent because the session manager
// serializes access internally.
type Bot struct {
	api           *tgbotapi.BotAPI
	handler       *Handler
	updateTimeout int
	maxInflight   int
	logger        *slog.Logger
}

// New creates a bot around an authorized Telegram API client.
func New(api *tgbotapi.BotAPI, handler *Handler, updateTimeout, maxInflight int, logger *slog.Logger) *Bot {
	return &Bot{
		api:           api,
		handler:       handler,
		updateTimeout: updateTimeout,
		maxInflight:   maxInflight,
		logger:        logger.With("component", "bot_loop"),
	}
}

// Run polls Telegram for updates until the context is cancelled, then waits
// for in-flight handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = b.updateTimeout
	updates := b.api.GetUpdatesChan(updateCfg)

	b.logger.Info("Bot started", "username", b.api.Self.UserName)

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.maxInflight)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			wg.Wait()
			b.logger.Info("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			sem <- struct{}{}
			wg.Add(1)
			go func(chatID int64, text string) {
				defer wg.Done()
				defer func() { <-sem }()
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("Panic while handling message", "chat_id", chatID, "panic", r)
					}
				}()
				b.handler.HandleMessage(ctx, chatID, text)
			}(update.Message.Chat.ID, update.Message.Text)
		}
	}
}
