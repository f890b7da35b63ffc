// Package bot implements the conversational front-end over the catalog API.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/silkyway/catalog/internal/bot/client"
	"github.com/silkyway/catalog/internal/bot/session"
)

const helpText = `Available commands:
- /list : show all products
- /get : show a product by id
- /search : search products by name
- /lowstock [threshold] : show products running low (default 5)
- /recent : show recently viewed products
- /add : add a product (requires login)
- /update : update a product (requires login)
- /delete : delete a product (requires login)
- /login : log in as admin`

// sender is the subset of the Telegram API the handler needs. Tests provide
// a fake; production passes *tgbotapi.BotAPI.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler routes chat messages: commands enter the two-phase flows, free text
// is interpreted by the chat's pending await state. Every await is consumed
// by exactly one message; the session returns to idle no matter the outcome.
type Handler struct {
	api           sender
	gateway       *client.Client
	sessions      *session.Manager
	adminPassword string
	logger        *slog.Logger
}

// NewHandler creates the message handler with its injected session store.
func NewHandler(api sender, gateway *client.Client, sessions *session.Manager, adminPassword string, logger *slog.Logger) *Handler {
	return &Handler{
		api:           api,
		gateway:       gateway,
		sessions:      sessions,
		adminPassword: adminPassword,
		logger:        logger.With("component", "bot"),
	}
}

// HandleMessage processes one incoming message for a chat.
func (h *Handler) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if cmd, args, ok := parseCommand(text); ok {
		// A new command supersedes any prompt still waiting for input.
		h.sessions.ClearPending(chatID)
		h.routeCommand(ctx, chatID, cmd, args)
		return
	}

	if kind, ok := h.sessions.TakePending(chatID); ok {
		h.handleAwait(ctx, chatID, kind, text)
		return
	}

	h.reply(chatID, "I did not understand that. Send /home for the list of commands.")
}

// routeCommand dispatches a recognized command.
func (h *Handler) routeCommand(ctx context.Context, chatID int64, cmd string, args string) {
	h.logger.Debug("routing command", "chat_id", chatID, "cmd", cmd)

	switch cmd {
	case "start", "home":
		h.sendHome(chatID)

	case "login":
		if args != "" {
			h.handleLoginInput(chatID, args)
			return
		}
		h.prompt(chatID, session.AwaitLogin, "Send the admin password:")

	case "list":
		h.handleList(ctx, chatID)

	case "get":
		if args != "" {
			h.handleGetInput(ctx, chatID, args)
			return
		}
		h.prompt(chatID, session.AwaitGetID, "Send the product id:")

	case "search":
		if args != "" {
			h.handleSearchInput(ctx, chatID, args)
			return
		}
		h.prompt(chatID, session.AwaitSearch, "Send the search keyword:")

	case "lowstock":
		h.handleLowStock(ctx, chatID, args)

	case "recent":
		h.handleRecent(chatID)

	case "add":
		if !h.requireAdmin(chatID) {
			return
		}
		if args != "" {
			h.handleAddInput(ctx, chatID, args)
			return
		}
		h.prompt(chatID, session.AwaitAdd, "Send the new product as: name, description, price, stock")

	case "update":
		if !h.requireAdmin(chatID) {
			return
		}
		if args != "" {
			h.handleUpdateInput(ctx, chatID, args)
			return
		}
		h.prompt(chatID, session.AwaitUpdate, "Send the update as: id, field=value, ... (fields: name, description, price, stock)")

	case "delete":
		if !h.requireAdmin(chatID) {
			return
		}
		if args != "" {
			h.handleDeleteInput(ctx, chatID, args)
			return
		}
		h.prompt(chatID, session.AwaitDelete, "Send the id of the product to delete:")

	default:
		h.reply(chatID, "Unknown command. Send /home for the list of commands.")
	}
}

// handleAwait interprets free text according to the consumed await state.
func (h *Handler) handleAwait(ctx context.Context, chatID int64, kind session.Await, text string) {
	switch kind {
	case session.AwaitLogin:
		h.handleLoginInput(chatID, text)
	case session.AwaitGetID:
		h.handleGetInput(ctx, chatID, text)
	case session.AwaitAdd:
		h.handleAddInput(ctx, chatID, text)
	case session.AwaitUpdate:
		h.handleUpdateInput(ctx, chatID, text)
	case session.AwaitDelete:
		h.handleDeleteInput(ctx, chatID, text)
	case session.AwaitSearch:
		h.handleSearchInput(ctx, chatID, text)
	}
}

// requireAdmin gates write commands. Unauthorized chats get a warning and no
// state transition.
func (h *Handler) requireAdmin(chatID int64) bool {
	if h.sessions.IsAuthorized(chatID) {
		return true
	}
	h.reply(chatID, "Admin access required. Log in first with /login.")
	return false
}

func (h *Handler) handleLoginInput(chatID int64, password string) {
	if password != h.adminPassword {
		h.reply(chatID, "Wrong password.")
		return
	}
	h.sessions.Authorize(chatID)
	h.reply(chatID, "Login successful. Admin commands are now available.")
}

func (h *Handler) handleList(ctx context.Context, chatID int64) {
	products, err := h.gateway.List(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatLines(products, "No products yet."))
}

func (h *Handler) handleGetInput(ctx context.Context, chatID int64, text string) {
	id, err := parseID(text)
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}
	product, err := h.gateway.Get(ctx, id)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.sessions.PushRecent(chatID, *product)
	h.reply(chatID, formatProduct(*product))
}

func (h *Handler) handleAddInput(ctx context.Context, chatID int64, text string) {
	create, err := parseAddInput(text)
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}
	id, err := h.gateway.Create(ctx, create)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Product added with id %d.", id))
}

func (h *Handler) handleUpdateInput(ctx context.Context, chatID int64, text string) {
	id, fields, err := parseUpdateInput(text)
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}
	if err := h.gateway.Update(ctx, id, fields); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Product %d updated.", id))
}

func (h *Handler) handleDeleteInput(ctx context.Context, chatID int64, text string) {
	id, err := parseID(text)
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}
	if err := h.gateway.Delete(ctx, id); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Product %d deleted.", id))
}

func (h *Handler) handleSearchInput(ctx context.Context, chatID int64, keyword string) {
	products, err := h.gateway.Search(ctx, keyword)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatLines(products, fmt.Sprintf("Nothing found for %q.", keyword)))
}

func (h *Handler) handleLowStock(ctx context.Context, chatID int64, args string) {
	threshold := 5
	if args != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			h.reply(chatID, fmt.Sprintf("Invalid threshold: %q.", args))
			return
		}
		threshold = parsed
	}
	products, err := h.gateway.LowStock(ctx, threshold)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatLines(products, fmt.Sprintf("No products below stock %d.", threshold)))
}

func (h *Handler) handleRecent(chatID int64) {
	history := h.sessions.Recent(chatID)
	if len(history) == 0 {
		h.reply(chatID, "You have not viewed any products yet.")
		return
	}
	var b strings.Builder
	b.WriteString("Recently viewed:\n")
	for _, p := range history {
		b.WriteString(formatLine(p))
		b.WriteString("\n")
	}
	h.reply(chatID, strings.TrimRight(b.String(), "\n"))
}

// sendHome shows the command list with the reply keyboard.
func (h *Handler) sendHome(chatID int64) {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/list"),
			tgbotapi.NewKeyboardButton("/get"),
			tgbotapi.NewKeyboardButton("/search"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/add"),
			tgbotapi.NewKeyboardButton("/update"),
			tgbotapi.NewKeyboardButton("/delete"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/lowstock"),
			tgbotapi.NewKeyboardButton("/recent"),
			tgbotapi.NewKeyboardButton("/login"),
		),
	)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

// prompt enters an await state and describes the expected input.
func (h *Handler) prompt(chatID int64, kind session.Await, text string) {
	h.sessions.SetPending(chatID, kind)
	h.reply(chatID, text)
}

// reply sends plain text to the chat.
func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

// replyError renders a backend failure as user-visible text.
func (h *Handler) replyError(chatID int64, err error) {
	h.logger.Warn("Gateway call failed", "chat_id", chatID, "error", err)

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotFound):
		h.reply(chatID, "Product not found.")
	case errors.Is(err, client.ErrUnavailable):
		h.reply(chatID, "The catalog service is unavailable right now, try again later.")
	case errors.As(err, &apiErr) && apiErr.Detail != "":
		h.reply(chatID, "Error: "+apiErr.Detail)
	default:
		h.reply(chatID, "Something went wrong, try again later.")
	}
}
