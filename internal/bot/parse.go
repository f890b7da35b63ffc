package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/silkyway/catalog/internal/bot/client"
)

// parseCommand splits "/cmd args" into its parts. A trailing "@botname" on
// the command is stripped, as Telegram appends it in group chats.
func parseCommand(text string) (cmd string, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// parseID parses a product id from user text.
func parseID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid product id, send a positive number", strings.TrimSpace(text))
	}
	return id, nil
}

// parseAddInput parses "name, description, price, stock" into a create
// payload. Exactly four comma-separated values are required.
func parseAddInput(text string) (client.ProductCreate, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return client.ProductCreate{}, fmt.Errorf("expected exactly 4 values: name, description, price, stock")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	price, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return client.ProductCreate{}, fmt.Errorf("%q is not a valid price", parts[2])
	}
	stock, err := strconv.Atoi(parts[3])
	if err != nil {
		return client.ProductCreate{}, fmt.Errorf("%q is not a valid stock count", parts[3])
	}

	return client.ProductCreate{
		Name:        parts[0],
		Description: parts[1],
		Price:       price,
		Stock:       stock,
	}, nil
}

// parseUpdateInput parses "id, field=value, field=value" into the id and the
// set of fields to change. Price and stock values are converted to numbers;
// any other field is forwarded as text and the gateway decides whether it
// knows the name.
func parseUpdateInput(text string) (int64, map[string]any, error) {
	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return 0, nil, fmt.Errorf("expected: id, field=value, ... (fields: name, description, price, stock)")
	}

	id, err := parseID(parts[0])
	if err != nil {
		return 0, nil, err
	}

	fields := make(map[string]any, len(parts)-1)
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return 0, nil, fmt.Errorf("%q is not a field=value pair", strings.TrimSpace(part))
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "price":
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%q is not a valid price", value)
			}
			fields[key] = price
		case "stock":
			stock, err := strconv.Atoi(value)
			if err != nil {
				return 0, nil, fmt.Errorf("%q is not a valid stock count", value)
			}
			fields[key] = stock
		default:
			fields[key] = value
		}
	}
	return id, fields, nil
}
