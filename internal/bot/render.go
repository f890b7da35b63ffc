package bot

import (
	"fmt"
	"strings"

	"github.com/silkyway/catalog/internal/bot/client"
)

// formatLine renders a product as a single list entry.
func formatLine(p client.Product) string {
	return fmt.Sprintf("%d. %s - $%.2f", p.ID, p.Name, p.Price)
}

// formatProduct renders a full product record.
func formatProduct(p client.Product) string {
	return fmt.Sprintf("%d. %s\n%s\nPrice: $%.2f\nStock: %d", p.ID, p.Name, p.Description, p.Price, p.Stock)
}

// formatLines renders a product list one entry per line, or the given
// placeholder when the list is empty.
func formatLines(products []client.Product, empty string) string {
	if len(products) == 0 {
		return empty
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, formatLine(p))
	}
	return strings.Join(lines, "\n")
}
