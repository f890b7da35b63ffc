// Package client implements the HTTP client for the catalog gateway.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotFound is returned when the gateway answers 404.
	ErrNotFound = errors.New("product not found")

	// ErrUnavailable is returned when the gateway cannot be reached at all
	// (connection refused, timeout). Distinct from an API-level failure.
	ErrUnavailable = errors.New("catalog service unavailable")
)

// APIError carries a non-2xx gateway response that is neither 404 nor a
// transport failure.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("gateway returned %d", e.Status)
}

// Product mirrors the gateway's product representation.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// ProductCreate is the payload for creating a product.
type ProductCreate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// errorBody is the gateway's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// createdBody is the gateway's create confirmation.
type createdBody struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Client talks to the catalog gateway over HTTP with a fixed timeout.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New creates a gateway client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		http:   httpClient,
		logger: logger.With("component", "gateway_client"),
	}
}

// List fetches all products.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		SetError(&errorBody{}).
		Get("/products")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return products, nil
}

// Get fetches a single product by id.
func (c *Client) Get(ctx context.Context, id int64) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		SetError(&errorBody{}).
		Get("/products/" + strconv.FormatInt(id, 10))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create adds a new product and returns the assigned id.
func (c *Client) Create(ctx context.Context, product ProductCreate) (int64, error) {
	var created createdBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(product).
		SetResult(&created).
		SetError(&errorBody{}).
		Post("/products")
	if err := c.check(resp, err); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Update sends a partial update. Fields is a non-empty set of field names to
// new values; unknown keys are forwarded as-is and dropped by the gateway.
func (c *Client) Update(ctx context.Context, id int64, fields map[string]any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(fields).
		SetError(&errorBody{}).
		Put("/products/" + strconv.FormatInt(id, 10))
	return c.check(resp, err)
}

// Delete removes a product by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Delete("/products/" + strconv.FormatInt(id, 10))
	return c.check(resp, err)
}

// Search fetches products whose name contains the keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		SetError(&errorBody{}).
		Get("/search/" + url.PathEscape(keyword))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return products, nil
}

// LowStock fetches products with stock below the threshold.
func (c *Client) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("threshold", strconv.Itoa(threshold)).
		SetResult(&products).
		SetError(&errorBody{}).
		Get("/lowstock")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return products, nil
}

// WaitForReady probes the gateway's health endpoint with a bounded number of
// attempts. Run once at startup; steady-state requests are never retried.
func (c *Client) WaitForReady(ctx context.Context, attempts int, delay time.Duration) error {
	var lastErr error
	for i := range attempts {
		resp, err := c.http.R().SetContext(ctx).Get("/healthz")
		if err == nil && resp.IsSuccess() {
			c.logger.Info("Gateway is ready", "attempt", i+1)
			return nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("health check returned %d", resp.StatusCode())
		}
		c.logger.Warn("Gateway not ready yet", "attempt", i+1, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%w: gateway not ready after %d attempts: %v", ErrUnavailable, attempts, lastErr)
}

// check maps a resty response to the client's error taxonomy.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	detail := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		detail = body.Detail
	}
	if resp.StatusCode() == 404 {
		return ErrNotFound
	}
	return &APIError{Status: resp.StatusCode(), Detail: detail}
}
