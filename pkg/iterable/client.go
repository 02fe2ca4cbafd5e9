// Package iterable is a small client for the Iterable users API.
package iterable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukex/iterable-cog/pkg/models"
)

const (
	DefaultBaseURL = "https://api.iterable.com"

	apiKeyHeader = "Api-Key"

	defaultTimeout         = 30 * time.Second
	defaultMaxResponseSize = 10 * 1024 * 1024
)

type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxResponseSize int64
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         defaultTimeout,
		MaxResponseSize: defaultMaxResponseSize,
	}
}

// Client implements protocol.ContactRepository for a single API key.
type Client struct {
	apiKey string
	config Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(apiKey string, config Config, logger *slog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	if config.MaxResponseSize <= 0 {
		config.MaxResponseSize = defaultMaxResponseSize
	}

	return &Client{
		apiKey: apiKey,
		config: config,
		http: &http.Client{
			Transport:     nil,
			CheckRedirect: nil,
			Jar:           nil,
			Timeout:       config.Timeout,
		},
		logger: logger.With("module", "iterable_client"),
	}
}

func (c *Client) CreateOrUpdateContact(ctx context.Context, contact models.Contact) (*models.APIResponse, error) {
	var resp models.APIResponse

	if err := c.do(ctx, http.MethodPost, "/api/users/update", contact, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetContactByEmail returns an empty response when no contact exists for email.
func (c *Client) GetContactByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	var resp models.UserResponse

	path := "/api/users/getByEmail?email=" + url.QueryEscape(email)

	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) DeleteContactByEmail(ctx context.Context, email string) (*models.APIResponse, error) {
	var resp models.APIResponse

	if err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(email), nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.config.BaseURL, "/")+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Calling Iterable API", "method", method, "path", req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("iterable request failed: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.ErrorContext(ctx, "failed to close response body", "error", err)
		}
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(payload)) > c.config.MaxResponseSize {
		return fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.config.MaxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Method: method, Path: req.URL.Path, Status: resp.StatusCode, Body: string(payload)}
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}
