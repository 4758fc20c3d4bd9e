package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-sync/core/catalog"

	"github.com/goccy/go-json"
)

// ErrUnavailable matches every failure of the listing service.
var ErrUnavailable = errors.New("listing service unavailable")

// Item is one record from the listing service.
type Item struct {
	ID          string
	RawName     string
	IsContainer bool
}

// Lister lists the items at the top level or inside one container.
type Lister interface {
	List(ctx context.Context, containerID string) ([]Item, error)
}

// StatusError reports a non-success response.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("listing returned %d: %s", e.StatusCode, e.Body)
}

// Is implements errors.Is support
func (e *StatusError) Is(target error) bool {
	return target == ErrUnavailable
}

// Client calls the listing HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

var _ Lister = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a listing client.
func New(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("listing api key required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("listing base url required")
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 20
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type resourceRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
}

type resourcePage struct {
	Items []resourceRecord `json:"items"`
}

// List returns the items at the top level (empty containerID) or inside the
// given container. Records without an id, or with an id that would escape
// its artifact directory, are dropped.
func (c *Client) List(ctx context.Context, containerID string) ([]Item, error) {
	endpoint, err := url.Parse(c.baseURL + "/resources")
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	if containerID != "" {
		params.Set("folderId", containerID)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request (latency=%v): %v", ErrUnavailable, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page resourcePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode listing response: %v", ErrUnavailable, err)
	}

	items := make([]Item, 0, len(page.Items))
	for _, rec := range page.Items {
		id := strings.TrimSpace(rec.ID)
		if !catalog.ValidID(id) {
			continue
		}
		items = append(items, Item{ID: id, RawName: rec.Name, IsContainer: rec.IsDir})
	}
	return items, nil
}

// EmbedURL returns the player URL for a leaf item.
func EmbedURL(embedBase, id string) string {
	return strings.TrimRight(embedBase, "/") + "/" + url.PathEscape(id)
}
