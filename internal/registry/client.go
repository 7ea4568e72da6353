package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/cargo-manager/internal/model"
)

// Registry defaults
const (
	DefaultBaseURL   = "https://crates.io"
	DefaultUserAgent = "cargo-manager (https://github.com/ytget/cargo-manager)"
	DefaultTimeout   = 20 * time.Second

	SearchPath   = "/api/v1/crates"
	MaxPageSize  = 100
	MaxErrorBody = 64 * 1024
)

// Client talks to a crates.io compatible registry
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a registry client. Empty values fall back to crates.io defaults.
func NewClient(baseURL, userAgent string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the registry root the client queries
func (c *Client) BaseURL() string {
	return c.baseURL
}

type searchResponse struct {
	Crates []crateJSON `json:"crates"`
	Meta   struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type crateJSON struct {
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	MaxVersion    string    `json:"max_version"`
	NewestVersion string    `json:"newest_version"`
	Downloads     int64     `json:"downloads"`
	Repository    *string   `json:"repository"`
	Documentation *string   `json:"documentation"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Search queries the registry for crates matching query. It returns at most
// limit crates in registry order and the total number of matches.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Crate, int, error) {
	endpoint := c.searchURL(query, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		return nil, 0, newError(resp.StatusCode, body)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	crates := make([]model.Crate, 0, len(payload.Crates))
	for _, cj := range payload.Crates {
		crates = append(crates, cj.toModel())
	}
	return crates, payload.Meta.Total, nil
}

func (c *Client) searchURL(query string, limit int) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("per_page", strconv.Itoa(ClampLimit(limit)))
	return c.baseURL + SearchPath + "?" + values.Encode()
}

// ClampLimit bounds a page size to what the registry accepts
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func (cj crateJSON) toModel() model.Crate {
	version := cj.MaxVersion
	if version == "" {
		version = cj.NewestVersion
	}
	return model.Crate{
		Name:          cj.Name,
		Description:   deref(cj.Description),
		MaxVersion:    version,
		Downloads:     cj.Downloads,
		Repository:    deref(cj.Repository),
		Documentation: deref(cj.Documentation),
		UpdatedAt:     cj.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
