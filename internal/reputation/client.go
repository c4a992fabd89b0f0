package reputation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Lookup errors. The reputation service is an external collaborator; every
// failure mode surfaces as the same generic error so callers don't grow
// logic around transport details they can't act on.
var (
	// ErrLookupFailed is returned for any transport or server failure.
	ErrLookupFailed = errors.New("reputation lookup failed")

	// ErrNoToken is returned when the client is created without an API token.
	ErrNoToken = errors.New("no reputation API token configured")

	// ErrNoEndpoint is returned when the client is created without an endpoint.
	ErrNoEndpoint = errors.New("no reputation API endpoint configured")
)

// maxResponseSize bounds how much of the API response is read.
const maxResponseSize = 1 << 20 // 1MB

// Client calls the remote threat-list API. The call is stateless: one URL
// in, one boolean out. Authentication is a bearer token from external
// configuration.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for lookups.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a reputation client for the given API endpoint and
// bearer token.
func NewClient(endpoint, token string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if token == "" {
		return nil, ErrNoToken
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid reputation endpoint: %w", err)
	}

	c := &Client{
		httpClient: http.DefaultClient,
		endpoint:   endpoint,
		token:      token,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// lookupRequest is the JSON body sent to the threat-list API.
type lookupRequest struct {
	URL string `json:"url"`
}

// lookupResponse is the JSON body returned by the threat-list API. The URL
// is flagged unsafe when at least one threat match is reported.
type lookupResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
	} `json:"matches"`
}

// IsFlagged reports whether the remote threat list flags the given URL as
// unsafe. Any transport error, non-200 status, or undecodable response
// returns an error wrapping ErrLookupFailed.
func (c *Client) IsFlagged(ctx context.Context, rawURL string) (bool, error) {
	body, err := json.Marshal(lookupRequest{URL: rawURL})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	flagged := len(result.Matches) > 0
	c.logger.Debug("reputation lookup", "flagged", flagged, "matches", len(result.Matches))
	return flagged, nil
}
