// Package locationiq provides a client for LocationIQ-style geocoding
// autocomplete, plus a debouncer with latest-wins race resolution for
// keystroke-driven search.
package locationiq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/tagmail/contact-cli/internal/model"
)

// ErrNetwork marks transport failures and non-200 responses. The client
// never retries; callers surface an empty result set plus the error.
var ErrNetwork = errors.New("locationiq: network error")

// Client searches a geocoding endpoint for location suggestions.
type Client interface {
	// Search returns autocomplete options for a free-text location query.
	// An empty query short-circuits to nil with no network call.
	Search(ctx context.Context, query string) ([]model.LocationOption, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit. LocationIQ's free tier
// allows 2 req/s.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a geocoding search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://us1.locationiq.com/v1/search",
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(2, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchItem is one element of the endpoint's array payload.
type searchItem struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (c *httpClient) Search(ctx context.Context, query string) ([]model.LocationOption, error) {
	if query == "" {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "locationiq: rate limit")
	}

	params := url.Values{
		"key":    {c.apiKey},
		"q":      {query},
		"format": {"json"},
	}
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "locationiq: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "locationiq: request: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrNetwork, "locationiq: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "locationiq: read body: %v", err)
	}

	var items []searchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, eris.Wrap(err, "locationiq: parse response")
	}

	options := make([]model.LocationOption, 0, len(items))
	for _, item := range items {
		options = append(options, model.LocationOption{
			Label: item.DisplayName,
			Lat:   item.Lat,
			Lon:   item.Lon,
		})
	}
	return options, nil
}
