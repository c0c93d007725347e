// Package bizdata provides a client for a local-business-data search API:
// businesses near a coordinate matching a free-text query, with extracted
// contact emails.
package bizdata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/tagmail/contact-cli/internal/model"
)

var (
	// ErrNetwork marks transport failures and non-200 responses.
	ErrNetwork = errors.New("bizdata: network error")
	// ErrInvalidShape marks a response whose data field is not an array.
	// A misshapen payload is reported, never silently coerced to empty.
	ErrInvalidShape = errors.New("bizdata: response data is not an array")
)

// Client fetches businesses in an area. Single-shot: no pagination loop and
// no retry; the caller may invoke again with different parameters.
type Client interface {
	FetchBusinesses(ctx context.Context, query, lat, lon string) ([]model.BusinessRecord, error)
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

// WithLimit sets the maximum number of businesses per request.
func WithLimit(n int) Option {
	return func(c *httpClient) {
		c.limit = n
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	apiHost string
	baseURL string
	limit   int
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a business-search client. apiHost is sent as the
// x-rapidapi-host header alongside the key.
func NewClient(apiKey, apiHost string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		apiHost: apiHost,
		baseURL: "https://" + apiHost + "/search-in-area",
		limit:   20,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse keeps data raw so a non-array payload can be detected
// instead of json silently zeroing a typed slice.
type searchResponse struct {
	Data json.RawMessage `json:"data"`
}

func (c *httpClient) FetchBusinesses(ctx context.Context, query, lat, lon string) ([]model.BusinessRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "bizdata: rate limit")
	}

	params := url.Values{
		"query":                       {query},
		"lat":                         {lat},
		"lng":                         {lon},
		"zoom":                        {"13"},
		"limit":                       {strconv.Itoa(c.limit)},
		"language":                    {"en"},
		"region":                      {"us"},
		"extract_emails_and_contacts": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "bizdata: build request")
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "bizdata: request: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrNetwork, "bizdata: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "bizdata: read body: %v", err)
	}

	var envelope searchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, eris.Wrap(err, "bizdata: parse response")
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, eris.Wrap(ErrInvalidShape, "bizdata: missing data field")
	}

	var records []model.BusinessRecord
	if err := json.Unmarshal(envelope.Data, &records); err != nil {
		return nil, eris.Wrapf(ErrInvalidShape, "bizdata: %v", err)
	}
	return records, nil
}
