package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/metrics"
	"github.com/pders01/folio/internal/validation"
)

const (
	DefaultBaseURL   = "https://www.googleapis.com/books/v1"
	DefaultUserAgent = "folio/1.0 (book discovery; github.com/pders01/folio)"
	defaultTimeout   = 30 * time.Second
	defaultRPS       = 2.0
	defaultBurst     = 4
)

// Transport performs one page of a catalog search.
type Transport interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// AllowLocal lets BaseURL point at localhost or a private address.
	AllowLocal bool
	HTTPClient *http.Client
}

// Client is a rate-limited Google Books volumes client.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	base      *url.URL
	apiKey    string
	userAgent string
	log       *debuglog.FieldLogger
}

// NewClient validates the base URL and builds a client.
func NewClient(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	validator := validation.NewEndpointValidator()
	validator.AllowLocal = opts.AllowLocal
	base, err := validator.Validate(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		base:      base,
		apiKey:    opts.APIKey,
		userAgent: userAgent,
		log:       debuglog.WithFields(map[string]any{"component": "catalog", "host": base.Host}),
	}, nil
}

// Search fetches one page of volumes.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("canceled").Inc()
		return nil, &Error{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	u := c.searchURL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	c.log.Debugf("search q=%q start=%d max=%d lang=%q order=%q",
		req.Query, req.StartIndex, req.MaxResults, req.Language, req.OrderBy)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.CatalogRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, &Error{Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		c.log.Warnf("search failed with status %d", resp.StatusCode)
		return nil, statusError(resp.StatusCode, body)
	}

	var raw volumesResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	metrics.CatalogRequestsTotal.WithLabelValues("ok").Inc()

	out := &Response{
		TotalItems: raw.TotalItems,
		Items:      make([]Item, 0, len(raw.Items)),
	}
	for _, v := range raw.Items {
		out.Items = append(out.Items, v.toItem())
	}
	return out, nil
}

func (c *Client) searchURL(req Request) string {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	maxResults = min(maxResults, MaxResultsPerCall)
	startIndex := max(req.StartIndex, 0)

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(startIndex))
	if req.Language != "" {
		params.Set("langRestrict", req.Language)
	}
	if req.OrderBy != "" {
		params.Set("orderBy", req.OrderBy)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	u := *c.base
	u.Path = c.base.Path + "/volumes"
	u.RawQuery = params.Encode()
	return u.String()
}
