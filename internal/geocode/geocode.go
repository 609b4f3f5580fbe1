// Package geocode resolves street addresses to coordinates and address
// components through Google and Nominatim (OpenStreetMap).
package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/feedingfoundation/locator/internal/constants"
)

// ErrNoResult is returned when a provider answers but finds nothing.
var ErrNoResult = errors.New("no geocoding result")

// Result is a geocoded address. String fields are empty when the provider
// did not report them.
type Result struct {
	Lat    float64
	Lng    float64
	City   string
	State  string
	Zip    string
	County string
}

// Complete reports whether every address component is known.
func (r Result) Complete() bool {
	return r.City != "" && r.State != "" && r.Zip != "" && r.County != ""
}

// fill copies the components r lacks from other.
func (r Result) fill(other Result) Result {
	if r.City == "" {
		r.City = other.City
	}
	if r.State == "" {
		r.State = other.State
	}
	if r.Zip == "" {
		r.Zip = other.Zip
	}
	if r.County == "" {
		r.County = other.County
	}
	return r
}

// Geocoder looks up a single address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// Option configures a provider client.
type Option func(*client)

// WithBaseURL points the client at another endpoint, e.g. a self-hosted
// Nominatim or a test server.
func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.http = hc }
}

// WithInterval sets the minimum spacing between requests. Zero disables
// throttling.
func WithInterval(d time.Duration) Option {
	return func(c *client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *client) { c.userAgent = ua }
}

type client struct {
	name      string
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

func newClient(name, baseURL string, interval time.Duration, opts []Option) *client {
	c := &client{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{Timeout: constants.GeocodeTimeout},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON waits for the rate limiter, issues a GET and decodes the body into
// out.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", c.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.name, err)
	}
	return nil
}
