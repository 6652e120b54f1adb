// Package geoip resolves an approximate user location from an IP address
// using free geolocation services. Each provider sits behind its own
// circuit breaker so an outage at one does not stall requests.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Location is a resolved approximate location.
type Location struct {
	Country        string  `json:"country"`
	CountryCode    string  `json:"countryCode"`
	City           string  `json:"city"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Currency       string  `json:"currency"`
	CurrencySymbol string  `json:"currencySymbol"`
	Timezone       string  `json:"timezone"`
}

// DefaultLocation is returned when every provider fails.
func DefaultLocation() Location {
	return Location{
		Country:        "United States",
		CountryCode:    "US",
		City:           "New York",
		Latitude:       40.7128,
		Longitude:      -74.0060,
		Currency:       "USD",
		CurrencySymbol: "$",
		Timezone:       "America/New_York",
	}
}

var errUnexpectedStatus = errors.New("unexpected status code")

type provider struct {
	name string
	url  string // %s is replaced with the IP; empty IP resolves the caller
	cb   *gobreaker.CircuitBreaker
	// parse converts the provider's JSON body into a Location.
	parse func(body []byte) (Location, error)
}

// Client resolves locations through a chain of providers, first success
// wins.
type Client struct {
	httpClient *http.Client
	providers  []*provider
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithProviderURLs overrides the provider endpoints, mainly for tests.
// The order matches NewClient's default chain: ipapi.co then ip-api.com.
func WithProviderURLs(primary, fallback string) Option {
	return func(cl *Client) {
		cl.providers[0].url = primary
		cl.providers[1].url = fallback
	}
}

// NewClient builds the default provider chain: ipapi.co (1000 req/day
// free) with ip-api.com (45 req/min free) as fallback.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     log.With().Str("component", "geoip").Logger(),
		providers: []*provider{
			{
				name:  "ipapi.co",
				url:   "https://ipapi.co/%s/json/",
				parse: parseIpapiCo,
				cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
					Name:        "ipapi.co",
					MaxRequests: 5,
					Interval:    1 * time.Minute,
					Timeout:     2 * time.Minute,
				}),
			},
			{
				name:  "ip-api.com",
				url:   "http://ip-api.com/json/%s",
				parse: parseIPAPICom,
				cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
					Name:        "ip-api.com",
					MaxRequests: 5,
					Interval:    1 * time.Minute,
					Timeout:     2 * time.Minute,
				}),
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve looks up the location for ip. An empty ip asks the provider to
// resolve the caller's own address. On total failure the New York default
// is returned along with the last error.
func (c *Client) Resolve(ctx context.Context, ip string) (Location, error) {
	var lastErr error
	for _, p := range c.providers {
		loc, err := c.resolveWith(ctx, p, ip)
		if err == nil {
			return loc, nil
		}
		lastErr = err
		c.logger.Warn().Err(err).Str("provider", p.name).Msg("Geolocation provider failed")
	}
	return DefaultLocation(), fmt.Errorf("all geolocation providers failed: %w", lastErr)
}

func (c *Client) resolveWith(ctx context.Context, p *provider, ip string) (Location, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		url := fmt.Sprintf(p.url, ip)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}

		loc, err := p.parse(body)
		if err != nil {
			return nil, err
		}
		return loc, nil
	})
	if err != nil {
		return Location{}, err
	}
	return result.(Location), nil
}

func parseIpapiCo(body []byte) (Location, error) {
	var data struct {
		CountryName string  `json:"country_name"`
		CountryCode string  `json:"country_code"`
		City        string  `json:"city"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Currency    string  `json:"currency"`
		Timezone    string  `json:"timezone"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return Location{}, fmt.Errorf("decoding ipapi.co response: %w", err)
	}

	loc := DefaultLocation()
	if data.CountryName != "" {
		loc.Country = data.CountryName
	}
	if data.CountryCode != "" {
		loc.CountryCode = data.CountryCode
	}
	if data.City != "" {
		loc.City = data.City
	}
	if data.Latitude != 0 || data.Longitude != 0 {
		loc.Latitude = data.Latitude
		loc.Longitude = data.Longitude
	}
	if data.Currency != "" {
		loc.Currency = data.Currency
	}
	loc.CurrencySymbol = CurrencySymbol(loc.Currency)
	if data.Timezone != "" {
		loc.Timezone = data.Timezone
	}
	return loc, nil
}

func parseIPAPICom(body []byte) (Location, error) {
	var data struct {
		Status      string  `json:"status"`
		Country     string  `json:"country"`
		CountryCode string  `json:"countryCode"`
		City        string  `json:"city"`
		Lat         float64 `json:"lat"`
		Lon         float64 `json:"lon"`
		Timezone    string  `json:"timezone"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return Location{}, fmt.Errorf("decoding ip-api.com response: %w", err)
	}
	if data.Status == "fail" {
		return Location{}, errors.New("ip-api.com lookup failed")
	}

	loc := DefaultLocation()
	if data.Country != "" {
		loc.Country = data.Country
	}
	if data.CountryCode != "" {
		loc.CountryCode = data.CountryCode
	}
	if data.City != "" {
		loc.City = data.City
	}
	if data.Lat != 0 || data.Lon != 0 {
		loc.Latitude = data.Lat
		loc.Longitude = data.Lon
	}
	// ip-api.com has no currency field; derive it from the country.
	loc.Currency = CurrencyForCountry(loc.CountryCode)
	loc.CurrencySymbol = CurrencySymbol(loc.Currency)
	if data.Timezone != "" {
		loc.Timezone = data.Timezone
	}
	return loc, nil
}
