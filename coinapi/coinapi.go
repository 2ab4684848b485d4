// Package coinapi implements a price oracle on top of the CoinAPI.io exchange rate endpoint.
package coinapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cryptofolio"
)

const (
	// DefaultBaseURL is the CoinAPI REST endpoint.
	DefaultBaseURL = "https://rest.coinapi.io"
	// DefaultPath is the exchange rate path, {asset} and {currency} are substituted.
	DefaultPath = "/v1/exchangerate/{asset}/{currency}"
	// DefaultRateField is the JSONPath of the rate in the response.
	DefaultRateField = "$.rate"
	// APIKeyEnv is the environment variable holding the API key.
	APIKeyEnv = "COINAPI_KEY"
	// APIKeyHeader is the authentication header expected by CoinAPI.
	APIKeyHeader = "X-CoinAPI-Key"
)

// Client fetches exchange rates. It performs exactly one request per Rate call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	path       string
	rateField  string
	apiKey     string
	logger     cryptofolio.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client to another host, like a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// WithPath replaces the request path template.
func WithPath(path string) Option {
	return func(c *Client) { c.path = path }
}

// WithRateField sets the JSONPath of the rate, e.g. "$.price" for product lookups.
func WithRateField(field string) Option {
	return func(c *Client) { c.rateField = field }
}

// WithHTTPClient sets the http client, its transport and timeout apply to every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger of requests.
func WithLogger(logger cryptofolio.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a CoinAPI client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: new(http.Client),
		baseURL:    DefaultBaseURL,
		path:       DefaultPath,
		rateField:  DefaultRateField,
		apiKey:     apiKey,
		logger:     cryptofolio.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the current rate of asset in currency.
//
// Any failure, including a response without the rate field, wraps
// cryptofolio.ErrUnavailableRate.
func (c *Client) Rate(ctx context.Context, asset, currency string) (float64, error) {
	path := strings.NewReplacer(
		"{asset}", url.PathEscape(asset),
		"{currency}", url.PathEscape(currency),
	).Replace(c.path)
	addr := c.baseURL + path

	var jobj any
	if err := c.jwget(ctx, addr, &jobj); err != nil {
		return 0, fmt.Errorf("%w: %w", cryptofolio.ErrUnavailableRate, err)
	}

	jval, err := jsonpath.Get(c.rateField, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s response has no %q: %w", cryptofolio.ErrUnavailableRate, asset, currency, c.rateField, err)
	}
	// jsonpath can return a list of 1 answer, or a single answer: keep the first one.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	rate, err := toFloat(jval)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s %q: %w", cryptofolio.ErrUnavailableRate, asset, currency, c.rateField, err)
	}
	return rate, nil
}

// toFloat reads a JSON number, or a numeric string as some APIs return.
func toFloat(jval any) (float64, error) {
	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric string %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", jval)
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into data.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.logger.Debugf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cannot http GET %v%v: %v %s", req.URL.Host, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("cannot decode %v%v response: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}
