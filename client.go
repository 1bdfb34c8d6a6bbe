package metro

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hopperelec/metro-api-client/internal/jsoncodec"
)

const maxErrorBody = 4 << 10

// Client is a typed client for the Metro real-time proxy. It is safe for
// concurrent use; request deadlines are imposed by the caller's context.
type Client struct {
	baseURL  string
	hc       *http.Client
	validate *validator.Validate
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the HTTP client used for both REST requests and
// stream connections. The default has no global timeout so it can hold
// long-lived stream connections open; pass one with a Timeout only if the
// Client is used for REST calls alone.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.hc = hc }
}

// NewClient creates a client for the proxy at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hc == nil {
		c.hc = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		}
	}
	return c
}

// checkOptions validates a request-option struct, wrapping failures so they
// are distinguishable from transport errors. Nil options mean "no filtering"
// and are always valid.
func (c *Client) checkOptions(opts any) error {
	if opts == nil {
		return nil
	}
	if v := reflect.ValueOf(opts); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	if err := c.validate.Struct(opts); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// get issues one GET and decodes the JSON body into out. A non-2xx status
// becomes an *APIError carrying the response body; a body that is not valid
// JSON for the expected shape becomes a decode error.
func (c *Client) get(ctx context.Context, path, query string, out any) error {
	u := c.baseURL + path
	if query != "" {
		u += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("metro: GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	}
	if err := jsoncodec.Decode(resp.Body, out); err != nil {
		return fmt.Errorf("metro: decoding GET %s response: %w", path, err)
	}
	return nil
}

func pathEscape(segment string) string {
	return url.PathEscape(segment)
}
