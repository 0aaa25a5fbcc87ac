package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
)

const (
	acceptAPIJSON = "application/vnd.github.v3+json"
	// maxBodyExcerpt bounds the response body carried by an APIError.
	maxBodyExcerpt = 1024
)

// emptyResult is returned by Call when API use is disabled.
var emptyResult = json.RawMessage(`{}`)

// Client performs authorized calls against the GitHub REST API.
type Client struct {
	token     string
	disabled  bool
	transport Transport
	logger    config.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the transport chosen from the config.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger config.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client from cfg. The token, the API opt-out flag, the
// transport and the scratch directory all come from cfg.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg = cfg.WithDefaults()

	c := &Client{
		token:    cfg.Token,
		disabled: cfg.NoGitHubAPI,
		logger:   config.NopLogger(),
	}
	if cfg.Transport == config.TransportCurl {
		c.transport = NewCurlTransport(cfg.CurlPath, cfg.TempDir)
	} else {
		c.transport = NewHTTPTransport(nil)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// callOptions are the optional parts of one API call.
type callOptions struct {
	method  string
	body    any
	hasBody bool
	scopes  []string
}

// CallOption configures one API call.
type CallOption func(*callOptions)

// WithMethod sets the HTTP method. The default is GET.
func WithMethod(method string) CallOption {
	return func(o *callOptions) {
		o.method = method
	}
}

// WithBody JSON-encodes data as the request body.
func WithBody(data any) CallOption {
	return func(o *callOptions) {
		o.body = data
		o.hasBody = true
	}
}

// WithScopes records the token scopes the call needs. They are reported in
// the error when the call fails.
func WithScopes(scopes ...string) CallOption {
	return func(o *callOptions) {
		o.scopes = append(o.scopes, scopes...)
	}
}

// Call performs an authorized API request and returns the decoded JSON body.
//
// When API use is disabled the call is a no-op returning an empty JSON
// object. A 204 returns (nil, nil) without parsing. Any other 2xx must carry
// valid JSON. Non-2xx responses, and transport failures reported alongside a
// successful-looking status, are classified by raiseAPIError.
func (c *Client) Call(ctx context.Context, rawURL string, opts ...CallOption) (json.RawMessage, error) {
	if c.disabled {
		c.logger.Debug("GitHub API disabled, skipping call", "url", rawURL)
		return emptyResult, nil
	}

	o := callOptions{method: http.MethodGet}
	for _, opt := range opts {
		opt(&o)
	}

	req := &apiRequest{
		Method: o.method,
		URL:    rawURL,
		Header: http.Header{},
	}
	req.Header.Set("Accept", acceptAPIJSON)
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("User-Agent", DefaultUserAgent)

	if o.hasBody {
		data, err := json.Marshal(o.body)
		if err != nil {
			return nil, newFetchError(ErrMalformedRequest,
				fmt.Sprintf("failed to encode JSON request: %#v", o.body), err)
		}
		req.Body = data
	}

	c.logger.Debug("GitHub API request", "method", req.Method, "url", rawURL)

	resp, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("GitHub API %s %s: %w", req.Method, rawURL, err)
	}

	c.logger.Debug("GitHub API response", "url", rawURL, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || resp.TransportErr != nil {
		return nil, c.raiseAPIError(resp, o.scopes)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if !json.Valid(resp.Body) {
		var probe any
		err := json.Unmarshal(resp.Body, &probe)
		return nil, newFetchError(ErrMalformedResponse, "failed to parse JSON response", err)
	}

	return json.RawMessage(resp.Body), nil
}

// CallJSON performs Call and decodes the result into out. A 204 leaves out
// untouched.
func (c *Client) CallJSON(ctx context.Context, rawURL string, out any, opts ...CallOption) error {
	data, err := c.Call(ctx, rawURL, opts...)
	if err != nil {
		return err
	}
	if data == nil || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return newFetchError(ErrMalformedResponse, "failed to decode JSON response", err)
	}
	return nil
}

// apiErrorBody is the error document GitHub returns.
type apiErrorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// raiseAPIError classifies a failed response. Rate limiting is detected from
// the remaining-quota header first, so a 403 caused by an exhausted quota is
// not reported as an authentication failure.
func (c *Client) raiseAPIError(resp *apiResponse, scopes []string) error {
	var doc apiErrorBody
	message := ""
	if err := json.Unmarshal(resp.Body, &doc); err == nil && doc.Message != "" {
		message = doc.Message
	} else if resp.TransportErr != nil {
		message = resp.TransportErr.Error()
	} else {
		message = http.StatusText(resp.StatusCode)
	}

	apiErr := &APIError{
		Kind:       ErrAPI,
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       excerpt(resp.Body),
		Scopes:     scopes,
	}

	if isRateLimited(resp) {
		apiErr.Kind = ErrRateLimited
		if reset, ok := headerInt(resp.Header, "X-RateLimit-Reset"); ok {
			apiErr.Reset = time.Unix(int64(reset), 0)
		}
		return apiErr
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.Kind = ErrAuthenticationFailed
		if accepted := resp.Header.Get("X-Accepted-OAuth-Scopes"); accepted != "" && len(apiErr.Scopes) == 0 {
			apiErr.Scopes = splitScopes(accepted)
		}
	case http.StatusNotFound:
		apiErr.Kind = ErrNotFound
	case http.StatusUnprocessableEntity:
		apiErr.Kind = ErrValidationFailed
		for _, e := range doc.Errors {
			if e.Message != "" {
				apiErr.Errors = append(apiErr.Errors, e.Message)
				continue
			}
			apiErr.Errors = append(apiErr.Errors, fmt.Sprintf("%s.%s %s", e.Resource, e.Field, e.Code))
		}
	}

	return apiErr
}

// isRateLimited reports an exhausted quota. Only 403 and 429 responses are
// rate limits; a 401 is a bad token whatever the quota headers say.
func isRateLimited(resp *apiResponse) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	remaining, ok := headerInt(resp.Header, "X-RateLimit-Remaining")
	return ok && remaining <= 0
}

func headerInt(h http.Header, key string) (int, bool) {
	if h == nil {
		return 0, false
	}
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitScopes(header string) []string {
	var scopes []string
	for _, s := range strings.Split(header, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		cut := maxBodyExcerpt
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
