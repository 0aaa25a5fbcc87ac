package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultAPITimeout bounds a single API round trip.
	DefaultAPITimeout = 60 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "homebrew-spkdl-tap/1.0"
)

// apiRequest is one authorized API call as seen by a Transport.
type apiRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte // already JSON-encoded, nil for no body
}

// apiResponse is what a Transport hands back. It is consumed immediately.
type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// TransportErr is set when the transport reported a failure even though a
	// status code may have been read (for example curl exiting non-zero after
	// printing a 200).
	TransportErr error
}

// Transport performs one API round trip.
type Transport interface {
	RoundTrip(ctx context.Context, req *apiRequest) (*apiResponse, error)
}

// httpTransport is the net/http Transport.
type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a Transport backed by client. A nil client gets a
// client with DefaultAPITimeout.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = &http.Client{Timeout: DefaultAPITimeout}
	}
	return &httpTransport{client: client}
}

func (t *httpTransport) RoundTrip(ctx context.Context, req *apiRequest) (*apiResponse, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apiResponse{
			StatusCode:   resp.StatusCode,
			Header:       resp.Header,
			Body:         respBody,
			TransportErr: fmt.Errorf("read response body: %w", err),
		}, nil
	}

	return &apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
