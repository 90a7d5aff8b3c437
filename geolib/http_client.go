package geolib

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout is a bounded wait for a single provider call.
const DefaultHTTPTimeout = 5 * time.Second

type httpClient struct {
	userAgent string
	client    *http.Client
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		flushResponse(resp.Body)

		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	return resp, nil
}

func flushResponse(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}

// NewHTTPClient prepares a client for geolocation providers: it sets a
// user agent and converts 5xx responses into ErrBadStatus. Other
// responses are returned as is.
//
// The client keeps no state between requests: every lookup reaches
// upstream and is bounded only by a timeout of the given client. If
// timeout is not set, DefaultHTTPTimeout is used.
func NewHTTPClient(client *http.Client, userAgent string) HTTPClient {
	if client.Timeout == 0 {
		clone := *client
		clone.Timeout = DefaultHTTPTimeout
		client = &clone
	}

	return httpClient{
		userAgent: userAgent,
		client:    client,
	}
}
