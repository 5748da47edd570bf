// Package apiclient is the dashboard's only way to reach the GarajHub REST API.
//
// Every call is a single best-effort attempt: there are no retries, no
// backoff, and no client-imposed timeout. The caller's context is the only
// thing that can cut a request short. When a bearer token is supplied it is
// attached through an oauth2 static token transport; an empty token sends the
// request without an Authorization header and the API is expected to answer
// 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client performs requests against one API base URL (e.g. https://host/api).
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// New returns a Client for baseURL. A nil httpClient uses a plain
// http.Client with no timeout.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api base url has no host: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{base: u, http: httpClient, log: logger}, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Request describes one API call. Method defaults to GET.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Do performs req with the given bearer token and decodes a 2xx JSON
// response into out (which may be nil). Any failure is returned as *Error.
func (c *Client) Do(ctx context.Context, token string, req Request, out any) error {
	resp, err := c.send(ctx, token, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: TransportMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: DecodeMessage, Err: err}
	}
	return nil
}

// Stream performs a GET of path and copies a 2xx body to w. It returns the
// response's Content-Type so callers proxying a download can forward it.
func (c *Client) Stream(ctx context.Context, token, path string, w io.Writer) (string, error) {
	resp, err := c.send(ctx, token, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", errorFromResponse(resp.StatusCode, body)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", &Error{Status: resp.StatusCode, Message: TransportMessage, Err: err}
	}
	return resp.Header.Get("Content-Type"), nil
}

func (c *Client) send(ctx context.Context, token string, req Request) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{Message: GenericMessage, Err: fmt.Errorf("encode request body: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &Error{Message: GenericMessage, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.clientFor(ctx, token).Do(httpReq)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, &Error{Message: TransportMessage, Err: err}
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// clientFor returns an http.Client that attaches token as a bearer
// credential, or the bare client when token is empty.
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.http
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}
