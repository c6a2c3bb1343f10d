package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"time"
)

type Client struct {
	client       *http.Client
	url          string
	secFetchSite string
}

// NewClient creates an HTTP client with a cookie jar for session handling.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create unsafe cookie jar: %w", err)
	}
	return &Client{
		client:       &http.Client{Jar: jar},
		url:          url,
		secFetchSite: "",
	}, nil
}

// NewClientWithSecFetchSite creates a client that tags every request with the
// given Sec-Fetch-Site header value. Passing "cross-site" simulates a request
// from a foreign origin.
func NewClientWithSecFetchSite(url, secFetchSite string) (*Client, error) {
	client, err := NewClient(url)
	if err != nil {
		return nil, err
	}
	client.secFetchSite = secFetchSite
	return client, nil
}

// unsafeCookieJar stores cookies for plain HTTP test servers. It strips the
// Secure flag so that cookies set by the application survive the round trip
// without TLS.
type unsafeCookieJar struct {
	jar http.CookieJar
}

func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}
	return &unsafeCookieJar{jar: jar}, nil
}

func (j *unsafeCookieJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.jar.SetCookies(u, cookies)
}

func (j *unsafeCookieJar) Cookies(u *neturl.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return fmt.Errorf("close response body: %w", err)
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// GetJSON fetches a URL and decodes the JSON response into out when out is
// non-nil. It returns the HTTP status code.
func (c *Client) GetJSON(ctx context.Context, urlPath string, out any) (int, error) {
	return c.doJSON(ctx, http.MethodGet, urlPath, nil, out)
}

// PostJSON sends payload as a JSON request body and decodes the JSON response
// into out when out is non-nil. It returns the HTTP status code.
func (c *Client) PostJSON(ctx context.Context, urlPath string, payload, out any) (int, error) {
	return c.doJSON(ctx, http.MethodPost, urlPath, payload, out)
}

func (c *Client) doJSON(ctx context.Context, method, urlPath string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequestWithContext(ctx, method, urlPath, body)
	if err != nil {
		return 0, fmt.Errorf("create request with context: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = http.NewRequest(method, c.url+urlPath, body); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.secFetchSite != "" {
		req.Header.Set("Sec-Fetch-Site", c.secFetchSite)
	}
	return req.WithContext(ctx), nil
}

// Login signs in with the given display name, creating the user on first use.
func (c *Client) Login(ctx context.Context, displayName string) error {
	status, err := c.PostJSON(ctx, "/api/login", map[string]string{"display_name": displayName}, nil)
	if err != nil {
		return fmt.Errorf("post login: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected login status: %d", status)
	}
	return nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	status, err := c.PostJSON(ctx, "/api/logout", nil, nil)
	if err != nil {
		return fmt.Errorf("post logout: %w", err)
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("unexpected logout status: %d", status)
	}
	return nil
}
