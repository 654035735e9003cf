package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/justinas/nosurf"
	"github.com/myrjola/fraudintake/internal/errors"
)

// Client drives the WhatsApp webhook and the admin API of a running server.
type Client struct {
	client    *http.Client
	url       string
	csrfToken string
}

// NewClient creates an HTTP client with a cookie jar so that admin sessions survive between requests.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client:    &http.Client{Jar: jar},
		url:       url,
		csrfToken: "",
	}, nil
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
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req, nil
}

// Get fetches a URL and returns the response. The caller closes the body.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// Media is an attachment sent along with a WhatsApp message.
type Media struct {
	URL         string
	ContentType string
}

type twimlResponse struct {
	Message string `xml:"Message"`
}

// SendWhatsApp posts a message to the webhook the way Twilio does and returns the text of the reply.
func (c *Client) SendWhatsApp(ctx context.Context, from, body string, media ...Media) (string, error) {
	form := neturl.Values{}
	form.Set("From", from)
	form.Set("Body", body)
	form.Set("NumMedia", strconv.Itoa(len(media)))
	for i, m := range media {
		form.Set("MediaUrl"+strconv.Itoa(i), m.URL)
		form.Set("MediaContentType"+strconv.Itoa(i), m.ContentType)
	}

	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodPost, "/whatsapp", strings.NewReader(form.Encode())); err != nil {
		return "", errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if resp, err = c.client.Do(req); err != nil {
		return "", errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return "", errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	var reply twimlResponse
	if err = xml.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", errors.Wrap(err, "decode twiml")
	}
	return reply.Message, nil
}

// CSRFToken fetches and remembers the token the admin API expects on unsafe requests.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	if c.csrfToken != "" {
		return c.csrfToken, nil
	}
	var body struct {
		CSRFToken string `json:"csrf_token"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/csrf", nil, &body); err != nil {
		return "", errors.Wrap(err, "get csrf token")
	}
	if body.CSRFToken == "" {
		return "", errors.New("empty csrf token")
	}
	c.csrfToken = body.CSRFToken
	return c.csrfToken, nil
}

// Login signs in to the admin API.
func (c *Client) Login(ctx context.Context, username, password string) error {
	status, err := c.DoJSON(ctx, http.MethodPost, "/api/admin/login",
		map[string]string{"username": username, "password": password}, nil)
	if err != nil {
		return errors.Wrap(err, "post login")
	}
	if status != http.StatusOK {
		return errors.New("unexpected status code", slog.Int("status", status))
	}
	return nil
}

// Logout signs out of the admin API.
func (c *Client) Logout(ctx context.Context) error {
	status, err := c.DoJSON(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
	if err != nil {
		return errors.Wrap(err, "post logout")
	}
	if status != http.StatusOK {
		return errors.New("unexpected status code", slog.Int("status", status))
	}
	return nil
}

// DoJSON sends in as a JSON body and decodes a successful JSON response into out when it's not nil.
//
// Unsafe methods carry the CSRF token. The response status is returned also when it signals an error.
func (c *Client) DoJSON(ctx context.Context, method, urlPath string, in, out any) (int, error) {
	return c.do(ctx, method, urlPath, in, out)
}

func (c *Client) do(ctx context.Context, method, urlPath string, in, out any) (int, error) {
	var (
		err  error
		body io.Reader
		req  *http.Request
		resp *http.Response
	)
	if in != nil {
		var b []byte
		if b, err = json.Marshal(in); err != nil {
			return 0, errors.Wrap(err, "marshal request body")
		}
		body = bytes.NewReader(b)
	}
	if req, err = c.newRequestWithContext(ctx, method, urlPath, body); err != nil {
		return 0, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		var token string
		if token, err = c.CSRFToken(ctx); err != nil {
			return 0, err
		}
		req.Header.Set(nosurf.HeaderName, token)
	}
	if resp, err = c.client.Do(req); err != nil {
		return 0, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "decode response body")
		}
	}
	return resp.StatusCode, nil
}
