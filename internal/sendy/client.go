// Package sendy is the client for a Sendy installation: one form-encoded
// subscribe call per candidate, classified into an Outcome, plus the read-only
// brand and list discovery endpoints.
//
// Subscribe never retries and never logs; callers decide what to record.
package sendy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/SendyUpload/internal/csvimport"
)

// DefaultTimeout bounds one call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

// Configuration errors. Their text is shown to operators as-is.
var (
	ErrMissingList   = errors.New("No Sendy List ID provided for subscription.")
	ErrMissingConfig = errors.New("Server configuration error (missing API key or URL).")
)

// Config is the immutable Sendy connection settings.
type Config struct {
	APIKey       string
	SubscribeURL string
	BrandsURL    string
	ListsURL     string
	ListID       string
	Timeout      time.Duration
}

// Client talks to one Sendy installation. It is safe for concurrent use and
// never mutated after construction; ForList returns a derived copy.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient uses hc as the transport. Redirect following is always
// disabled on the copy the Client keeps.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		c.httpClient = &copied
	}
}

// New creates a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	// A redirect is a transport success; its body is classified as-is.
	c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// ForList returns a copy of the client bound to listID. An empty listID keeps
// the configured default.
func (c *Client) ForList(listID string) *Client {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return c
	}
	derived := *c
	derived.cfg.ListID = listID
	return &derived
}

// ListID returns the list subscriptions are sent to.
func (c *Client) ListID() string {
	return c.cfg.ListID
}

// CheckConfig reports whether the API key and subscribe URL are present.
// It does not look at the list ID.
func (c *Client) CheckConfig() error {
	if c.cfg.APIKey == "" || c.cfg.SubscribeURL == "" {
		return ErrMissingConfig
	}
	return nil
}

// Subscribe submits one candidate and classifies the response. It always
// returns exactly one Outcome and never retries.
func (c *Client) Subscribe(ctx context.Context, cand csvimport.Candidate) Outcome {
	email := strings.TrimSpace(cand.Email)
	name := strings.TrimSpace(cand.Name)

	switch {
	case c.cfg.ListID == "":
		return configOutcome(email, name, ErrMissingList)
	case c.cfg.APIKey == "" || c.cfg.SubscribeURL == "":
		return configOutcome(email, name, ErrMissingConfig)
	}

	status, body, err := c.post(ctx, c.cfg.SubscribeURL, subscribeForm(c.cfg.APIKey, c.cfg.ListID, email, name))
	if err != nil {
		return TransportFailure(cand, err)
	}

	o := Classify(body, status)
	o.Email = email
	o.Name = name
	o.Message = o.describe()
	return o
}

// subscribeForm builds the subscribe body. The name is sent only when non-empty.
func subscribeForm(apiKey, listID, email, name string) url.Values {
	form := url.Values{}
	form.Set("api_key", apiKey)
	form.Set("list", listID)
	form.Set("email", email)
	if name != "" {
		form.Set("name", name)
	}
	return form
}

// post sends a form-encoded POST and returns status and body.
func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, string(body), nil
}

// TransportFailure builds the outcome for a candidate whose request never got
// an answer, including one skipped because the upload was cancelled.
func TransportFailure(cand csvimport.Candidate, err error) Outcome {
	o := Outcome{
		Kind:   TransportError,
		Email:  strings.TrimSpace(cand.Email),
		Name:   strings.TrimSpace(cand.Name),
		detail: err.Error(),
	}
	o.Message = o.describe()
	return o
}

func configOutcome(email, name string, err error) Outcome {
	o := Outcome{Kind: ConfigError, Email: email, Name: name, detail: err.Error()}
	o.Message = o.describe()
	return o
}
