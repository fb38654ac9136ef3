// Package headhunter is a minimal hh.ru API client used as a job posting
// source.
package headhunter

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/logger"
)

const (
	apiURL           = "https://api.hh.ru"
	userAgent        = "spigell/skillquiz (spigelly@gmail.com)"
	defaultRetries   = 2
	defaultRetryWait = 500 * time.Millisecond
)

// Client reads public vacancy data from the hh.ru API.
type Client struct {
	token      string
	logger     *zap.Logger
	httpClient *http.Client
	userAgent  string
	baseURL    string
	retries    int
	retryWait  time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithUserAgent overrides the HH-User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRetries sets how many times throttled or failed requests are retried
// and the base wait between attempts.
func WithRetries(n int, wait time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
		c.retryWait = wait
	}
}

// New creates a client. The token may be empty: public vacancies can be read
// anonymously.
func New(log *zap.Logger, token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger.WithFields(log, zap.String("component", "headhunter")),
		userAgent: userAgent,
		retries:   defaultRetries,
		retryWait: defaultRetryWait,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
