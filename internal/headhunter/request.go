package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/utils"
)

const (
	contentEncoding = "gzip"
	maxErrorBody    = 200
)

// StatusError is returned for non-200 API responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

func (c *Client) newRequest(ctx context.Context, endpoint string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	// hh.ru rejects requests without HH-User-Agent.
	req.Header.Set("HH-User-Agent", c.userAgent)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)

	if q != nil {
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

// getJSON performs a GET and decodes the body into target. Throttling and
// server errors are retried with backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := utils.Backoff(c.retryWait, 0, attempt)
			c.logger.Debug("retrying request",
				zap.String("url", endpoint),
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, wait); err != nil {
				return err
			}
		}

		err := c.fetch(ctx, endpoint, q, target)
		if err == nil {
			return nil
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) || !statusErr.retryable() {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) fetch(ctx context.Context, endpoint string, q url.Values, target any) error {
	req, err := c.newRequest(ctx, endpoint, q)
	if err != nil {
		return err
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("unexpected response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.TruncateForLog(string(data), maxErrorBody)),
		)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if target == nil {
		return nil
	}
	return json.Unmarshal(data, target)
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == contentEncoding {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}
