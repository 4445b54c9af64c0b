package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/plotforge/barchart/pkg/observability"
)

// DefaultTimeout bounds a single fetch attempt.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps remote dataset payloads at 32 MiB. Larger responses are
// rejected rather than truncated.
const maxBodySize = 32 << 20

// Fetch retrieves the body at rawURL with retry/backoff on transient
// failures. Server errors (5xx) and network failures are retried; client
// errors (4xx) fail immediately.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	var body []byte
	err = RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}

		observability.HTTP().OnRequest(ctx, http.MethodGet, u.Host, u.Path)
		start := time.Now()

		resp, err := client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodGet, u.Host, u.Path, err)
			return Retryable(err)
		}
		defer resp.Body.Close()

		observability.HTTP().OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 500:
			return Retryable(fmt.Errorf("GET %s: %s", rawURL, resp.Status))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("GET %s: %s", rawURL, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
		if err != nil {
			return Retryable(err)
		}
		if len(body) > maxBodySize {
			return fmt.Errorf("GET %s: response exceeds %d bytes", rawURL, maxBodySize)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
