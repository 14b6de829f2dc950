package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/parser"
)

// errUpstreamNotFound marks a 404 so each endpoint can build its own ErrNotFound.
var errUpstreamNotFound = errors.New("upstream returned 404")

// fetchRecords performs one GET against requestURL and parses the body with p.
// Successful bodies are cached by URL; failures are never cached.
func fetchRecords[T any](ctx context.Context, c *client, endpoint, requestURL string, p parser.Parser[T]) ([]T, error) {
	logger := config.GetLogger()

	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, requestURL); ok {
			records, err := p.Parse(bytes.NewReader(body))
			if err == nil {
				metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "cache").Inc()
				logger.Debug().Str("url", requestURL).Int("count", len(records)).Msg("Served from response cache")
				return records, nil
			}
			logger.Warn().Err(err).Str("url", requestURL).Msg("Discarding unreadable cached response")
		}
	}

	body, err := c.get(ctx, endpoint, requestURL)
	if err != nil {
		return nil, err
	}

	records, err := p.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ctx, requestURL, body)
	}
	return records, nil
}

// get returns the UTF-8 body of a 2xx response. A 404 yields errUpstreamNotFound;
// every other failure is an *apperrors.ErrNetworkFailure.
func (c *client) get(ctx context.Context, endpoint, requestURL string) ([]byte, error) {
	logger := config.GetLogger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &apperrors.ErrNetworkFailure{URL: requestURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		logger.Error().Err(err).Str("url", requestURL).Msg("Upstream request failed")
		return nil, &apperrors.ErrNetworkFailure{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errUpstreamNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error().Int("status", resp.StatusCode).Str("url", requestURL).Msg("Unexpected upstream status")
		return nil, &apperrors.ErrNetworkFailure{URL: requestURL, StatusCode: resp.StatusCode}
	}

	reader, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.NewMalformedResponseError(endpoint, "charset", err)
	}
	body, err := io.ReadAll(io.LimitReader(reader, c.maxBodyBytes+1))
	if err != nil {
		return nil, &apperrors.ErrNetworkFailure{URL: requestURL, Err: err}
	}
	if int64(len(body)) > c.maxBodyBytes {
		logger.Error().Str("url", requestURL).Int64("limit", c.maxBodyBytes).Msg("Upstream response too large")
		return nil, apperrors.NewMalformedResponseError(endpoint, fmt.Sprintf("body exceeds %d bytes", c.maxBodyBytes), nil)
	}

	logger.Debug().Str("url", requestURL).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("Upstream response received")
	return body, nil
}
