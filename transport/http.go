package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/turtacn/permsdk/config"
	"github.com/turtacn/permsdk/models"
	"github.com/turtacn/permsdk/pkg/errors"
	"github.com/turtacn/permsdk/pkg/logger"
	"github.com/turtacn/permsdk/pkg/metrics"
)

// HTTPTransport talks JSON over HTTP with API-key authentication, pooled
// connections, and the configured retry policy.
type HTTPTransport struct {
	baseURL string
	apiKey  string
	client  *http.Client
	policy  RetryPolicy
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewHTTP builds a transport from SDK configuration.
func NewHTTP(cfg *config.Config, log logger.Logger, m *metrics.Metrics) *HTTPTransport {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &HTTPTransport{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		policy:  NewRetryPolicy(cfg.MaxRetries, cfg.RetryBackoff, cfg.RetryMultiplier, cfg.RetryOnStatus),
		log:     log.WithComponent("transport"),
		metrics: m,
	}
}

// Execute performs one operation, retrying transient failures per the
// policy. The returned error is always one of the SDK taxonomy kinds.
func (t *HTTPTransport) Execute(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.ErrValidation("failed to encode request body", "").WithCause(err)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()
	bo := t.policy.newBackOff()

	var lastErr error
	for attempt := 0; attempt <= t.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := t.wait(ctx, bo, lastErr); err != nil {
				break
			}
			t.log.Debug(ctx, "retrying request",
				logger.Fields{"endpoint": endpoint, "attempt": attempt, "request_id": requestID})
		}

		done, err := t.attempt(ctx, method, endpoint, requestID, payload, out)
		lastErr = err
		if done {
			break
		}
	}

	result := "ok"
	if lastErr != nil {
		result = string(errors.CodeOf(lastErr))
	}
	t.metrics.RecordRequest(endpoint, result, time.Since(start))
	return lastErr
}

// attempt performs a single request. done is true when the outcome is final:
// success, a non-retryable failure, or a context cancellation.
func (t *HTTPTransport) attempt(ctx context.Context, method, endpoint, requestID string, payload []byte, out interface{}) (done bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+endpoint, reader)
	if err != nil {
		return true, errors.ErrValidation("failed to build request", "").WithCause(err)
	}
	req.Header.Set("X-API-Key", t.apiKey)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, doErr := t.client.Do(req)
	if doErr != nil {
		return t.classifyTransportError(ctx, doErr, time.Since(started))
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return false, errors.ErrUnreachable("failed to read response body").WithCause(readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return true, nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return true, errors.ErrServerFault("failed to decode response body", resp.StatusCode).WithCause(err)
		}
		return true, nil
	}

	mapped := t.mapStatus(resp, respBody)
	// Conflicts are state, not weather: retrying cannot help.
	if t.policy.RetryableStatus[resp.StatusCode] && resp.StatusCode != http.StatusConflict {
		return false, mapped
	}
	return true, mapped
}

// classifyTransportError maps a client-side failure. Timeouts and network
// errors are retryable; context cancellation ends the call.
func (t *HTTPTransport) classifyTransportError(ctx context.Context, doErr error, elapsed time.Duration) (done bool, err error) {
	if ctx.Err() == context.Canceled {
		return true, errors.ErrUnreachable("request canceled").WithCause(ctx.Err())
	}

	var urlErr *url.Error
	if stderrors.As(doErr, &urlErr) && urlErr.Timeout() {
		return false, errors.ErrTimeout(
			fmt.Sprintf("request to %s timed out", t.baseURL), elapsed).WithCause(doErr)
	}
	if ctx.Err() == context.DeadlineExceeded {
		return true, errors.ErrTimeout("context deadline exceeded", elapsed).WithCause(doErr)
	}
	return false, errors.ErrUnreachable(
		fmt.Sprintf("failed to connect to %s", t.baseURL)).WithCause(doErr)
}

// mapStatus converts a non-2xx response into the taxonomy error it names.
func (t *HTTPTransport) mapStatus(resp *http.Response, body []byte) error {
	var apiErr models.APIError
	_ = json.Unmarshal(body, &apiErr)
	detail := apiErr.Detail
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.ErrAuthentication(detail)
	case resp.StatusCode == http.StatusBadRequest:
		return errors.ErrValidation(detail, apiErr.Field)
	case resp.StatusCode == http.StatusNotFound:
		return errors.ErrNotFound(detail, apiErr.ErrorType)
	case resp.StatusCode == http.StatusConflict:
		return errors.ErrConflict(detail)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.ErrRateLimited(detail, parseRetryAfter(resp.Header.Get("Retry-After")))
	case resp.StatusCode >= 500:
		return errors.ErrServerFault(detail, resp.StatusCode)
	default:
		return errors.ErrServerFault(detail, resp.StatusCode)
	}
}

// wait sleeps for the next backoff interval, honoring a larger Retry-After
// hint from the previous failure and aborting on context cancellation.
func (t *HTTPTransport) wait(ctx context.Context, bo backoff.BackOff, lastErr error) error {
	delay := bo.NextBackOff()
	if hint := errors.RetryAfter(lastErr); hint > delay {
		delay = hint
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases pooled connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
