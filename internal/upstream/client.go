// Package upstream is the typed client for the booking REST API. Every
// response travels in an envelope {data, status, code, message, timestamp};
// a non-200 logical status inside a 2xx HTTP response is a failure. The
// client attaches the session's bearer token and performs a single
// refresh-and-retry when the upstream answers 401.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/config"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/pkg/token"
)

// ErrSessionExpired indicates the access token was rejected and the refresh
// attempt failed too. The caller must clear the session (forced logout).
var ErrSessionExpired = errors.New("session expired: token refresh failed")

// TokenSource supplies bearer tokens for authenticated calls and receives
// the rotated pair after a refresh. The session implements it.
type TokenSource interface {
	Tokens() models.TokenPair
	UpdateTokens(models.TokenPair)
}

// Client talks to the upstream booking API.
type Client struct {
	baseURL   string
	client    *http.Client
	logger    *logrus.Logger
	inspector *token.Inspector
}

// NewClient creates a new upstream API client
func NewClient(cfg config.UpstreamConfig, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger:    logger,
		inspector: token.NewInspector(cfg.RefreshLeeway),
	}
}

// envelope is the wire format of every upstream response.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Status    int             `json:"status"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
}

// do issues one request against the upstream API. For authenticated calls
// (ts != nil) it refreshes the access token pre-emptively when it is about
// to expire, and retries exactly once after a 401.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, ts TokenSource) error {
	if ts != nil {
		pair := ts.Tokens()
		if pair.AccessToken != "" && c.inspector.NeedsRefresh(pair.AccessToken) {
			if err := c.refreshTokens(ctx, ts); err != nil {
				return err
			}
		}
	}

	err := c.doOnce(ctx, method, path, query, body, out, ts)
	if ts == nil {
		return err
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized {
		c.logger.WithField("path", path).Info("Access token rejected, refreshing and retrying once")
		if refreshErr := c.refreshTokens(ctx, ts); refreshErr != nil {
			return refreshErr
		}
		return c.doOnce(ctx, method, path, query, body, out, ts)
	}

	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, out any, ts TokenSource) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ts != nil {
		if pair := ts.Tokens(); pair.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"http_status": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Upstream call completed")

	var env envelope
	if len(raw) > 0 {
		// Some error responses are not enveloped; in that case the raw
		// body becomes the message.
		if err := json.Unmarshal(raw, &env); err != nil {
			env = envelope{Message: string(raw)}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			HTTPStatus: resp.StatusCode,
			Status:     env.Status,
			Code:       env.Code,
			Message:    env.Message,
			Data:       env.Data,
		}
	}

	// Logical failure inside a 2xx HTTP response.
	if env.Status != 0 && env.Status != http.StatusOK {
		return &APIError{
			HTTPStatus: resp.StatusCode,
			Status:     env.Status,
			Code:       env.Code,
			Message:    env.Message,
			Data:       env.Data,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode upstream response data: %w", err)
		}
	}

	return nil
}

// refreshTokens exchanges the refresh token for a new pair and hands it to
// the token source. Failure means the session is gone.
func (c *Client) refreshTokens(ctx context.Context, ts TokenSource) error {
	pair := ts.Tokens()
	if pair.RefreshToken == "" {
		return ErrSessionExpired
	}

	refreshed, err := c.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		c.logger.WithError(err).Warn("Token refresh failed, session will be cleared")
		return ErrSessionExpired
	}

	ts.UpdateTokens(*refreshed)
	return nil
}
