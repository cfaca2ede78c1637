package chatplatform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// Client talks to the chat-platform gateway over HTTP. Transient failures
// (429, 5xx) are retried with exponential backoff, honoring a
// server-specified Retry-After when present, up to maxRetries attempts.
type Client struct {
	baseURL    string
	token      string
	maxRetries int
	http       *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, token string, maxRetries int, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		maxRetries: maxRetries,
		http:       &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type queueTimeoutPayload struct {
	Mode    sharedtypes.GameMode   `json:"mode"`
	Players []sharedtypes.PlayerID `json:"players"`
}

func (c *Client) NotifyQueueTimeout(ctx context.Context, mode sharedtypes.GameMode, players []sharedtypes.PlayerID) error {
	return c.post(ctx, "/v1/queue-timeout", queueTimeoutPayload{Mode: mode, Players: players})
}

func (c *Client) RequestRerender(ctx context.Context, binding sharedtypes.ChannelBinding) error {
	return c.post(ctx, "/v1/rerender", binding)
}

// retryAfterError carries the server-requested delay out of the operation so
// the backoff loop can honor it.
type retryAfterError struct {
	status int
	after  time.Duration
}

func (e *retryAfterError) Error() string {
	return fmt.Sprintf("chat platform returned status %d", e.status)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bot "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode < 300:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &retryAfterError{status: resp.StatusCode, after: parseRetryAfter(resp)}
		default:
			return backoff.Permanent(fmt.Errorf("chat platform returned status %d", resp.StatusCode))
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)

	notify := func(err error, next time.Duration) {
		c.logger.WarnContext(ctx, "retrying chat platform call",
			slog.String("path", path),
			slog.Duration("backoff", next),
			slog.Any("error", err),
		)
	}

	return backoff.RetryNotify(func() error {
		err := operation()
		var ra *retryAfterError
		if e, ok := err.(*retryAfterError); ok && e.after > 0 {
			ra = e
			time.Sleep(ra.after)
		}
		return err
	}, policy, notify)
}

func parseRetryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
