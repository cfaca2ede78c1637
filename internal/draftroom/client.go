// Package draftroom is the boundary to the real-time pick/ban room keyed by
// match id. The draft protocol itself lives there; the core only starts
// drafts and pushes timer configuration.
package draftroom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// ErrAckTimeout indicates the room did not acknowledge within the configured
// window. Soft failure: the caller reports it and does not retry.
var ErrAckTimeout = errors.New("draft room did not acknowledge in time")

// StartDraftRequest hands a formed match to the draft room.
type StartDraftRequest struct {
	MatchID     sharedtypes.MatchID          `json:"match_id"`
	Seats       []sharedtypes.DraftSeat      `json:"seats"`
	CivPool     []string                     `json:"civ_pool,omitempty"`
	TimerConfig sharedtypes.DraftTimerConfig `json:"timer_config"`
}

// Room is what the lobby and match services need from the draft room.
type Room interface {
	StartDraft(ctx context.Context, req StartDraftRequest) error
	// ConfigureTimers pushes new timers to a running room and waits for the
	// room's acknowledgement.
	ConfigureTimers(ctx context.Context, matchID sharedtypes.MatchID, cfg sharedtypes.DraftTimerConfig) error
}

// Client is the HTTP implementation of Room.
type Client struct {
	baseURL    string
	ackTimeout time.Duration
	http       *http.Client
}

func NewClient(baseURL string, ackTimeout time.Duration) *Client {
	if ackTimeout <= 0 {
		ackTimeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		ackTimeout: ackTimeout,
		http:       &http.Client{Timeout: ackTimeout},
	}
}

func (c *Client) StartDraft(ctx context.Context, req StartDraftRequest) error {
	return c.post(ctx, "/v1/drafts", req)
}

func (c *Client) ConfigureTimers(ctx context.Context, matchID sharedtypes.MatchID, cfg sharedtypes.DraftTimerConfig) error {
	path := fmt.Sprintf("/v1/drafts/%s/timers", matchID)
	return c.post(ctx, path, cfg)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal draft room payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.ackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build draft room request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrAckTimeout
		}
		return fmt.Errorf("draft room request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("draft room returned status %d", resp.StatusCode)
	}
	return nil
}
