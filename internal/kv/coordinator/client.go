package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/open-civ-league/league-bot/internal/kv"
)

// Client implements kv.Store against a coordinator server. There is no
// fallback path: the coordinator is a hard dependency for hot keys and
// unavailability surfaces as an error to the caller.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

// NewClient builds a coordinator client. httpClient may be nil.
func NewClient(baseURL, secret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, secret: secret, http: httpClient}
}

func (c *Client) do(ctx context.Context, op OpRequest) (*OpResponse, error) {
	body, err := json.Marshal(op)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal op: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/op", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build coordinator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coordinator unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return nil, fmt.Errorf("coordinator returned status %d", resp.StatusCode)
	}

	var out OpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode coordinator response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("coordinator rejected op: %s", out.Error)
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.do(ctx, OpRequest{Op: "get", Key: key})
	if err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, kv.ErrNotFound
	}
	return resp.Value, nil
}

func (c *Client) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.do(ctx, OpRequest{Op: "put", Key: key, Value: value, TTL: int64(ttl)})
	return err
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.do(ctx, OpRequest{Op: "delete", Key: key})
	return err
}

func (c *Client) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	resp, err := c.do(ctx, OpRequest{Op: "list", Prefix: prefix})
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *Client) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	resp, err := c.do(ctx, OpRequest{Op: "get_multi", Keys: keys})
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *Client) PutMulti(ctx context.Context, entries []kv.Entry) error {
	_, err := c.do(ctx, OpRequest{Op: "put_multi", Entries: entries})
	return err
}

func (c *Client) DeleteMulti(ctx context.Context, keys []string) error {
	_, err := c.do(ctx, OpRequest{Op: "delete_multi", Keys: keys})
	return err
}
